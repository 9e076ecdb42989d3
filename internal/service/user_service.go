package service

import (
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/internal/util"

	"golang.org/x/crypto/bcrypt"
)

// UserService 管理端的用户维护，仅 teacher/super_admin 可达
type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	return s.UserRepo.FindByID(id)
}

func (s *UserService) ListUsers(page, pageSize int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.UserRepo.List((page-1)*pageSize, pageSize)
}

// CreateUser 管理员建号，允许任意合法角色
func (s *UserService) CreateUser(user *model.User) error {
	if err := ValidateUsername(user.Username); err != nil {
		return err
	}
	if err := ValidatePassword(user.Password); err != nil {
		return err
	}
	if !model.IsValidRole(user.Role) {
		user.Role = model.Student
	}

	exists, err := s.UserRepo.UsernameExists(user.Username)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashed)
	return s.UserRepo.Create(user)
}

// UserUpdate 可更新的字段，空值表示不修改
type UserUpdate struct {
	Email        *string         `json:"email"`
	Phone        *string         `json:"phone"`
	Organization *string         `json:"organization"`
	ClassName    *string         `json:"className"`
	SchoolName   *string         `json:"schoolName"`
	Notes        *string         `json:"notes"`
	Role         *model.UserRole `json:"role"`
	Password     *string         `json:"password"`
}

func (s *UserService) UpdateUser(id uint, update UserUpdate, actor *util.Claims) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		return nil, err
	}

	if update.Email != nil {
		user.Email = *update.Email
	}
	if update.Phone != nil {
		user.Phone = *update.Phone
	}
	if update.Organization != nil {
		user.Organization = *update.Organization
	}
	if update.ClassName != nil {
		user.ClassName = *update.ClassName
	}
	if update.SchoolName != nil {
		user.SchoolName = *update.SchoolName
	}
	if update.Notes != nil {
		user.Notes = *update.Notes
	}

	// 改角色只有 super_admin 可以
	if update.Role != nil {
		if actor.Role != model.SuperAdmin {
			return nil, util.ErrPermissionDenied
		}
		if model.IsValidRole(*update.Role) {
			user.Role = *update.Role
		}
	}

	if update.Password != nil {
		if err := ValidatePassword(*update.Password); err != nil {
			return nil, err
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*update.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) DeleteUser(id uint, actor *util.Claims) error {
	if actor.Role != model.SuperAdmin {
		return util.ErrPermissionDenied
	}
	if actor.UserID == id {
		return util.ErrPermissionDenied
	}
	if _, err := s.UserRepo.FindByID(id); err != nil {
		return err
	}
	return s.UserRepo.Delete(id)
}
