package service

import (
	"fmt"
	"heritage_edu_backend/internal/config"
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/repository"
	"heritage_edu_backend/internal/util"
	"regexp"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

const (
	MinUsernameLength = 3
	MinPasswordLength = 6
)

type AuthService struct {
	UserRepo *repository.UserRepository
	Cfg      *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo: userRepo,
		Cfg:      cfg,
	}
}

// ValidateUsername 用户名至少 3 位，仅限字母数字下划线连字符
func ValidateUsername(username string) error {
	if len(username) < MinUsernameLength {
		return fmt.Errorf("%w: username must be at least 3 characters", util.ErrValidation)
	}
	if !usernamePattern.MatchString(username) {
		return fmt.Errorf("%w: username may only contain letters, numbers, underscores and hyphens", util.ErrValidation)
	}
	return nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be at least 6 characters", util.ErrValidation)
	}
	return nil
}

// Register 公开注册，角色仅允许 student/tourist，其余一律回落为 student
func (s *AuthService) Register(user *model.User) error {
	if err := ValidateUsername(user.Username); err != nil {
		return err
	}
	if err := ValidatePassword(user.Password); err != nil {
		return err
	}

	exists, err := s.UserRepo.UsernameExists(user.Username)
	if err != nil {
		return err
	}
	if exists {
		return util.ErrUsernameTaken
	}

	allowed := false
	for _, r := range model.PublicRegisterRoles {
		if user.Role == r {
			allowed = true
			break
		}
	}
	if !allowed {
		user.Role = model.Student
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user.Password = string(hashedPassword)
	return s.UserRepo.Create(user)
}

func (s *AuthService) Login(username, password string) (string, *model.User, error) {
	user, err := s.UserRepo.FindByUsername(username)
	if err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, util.ErrInvalidCredentials
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (s *AuthService) GetCurrentUser(c *gin.Context) *model.User {
	claims := util.GetUserFromContext(c)
	if claims == nil {
		return nil
	}

	user, _ := s.UserRepo.FindByID(claims.UserID)
	return user
}
