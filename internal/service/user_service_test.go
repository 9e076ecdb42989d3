package service

import (
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func adminClaims(user *model.User) *util.Claims {
	return &util.Claims{UserID: user.ID, Username: user.Username, Role: user.Role}
}

func TestCreateUserHashesPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)

	user := &model.User{Username: "teacher1", Password: "secret123", Role: model.Teacher}
	require.NoError(t, svc.CreateUser(user))

	stored, err := env.users.FindByUsername("teacher1")
	require.NoError(t, err)
	assert.Equal(t, model.Teacher, stored.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestCreateUserInvalidRoleFallsBack(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)

	user := &model.User{Username: "weird", Password: "secret123", Role: model.UserRole("wizard")}
	require.NoError(t, svc.CreateUser(user))
	assert.Equal(t, model.Student, user.Role)
}

func TestUpdateUserFields(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	user := env.createUser(t, "pupil", model.Student)
	admin := env.createUser(t, "root", model.SuperAdmin)

	email := "pupil@example.com"
	school := "Gymnasium Bitola"
	updated, err := svc.UpdateUser(user.ID, UserUpdate{
		Email:      &email,
		SchoolName: &school,
	}, adminClaims(admin))
	require.NoError(t, err)
	assert.Equal(t, email, updated.Email)
	assert.Equal(t, school, updated.SchoolName)
}

func TestUpdateUserRoleRequiresSuperAdmin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	user := env.createUser(t, "pupil", model.Student)
	teacher := env.createUser(t, "teach", model.Teacher)
	admin := env.createUser(t, "root", model.SuperAdmin)

	role := model.Teacher
	_, err := svc.UpdateUser(user.ID, UserUpdate{Role: &role}, adminClaims(teacher))
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := svc.UpdateUser(user.ID, UserUpdate{Role: &role}, adminClaims(admin))
	require.NoError(t, err)
	assert.Equal(t, model.Teacher, updated.Role)
}

func TestDeleteUserRules(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)
	victim := env.createUser(t, "victim", model.Student)
	teacher := env.createUser(t, "teach", model.Teacher)
	admin := env.createUser(t, "root", model.SuperAdmin)

	// 教师不够权限
	err := svc.DeleteUser(victim.ID, adminClaims(teacher))
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	// 不能删自己
	err = svc.DeleteUser(admin.ID, adminClaims(admin))
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	require.NoError(t, svc.DeleteUser(victim.ID, adminClaims(admin)))
	_, err = env.users.FindByID(victim.ID)
	assert.ErrorIs(t, err, util.ErrUserNotFound)
}

func TestListUsersPaginated(t *testing.T) {
	env := newTestEnv(t)
	svc := NewUserService(env.users)

	for _, name := range []string{"u1", "u2", "u3"} {
		env.createUser(t, name, model.Student)
	}

	page, total, err := svc.ListUsers(1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	rest, _, err := svc.ListUsers(2, 2)
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestSettingsFeedbackEmail(t *testing.T) {
	env := newTestEnv(t)
	svc := NewSettingsService(env.settings)
	student := env.createUser(t, "pupil", model.Student)
	admin := env.createUser(t, "root", model.SuperAdmin)

	// 首次读取返回默认收件人
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, model.DefaultFeedbackEmail, settings.FeedbackEmail)

	_, err = svc.UpdateFeedbackEmail("new@example.com", adminClaims(student))
	assert.ErrorIs(t, err, util.ErrPermissionDenied)

	updated, err := svc.UpdateFeedbackEmail("new@example.com", adminClaims(admin))
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.FeedbackEmail)
	require.NotNil(t, updated.UpdatedByID)
	assert.Equal(t, admin.ID, *updated.UpdatedByID)

	again, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", again.FeedbackEmail)
}
