package service

import (
	"heritage_edu_backend/internal/model"
	"heritage_edu_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, testConfig())

	user := &model.User{Username: "alice", Password: "secret123", Role: model.Tourist}
	require.NoError(t, svc.Register(user))
	assert.Equal(t, model.Tourist, user.Role)
	assert.NotEqual(t, "secret123", user.Password, "password must be hashed")

	token, logged, err := svc.Login("alice", "secret123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := util.ParseJWT(token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.Tourist, claims.Role)
}

func TestRegisterRejectsElevatedRoles(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, testConfig())

	// 公开注册不允许直接拿到 teacher，静默回落为 student
	user := &model.User{Username: "mallory", Password: "secret123", Role: model.Teacher}
	require.NoError(t, svc.Register(user))
	assert.Equal(t, model.Student, user.Role)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, testConfig())

	err := svc.Register(&model.User{Username: "ab", Password: "secret123"})
	assert.ErrorIs(t, err, util.ErrValidation)

	err = svc.Register(&model.User{Username: "bad name!", Password: "secret123"})
	assert.ErrorIs(t, err, util.ErrValidation)

	err = svc.Register(&model.User{Username: "alice", Password: "short"})
	assert.ErrorIs(t, err, util.ErrValidation)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, testConfig())

	require.NoError(t, svc.Register(&model.User{Username: "alice", Password: "secret123"}))
	err := svc.Register(&model.User{Username: "alice", Password: "secret456"})
	assert.ErrorIs(t, err, util.ErrUsernameTaken)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAuthService(env.users, testConfig())

	require.NoError(t, svc.Register(&model.User{Username: "alice", Password: "secret123"}))

	_, _, err := svc.Login("alice", "wrong")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	_, _, err = svc.Login("nobody", "secret123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}
