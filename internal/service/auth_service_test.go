package service

import (
	"strings"
	"testing"

	"lms_backend/internal/config"
	"lms_backend/internal/model"
	"lms_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func authFixture() (*AuthService, *fakeUserStore) {
	users := newFakeUserStore()
	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.ExpireTime = 3600000000000
	cfg.Server.FrontendURL = "http://localhost:3000"
	return NewAuthService(users, cfg), users
}

func TestRegisterHashesPasswordAndDefaultsRole(t *testing.T) {
	svc, users := authFixture()

	user := &model.User{Name: "Amit", Email: "amit@example.com", Password: "hunter2secret"}
	require.NoError(t, svc.Register(user))

	stored, err := users.FindByEmail("amit@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.Student, stored.Role)
	assert.NotEqual(t, "hunter2secret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("hunter2secret")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := authFixture()

	first := &model.User{Name: "A", Email: "a@example.com", Password: "password123"}
	require.NoError(t, svc.Register(first))

	second := &model.User{Name: "B", Email: "a@example.com", Password: "password456"}
	assert.ErrorIs(t, svc.Register(second), util.ErrEmailRegistered)
}

func TestLoginReturnsTokenAndRecordsLogin(t *testing.T) {
	svc, users := authFixture()
	user := &model.User{Name: "A", Email: "a@example.com", Password: "password123"}
	require.NoError(t, svc.Register(user))

	token, loggedIn, err := svc.Login("a@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, loggedIn.ID)

	stored, err := users.FindByID(user.ID)
	require.NoError(t, err)
	assert.NotNil(t, stored.LastLoginAt)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := authFixture()
	user := &model.User{Name: "A", Email: "a@example.com", Password: "password123"}
	require.NoError(t, svc.Register(user))

	_, _, err := svc.Login("a@example.com", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := authFixture()

	_, _, err := svc.Login("nobody@example.com", "whatever")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestForgotAndResetPassword(t *testing.T) {
	svc, users := authFixture()
	user := &model.User{Name: "A", Email: "a@example.com", Password: "password123"}
	require.NoError(t, svc.Register(user))

	link, err := svc.ForgotPassword("a@example.com")
	require.NoError(t, err)
	require.Contains(t, link, "http://localhost:3000/forgot-password/")

	// Only the hash lands in storage.
	token := link[strings.LastIndex(link, "/")+1:]
	stored, err := users.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, token, stored.ResetPasswordToken)
	assert.NotNil(t, stored.ResetPasswordExpire)

	require.NoError(t, svc.ResetPassword(token, "brand-new-pass"))

	_, _, err = svc.Login("a@example.com", "brand-new-pass")
	assert.NoError(t, err)

	stored, err = users.FindByEmail("a@example.com")
	require.NoError(t, err)
	assert.Empty(t, stored.ResetPasswordToken)
	assert.Nil(t, stored.ResetPasswordExpire)
}

func TestResetPasswordBadToken(t *testing.T) {
	svc, _ := authFixture()

	err := svc.ResetPassword("deadbeef", "brand-new-pass")
	assert.ErrorIs(t, err, util.ErrResetTokenInvalid)
}
