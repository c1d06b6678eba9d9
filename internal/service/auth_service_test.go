package service

import (
	"testing"
	"time"

	"school_admin_backend/internal/config"
	"school_admin_backend/internal/model"
	"school_admin_backend/internal/repository"
	"school_admin_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthService(env *testEnv) *AuthService {
	cfg := &config.Config{}
	cfg.JWT.Secret = "unit-test-secret-which-is-long-enough"
	cfg.JWT.ExpireTime = time.Hour
	return NewAuthService(repository.NewUserRepository(env.db), cfg)
}

func TestLoginIssuesParsableToken(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	teacher := seedTeacher(t, env, "mwangi", "EMP001")

	result, err := auth.Login("mwangi", "secret123")
	require.NoError(t, err)
	assert.Equal(t, teacher.UserID, result.UserID)
	assert.Equal(t, model.RoleTeacher, result.Role)

	claims, err := util.ParseJWT(result.Token, auth.Cfg.JWT.Secret)
	require.NoError(t, err)
	assert.Equal(t, teacher.UserID, claims.UserID)
	assert.Equal(t, model.RoleTeacher, claims.Role)
	assert.Equal(t, "mwangi", claims.Username)
}

func TestLoginRecordsLastLogin(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	teacher := seedTeacher(t, env, "mwangi", "EMP001")

	_, err := auth.Login("mwangi", "secret123")
	require.NoError(t, err)

	var user model.User
	require.NoError(t, env.db.First(&user, teacher.UserID).Error)
	assert.WithinDuration(t, time.Now(), user.LastLogin, time.Minute)
}

func TestLoginInvalidCredentials(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	seedTeacher(t, env, "mwangi", "EMP001")

	_, err := auth.Login("mwangi", "wrong-password")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)

	// 未知用户与密码错误表现一致，不泄露存在性
	_, err = auth.Login("nobody", "secret123")
	assert.ErrorIs(t, err, util.ErrInvalidCredentials)
}

func TestParseJWTRejectsWrongSecret(t *testing.T) {
	env := newTestEnv(t)
	auth := newAuthService(env)
	seedTeacher(t, env, "mwangi", "EMP001")

	result, err := auth.Login("mwangi", "secret123")
	require.NoError(t, err)

	_, err = util.ParseJWT(result.Token, "a-different-secret")
	assert.Error(t, err)
}
