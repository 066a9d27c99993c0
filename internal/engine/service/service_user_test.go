package service

import (
	"testing"
	"time"

	"github.com/go-propel/propel/internal/engine/model"
	httpx "github.com/go-propel/propel/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAuth() httpx.Auth {
	return httpx.Auth{
		SecretKey:      "test-secret",
		AccessExpire:   time.Hour,
		RefreshExpire:  24 * time.Hour,
		RedisKeyPrefix: "propel:token:",
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users)

	require.NoError(t, svc.Register(&model.Register{
		Username: "alice",
		Email:    "Alice@Example.com",
		Password: "s3cret",
	}))

	// emails are stored lowercased and unique
	err := svc.Register(&model.Register{Username: "alice2", Email: "alice@example.com", Password: "x"})
	assert.EqualError(t, err, httpx.UserAlreadyExist.Msg)

	resp, err := svc.Login(&model.Login{Email: "alice@example.com", Password: "s3cret"}, testAuth())
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.UserInfo.Username)
	assert.NotEmpty(t, resp.Token["accessToken"])
	assert.NotEmpty(t, resp.Token["refreshToken"])

	cached, err := env.users.GetToken("propel:token:" + resp.UserInfo.UserId)
	require.NoError(t, err)
	assert.Equal(t, resp.Token["accessToken"], cached)
}

func TestLoginByUsername(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users)
	require.NoError(t, svc.Register(&model.Register{Username: "bob", Email: "bob@example.com", Password: "pw"}))

	resp, err := svc.Login(&model.Login{Username: "bob", Password: "pw"}, testAuth())
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", resp.UserInfo.Email)
}

func TestLoginFailures(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users)
	require.NoError(t, svc.Register(&model.Register{Username: "bob", Email: "bob@example.com", Password: "pw"}))

	_, err := svc.Login(&model.Login{Email: "bob@example.com", Password: "wrong"}, testAuth())
	assert.EqualError(t, err, httpx.UserIncorrectPassword.Msg)

	_, err = svc.Login(&model.Login{Email: "nobody@example.com", Password: "pw"}, testAuth())
	assert.EqualError(t, err, httpx.UserNotExist.Msg)

	_, err = svc.Login(&model.Login{Password: "pw"}, testAuth())
	assert.EqualError(t, err, httpx.UsernameAndPasswordIsRequired.Msg)
}

func TestLoginDisabledAccount(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users)
	require.NoError(t, svc.Register(&model.Register{Username: "bob", Email: "bob@example.com", Password: "pw"}))

	env.store.mu.Lock()
	for _, u := range env.store.users {
		u.IsEnabled = 0
	}
	env.store.mu.Unlock()

	_, err := svc.Login(&model.Login{Email: "bob@example.com", Password: "pw"}, testAuth())
	assert.True(t, IsForbidden(err))
}

func TestLogout(t *testing.T) {
	env := newTestEnv()
	svc := NewUserService(env.users)
	require.NoError(t, svc.Register(&model.Register{Username: "bob", Email: "bob@example.com", Password: "pw"}))

	resp, err := svc.Login(&model.Login{Username: "bob", Password: "pw"}, testAuth())
	require.NoError(t, err)

	require.NoError(t, svc.Logout(resp.UserInfo.UserId, testAuth()))
	cached, err := env.users.GetToken("propel:token:" + resp.UserInfo.UserId)
	require.NoError(t, err)
	assert.Empty(t, cached)
}
