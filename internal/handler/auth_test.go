// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/contentdesk/internal/auth"
	"github.com/olegiv/contentdesk/internal/middleware"
	"github.com/olegiv/contentdesk/internal/store"
	"github.com/olegiv/contentdesk/internal/testutil"
)

const (
	testEmail    = "admin@example.com"
	testPassword = "correct horse battery"
)

type authEnv struct {
	*testEnv
	lp *middleware.LoginProtection
}

func newAuthEnv(t *testing.T) authEnv {
	t.Helper()
	env := newTestEnv(t)

	hash, err := auth.HashPassword(testPassword)
	require.NoError(t, err)
	now := time.Now()
	_, err = store.New(env.db).CreateUser(context.Background(), store.CreateUserParams{
		Email:        testEmail,
		PasswordHash: hash,
		Name:         "Admin",
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)

	lp := middleware.NewLoginProtection(middleware.LoginProtectionConfig{MaxFailedAttempts: 3, IPBurst: 100, IPRateLimit: 100})
	ah := NewAuthHandler(env.db, env.renderer, env.sm, lp, testutil.TestLogger())

	r := chi.NewRouter()
	r.Use(env.sm.LoadAndSave)
	r.Get(RouteLogin, ah.LoginForm)
	r.Post(RouteLogin, ah.Login)
	r.Post(RouteLogout, ah.Logout)
	env.router = r

	return authEnv{testEnv: env, lp: lp}
}

func (e authEnv) login(email, password string) *httptest.ResponseRecorder {
	return e.postForm(RouteLogin, url.Values{"email": {email}, "password": {password}})
}

// follow requests the redirect target of w with its cookies.
func (e authEnv) follow(w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, w.Header().Get("Location"), nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return e.do(req)
}

func TestLoginForm(t *testing.T) {
	env := newAuthEnv(t)

	w := env.get(RouteLogin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="password"`)
}

func TestLogin_Success(t *testing.T) {
	env := newAuthEnv(t)

	w := env.login(testEmail, testPassword)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteAdmin, w.Header().Get("Location"))

	user, err := store.New(env.db).GetUserByEmail(context.Background(), testEmail)
	require.NoError(t, err)
	assert.True(t, user.LastLoginAt.Valid)

	// a signed-in user skips the login page
	req := httptest.NewRequest(http.MethodGet, RouteLogin, nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	w = env.do(req)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteAdmin, w.Header().Get("Location"))
}

func TestLogin_MissingFields(t *testing.T) {
	env := newAuthEnv(t)

	w := env.login("", "")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Contains(t, env.follow(w).Body.String(), "Email and password are required.")
}

func TestLogin_WrongPasswordThenLockout(t *testing.T) {
	env := newAuthEnv(t)

	w := env.login(testEmail, "wrong")
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteLogin, w.Header().Get("Location"))
	assert.Contains(t, env.follow(w).Body.String(), "2 attempts remaining")

	env.login(testEmail, "wrong")
	w = env.login(testEmail, "wrong")
	assert.Contains(t, env.follow(w).Body.String(), "Account locked for 15 minutes")

	// the right password is refused while locked
	w = env.login(testEmail, testPassword)
	assert.Equal(t, RouteLogin, w.Header().Get("Location"))
	assert.Contains(t, env.follow(w).Body.String(), "temporarily locked")
}

func TestLogin_UnknownUserCountsAttempts(t *testing.T) {
	env := newAuthEnv(t)

	env.login("ghost@example.com", "x")
	assert.Equal(t, 2, env.lp.RemainingAttempts("ghost@example.com"))
}

func TestLogin_SuccessClearsFailures(t *testing.T) {
	env := newAuthEnv(t)

	env.login(testEmail, "wrong")
	env.login(testEmail, testPassword)
	assert.Equal(t, 3, env.lp.RemainingAttempts(testEmail))
}

func TestLogout(t *testing.T) {
	env := newAuthEnv(t)

	w := env.postForm(RouteLogout, nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteLogin, w.Header().Get("Location"))
	assert.Contains(t, env.follow(w).Body.String(), "You have been logged out.")
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30 seconds"},
		{time.Minute, "1 minute"},
		{5 * time.Minute, "5 minutes"},
		{time.Hour, "1 hour"},
		{2 * time.Hour, "2 hours"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatDuration(tt.d))
		})
	}
}
