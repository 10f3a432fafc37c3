// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the dashboard's cookie sessions.
package session

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Cookie names. The __Host- prefix requires Secure and Path=/, so it is only
// used outside development.
const (
	CookieName       = "cdesk_session"
	SecureCookieName = "__Host-cdesk_session"
)

const (
	lifetime        = 12 * time.Hour
	idleTimeout     = 2 * time.Hour
	cleanupInterval = 10 * time.Minute
)

// New creates a session manager backed by the sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.NewWithCleanupInterval(db, cleanupInterval)

	sm.Lifetime = lifetime
	sm.IdleTimeout = idleTimeout
	sm.Cookie.Name = CookieName
	sm.Cookie.HttpOnly = true
	sm.Cookie.Path = "/"
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev

	if !isDev {
		sm.Cookie.Name = SecureCookieName
	}

	return sm
}
