// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/contentdesk/internal/auth"
	"github.com/olegiv/contentdesk/internal/middleware"
	"github.com/olegiv/contentdesk/internal/render"
	"github.com/olegiv/contentdesk/internal/store"
)

// AuthHandler handles authentication routes.
type AuthHandler struct {
	queries         *store.Queries
	renderer        *render.Renderer
	sessionManager  *scs.SessionManager
	loginProtection *middleware.LoginProtection
	logger          *slog.Logger
}

// NewAuthHandler creates a new AuthHandler. lp may be nil to disable
// account lockout.
func NewAuthHandler(db *sql.DB, renderer *render.Renderer, sm *scs.SessionManager, lp *middleware.LoginProtection, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		queries:         store.New(db),
		renderer:        renderer,
		sessionManager:  sm,
		loginProtection: lp,
		logger:          logger,
	}
}

// LoginData holds data for the login page.
type LoginData struct {
	Email string
}

// LoginForm renders the login page. Signed-in users go straight to the
// dashboard.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	if userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID); userID > 0 {
		if _, err := h.queries.GetUserByID(r.Context(), userID); err == nil {
			http.Redirect(w, r, RouteAdmin, http.StatusSeeOther)
			return
		}
	}

	renderPage(w, r, h.renderer, http.StatusOK, tmplLogin, render.TemplateData{
		Title: "Sign in",
		Data:  LoginData{Email: r.URL.Query().Get("email")},
	})
}

// Login handles the login form submission.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.renderer, RouteLogin, "Invalid form data.")
		return
	}

	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if email == "" || password == "" {
		flashError(w, r, h.renderer, RouteLogin, "Email and password are required.")
		return
	}

	if h.loginProtection != nil {
		if locked, remaining := h.loginProtection.IsAccountLocked(email); locked {
			h.logger.WarnContext(r.Context(), "login attempt on locked account", "email", email, "ip", middleware.ClientIP(r))
			flashError(w, r, h.renderer, RouteLogin, "Account is temporarily locked. Try again in "+formatDuration(remaining)+".")
			return
		}
	}

	user, err := h.queries.GetUserByEmail(r.Context(), email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			h.logger.DebugContext(r.Context(), "login attempt for non-existent user", "email", email)
		} else {
			h.logger.ErrorContext(r.Context(), "database error during login", "error", err)
		}
		// count unknown emails too so responses don't reveal which accounts exist
		h.loginFailed(w, r, email)
		return
	}

	valid, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "password check error", "error", err, "user_id", user.ID)
		flashError(w, r, h.renderer, RouteLogin, "Invalid email or password.")
		return
	}
	if !valid {
		h.logger.WarnContext(r.Context(), "invalid password attempt", "email", email, "ip", middleware.ClientIP(r))
		h.loginFailed(w, r, email)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(email)
	}

	now := time.Now()
	if auth.NeedsRehash(user.PasswordHash) {
		if newHash, err := auth.HashPassword(password); err == nil {
			if err := h.queries.UpdateUserPassword(r.Context(), user.ID, newHash, now); err != nil {
				h.logger.ErrorContext(r.Context(), "failed to re-hash password", "error", err, "user_id", user.ID)
			} else {
				h.logger.InfoContext(r.Context(), "password re-hashed with updated parameters", "user_id", user.ID)
			}
		}
	}

	if err := h.queries.UpdateUserLastLogin(r.Context(), user.ID, now); err != nil {
		// Don't block login on this error
		h.logger.ErrorContext(r.Context(), "failed to update last login time", "error", err, "user_id", user.ID)
	}

	// Regenerate session ID to prevent session fixation
	if err := h.sessionManager.RenewToken(r.Context()); err != nil {
		logAndInternalError(w, r, "session renewal error", "error", err)
		return
	}
	h.sessionManager.Put(r.Context(), middleware.SessionKeyUserID, user.ID)

	h.logger.InfoContext(r.Context(), "user logged in", "user_id", user.ID, "email", user.Email)
	name := user.Name
	if name == "" {
		name = user.Email
	}
	flashSuccess(w, r, h.renderer, RouteAdmin, "Welcome back, "+name+"!")
}

// loginFailed records a failed attempt and flashes the matching message.
func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, email string) {
	if h.loginProtection != nil {
		if locked, lockDuration := h.loginProtection.RecordFailedAttempt(email); locked {
			h.logger.WarnContext(r.Context(), "account locked due to failed attempts", "email", email, "duration", lockDuration.String())
			flashError(w, r, h.renderer, RouteLogin, "Too many failed attempts. Account locked for "+formatDuration(lockDuration)+".")
			return
		}
		if remaining := h.loginProtection.RemainingAttempts(email); remaining > 0 && remaining <= 3 {
			flashError(w, r, h.renderer, RouteLogin, fmt.Sprintf("Invalid email or password. %d attempts remaining.", remaining))
			return
		}
	}
	flashError(w, r, h.renderer, RouteLogin, "Invalid email or password.")
}

// Logout handles user logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := h.sessionManager.GetInt64(r.Context(), middleware.SessionKeyUserID)

	if err := h.sessionManager.Destroy(r.Context()); err != nil {
		h.logger.ErrorContext(r.Context(), "session destroy error", "error", err)
	}

	h.logger.InfoContext(r.Context(), "user logged out", "user_id", userID)
	flashAndRedirect(w, r, h.renderer, RouteLogin, "You have been logged out.", "info")
}

// formatDuration formats a duration into a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
