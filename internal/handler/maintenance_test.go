// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/contentdesk/internal/maintenance"
)

func decodeJSON[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestMaintenance_Status(t *testing.T) {
	env := newTestEnv(t)

	w := env.get("/admin/maintenance/status")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	status := decodeJSON[maintenance.Status](t, w)
	assert.False(t, status.IsActive)
}

func TestMaintenance_ToggleTwiceRestores(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/admin/maintenance/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	first := decodeJSON[maintenance.ToggleResult](t, w)
	assert.True(t, first.Success)
	assert.True(t, first.IsActive)

	w = env.postForm("/admin/maintenance/toggle", nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeJSON[maintenance.ToggleResult](t, w)
	assert.True(t, second.Success)
	assert.False(t, second.IsActive)

	status, err := env.mnt.GetStatus(context.Background())
	require.NoError(t, err)
	assert.False(t, status.IsActive)
}

func TestMaintenance_ToggleStoreFailure(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.db.Exec(`DROP TABLE maintenance_mode`)
	require.NoError(t, err)

	w := env.postForm("/admin/maintenance/toggle", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)
	result := decodeJSON[maintenance.ToggleResult](t, w)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Error)
}

func TestMaintenance_MessageForm(t *testing.T) {
	env := newTestEnv(t)

	w := env.postForm("/admin/maintenance/message", url.Values{"message": {"Back at 18:00"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, RouteAdmin, w.Header().Get("Location"))

	status, err := env.mnt.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Back at 18:00", status.Message)
}

func TestMaintenance_MessageJSON(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/maintenance/message",
		strings.NewReader(url.Values{"message": {"Upgrading"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)

	status := decodeJSON[maintenance.Status](t, w)
	assert.Equal(t, "Upgrading", status.Message)
	assert.EqualValues(t, 1, status.Version)
}

func TestMaintenance_MessageTooLong(t *testing.T) {
	env := newTestEnv(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/maintenance/message",
		strings.NewReader(url.Values{"message": {strings.Repeat("a", maxMessageLength+1)}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	w := env.do(req)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
