// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/maintenance"
	"github.com/olegiv/contentdesk/internal/render"
	"github.com/olegiv/contentdesk/internal/resource"
	"github.com/olegiv/contentdesk/internal/storage"
	"github.com/olegiv/contentdesk/internal/store"
	"github.com/olegiv/contentdesk/internal/testutil"
	"github.com/olegiv/contentdesk/web"
)

const testBucket = "content"

// testEnv is a dashboard wired the way main wires it, minus auth.
type testEnv struct {
	db       *sql.DB
	sm       *scs.SessionManager
	renderer *render.Renderer
	registry *resource.Registry
	uploader *storage.Uploader
	mnt      *maintenance.Service
	router   chi.Router
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.MemDB(t)
	sm := scs.New()
	renderer := testRenderer(t, sm)

	objects, err := storage.NewLocalStore(t.TempDir(), "http://cdn.test")
	require.NoError(t, err)

	env := &testEnv{
		db:       db,
		sm:       sm,
		renderer: renderer,
		registry: content.New(content.Options{DB: db}),
		uploader: storage.NewUploader(objects, db, testBucket, testutil.TestLogger()),
		mnt:      maintenance.NewService(db, testutil.TestLogger()),
	}

	dashboard := NewDashboardHandler(env.registry, renderer, env.uploader, testutil.TestLogger())
	uploads := NewUploadHandler(env.uploader, testutil.TestLogger())
	mh := NewMaintenanceHandler(env.mnt, renderer, testutil.TestLogger())

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Route(RouteAdmin, func(r chi.Router) {
		r.Get("/", dashboard.Index)
		r.Post(RouteUploads, uploads.Upload)
		r.Get(RouteMaintenanceStatus, mh.Status)
		r.Post(RouteMaintenanceToggle, mh.Toggle)
		r.Post(RouteMaintenanceMessage, mh.Message)
		r.Get(RouteEntityCreate, dashboard.NewForm)
		r.Post(RouteEntityCreate, dashboard.Create)
		r.Get(RouteEntityEdit, dashboard.EditForm)
		r.Post(RouteEntityEdit, dashboard.Update)
		r.Get(RouteEntityID, dashboard.Detail)
		r.Get(RouteEntityDelete, dashboard.ConfirmDelete)
		r.Post(RouteEntityDelete, dashboard.Delete)
	})
	env.router = r

	return env
}

// testRenderer parses the embedded dashboard templates.
func testRenderer(t *testing.T, sm *scs.SessionManager) *render.Renderer {
	t.Helper()
	sub, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	r, err := render.New(render.Config{TemplatesFS: sub, SessionManager: sm, IsDev: true})
	require.NoError(t, err)
	return r
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	return e.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (e *testEnv) postForm(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return e.do(req)
}

// postMultipart posts fields plus files keyed by input name. Each file is a
// {filename, body} pair.
func (e *testEnv) postMultipart(t *testing.T, path string, fields url.Values, files map[string][2]string) *httptest.ResponseRecorder {
	t.Helper()
	req := multipartRequest(t, path, fields, files)
	return e.do(req)
}

func multipartRequest(t *testing.T, path string, fields url.Values, files map[string][2]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, vs := range fields {
		for _, v := range vs {
			require.NoError(t, mw.WriteField(k, v))
		}
	}
	for field, f := range files {
		part, err := mw.CreateFormFile(field, f[0])
		require.NoError(t, err)
		_, err = part.Write([]byte(f[1]))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func (e *testEnv) resource(t *testing.T, segment string) resource.Resource {
	t.Helper()
	res, ok := e.registry.Get(segment)
	require.True(t, ok, "resource %s", segment)
	return res
}

func (e *testEnv) createArticles(t *testing.T, n int) []string {
	t.Helper()
	res := e.resource(t, content.SegmentArticles)
	ids := make([]string, 0, n)
	for i := range n {
		id, err := res.Create(context.Background(), url.Values{
			"title":       {fmt.Sprintf("Report %d", i+1)},
			"description": {"Summary text"},
		})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func (e *testEnv) pendingUploads(t *testing.T) int64 {
	t.Helper()
	n, err := store.New(e.db).CountPendingUploads(context.Background())
	require.NoError(t, err)
	return n
}

// requestWithURLParams adds chi URL parameters to a request.
func requestWithURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

const pdfBody = "%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n"
