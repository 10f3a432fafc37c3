// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/contentdesk/internal/cache"
	"github.com/olegiv/contentdesk/internal/config"
	"github.com/olegiv/contentdesk/internal/content"
	"github.com/olegiv/contentdesk/internal/handler"
	"github.com/olegiv/contentdesk/internal/handler/api"
	"github.com/olegiv/contentdesk/internal/logging"
	"github.com/olegiv/contentdesk/internal/maintenance"
	"github.com/olegiv/contentdesk/internal/metrics"
	"github.com/olegiv/contentdesk/internal/middleware"
	"github.com/olegiv/contentdesk/internal/render"
	"github.com/olegiv/contentdesk/internal/scheduler"
	"github.com/olegiv/contentdesk/internal/session"
	"github.com/olegiv/contentdesk/internal/storage"
	"github.com/olegiv/contentdesk/internal/store"
	"github.com/olegiv/contentdesk/internal/version"
	"github.com/olegiv/contentdesk/web"
)

const (
	jobTimeout      = 5 * time.Minute
	shutdownTimeout = 30 * time.Second

	staticMaxAge  = 365 * 24 * time.Hour
	uploadsMaxAge = 7 * 24 * time.Hour
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "contentdesk - content administration dashboard\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CDESK_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CDESK_DB_PATH           SQLite database path (default: ./data/contentdesk.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CDESK_SERVER_PORT       Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CDESK_ENV               Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CDESK_STORAGE_BACKEND   Upload backend: local|s3 (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CDESK_S3_ENDPOINT       S3-compatible endpoint when the backend is s3\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CDESK_REDIS_URL         Redis URL for the shared read cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CDESK_CACHE_TTL         Read freshness window in seconds (default: 30)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Println(version.Get().String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	m := metrics.New()
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.SlogLevel(), m.LogRecords)
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	dbConfig := store.DefaultDBConfig()
	dbConfig.Driver = cfg.DBDriver
	slog.Info("initializing database", "path", cfg.DBPath, "driver", dbConfig.Driver)
	db, err := store.NewDBWithConfig(cfg.DBPath, dbConfig)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}
	if cfg.DemoMode {
		if err := store.SeedDemo(ctx, db); err != nil {
			return fmt.Errorf("seeding demo content: %w", err)
		}
	}

	sessionManager := session.New(db, cfg.IsDevelopment())

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	readCache, backend := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheFreshness(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() { _ = readCache.Close() }()
	slog.Info("read cache initialized", "backend", backend, "ttl", cfg.CacheFreshness())

	registry := content.New(content.Options{
		DB:       db,
		Observer: m,
		Cache:    readCache,
		TTL:      cfg.CacheFreshness(),
	})

	objects, localStore, err := openObjectStore(ctx, cfg)
	if err != nil {
		return err
	}
	uploader := storage.NewUploader(objects, db, cfg.UploadBucket, logger)
	uploader.OnUpload(m.ObserveUpload)

	maintenanceService := maintenance.NewService(db, logger)
	maintenanceService.OnToggle(m.ObserveToggle)

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())

	sched := scheduler.New(logger, jobTimeout)
	reaper := scheduler.NewReaper(uploader, cfg.UploadGrace, logger)
	reaper.OnReaped(m.ObserveReaped)
	if err := sched.Add(cfg.ReaperSchedule, reaper); err != nil {
		return fmt.Errorf("scheduling upload reaper: %w", err)
	}
	if err := sched.Add("@every 10m", scheduler.FuncJob{
		JobName: "login-protection-prune",
		Fn: func(context.Context) error {
			loginProtection.Prune()
			return nil
		},
	}); err != nil {
		return fmt.Errorf("scheduling login prune: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection, logger)
	dashboardHandler := handler.NewDashboardHandler(registry, renderer, uploader, logger)
	uploadHandler := handler.NewUploadHandler(uploader, logger)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService, renderer, logger)
	healthHandler := handler.NewHealthHandler(db, objects, sessionManager)
	apiHandler := api.NewHandler(registry, maintenanceService, logger)

	r := chi.NewRouter()

	// first, while the ResponseWriter is still the server's own
	r.Use(middleware.UploadDeadline(middleware.UploadTimeout, middleware.IsMultipartPost))
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	if cfg.MetricsEnabled {
		r.Use(m.Middleware)
	}
	r.Use(middleware.Timeout(middleware.RequestTimeout, middleware.IsMultipartPost))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment(), mediaOrigin(cfg))))
	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()))
	publicRateLimiter := middleware.NewRateLimiter(10, 20)

	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, handler.RouteAdmin, http.StatusSeeOther)
	})

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)
	if cfg.MetricsEnabled {
		r.Handle("/metrics", m.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(publicRateLimiter.HTMLMiddleware())
		r.Use(csrfMiddleware)
		r.Get(handler.RouteLogin, authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post(handler.RouteLogin, authHandler.Login)
		r.Post(handler.RouteLogout, authHandler.Logout)
	})

	r.Route(handler.RouteAdmin, func(r chi.Router) {
		r.Use(csrfMiddleware)
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Get("/", dashboardHandler.Index)
		r.Post(handler.RouteUploads, uploadHandler.Upload)

		r.Get(handler.RouteMaintenanceStatus, maintenanceHandler.Status)
		r.Post(handler.RouteMaintenanceToggle, maintenanceHandler.Toggle)
		r.Post(handler.RouteMaintenanceMessage, maintenanceHandler.Message)

		r.Get(handler.RouteEntityCreate, dashboardHandler.NewForm)
		r.Post(handler.RouteEntityCreate, dashboardHandler.Create)
		r.Get(handler.RouteEntityEdit, dashboardHandler.EditForm)
		r.Post(handler.RouteEntityEdit, dashboardHandler.Update)
		r.Get(handler.RouteEntityID, dashboardHandler.Detail)
		r.Get(handler.RouteEntityDelete, dashboardHandler.ConfirmDelete)
		r.Post(handler.RouteEntityDelete, dashboardHandler.Delete)
	})

	r.Route("/api/v1", func(r chi.Router) {
		apiRateLimiter := middleware.NewRateLimiter(100, 200)
		r.Use(apiRateLimiter.Middleware())
		r.Mount("/", apiHandler.Routes())
	})

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/dist/*", middleware.StaticCache(staticMaxAge)(
		http.StripPrefix("/static/dist/", http.FileServer(http.FS(staticFS)))))

	if localStore != nil {
		r.Handle(storage.URLPrefix+"*", middleware.StaticCache(uploadsMaxAge)(
			http.StripPrefix(storage.URLPrefix, http.FileServer(http.Dir(localStore.Dir())))))
	}

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // upload routes extend both per request
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", version.Get().Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// openObjectStore returns the configured upload backend. The local store is
// also returned so its directory can be served.
func openObjectStore(ctx context.Context, cfg *config.Config) (storage.ObjectStore, *storage.LocalStore, error) {
	if !cfg.UseS3() {
		local, err := storage.NewLocalStore(cfg.UploadsDir, cfg.PublicBaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("initializing local storage: %w", err)
		}
		slog.Info("object storage initialized", "backend", config.StorageLocal, "dir", local.Dir())
		return local, local, nil
	}

	s3, err := storage.NewMinioStore(storage.MinioOptions{
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		UseSSL:    cfg.S3UseSSL,
		PublicURL: cfg.S3PublicURL,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("initializing s3 storage: %w", err)
	}

	bucketCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s3.EnsureBucket(bucketCtx, cfg.UploadBucket); err != nil {
		return nil, nil, err
	}
	slog.Info("object storage initialized", "backend", config.StorageS3, "endpoint", cfg.S3Endpoint, "bucket", cfg.UploadBucket)
	return s3, nil, nil
}

// mediaOrigin is the origin uploaded files are served from, allowed by the CSP.
func mediaOrigin(cfg *config.Config) string {
	if cfg.UseS3() {
		if cfg.S3PublicURL != "" {
			return cfg.S3PublicURL
		}
		scheme := "https://"
		if !cfg.S3UseSSL {
			scheme = "http://"
		}
		return scheme + cfg.S3Endpoint
	}
	return cfg.PublicBaseURL
}
