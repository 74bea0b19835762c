// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/olegiv/ocms-api/internal/auth"
	"github.com/olegiv/ocms-api/internal/cache"
	"github.com/olegiv/ocms-api/internal/config"
	"github.com/olegiv/ocms-api/internal/email"
	"github.com/olegiv/ocms-api/internal/handler"
	"github.com/olegiv/ocms-api/internal/handler/api"
	"github.com/olegiv/ocms-api/internal/logging"
	"github.com/olegiv/ocms-api/internal/middleware"
	"github.com/olegiv/ocms-api/internal/scheduler"
	"github.com/olegiv/ocms-api/internal/service"
	"github.com/olegiv/ocms-api/internal/store"
	"github.com/olegiv/ocms-api/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	// uploadsMaxAge is the browser cache lifetime of uploaded files.
	uploadsMaxAge = 30 * 24 * 60 * 60

	// maxTrackedLimiters bounds the per-IP limiter maps between prunes.
	maxTrackedLimiters = 10000
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	var (
		envFile     string
		migrateOnly bool
		seed        bool
		showVersion bool
	)
	flagSet := pflag.NewFlagSet("ocms-api", pflag.ContinueOnError)
	flagSet.StringVar(&envFile, "env-file", ".env", "load environment variables from this file when it exists")
	flagSet.BoolVar(&migrateOnly, "migrate-only", false, "run database migrations and exit")
	flagSet.BoolVar(&seed, "seed", false, "create the first admin, default menus and settings (same as OCMS_DO_SEED=true)")
	flagSet.BoolVarP(&showVersion, "version", "v", false, "show version information")
	flagSet.Usage = func() { printHelp(flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if showVersion {
		_, _ = fmt.Printf("ocms-api %s\n", versionInfo.String())
		return nil
	}

	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if seed {
		cfg.DoSeed = true
	}

	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})
	logger := slog.New(textHandler)
	slog.SetDefault(logger)

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	applied, err := store.MigrateContext(context.Background(), db)
	if err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	if len(applied) > 0 {
		slog.Info("migrations applied", "versions", applied)
	}
	if migrateOnly {
		return nil
	}

	// From here on errors also show up as system notifications.
	logger = slog.New(logging.NewNotificationHandler(textHandler, db))
	slog.SetDefault(logger)

	if cfg.DoSeed {
		if err := store.Seed(context.Background(), db, store.SeedOptions{
			AdminEmail:    cfg.AdminEmail,
			AdminPassword: cfg.AdminPassword,
			AdminName:     cfg.AdminName,
		}); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	appCache := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.CacheDefaultTTL(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	sender, err := email.New(email.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		Secure:   cfg.SMTPSecure,
		From:     cfg.SMTPFrom,
		Timeout:  15 * time.Second,
	}, logger)
	if err != nil {
		return fmt.Errorf("configuring email: %w", err)
	}

	issuer, err := auth.NewSessionIssuer([]byte(cfg.JWTSecret))
	if err != nil {
		return fmt.Errorf("creating session issuer: %w", err)
	}
	gate := auth.MustNewGate(auth.DefaultPermissions())

	notifications := service.NewNotificationService(db, logger)
	services := api.Services{
		Users:         service.NewUserService(db, issuer, sender, cfg.FrontendURL, logger),
		Blog:          service.NewBlogService(db, logger),
		Pages:         service.NewPageService(db, logger),
		Portfolio:     service.NewPortfolioService(db, logger),
		Team:          service.NewTeamService(db, logger),
		Media:         service.NewMediaService(db, cfg.UploadsDir, cfg.MaxUploadBytes(), logger),
		Menus:         service.NewMenuService(db, appCache, logger),
		Contact:       service.NewContactService(db, sender, notifications, cfg.AdminEmail, logger),
		Notifications: notifications,
		Settings:      service.NewSettingsService(db, appCache, logger),
	}

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	publicLimiter := middleware.NewRateLimiter(1, 5)

	sched := scheduler.New(logger)
	if err := sched.Add("notification-sweep", "Delete expired notifications",
		scheduler.NotificationSweepSchedule, scheduler.SweepNotifications(notifications, logger)); err != nil {
		return fmt.Errorf("scheduling notification sweep: %w", err)
	}
	if err := sched.Add("limiter-prune", "Bound the number of tracked client limiters",
		scheduler.LimiterPruneSchedule, scheduler.PruneLimiters(maxTrackedLimiters, publicLimiter, loginProtection)); err != nil {
		return fmt.Errorf("scheduling limiter prune: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	metrics := middleware.NewMetrics()
	healthHandler := handler.NewHealthHandler(db, appCache, cfg.UploadsDir, versionInfo)
	apiHandler := api.NewHandler(services, gate, loginProtection, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.StripSlashes)
	r.Use(metrics.Instrument)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CORS(middleware.CORSConfig{
		Origins:      cfg.ExplicitOrigins(),
		AllowPrivate: cfg.AllowPrivateOrigins(),
	}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalSession(issuer))
		r.Get("/health", healthHandler.Health)
		r.Get("/health/live", healthHandler.Liveness)
		r.Get("/health/ready", healthHandler.Readiness)
	})
	r.Handle("/metrics", metrics.Handler())

	r.With(middleware.StaticCache(uploadsMaxAge)).
		Handle(service.UploadURLPrefix+"*", uploadsHandler(cfg.UploadsDir))

	r.With(middleware.Timeout(cfg.RequestTimeout)).
		Mount("/api", apiHandler.Routes(api.RouteOptions{
			Issuer:        issuer,
			PublicLimiter: publicLimiter,
		}))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second, // uploads
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Short())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// uploadsHandler serves files from dir without directory listings.
func uploadsHandler(dir string) http.Handler {
	fs := http.StripPrefix(strings.TrimSuffix(service.UploadURLPrefix, "/"), http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		fs.ServeHTTP(w, r)
	})
}

func printHelp(flagSet *pflag.FlagSet) {
	_, _ = fmt.Fprintf(os.Stderr, `ocms-api - headless CMS backend serving a JSON API

Usage:
  ocms-api [flags]

Flags:
%s
Environment Variables:
  OCMS_JWT_SECRET        Session token signing key (required, min 32 bytes)
  OCMS_DB_PATH           SQLite database path (default: ./data/ocms-api.db)
  OCMS_SERVER_PORT       Server port (default: 5000)
  OCMS_ENV               Environment: development|production (default: development)
  OCMS_UPLOADS_DIR       Upload directory (default: ./uploads)
  OCMS_SMTP_HOST         SMTP relay; email is disabled when empty
  OCMS_ADMIN_EMAIL       First admin account and contact form recipient
  OCMS_CORS_ORIGINS      Comma separated origins; "private" admits private networks
  OCMS_REDIS_URL         Redis URL for distributed caching (optional)
`, flagSet.FlagUsages())
}
