package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"secure-file-share/internal/config"
	"secure-file-share/internal/database"
	"secure-file-share/internal/event"
	"secure-file-share/internal/handler"
	"secure-file-share/internal/middleware"
	"secure-file-share/internal/repository"
	"secure-file-share/internal/router"
	"secure-file-share/internal/service"
	"secure-file-share/internal/stats"
	"secure-file-share/internal/storage"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	blobs, err := storage.New(cfg.StorageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	fileRepo := repository.NewFileRepository(pool)
	grantRepo := repository.NewDownloadTokenRepository(pool)
	slog.Info("database ready")

	bus := event.NewBus()
	activity := stats.NewActivityTracker(cfg.ActiveUserWindow)

	authService, err := service.NewAuthService(userRepo, cfg.AuthTokenSecret, cfg.SessionTokenTTL, bus)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}

	downloadService, err := service.NewDownloadTokenService(fileRepo, grantRepo, cfg.AuthTokenSecret, cfg.DownloadTokenTTL, bus)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize download token service: %w", err)
	}

	fileService := service.NewFileService(fileRepo, blobs, bus)
	statsService := service.NewStatsService(fileRepo, activity)

	authMiddleware := middleware.NewAuthMiddleware(authService, activity)

	appRouter := router.New(cfg, authMiddleware, router.Handlers{
		Auth:     handler.NewAuthHandler(authService),
		File:     handler.NewFileHandler(fileService, downloadService, cfg.MaxUploadSize, cfg.PublicBaseURL),
		Download: handler.NewDownloadHandler(downloadService, fileService),
		Stats:    handler.NewStatsHandler(statsService),
	})

	backgroundCtx, backgroundCancel := context.WithCancel(context.Background())
	go activity.Consume(backgroundCtx, bus)
	go runTokenSweeper(backgroundCtx, downloadService, cfg.TokenSweepInterval)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			backgroundCancel,
			db.Close,
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// runTokenSweeper deletes expired download-token rows on an interval.
// Expired tokens already fail the stateless expiry check; the sweep
// only bounds table growth.
func runTokenSweeper(ctx context.Context, downloads *service.DownloadTokenService, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := downloads.SweepExpired(ctx)
			if err != nil {
				slog.Warn("download token sweep failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Info("expired download tokens removed", "count", removed)
			}
		}
	}
}
