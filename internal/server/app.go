// Package server wires storage, handlers and middleware into a running
// HTTP server. Handles graceful shutdown and the background refresh-token
// sweep.
package server

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

	"github.com/iudanet/stockroom/internal/config"
	"github.com/iudanet/stockroom/internal/server/handlers"
	"github.com/iudanet/stockroom/internal/server/middleware"
	"github.com/iudanet/stockroom/internal/server/storage/sqlite"
	"github.com/iudanet/stockroom/internal/server/token"
)

// App собирает все компоненты сервера
type App struct {
	config  *config.Config
	logger  *slog.Logger
	storage *sqlite.Storage
	version string
}

// NewApp создает приложение: открывает хранилище и настраивает логгер
func NewApp(ctx context.Context, cfg *config.Config, version string) (*App, error) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))

	store, err := sqlite.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	return &App{
		config:  cfg,
		logger:  logger,
		storage: store,
		version: version,
	}, nil
}

// Routes строит таблицу маршрутов с middleware
func (app *App) Routes() http.Handler {
	tokenConfig := token.Config{
		Secret:          []byte(app.config.JWTSecret),
		AccessTokenTTL:  app.config.AccessTokenTTL,
		RefreshTokenTTL: app.config.RefreshTokenTTL,
	}

	authHandler := handlers.NewAuthHandler(app.logger, app.storage, app.storage, tokenConfig)
	usersHandler := handlers.NewUsersHandler(app.logger, app.storage)
	itemsHandler := handlers.NewItemsHandler(app.logger, app.storage)
	healthHandler := handlers.NewHealthHandler(app.logger, app.version)

	requireAuth := middleware.AuthMiddleware(app.logger, tokenConfig)

	mux := http.NewServeMux()

	// Открытые маршруты
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/refresh", authHandler.Refresh)

	// Маршруты под access токеном
	mux.Handle("POST /api/v1/auth/logout", requireAuth(http.HandlerFunc(authHandler.Logout)))

	mux.Handle("POST /api/v1/items", requireAuth(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/v1/items", requireAuth(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("GET /api/v1/items/{id}", requireAuth(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PATCH /api/v1/items/{id}", requireAuth(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/v1/items/{id}", requireAuth(http.HandlerFunc(itemsHandler.Delete)))

	mux.Handle("POST /api/v1/users", requireAuth(http.HandlerFunc(usersHandler.Create)))
	mux.Handle("GET /api/v1/users", requireAuth(http.HandlerFunc(usersHandler.List)))
	mux.Handle("GET /api/v1/users/{id}", requireAuth(http.HandlerFunc(usersHandler.Get)))
	mux.Handle("PATCH /api/v1/users/{id}", requireAuth(http.HandlerFunc(usersHandler.Update)))
	mux.Handle("DELETE /api/v1/users/{id}", requireAuth(http.HandlerFunc(usersHandler.Delete)))

	var handler http.Handler = mux
	handler = middleware.LoggingWithSkip(app.logger, []string{"/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(app.logger)(handler)

	return handler
}

// Run запускает сервер и блокируется до сигнала завершения
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Перехват SIGINT/SIGTERM для graceful shutdown
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	go app.runTokenSweep(ctx)

	srv := &http.Server{
		Addr:              app.config.Addr,
		Handler:           app.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info("starting HTTP server", slog.String("addr", app.config.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
	}

	app.logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}

	if err := app.storage.Close(); err != nil {
		return fmt.Errorf("storage close error: %w", err)
	}

	app.logger.Info("server stopped")
	return nil
}

// runTokenSweep периодически вычищает истекшие refresh токены.
// Best-effort оптимизация: чтения и так перепроверяют expires_at,
// поэтому ошибка очистки не фатальна
func (app *App) runTokenSweep(ctx context.Context) {
	ticker := time.NewTicker(app.config.TokenSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			deleted, err := app.storage.DeleteExpiredTokens(ctx)
			if err != nil {
				app.logger.Warn("token sweep failed", slog.Any("error", err))
				continue
			}
			if deleted > 0 {
				app.logger.Info("expired tokens swept", slog.Int("deleted", deleted))
			}
		}
	}
}
