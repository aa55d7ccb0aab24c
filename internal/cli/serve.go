package cli

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/msomdec/daybook/internal/config"
	"github.com/msomdec/daybook/internal/handler"
	"github.com/msomdec/daybook/internal/repository/sqlite"
	"github.com/msomdec/daybook/internal/service"
	"github.com/msomdec/daybook/internal/view"
)

// NewServeCommand creates the serve command, which runs the web server
// until interrupted.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the daybook web server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), rootOpts.ConfigPath)
		},
	}
}

func runServer(ctx context.Context, configPath string) error {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	slog.Info("database migrations applied")

	rend, err := view.New()
	if err != nil {
		return fmt.Errorf("parse templates: %w", err)
	}

	tokens := service.NewTokenService(cfg.JWTSecret)
	authService := service.NewAuthService(db.Users(), tokens, cfg.BcryptCost)
	entryService := service.NewEntryService(db.Entries())
	sessions := service.NewSessionStore()
	loginLimiter := service.NewRateLimiter(cfg.RateLimit.MaxAttempts, cfg.RateLimit.Window)

	mux := http.NewServeMux()
	mux.Handle("GET /static/", view.StaticHandler())
	handler.RegisterRoutes(mux, rend, authService, entryService, sessions, loginLimiter, cfg.CookieSecure())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler.SecurityHeaders(mux),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	slog.Info("server stopped")
	return nil
}
