package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/inventory/internal/httpserver"
	"github.com/Skotchmaster/inventory/internal/middleware/auth"
	loggingmw "github.com/Skotchmaster/inventory/internal/middleware/logging"
	"github.com/Skotchmaster/inventory/internal/middleware/ratelimit"
)

func newServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			db, err := openDB(cfg)
			if err != nil {
				return fmt.Errorf("db open: %w", err)
			}
			if migrate {
				if err := migrateOrClose(db); err != nil {
					return err
				}
			}

			a := newApp(cfg, logger, db)
			defer a.close()

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true
			e.Pre(echomw.RemoveTrailingSlash())
			e.Use(echomw.Recover())
			e.Use(echomw.RequestID())
			e.Use(loggingmw.RequestLogger(logger))
			e.Use(echomw.CORS())

			httpserver.Register(e, &httpserver.Deps{
				AuthHandler:     &httpserver.AuthHTTP{Svc: a.auth},
				CategoryHandler: &httpserver.CategoryHTTP{Svc: a.category},
				ProductHandler:  &httpserver.ProductHTTP{Svc: a.product},
				TokenAuth:       auth.NewTokenAuth(a.auth),
				RateLimit:       ratelimit.New(a.redis, cfg.RateLimitPerMinute),
				Ready: func(ctx context.Context) error {
					sqlDB, err := db.DB()
					if err != nil {
						return err
					}
					return sqlDB.PingContext(ctx)
				},
				Debug: cfg.Debug,
			})

			srv := &http.Server{
				Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
				Handler:           e,
				ReadTimeout:       10 * time.Second,
				WriteTimeout:      15 * time.Second,
				ReadHeaderTimeout: 3 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.WithField("addr", srv.Addr).Info("inventory listening")
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			select {
			case <-stop:
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("listen: %w", err)
				}
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.WithError(err).Warn("shutdown")
			}

			logger.Info("inventory stopped")
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", true, "run schema migrations before serving")
	return cmd
}
