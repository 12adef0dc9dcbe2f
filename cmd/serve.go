package cmd

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vishnukant2275/easyorderin/configs"
	"github.com/Vishnukant2275/easyorderin/middlewares"
	"github.com/Vishnukant2275/easyorderin/routes"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, OTP sweeper and order reaper",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configs.LoadConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			log, err := configs.NewLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			a, err := newApp(cfg, log)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			go a.hub.Run(ctx)
			go a.otp.RunSweeper(ctx, cfg.OTPSweepInterval)
			go a.reaper.Run(ctx, cfg.ReaperInterval)
			go evictLimiters(ctx, a.deps.Limiter)

			if !cfg.IsDevelopment() {
				gin.SetMode(gin.ReleaseMode)
			}
			r := gin.New()
			r.Use(gin.Recovery(), middlewares.AccessLog(log))
			routes.RegisterRoutes(r, a.deps)

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           r,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info("server running", zap.String("addr", srv.Addr))
				errCh <- srv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			log.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}

func evictLimiters(ctx context.Context, l *middlewares.IPRateLimiter) {
	if l == nil {
		return
	}
	t := time.NewTicker(10 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			l.Evict(time.Hour)
		}
	}
}
