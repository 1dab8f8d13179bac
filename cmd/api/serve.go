package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jwalitptl/frontdesk-api/internal/app"
	"github.com/jwalitptl/frontdesk-api/internal/bootstrap"
	"github.com/jwalitptl/frontdesk-api/internal/config"
	"github.com/jwalitptl/frontdesk-api/internal/email"
	"github.com/jwalitptl/frontdesk-api/internal/router"
	"github.com/jwalitptl/frontdesk-api/pkg/logger"
	"github.com/jwalitptl/frontdesk-api/pkg/messaging"
	"github.com/jwalitptl/frontdesk-api/pkg/messaging/redis"
)

const shutdownTimeout = 5 * time.Second

func newServeCommand() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, l, err := loadRuntime()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Startup.SeedSampleData = seed
			}
			return serve(cfg, l)
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", false, "insert the sample patient and nurse on startup")
	return cmd
}

func serve(cfg *config.Config, l *logger.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	storage, err := app.OpenStorage(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer storage.Close()

	res, err := bootstrap.Initialize(ctx, storage.BootstrapDeps(l), bootstrap.Options{
		AutoMigrate:       cfg.Database.AutoMigrate,
		RepairPhotoColumn: cfg.Database.RepairPhotoColumn,
		SeedSampleData:    cfg.Startup.SeedSampleData,
	})
	if err != nil {
		return err
	}
	storage.UsePhotoColumnType(res.PhotoColumnType)

	broker, err := openBroker(ctx, cfg.Redis, l)
	if err != nil {
		return err
	}
	defer broker.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	gin.SetMode(gin.ReleaseMode)
	engine := app.New(storage, app.Options{
		Broker:              broker,
		EventChannel:        cfg.Redis.Channel,
		Mailer:              email.NewService(cfg.SMTP),
		Registry:            registry,
		Logger:              l,
		PhotoColumnWritable: res.PhotoColumnWritable,
		Router: router.RouterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
			LoginPerMinute:    cfg.RateLimit.LoginPerMinute,
			AllowedOrigins:    cfg.CORS.AllowedOrigins,
			RequestTimeout:    cfg.Server.RequestTimeout,
			MaxBodyBytes:      cfg.Server.MaxBodyBytes,
		},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("starting server", "addr", srv.Addr, "profile", cfg.Startup.Profile)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	l.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	l.Info("server exited properly")
	return nil
}

// openBroker connects to Redis when a URL is configured. Without one, events
// are dropped.
func openBroker(ctx context.Context, cfg config.RedisConfig, l *logger.Logger) (messaging.Broker, error) {
	if cfg.URL == "" {
		l.Warn("redis url not configured, domain events are disabled")
		return messaging.NopBroker{}, nil
	}

	return redis.NewRedisBroker(ctx, redis.Config{
		URL:          cfg.URL,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	}, l.Zerolog())
}
