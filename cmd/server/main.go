package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/yukikurage/farm-management-api/internal/cache"
	"github.com/yukikurage/farm-management-api/internal/config"
	"github.com/yukikurage/farm-management-api/internal/database"
	"github.com/yukikurage/farm-management-api/internal/jobs"
	"github.com/yukikurage/farm-management-api/internal/logger"
	"github.com/yukikurage/farm-management-api/internal/metrics"
	"github.com/yukikurage/farm-management-api/internal/server"
	"github.com/yukikurage/farm-management-api/internal/storage"
	"go.uber.org/zap"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:   "farm-api",
		Short: "Farm Management API",
		Long:  `Multi-tenant farm management API: fields, inventory, tasks, weather and analytics per company.`,
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return migrate()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML configuration file")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func loadConfig() (*config.Config, *zap.Logger, error) {
	if configPath != "" {
		if err := os.Setenv("CONFIG_PATH", configPath); err != nil {
			return nil, nil, err
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	return cfg, log, nil
}

func migrate() error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	return database.Migrate(db, log)
}

func serve() error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}
	defer log.Sync()

	gin.SetMode(cfg.Server.GinMode)

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		return err
	}
	if err := database.Migrate(db, log); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()

	var analyticsCache cache.AnalyticsCache = cache.Noop{}
	if cfg.Analytics.CacheEnabled {
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warn("redis unavailable, analytics cache disabled", zap.Error(err))
		} else {
			analyticsCache = cache.NewRedisCache(redisClient, log)
		}
	}

	var archive storage.Archive
	if cfg.Archive.Enabled {
		minioArchive, err := storage.NewMinioArchive(cfg.Archive)
		if err != nil {
			return err
		}
		if err := minioArchive.EnsureBucket(ctx); err != nil {
			return err
		}
		archive = minioArchive
		log.Info("export archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	}

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New(cfg.Metrics)
	}

	sessionStore, err := server.NewSessionStore(cfg)
	if err != nil {
		return err
	}

	app := server.New(server.Deps{
		DB:       db,
		Config:   cfg,
		Logger:   log,
		Sessions: sessionStore,
		Cache:    analyticsCache,
		Archive:  archive,
		Metrics:  m,
	})

	if cfg.Jobs.Enabled {
		scheduler, err := jobs.NewScheduler(cfg.Jobs, app.Invitations, m, log)
		if err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				log.Warn("failed to stop scheduler", zap.Error(err))
			}
		}()
	}

	srv := &http.Server{
		Addr:    cfg.Server.Addr(),
		Handler: app.Router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down", zap.Duration("timeout", cfg.Server.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
