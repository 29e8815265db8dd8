package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ironsheep/sticker-tools-mcp/internal/cache"
	"github.com/ironsheep/sticker-tools-mcp/internal/config"
	"github.com/ironsheep/sticker-tools-mcp/internal/httpapi"
	"github.com/ironsheep/sticker-tools-mcp/internal/logging"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	configPath := flag.String("config", os.Getenv("STICKER_CONFIG"), "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.New(cfg.Server.Mode, cfg.Server.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync(logger)

	logger.Info("starting sticker server",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("git_commit", GitCommit))

	store := openStore(cfg.Redis, logger)
	defer store.Close()

	gin.SetMode(cfg.Server.Mode)
	handler := httpapi.NewHandler(cfg, store, logger)
	router := httpapi.NewRouter(handler, logger, httpapi.BuildInfo{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
	})

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}
	logger.Info("server stopped")
}

// openStore connects the result cache. An unreachable Redis disables caching
// instead of failing startup.
func openStore(rc config.RedisConfig, logger *zap.Logger) cache.Store {
	if !rc.Enabled {
		logger.Info("result cache disabled")
		return cache.NopStore{}
	}

	store := cache.NewRedisStore(cache.RedisOptions{
		Addr:     rc.Addr,
		Password: rc.Password,
		DB:       rc.DB,
		TTL:      rc.TTL,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Ping(ctx); err != nil {
		logger.Warn("redis connection failed, cache disabled", zap.Error(err))
		_ = store.Close()
		return cache.NopStore{}
	}

	logger.Info("redis connected successfully", zap.String("addr", rc.Addr))
	return store
}
