package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/BlueLaysLover/backend--yt/internal/cache"
	"github.com/BlueLaysLover/backend--yt/internal/config"
	authhttp "github.com/BlueLaysLover/backend--yt/internal/http"
	"github.com/BlueLaysLover/backend--yt/internal/http/handlers"
	"github.com/BlueLaysLover/backend--yt/internal/service"
	"github.com/BlueLaysLover/backend--yt/internal/storage/minio"
	"github.com/BlueLaysLover/backend--yt/internal/storage/postgres"
)

// Константы для определения окружения.
const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "path to config file (overrides CONFIG_PATH env)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	slog.SetDefault(log)
	log.Info("starting auth-service", "env", cfg.Env)

	rootCtx, rootCancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	dbCtx, dbCancel := context.WithTimeout(rootCtx, 10*time.Second)
	store, err := postgres.New(dbCtx, cfg.DB.DatabaseURL)
	dbCancel()
	if err != nil {
		log.Error("postgres_connect_failed", slog.String("err", err.Error()))
		rootCancel()
		os.Exit(1)
	}
	log.Info("postgres_connected")

	svc := service.New(store, cfg.Auth)

	// Хранилище изображений опционально: без S3_ENDPOINT сервис работает
	// только с аутентификацией.
	if cfg.S3.Endpoint != "" {
		s3Ctx, s3Cancel := context.WithTimeout(rootCtx, 10*time.Second)
		avatars, err := minio.New(s3Ctx, cfg.S3)
		s3Cancel()
		if err != nil {
			log.Error("minio_connect_failed", slog.String("err", err.Error()))
			rootCancel()
			store.Close()
			os.Exit(1)
		}

		svc.SetAvatarsStorage(avatars)
		log.Info("minio_connected", slog.String("bucket", cfg.S3.Bucket))
	}

	// Кэш «убитых» сессий опционален: без REDIS_URL сессия умирает
	// по истечении access-токена.
	var denyCache cache.SessionDenyCache
	if cfg.Redis.RedisURL != "" {
		denyCache, err = cache.NewRedisCache(cfg.Redis.RedisURL, "auth:kill:")
		if err != nil {
			log.Error("redis_connect_failed", slog.String("err", err.Error()))
			rootCancel()
			store.Close()
			os.Exit(1)
		}

		svc.SetDenyCache(denyCache)
		log.Info("redis_connected")
	}

	log.Info("service_initialized")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())

	h := handlers.New(svc, cfg.Auth)
	router := authhttp.NewRouter(h, authhttp.Options{
		Logger:  log,
		Timeout: cfg.Timeouts.Service,
		Metrics: registry,
	})

	var ready int32 // 0 — not ready; 1 — ready
	opsAddr := cfg.Ops.Addr()

	opsMux := http.NewServeMux()
	opsMux.HandleFunc("/livez", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	opsMux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if atomic.LoadInt32(&ready) == 1 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
			return
		}
		http.Error(w, "not ready", http.StatusServiceUnavailable)
	})

	opsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	opsSrv := &http.Server{
		Addr:              opsAddr,
		Handler:           opsMux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("ops_listen_start", "addr", opsAddr)
		if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("ops_serve_failed", slog.String("err", err.Error()))
		}
	}()

	apiAddr := cfg.HTTP.Addr()
	apiSrv := &http.Server{
		Addr:              apiAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serveErrCh := make(chan error, 1)
	go func() {
		log.Info("http_listen_start", slog.String("addr", apiAddr))
		if err := apiSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErrCh <- err
		}
		close(serveErrCh)
	}()

	atomic.StoreInt32(&ready, 1)

	select {
	case <-rootCtx.Done():
		log.Info("shutdown_requested")
	case err := <-serveErrCh:
		if err != nil {
			log.Error("http_serve_failed", slog.String("err", err.Error()))
		}
	}

	atomic.StoreInt32(&ready, 0)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := apiSrv.Shutdown(shutdownCtx); err != nil {
		log.Warn("http_force_stop", slog.String("err", err.Error()))
	} else {
		log.Info("http_stopped")
	}
	shutdownCancel()

	_ = opsSrv.Shutdown(context.Background())

	rootCancel()
	if denyCache != nil {
		_ = denyCache.Close()
	}
	store.Close()

	log.Info("service_stopped")
	os.Exit(0)
}

// setupLogger настраивает slog по окружению.
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	}

	return log
}
