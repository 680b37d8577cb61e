package main

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

	"github.com/geocoder89/taskhub/internal/auth"
	"github.com/geocoder89/taskhub/internal/cache"
	"github.com/geocoder89/taskhub/internal/config"
	"github.com/geocoder89/taskhub/internal/db"
	"github.com/geocoder89/taskhub/internal/domain/task"
	httpx "github.com/geocoder89/taskhub/internal/http"
	"github.com/geocoder89/taskhub/internal/http/handlers"
	"github.com/geocoder89/taskhub/internal/observability"
	"github.com/geocoder89/taskhub/internal/ratelimit"
	"github.com/geocoder89/taskhub/internal/redisclient"
	"github.com/geocoder89/taskhub/internal/repo/memory"
	"github.com/geocoder89/taskhub/internal/repo/postgres"
	"github.com/geocoder89/taskhub/internal/security"
	"github.com/geocoder89/taskhub/internal/tasks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/samber/oops"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	// start up the observability logger
	log := observability.NewLogger(cfg.Env)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("startup failed", "err", err)
		os.Exit(1)
	}
}

// stores is the persistence pair the services run on.
type stores struct {
	users auth.UserStore
	tasks tasks.Store
}

func run(cfg config.Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.InsecureSecret() {
		log.Warn("JWT_SECRET is not set, falling back to the built-in development secret")
	}

	ctx := context.Background()

	shutdownTracer, err := observability.InitTracer(ctx, observability.TracerConfig{
		ServiceName: observability.ServiceName,
		Env:         cfg.Env,
		Endpoint:    cfg.OTLPEndpoint,
		SampleRatio: cfg.TraceSampleRatio,
	})
	if err != nil {
		return oops.With("operation", "init_tracer").Wrap(err)
	}
	defer func() {
		sctx, cancel := config.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		_ = shutdownTracer(sctx)
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	readyChecks := map[string]handlers.Check{}

	var st stores
	switch cfg.StoreDriver {
	case "memory":
		mem := memory.NewStore()
		st = stores{users: mem, tasks: mem.Tasks()}
		log.Warn("using the in-memory store, data is lost on restart")
	default:
		pool, err := db.NewPool(cfg.DBURL)
		if err != nil {
			return oops.With("operation", "db_connect").Wrap(err)
		}
		defer pool.Close()

		if err := db.Migrate(ctx, pool); err != nil {
			return oops.With("operation", "db_migrate").Wrap(err)
		}

		st = stores{
			users: postgres.NewUsersRepo(pool, prom),
			tasks: postgres.NewTasksRepo(pool, prom),
		}
		readyChecks["postgres"] = func(ctx context.Context) error { return pool.Ping(ctx) }
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemory(cfg.LoginRateLimit, cfg.LoginRateWindow())
	if cfg.RedisAddr != "" {
		rc := redisclient.New(redisclient.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer rc.Close()

		pctx, cancel := config.WithTimeout(ctx, 3*time.Second)
		err := rc.Ping(pctx)
		cancel()
		if err != nil {
			return oops.With("operation", "redis_ping").With("addr", cfg.RedisAddr).Wrap(err)
		}

		limiter = ratelimit.NewRedis(rc.Raw(), "taskhub:ratelimit:", cfg.LoginRateLimit, cfg.LoginRateWindow())
		readyChecks["redis"] = rc.Ping
	}

	var listCache handlers.ListCache
	if ttl := cfg.TaskListCacheTTL(); ttl > 0 {
		listCache = cache.New[task.Page](ttl)
	}

	hasher, err := security.NewHasher()
	if err != nil {
		return oops.With("operation", "init_hasher").Wrap(err)
	}
	tokens := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL())
	authSvc := auth.NewService(st.users, hasher, tokens, cfg.SecureCookies())

	seeded, err := db.EnsureSeedUser(ctx, authSvc, cfg)
	if err != nil {
		return oops.With("operation", "seed_user").Wrap(err)
	}
	if seeded {
		log.Info("seed user created", "email", cfg.SeedUserEmail)
	}

	// set up routers with the log
	router := httpx.NewRouter(httpx.RouterDeps{
		Cfg:         cfg,
		Log:         log,
		Prom:        prom,
		Gatherer:    reg,
		Auth:        authSvc,
		Sessions:    auth.NewSessions(tokens, st.users),
		Tasks:       tasks.NewService(st.tasks),
		ListCache:   listCache,
		Limiter:     limiter,
		ReadyChecks: readyChecks,
	})

	// server set up
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", "port", cfg.Port, "env", cfg.Env, "store", cfg.StoreDriver)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		return oops.With("operation", "listen").With("port", cfg.Port).Wrap(err)
	case <-stop:
	}
	log.Info("server shutting down")

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}

	return nil
}
