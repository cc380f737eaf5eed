package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mohamed-hwerthi/easy-pos/api/routes"
	"github.com/mohamed-hwerthi/easy-pos/internal/cart"
	"github.com/mohamed-hwerthi/easy-pos/internal/catalog"
	"github.com/mohamed-hwerthi/easy-pos/internal/history"
	"github.com/mohamed-hwerthi/easy-pos/internal/orders"
	"github.com/mohamed-hwerthi/easy-pos/internal/paymentmethods"
	"github.com/mohamed-hwerthi/easy-pos/internal/register"
	"github.com/mohamed-hwerthi/easy-pos/internal/tables"
	"github.com/mohamed-hwerthi/easy-pos/pkg/backend"
	"github.com/mohamed-hwerthi/easy-pos/pkg/config"
	"github.com/mohamed-hwerthi/easy-pos/pkg/localstore"
	"github.com/mohamed-hwerthi/easy-pos/pkg/logger"
	"github.com/mohamed-hwerthi/easy-pos/pkg/metrics"
	"github.com/mohamed-hwerthi/easy-pos/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "pos-terminal"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "pos-terminal",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	store, err := localstore.Open(cfg.LocalStore)
	if err != nil {
		logg.Error(context.Background(), "failed to open local cache", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logg.Error(context.Background(), "error closing local cache", err)
		}
	}()

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	terminalMetrics := metrics.NewTerminalMetrics(prometheus.DefaultRegisterer)

	client, err := backend.New(cfg.Backend, logg, terminalMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to build backend client", err)
		os.Exit(1)
	}

	registerService, err := register.NewService(client, store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}
	client.SetAuthInvalidator(registerService)

	cartService, err := cart.NewService(logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	tableService, err := tables.NewService(client, logg, terminalMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create table service", err)
		os.Exit(1)
	}

	orderService, err := orders.NewService(client, registerService, logg, terminalMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create order service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(client, store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	paymentMethodService, err := paymentmethods.NewService(client, store, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create payment method service", err)
		os.Exit(1)
	}

	historyService, err := history.NewService(client, registerService)
	if err != nil {
		logg.Error(context.Background(), "failed to create history service", err)
		os.Exit(1)
	}

	restoreState(context.Background(), logg, store, client, registerService)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting pos terminal")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			client,
			redisClient,
			registerService,
			cartService,
			tableService,
			orderService,
			catalogService,
			paymentMethodService,
			historyService,
		),
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "pos terminal stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "error during shutdown", err)
		}
	}

	logg.Info(ctx, "pos terminal shutting down gracefully")
}

// restoreState resumes the previous shift after a terminal restart: the
// cached bearer token goes back on the backend client and the register
// reloads the signed-in cashier and open session.
func restoreState(ctx context.Context, logg *logger.Logger, store *localstore.Store, client *backend.Client, registerService register.Service) {
	var token string
	err := store.LoadSnapshot(ctx, localstore.KeyAuthToken, &token)
	if err != nil && !errors.Is(err, localstore.ErrNotFound) {
		logg.Warn(ctx, "failed to load cached auth token")
	}
	if token != "" {
		client.SetToken(token)
	}
	if err := registerService.Restore(ctx); err != nil {
		logg.Warn(ctx, "failed to restore register state")
	}
}
