package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/brewpoint/kiosk/api/routes"
	cartsvc "github.com/brewpoint/kiosk/internal/cart"
	checkoutsvc "github.com/brewpoint/kiosk/internal/checkout"
	"github.com/brewpoint/kiosk/internal/identity"
	sessionsvc "github.com/brewpoint/kiosk/internal/session"
	"github.com/brewpoint/kiosk/pkg/authapi"
	"github.com/brewpoint/kiosk/pkg/config"
	"github.com/brewpoint/kiosk/pkg/logger"
	"github.com/brewpoint/kiosk/pkg/menuapi"
	"github.com/brewpoint/kiosk/pkg/metrics"
	"github.com/brewpoint/kiosk/pkg/orderapi"
	"github.com/brewpoint/kiosk/pkg/state"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "kioskd"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "kioskd",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := context.Background()

	stateStore, err := newStateStore(ctx, cfg.State)
	if err != nil {
		logg.Error(ctx, "failed to open state store", err)
		os.Exit(1)
	}
	defer func() {
		if err := stateStore.Close(); err != nil {
			logg.Error(ctx, "error closing state store", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	kioskMetrics := metrics.NewKioskMetrics(registry)

	menuClient, err := menuapi.NewClient(cfg.Backend.MenuBaseURL, cfg.Backend.Timeout, menuapi.WithMetrics(kioskMetrics))
	if err != nil {
		logg.Error(ctx, "failed to create menu client", err)
		os.Exit(1)
	}
	orderClient, err := orderapi.NewClient(cfg.Backend.OrderBaseURL, cfg.Backend.Timeout, orderapi.WithMetrics(kioskMetrics))
	if err != nil {
		logg.Error(ctx, "failed to create order client", err)
		os.Exit(1)
	}
	authClient, err := authapi.NewClient(cfg.Auth)
	if err != nil {
		logg.Error(ctx, "failed to create auth client", err)
		os.Exit(1)
	}

	identityManager, err := identity.NewManager(stateStore, logg)
	if err != nil {
		logg.Error(ctx, "failed to create identity manager", err)
		os.Exit(1)
	}
	cartStore, err := cartsvc.NewStore(ctx, stateStore, logg, kioskMetrics)
	if err != nil {
		logg.Error(ctx, "failed to create cart store", err)
		os.Exit(1)
	}
	checkoutService, err := checkoutsvc.NewService(orderClient, identityManager, cartStore, logg)
	if err != nil {
		logg.Error(ctx, "failed to create checkout service", err)
		os.Exit(1)
	}
	sessions, err := sessionsvc.NewService(sessionsvc.Params{
		Store:         stateStore,
		Issuer:        authClient,
		RequiredScope: cfg.Auth.RequiredScope,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(ctx, "failed to create session service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"state_driver": cfg.State.Driver,
	})
	logg.Info(startCtx, "starting kiosk daemon")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			stateStore,
			menuClient,
			orderClient,
			cartStore,
			checkoutService,
			identityManager,
			sessions,
			registry,
		),
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(startCtx, "kiosk daemon stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithField(startCtx, "signal", sig.String()), "shutting down")
		shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		var shutdownErr error
		shutdownErr = multierr.Append(shutdownErr, server.Shutdown(shutdownCtx))
		if shutdownErr != nil {
			logg.Error(startCtx, "shutdown did not complete cleanly", shutdownErr)
			os.Exit(1)
		}
	}
}

func newStateStore(ctx context.Context, cfg config.StateConfig) (state.Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case config.StateDriverRedis:
		return state.NewRedis(ctx, cfg)
	case config.StateDriverMemory:
		return state.NewMemory(), nil
	default:
		return state.NewSQLite(cfg.SQLitePath)
	}
}
