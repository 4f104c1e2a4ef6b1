package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/splitticket/internal/auth"
	"github.com/mmynk/splitticket/internal/calculator"
	"github.com/mmynk/splitticket/internal/config"
	"github.com/mmynk/splitticket/internal/metrics"
	"github.com/mmynk/splitticket/internal/middleware"
	"github.com/mmynk/splitticket/internal/models"
	"github.com/mmynk/splitticket/internal/productlookup"
	"github.com/mmynk/splitticket/internal/service"
	"github.com/mmynk/splitticket/internal/storage/sqlite"
	"github.com/mmynk/splitticket/pkg/api/apiconnect"
	"github.com/mmynk/splitticket/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg := config.LoadOrEnvWithPath(*configPath)
	logging.Setup(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	if err := run(cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	defaults, err := defaultSettings(cfg)
	if err != nil {
		return err
	}

	store, err := sqlite.New(cfg.Storage.DatabasePath)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.Storage.DatabasePath)

	var m *metrics.Metrics
	reg := prometheus.NewRegistry()
	if cfg.Observability.Metrics.Enabled {
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if m, err = metrics.New(cfg.Observability.Metrics.Namespace, reg); err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
	}

	jwtManager := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)
	lookup := productlookup.New(productlookup.Config{
		BaseURL:  cfg.ProductLookup.BaseURL,
		Timeout:  cfg.ProductLookup.Timeout,
		RetryMax: cfg.ProductLookup.RetryMax,
		Logger:   slog.Default().With("component", "productlookup"),
	})
	opts := calculator.Options{
		ExactLimit: cfg.Optimizer.ExactItemLimit,
		Timeout:    cfg.Optimizer.SearchTimeout,
		Fallback:   true,
	}

	interceptors := connect.WithInterceptors(
		middleware.OptionalAuth(jwtManager),
		middleware.LoggingInterceptor(slog.Default()),
	)

	mux := http.NewServeMux()
	mux.Handle(apiconnect.NewAuthServiceHandler(
		service.NewAuthService(authenticator, jwtManager, store, slog.Default()), interceptors))
	mux.Handle(apiconnect.NewSplitServiceHandler(
		service.NewSplitService(store, defaults, opts, m), interceptors))
	mux.Handle(apiconnect.NewProductServiceHandler(
		service.NewProductService(store, lookup, m), interceptors))
	if m != nil {
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}

	static, err := staticHandler(cfg.Server.StaticPath)
	if err != nil {
		return err
	}
	mux.Handle("/", static)

	// h2c serves HTTP/2 without TLS for Connect clients.
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           h2c.NewHandler(corsMiddleware(mux), &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
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

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func defaultSettings(cfg *config.Config) (models.Settings, error) {
	specA, err := cfg.Vouchers.PartyA.Spec()
	if err != nil {
		return models.Settings{}, err
	}
	specB, err := cfg.Vouchers.PartyB.Spec()
	if err != nil {
		return models.Settings{}, err
	}
	return models.Settings{
		PartyA:               specA,
		PartyB:               specB,
		NonVoucherCategories: cfg.Vouchers.NonVoucherCategories,
	}, nil
}
