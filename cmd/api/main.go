package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/rmjobsites/jobsites-api/api/routes"
	"github.com/rmjobsites/jobsites-api/internal/auth"
	"github.com/rmjobsites/jobsites-api/internal/catalog"
	"github.com/rmjobsites/jobsites-api/internal/customers"
	"github.com/rmjobsites/jobsites-api/internal/notifications"
	"github.com/rmjobsites/jobsites-api/internal/orders"
	"github.com/rmjobsites/jobsites-api/internal/rentals"
	"github.com/rmjobsites/jobsites-api/internal/servicerequests"
	"github.com/rmjobsites/jobsites-api/internal/users"
	"github.com/rmjobsites/jobsites-api/pkg/config"
	"github.com/rmjobsites/jobsites-api/pkg/db"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	"github.com/rmjobsites/jobsites-api/pkg/metrics"
	"github.com/rmjobsites/jobsites-api/pkg/migrate"
	"github.com/rmjobsites/jobsites-api/pkg/redis"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.Open(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	squareClient, err := square.NewClient(ctx, cfg.Square, logg, square.WithObserver(metrics.NewGatewayMetrics(registry)))
	if err != nil {
		return err
	}

	mailer, err := notifications.NewSender(cfg.Sendgrid, cfg.Checkout, logg, notifications.WithObserver(checkoutMetrics))
	if err != nil {
		return err
	}
	if !cfg.Sendgrid.Enabled() {
		logg.Warn(ctx, "sendgrid api key missing, emails will not be sent")
	}

	deps, err := buildDependencies(cfg, logg, dbClient, redisClient, squareClient, mailer, checkoutMetrics)
	if err != nil {
		return err
	}
	deps.Gatherer = registry

	addr := ":" + cfg.App.Port
	srvCtx := logg.WithFields(ctx, map[string]any{
		"env":                cfg.App.Env,
		"addr":               addr,
		"square_environment": squareClient.Environment(),
	})
	logg.Info(srvCtx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(srvCtx, "shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildDependencies(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	squareClient *square.Client,
	mailer *notifications.Sender,
	checkoutMetrics *metrics.CheckoutMetrics,
) (routes.Dependencies, error) {
	userRepo := users.NewRepository(dbClient.DB())

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}
	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		TxRunner:       dbClient,
		PasswordConfig: cfg.Password,
		JWTConfig:      cfg.JWT,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Gateway:  squareClient,
		Cache:    redisClient,
		CacheTTL: cfg.Catalog.CacheTTL,
		Logger:   logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	resolver, err := customers.NewResolver(squareClient)
	if err != nil {
		return routes.Dependencies{}, err
	}
	profileSync, err := customers.NewProfileSync(userRepo, squareClient, logg)
	if err != nil {
		return routes.Dependencies{}, err
	}
	customerService, err := customers.NewService(customers.ServiceParams{
		Users:    userRepo,
		Gateway:  squareClient,
		Resolver: resolver,
		Logger:   logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	validator, err := orders.NewValidator(cfg.Checkout, time.Now)
	if err != nil {
		return routes.Dependencies{}, err
	}
	orderService, err := orders.NewService(orders.ServiceParams{
		Gateway:     squareClient,
		Resolver:    resolver,
		ProfileSync: profileSync,
		Notifier:    mailer,
		Attempts:    orders.NewRepository(dbClient.DB()),
		Metrics:     checkoutMetrics,
		Validator:   validator,
		Logger:      logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	requestService, err := servicerequests.NewService(servicerequests.ServiceParams{
		Requests: servicerequests.NewRepository(dbClient.DB()),
		Users:    userRepo,
		Notifier: mailer,
		Logger:   logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	rentalService, err := rentals.NewService(rentals.NewRepository(dbClient.DB()))
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		DB:              dbClient,
		Redis:           redisClient,
		Users:           userRepo,
		Auth:            authService,
		Register:        registerService,
		Catalog:         catalogService,
		Customers:       customerService,
		Orders:          orderService,
		ServiceRequests: requestService,
		Rentals:         rentalService,
	}, nil
}
