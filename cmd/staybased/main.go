package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anandMohanan/staybase/internal/application/usecase"
	"github.com/anandMohanan/staybase/internal/domain/service"
	"github.com/anandMohanan/staybase/internal/infrastructure/cache"
	"github.com/anandMohanan/staybase/internal/infrastructure/config"
	"github.com/anandMohanan/staybase/internal/infrastructure/messaging"
	pgrepo "github.com/anandMohanan/staybase/internal/infrastructure/postgres"
	"github.com/anandMohanan/staybase/internal/infrastructure/shopify"
	"github.com/anandMohanan/staybase/internal/presentation/rest"
	"github.com/anandMohanan/staybase/pkg/auth"
	"github.com/anandMohanan/staybase/pkg/observability"
	pkgpostgres "github.com/anandMohanan/staybase/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	logger.Info("starting staybase", "http_port", cfg.HTTPPort)

	// Database.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := pkgpostgres.Connect(dbCtx, cfg.DatabaseURL, 10, 2)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if err := pkgpostgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Redis-backed encrypted cache.
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Error("invalid redis url", "error", err)
		os.Exit(1)
	}
	rdb := redis.NewClient(redisOpts)
	defer rdb.Close()

	customerCache, err := cache.NewSecureCache(rdb, cfg.EncryptionKey)
	if err != nil {
		logger.Error("failed to initialize customer cache", "error", err)
		os.Exit(1)
	}

	// Event publishing.
	publisher := messaging.NewKafkaPublisher(cfg.KafkaBroker, cfg.EventTopic, logger)
	defer publisher.Close()

	// Repositories and clients.
	customerRepo := pgrepo.NewCustomerRepo(pool)
	integrationRepo := pgrepo.NewIntegrationRepo(pool)
	campaignRepo := pgrepo.NewCampaignRepo(pool)
	shopifyClient := shopify.NewClient(cfg.ShopifyClientID, cfg.ShopifyClientSecret, logger)

	// Domain services.
	scorer := service.NewRiskScorer()
	enricher := service.NewEnricher(scorer, time.Now)
	reconciler := service.NewReconciler()

	metrics := observability.NewMetrics()

	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: cfg.JWTSecret})
	if err != nil {
		logger.Error("failed to initialize jwt service", "error", err)
		os.Exit(1)
	}

	// Use cases.
	listCustomers := usecase.NewListCustomersUseCase(
		customerRepo, integrationRepo, shopifyClient, customerCache,
		enricher, reconciler, cfg.CacheTTL, metrics, logger,
	)
	usecases := rest.UseCases{
		ListCustomers:   listCustomers,
		UploadCustomers: usecase.NewUploadCustomersUseCase(customerRepo, customerCache, publisher, logger),
		ConnectStore:    usecase.NewConnectStoreUseCase(integrationRepo, shopifyClient, publisher, cfg.WebhookCallbackURL(), logger),
		DisconnectStore: usecase.NewDisconnectStoreUseCase(integrationRepo, customerCache, publisher, logger),
		HandleWebhook:   usecase.NewHandleWebhookUseCase(integrationRepo, shopify.NewHMACVerifier(), customerCache, publisher, metrics, logger),
		CreateCampaign:  usecase.NewCreateCampaignUseCase(campaignRepo, logger),
		ListCampaigns:   usecase.NewListCampaignsUseCase(campaignRepo),
		PreviewAudience: usecase.NewPreviewAudienceUseCase(campaignRepo, listCustomers, time.Now),
	}

	server := rest.NewServer(
		usecases,
		jwtService,
		metrics,
		shopifyClient.AuthorizeURL,
		cfg.AppURL+"/api/shopify/callback",
		logger,
	)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		logger.Error("http server failed", "error", err)
		os.Exit(1)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
