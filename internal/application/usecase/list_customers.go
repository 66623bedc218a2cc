package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anandMohanan/staybase/internal/application/dto"
	"github.com/anandMohanan/staybase/internal/domain/model"
	"github.com/anandMohanan/staybase/internal/domain/port"
	"github.com/anandMohanan/staybase/internal/domain/service"
	"github.com/anandMohanan/staybase/pkg/observability"
)

// CustomerCacheKey returns the cache key holding the merged customer list for
// an organization. Keys are scoped per organization so two tenants never read
// or write each other's entry.
func CustomerCacheKey(organizationID string) string {
	return "customers:" + organizationID
}

// ListCustomersUseCase builds the merged, risk-scored customer view for one
// organization: stored customers and live storefront customers are each
// normalized, then reconciled by email, with the result memoized in the cache
// for the configured TTL.
type ListCustomersUseCase struct {
	customers    port.CustomerRepository
	integrations port.IntegrationRepository
	storefront   port.StorefrontClient
	cache        port.CustomerCache
	enricher     *service.Enricher
	reconciler   *service.Reconciler
	cacheTTL     time.Duration
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewListCustomersUseCase creates a new ListCustomersUseCase.
func NewListCustomersUseCase(
	customers port.CustomerRepository,
	integrations port.IntegrationRepository,
	storefront port.StorefrontClient,
	cache port.CustomerCache,
	enricher *service.Enricher,
	reconciler *service.Reconciler,
	cacheTTL time.Duration,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *ListCustomersUseCase {
	return &ListCustomersUseCase{
		customers:    customers,
		integrations: integrations,
		storefront:   storefront,
		cache:        cache,
		enricher:     enricher,
		reconciler:   reconciler,
		cacheTTL:     cacheTTL,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute runs the pipeline. A missing integration degrades to the
// database-only view; a storefront query failure fails the whole request so
// callers never see a silently partial merge.
func (uc *ListCustomersUseCase) Execute(ctx context.Context, req dto.ListCustomersRequest) (dto.ListCustomersResponse, error) {
	start := time.Now()
	defer func() {
		uc.metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	}()

	key := CustomerCacheKey(req.OrganizationID)

	cached, ok, err := uc.cache.Get(ctx, key)
	if err != nil {
		// A broken cache only costs a refetch; the merged view is fully
		// rebuildable from source data.
		uc.logger.Warn("customer cache read failed", "organization_id", req.OrganizationID, "error", err)
	} else if ok {
		uc.metrics.CacheHits.Inc()
		return dto.ListCustomersResponse{Customers: cached, FromCache: true}, nil
	}
	uc.metrics.CacheMisses.Inc()

	stored, err := uc.customers.FindByOrganization(ctx, req.OrganizationID)
	if err != nil {
		return dto.ListCustomersResponse{}, fmt.Errorf("fetch stored customers: %w", err)
	}

	dbCustomers := make([]model.EnrichedCustomer, 0, len(stored))
	for _, rec := range stored {
		dbCustomers = append(dbCustomers, uc.enricher.FromStoreRecord(rec))
	}

	shopifyCustomers, err := uc.fetchStorefront(ctx, req.OrganizationID)
	if err != nil {
		return dto.ListCustomersResponse{}, err
	}

	merged := uc.reconciler.Merge(dbCustomers, shopifyCustomers)

	if err := uc.cache.Set(ctx, key, merged, uc.cacheTTL); err != nil {
		uc.logger.Warn("customer cache write failed", "organization_id", req.OrganizationID, "error", err)
	}

	uc.logger.Info("customer pipeline completed",
		"organization_id", req.OrganizationID,
		"database_customers", len(dbCustomers),
		"storefront_customers", len(shopifyCustomers),
		"merged", len(merged),
	)

	return dto.ListCustomersResponse{Customers: merged}, nil
}

// fetchStorefront returns the normalized storefront customers, or an empty
// list when the organization has no usable integration.
func (uc *ListCustomersUseCase) fetchStorefront(ctx context.Context, organizationID string) ([]model.EnrichedCustomer, error) {
	integration, err := uc.integrations.FindByOrganization(ctx, organizationID)
	switch {
	case errors.Is(err, port.ErrNotFound):
		uc.logger.Debug("no storefront integration, serving database-only view", "organization_id", organizationID)
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("fetch integration: %w", err)
	case !integration.Connected():
		uc.logger.Debug("storefront integration not connected, serving database-only view", "organization_id", organizationID)
		return nil, nil
	}

	storefrontCustomers, err := uc.storefront.FetchCustomers(ctx, integration.ShopDomain, integration.AccessToken)
	if err != nil {
		uc.metrics.StorefrontQueryFailures.Inc()
		return nil, fmt.Errorf("fetch storefront customers: %w", err)
	}

	enriched := make([]model.EnrichedCustomer, 0, len(storefrontCustomers))
	for _, sc := range storefrontCustomers {
		enriched = append(enriched, uc.enricher.FromStorefrontCustomer(sc))
	}
	return enriched, nil
}
