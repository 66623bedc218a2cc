package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anandMohanan/staybase/internal/application/dto"
	"github.com/anandMohanan/staybase/internal/domain/event"
	"github.com/anandMohanan/staybase/internal/domain/port"
	"github.com/anandMohanan/staybase/pkg/observability"
)

// ErrUnknownShop is returned when a webhook arrives for a shop domain with no
// stored integration.
var ErrUnknownShop = errors.New("no integration for shop domain")

// ErrBadSignature is returned when a webhook's HMAC does not verify against
// the integration's secret.
var ErrBadSignature = errors.New("invalid webhook signature")

// invalidatingTopics are the webhook topics that change customer or order
// data and therefore stale the cached merged view.
var invalidatingTopics = map[string]struct{}{
	"customers/create": {},
	"customers/update": {},
	"customers/delete": {},
	"orders/create":    {},
	"orders/updated":   {},
	"orders/cancelled": {},
}

// HandleWebhookUseCase verifies an inbound storefront webhook and invalidates
// the affected organization's cached customer list.
type HandleWebhookUseCase struct {
	integrations port.IntegrationRepository
	verifier     port.WebhookVerifier
	cache        port.CustomerCache
	publisher    port.EventPublisher
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// NewHandleWebhookUseCase creates a new HandleWebhookUseCase.
func NewHandleWebhookUseCase(
	integrations port.IntegrationRepository,
	verifier port.WebhookVerifier,
	cache port.CustomerCache,
	publisher port.EventPublisher,
	metrics *observability.Metrics,
	logger *slog.Logger,
) *HandleWebhookUseCase {
	return &HandleWebhookUseCase{
		integrations: integrations,
		verifier:     verifier,
		cache:        cache,
		publisher:    publisher,
		metrics:      metrics,
		logger:       logger,
	}
}

// Execute processes one webhook delivery. Deliveries for topics that do not
// affect the customer view are acknowledged without side effects.
func (uc *HandleWebhookUseCase) Execute(ctx context.Context, req dto.WebhookRequest) error {
	integration, err := uc.integrations.FindByShopDomain(ctx, req.ShopDomain)
	if errors.Is(err, port.ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrUnknownShop, req.ShopDomain)
	}
	if err != nil {
		return fmt.Errorf("fetch integration: %w", err)
	}

	if !uc.verifier.Verify(integration.WebhookSecret, req.RawBody, req.Signature) {
		uc.metrics.WebhooksRejected.Inc()
		return ErrBadSignature
	}

	if _, ok := invalidatingTopics[req.Topic]; !ok {
		uc.logger.Debug("ignoring webhook topic", "topic", req.Topic, "shop_domain", req.ShopDomain)
		return nil
	}

	if err := uc.cache.Delete(ctx, CustomerCacheKey(integration.OrganizationID)); err != nil {
		return fmt.Errorf("invalidate customer cache: %w", err)
	}

	if err := uc.publisher.Publish(ctx, event.NewCustomerCacheInvalidated(integration.OrganizationID, req.Topic)); err != nil {
		uc.logger.Warn("failed to publish cache invalidation event",
			"organization_id", integration.OrganizationID, "error", err)
	}

	uc.logger.Info("webhook processed",
		"topic", req.Topic,
		"shop_domain", req.ShopDomain,
		"organization_id", integration.OrganizationID,
	)
	return nil
}
