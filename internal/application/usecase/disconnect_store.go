package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anandMohanan/staybase/internal/application/dto"
	"github.com/anandMohanan/staybase/internal/domain/event"
	"github.com/anandMohanan/staybase/internal/domain/port"
)

// DisconnectStoreUseCase removes an organization's store integration and
// drops the cached customer view built from it.
type DisconnectStoreUseCase struct {
	integrations port.IntegrationRepository
	cache        port.CustomerCache
	publisher    port.EventPublisher
	logger       *slog.Logger
}

// NewDisconnectStoreUseCase creates a new DisconnectStoreUseCase.
func NewDisconnectStoreUseCase(
	integrations port.IntegrationRepository,
	cache port.CustomerCache,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *DisconnectStoreUseCase {
	return &DisconnectStoreUseCase{
		integrations: integrations,
		cache:        cache,
		publisher:    publisher,
		logger:       logger,
	}
}

// Execute disconnects the organization's store, if any.
func (uc *DisconnectStoreUseCase) Execute(ctx context.Context, req dto.DisconnectStoreRequest) error {
	integration, err := uc.integrations.FindByOrganization(ctx, req.OrganizationID)
	if errors.Is(err, port.ErrNotFound) {
		return fmt.Errorf("no store connected: %w", err)
	}
	if err != nil {
		return fmt.Errorf("fetch integration: %w", err)
	}

	if err := uc.integrations.DeleteByOrganization(ctx, req.OrganizationID); err != nil {
		return fmt.Errorf("delete integration: %w", err)
	}

	if err := uc.cache.Delete(ctx, CustomerCacheKey(req.OrganizationID)); err != nil {
		uc.logger.Warn("customer cache invalidation failed", "organization_id", req.OrganizationID, "error", err)
	}

	if err := uc.publisher.Publish(ctx, event.NewStoreDisconnected(req.OrganizationID, integration.ShopDomain)); err != nil {
		uc.logger.Warn("failed to publish store disconnected event", "organization_id", req.OrganizationID, "error", err)
	}

	uc.logger.Info("store disconnected", "organization_id", req.OrganizationID, "shop_domain", integration.ShopDomain)
	return nil
}
