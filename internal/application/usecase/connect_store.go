package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/anandMohanan/staybase/internal/application/dto"
	"github.com/anandMohanan/staybase/internal/domain/event"
	"github.com/anandMohanan/staybase/internal/domain/model"
	"github.com/anandMohanan/staybase/internal/domain/port"
)

// ConnectStoreUseCase completes the OAuth callback: it exchanges the
// authorization code for an access token, stores the integration with a fresh
// webhook secret, and registers the webhook subscriptions that drive cache
// invalidation.
type ConnectStoreUseCase struct {
	integrations port.IntegrationRepository
	oauth        port.StorefrontOAuth
	publisher    port.EventPublisher
	callbackURL  string
	logger       *slog.Logger
}

// NewConnectStoreUseCase creates a new ConnectStoreUseCase. callbackURL is
// the public webhook intake endpoint registered with the store.
func NewConnectStoreUseCase(
	integrations port.IntegrationRepository,
	oauth port.StorefrontOAuth,
	publisher port.EventPublisher,
	callbackURL string,
	logger *slog.Logger,
) *ConnectStoreUseCase {
	return &ConnectStoreUseCase{
		integrations: integrations,
		oauth:        oauth,
		publisher:    publisher,
		callbackURL:  callbackURL,
		logger:       logger,
	}
}

// Execute connects a shop to the organization.
func (uc *ConnectStoreUseCase) Execute(ctx context.Context, req dto.ConnectStoreRequest) (dto.ConnectStoreResponse, error) {
	if req.ShopDomain == "" {
		return dto.ConnectStoreResponse{}, fmt.Errorf("missing shop domain")
	}
	if req.Code == "" {
		return dto.ConnectStoreResponse{}, fmt.Errorf("missing authorization code")
	}

	accessToken, err := uc.oauth.ExchangeCode(ctx, req.ShopDomain, req.Code)
	if err != nil {
		return dto.ConnectStoreResponse{}, fmt.Errorf("exchange authorization code: %w", err)
	}

	secret, err := newWebhookSecret()
	if err != nil {
		return dto.ConnectStoreResponse{}, err
	}

	integration := model.Integration{
		ID:             uuid.New(),
		OrganizationID: req.OrganizationID,
		Platform:       "shopify",
		AccessToken:    accessToken,
		ShopDomain:     req.ShopDomain,
		Status:         model.IntegrationActive,
		WebhookSecret:  secret,
	}
	if err := uc.integrations.Save(ctx, integration); err != nil {
		return dto.ConnectStoreResponse{}, fmt.Errorf("save integration: %w", err)
	}

	// Webhook registration failures are retried on the store side and do not
	// invalidate the connection itself.
	if err := uc.oauth.RegisterWebhooks(ctx, req.ShopDomain, accessToken, uc.callbackURL); err != nil {
		uc.logger.Warn("webhook registration failed", "shop_domain", req.ShopDomain, "error", err)
	}

	if err := uc.publisher.Publish(ctx, event.NewStoreConnected(req.OrganizationID, req.ShopDomain)); err != nil {
		uc.logger.Warn("failed to publish store connected event", "organization_id", req.OrganizationID, "error", err)
	}

	uc.logger.Info("store connected", "organization_id", req.OrganizationID, "shop_domain", req.ShopDomain)

	return dto.ConnectStoreResponse{
		ShopDomain: req.ShopDomain,
		Status:     string(model.IntegrationActive),
	}, nil
}

// newWebhookSecret produces the per-integration HMAC key used to verify
// inbound webhook deliveries.
func newWebhookSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate webhook secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
