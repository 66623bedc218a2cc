package port

import (
	"context"
	"errors"
	"time"

	"github.com/anandMohanan/staybase/internal/domain/event"
	"github.com/anandMohanan/staybase/internal/domain/model"
)

// ErrNotFound is returned by repositories when a lookup matches nothing.
var ErrNotFound = errors.New("not found")

// CustomerRepository defines the persistence port for uploaded customer rows.
type CustomerRepository interface {
	// FindByOrganization retrieves all stored customers for an organization.
	FindByOrganization(ctx context.Context, organizationID string) ([]model.StoredCustomer, error)
	// InsertBatch persists a batch of uploaded customers.
	InsertBatch(ctx context.Context, customers []model.StoredCustomer) error
}

// IntegrationRepository defines the persistence port for store integrations.
type IntegrationRepository interface {
	// FindByOrganization retrieves the integration for an organization.
	// Returns ErrNotFound when the organization has never connected a store.
	FindByOrganization(ctx context.Context, organizationID string) (model.Integration, error)
	// FindByShopDomain retrieves the integration for a shop domain.
	FindByShopDomain(ctx context.Context, shopDomain string) (model.Integration, error)
	// Save persists a new or updated integration.
	Save(ctx context.Context, integration model.Integration) error
	// DeleteByOrganization removes the integration for an organization.
	DeleteByOrganization(ctx context.Context, organizationID string) error
}

// CampaignRepository defines the persistence port for campaigns.
type CampaignRepository interface {
	// Save persists a new or updated campaign.
	Save(ctx context.Context, campaign model.Campaign) error
	// FindByID retrieves a campaign by id. Returns ErrNotFound when absent.
	FindByID(ctx context.Context, id string) (model.Campaign, error)
	// FindByOrganization retrieves all campaigns for an organization.
	FindByOrganization(ctx context.Context, organizationID string) ([]model.Campaign, error)
}

// CustomerCache is the transient memoization layer in front of the two
// customer sources. Entries are fully rebuildable; losing one only costs a
// refetch.
type CustomerCache interface {
	// Get returns the cached list for a key, with ok=false on a miss.
	Get(ctx context.Context, key string) (customers []model.EnrichedCustomer, ok bool, err error)
	// Set stores the list under key for the given TTL.
	Set(ctx context.Context, key string, customers []model.EnrichedCustomer, ttl time.Duration) error
	// Delete drops the cached list for a key.
	Delete(ctx context.Context, key string) error
}

// StorefrontClient fetches live customer data from a connected store.
type StorefrontClient interface {
	// FetchCustomers runs the customers query against the shop. A GraphQL
	// error envelope surfaces as an error; no partial results are returned.
	FetchCustomers(ctx context.Context, shopDomain, accessToken string) ([]model.StorefrontCustomer, error)
}

// StorefrontOAuth completes the store connection handshake.
type StorefrontOAuth interface {
	// ExchangeCode swaps an OAuth authorization code for an access token.
	ExchangeCode(ctx context.Context, shopDomain, code string) (string, error)
	// RegisterWebhooks subscribes the app to customer and order topics.
	RegisterWebhooks(ctx context.Context, shopDomain, accessToken, callbackURL string) error
}

// WebhookVerifier checks inbound webhook signatures.
type WebhookVerifier interface {
	// Verify reports whether signature is a valid HMAC for body under secret.
	Verify(secret string, body []byte, signature string) bool
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	// Publish publishes one or more domain events.
	Publish(ctx context.Context, events ...event.DomainEvent) error
}
