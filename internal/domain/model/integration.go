package model

import (
	"time"

	"github.com/google/uuid"
)

// IntegrationStatus reflects the lifecycle of a store connection.
type IntegrationStatus string

const (
	IntegrationActive   IntegrationStatus = "active"
	IntegrationInactive IntegrationStatus = "inactive"
)

// Integration is a connected storefront for an organization. The webhook
// secret is generated at connect time and verifies inbound webhook signatures.
type Integration struct {
	ID             uuid.UUID
	OrganizationID string
	Platform       string
	AccessToken    string
	ShopDomain     string
	Status         IntegrationStatus
	WebhookSecret  string
	LastSync       *time.Time
}

// Connected reports whether the integration can be used to query the store.
func (i Integration) Connected() bool {
	return i.AccessToken != "" && i.Status == IntegrationActive
}
