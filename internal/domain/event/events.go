package event

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// DomainEvent is implemented by every event the service publishes.
type DomainEvent interface {
	EventID() uuid.UUID
	EventType() string
	OrganizationID() string
	OccurredAt() time.Time
	Payload() []byte
}

// BaseEvent provides the common DomainEvent implementation.
type BaseEvent struct {
	id             uuid.UUID
	eventType      string
	organizationID string
	occurredAt     time.Time
	payload        []byte
}

// NewBaseEvent creates a BaseEvent with a generated id and the current time.
func NewBaseEvent(eventType, organizationID string, payload []byte) BaseEvent {
	return BaseEvent{
		id:             uuid.New(),
		eventType:      eventType,
		organizationID: organizationID,
		occurredAt:     time.Now().UTC(),
		payload:        payload,
	}
}

// EventID returns the unique identifier for this event.
func (e BaseEvent) EventID() uuid.UUID { return e.id }

// EventType returns the type name of this event.
func (e BaseEvent) EventType() string { return e.eventType }

// OrganizationID returns the organization the event belongs to.
func (e BaseEvent) OrganizationID() string { return e.organizationID }

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time { return e.occurredAt }

// Payload returns the JSON-encoded event payload.
func (e BaseEvent) Payload() []byte { return e.payload }

// CustomersUploaded is published after a CSV batch lands in the store.
type CustomersUploaded struct {
	BaseEvent
}

// NewCustomersUploaded creates a CustomersUploaded event.
func NewCustomersUploaded(organizationID string, count int) CustomersUploaded {
	payload, _ := json.Marshal(map[string]any{
		"organizationId": organizationID,
		"count":          count,
	})
	return CustomersUploaded{NewBaseEvent("customers.uploaded", organizationID, payload)}
}

// StoreConnected is published when a Shopify integration completes OAuth.
type StoreConnected struct {
	BaseEvent
}

// NewStoreConnected creates a StoreConnected event.
func NewStoreConnected(organizationID, shopDomain string) StoreConnected {
	payload, _ := json.Marshal(map[string]any{
		"organizationId": organizationID,
		"shopDomain":     shopDomain,
	})
	return StoreConnected{NewBaseEvent("integration.store_connected", organizationID, payload)}
}

// StoreDisconnected is published when an integration is removed.
type StoreDisconnected struct {
	BaseEvent
}

// NewStoreDisconnected creates a StoreDisconnected event.
func NewStoreDisconnected(organizationID, shopDomain string) StoreDisconnected {
	payload, _ := json.Marshal(map[string]any{
		"organizationId": organizationID,
		"shopDomain":     shopDomain,
	})
	return StoreDisconnected{NewBaseEvent("integration.store_disconnected", organizationID, payload)}
}

// CustomerCacheInvalidated is published when a webhook drops the cached
// customer list for an organization.
type CustomerCacheInvalidated struct {
	BaseEvent
}

// NewCustomerCacheInvalidated creates a CustomerCacheInvalidated event.
func NewCustomerCacheInvalidated(organizationID, topic string) CustomerCacheInvalidated {
	payload, _ := json.Marshal(map[string]any{
		"organizationId": organizationID,
		"topic":          topic,
	})
	return CustomerCacheInvalidated{NewBaseEvent("customers.cache_invalidated", organizationID, payload)}
}
