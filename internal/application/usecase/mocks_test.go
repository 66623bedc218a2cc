package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/anandMohanan/staybase/internal/domain/event"
	"github.com/anandMohanan/staybase/internal/domain/model"
	"github.com/anandMohanan/staybase/internal/domain/port"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockCustomerRepo struct {
	findFunc   func(ctx context.Context, organizationID string) ([]model.StoredCustomer, error)
	insertFunc func(ctx context.Context, customers []model.StoredCustomer) error
	inserted   []model.StoredCustomer
}

func (m *mockCustomerRepo) FindByOrganization(ctx context.Context, organizationID string) ([]model.StoredCustomer, error) {
	if m.findFunc != nil {
		return m.findFunc(ctx, organizationID)
	}
	return nil, nil
}

func (m *mockCustomerRepo) InsertBatch(ctx context.Context, customers []model.StoredCustomer) error {
	if m.insertFunc != nil {
		return m.insertFunc(ctx, customers)
	}
	m.inserted = append(m.inserted, customers...)
	return nil
}

type mockIntegrationRepo struct {
	findByOrgFunc  func(ctx context.Context, organizationID string) (model.Integration, error)
	findByShopFunc func(ctx context.Context, shopDomain string) (model.Integration, error)
	saved          []model.Integration
	deleted        []string
}

func (m *mockIntegrationRepo) FindByOrganization(ctx context.Context, organizationID string) (model.Integration, error) {
	if m.findByOrgFunc != nil {
		return m.findByOrgFunc(ctx, organizationID)
	}
	return model.Integration{}, port.ErrNotFound
}

func (m *mockIntegrationRepo) FindByShopDomain(ctx context.Context, shopDomain string) (model.Integration, error) {
	if m.findByShopFunc != nil {
		return m.findByShopFunc(ctx, shopDomain)
	}
	return model.Integration{}, port.ErrNotFound
}

func (m *mockIntegrationRepo) Save(_ context.Context, integration model.Integration) error {
	m.saved = append(m.saved, integration)
	return nil
}

func (m *mockIntegrationRepo) DeleteByOrganization(_ context.Context, organizationID string) error {
	m.deleted = append(m.deleted, organizationID)
	return nil
}

type mockCampaignRepo struct {
	findByIDFunc  func(ctx context.Context, id string) (model.Campaign, error)
	findByOrgFunc func(ctx context.Context, organizationID string) ([]model.Campaign, error)
	saved         []model.Campaign
}

func (m *mockCampaignRepo) Save(_ context.Context, campaign model.Campaign) error {
	m.saved = append(m.saved, campaign)
	return nil
}

func (m *mockCampaignRepo) FindByID(ctx context.Context, id string) (model.Campaign, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return model.Campaign{}, port.ErrNotFound
}

func (m *mockCampaignRepo) FindByOrganization(ctx context.Context, organizationID string) ([]model.Campaign, error) {
	if m.findByOrgFunc != nil {
		return m.findByOrgFunc(ctx, organizationID)
	}
	return nil, nil
}

type mockCache struct {
	getFunc func(ctx context.Context, key string) ([]model.EnrichedCustomer, bool, error)
	setFunc func(ctx context.Context, key string, customers []model.EnrichedCustomer, ttl time.Duration) error
	sets    map[string][]model.EnrichedCustomer
	deletes []string
}

func (m *mockCache) Get(ctx context.Context, key string) ([]model.EnrichedCustomer, bool, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return nil, false, nil
}

func (m *mockCache) Set(ctx context.Context, key string, customers []model.EnrichedCustomer, ttl time.Duration) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, customers, ttl)
	}
	if m.sets == nil {
		m.sets = make(map[string][]model.EnrichedCustomer)
	}
	m.sets[key] = customers
	return nil
}

func (m *mockCache) Delete(_ context.Context, key string) error {
	m.deletes = append(m.deletes, key)
	return nil
}

type mockStorefront struct {
	fetchFunc func(ctx context.Context, shopDomain, accessToken string) ([]model.StorefrontCustomer, error)
}

func (m *mockStorefront) FetchCustomers(ctx context.Context, shopDomain, accessToken string) ([]model.StorefrontCustomer, error) {
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, shopDomain, accessToken)
	}
	return nil, nil
}

type mockOAuth struct {
	exchangeFunc func(ctx context.Context, shopDomain, code string) (string, error)
	registerFunc func(ctx context.Context, shopDomain, accessToken, callbackURL string) error
	registered   []string
}

func (m *mockOAuth) ExchangeCode(ctx context.Context, shopDomain, code string) (string, error) {
	if m.exchangeFunc != nil {
		return m.exchangeFunc(ctx, shopDomain, code)
	}
	return "test-access-token", nil
}

func (m *mockOAuth) RegisterWebhooks(ctx context.Context, shopDomain, accessToken, callbackURL string) error {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, shopDomain, accessToken, callbackURL)
	}
	m.registered = append(m.registered, shopDomain)
	return nil
}

type mockVerifier struct {
	valid bool
}

func (m *mockVerifier) Verify(string, []byte, string) bool { return m.valid }

type mockPublisher struct {
	publishFunc func(ctx context.Context, events ...event.DomainEvent) error
	published   []event.DomainEvent
}

func (m *mockPublisher) Publish(ctx context.Context, events ...event.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, events...)
	}
	m.published = append(m.published, events...)
	return nil
}
