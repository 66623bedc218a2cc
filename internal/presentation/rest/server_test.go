package rest_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandMohanan/staybase/internal/application/usecase"
	"github.com/anandMohanan/staybase/internal/domain/event"
	"github.com/anandMohanan/staybase/internal/domain/model"
	"github.com/anandMohanan/staybase/internal/domain/port"
	"github.com/anandMohanan/staybase/internal/domain/service"
	"github.com/anandMohanan/staybase/internal/presentation/rest"
	"github.com/anandMohanan/staybase/pkg/auth"
	"github.com/anandMohanan/staybase/pkg/observability"
)

const webhookSecret = "test-webhook-secret"

type stubCustomerRepo struct{}

func (stubCustomerRepo) FindByOrganization(context.Context, string) ([]model.StoredCustomer, error) {
	return nil, nil
}
func (stubCustomerRepo) InsertBatch(context.Context, []model.StoredCustomer) error { return nil }

type stubIntegrationRepo struct{}

func (stubIntegrationRepo) FindByOrganization(context.Context, string) (model.Integration, error) {
	return model.Integration{}, port.ErrNotFound
}

func (stubIntegrationRepo) FindByShopDomain(_ context.Context, shopDomain string) (model.Integration, error) {
	if shopDomain != "test.myshopify.com" {
		return model.Integration{}, port.ErrNotFound
	}
	return model.Integration{
		ID:             uuid.New(),
		OrganizationID: "org-1",
		ShopDomain:     shopDomain,
		AccessToken:    "shpat_test",
		Status:         model.IntegrationActive,
		WebhookSecret:  webhookSecret,
	}, nil
}

func (stubIntegrationRepo) Save(context.Context, model.Integration) error      { return nil }
func (stubIntegrationRepo) DeleteByOrganization(context.Context, string) error { return nil }

type stubCampaignRepo struct{}

func (stubCampaignRepo) Save(context.Context, model.Campaign) error { return nil }
func (stubCampaignRepo) FindByID(context.Context, string) (model.Campaign, error) {
	return model.Campaign{}, port.ErrNotFound
}
func (stubCampaignRepo) FindByOrganization(context.Context, string) ([]model.Campaign, error) {
	return nil, nil
}

type stubCache struct {
	deletes []string
}

func (s *stubCache) Get(context.Context, string) ([]model.EnrichedCustomer, bool, error) {
	return nil, false, nil
}
func (s *stubCache) Set(context.Context, string, []model.EnrichedCustomer, time.Duration) error {
	return nil
}
func (s *stubCache) Delete(_ context.Context, key string) error {
	s.deletes = append(s.deletes, key)
	return nil
}

type stubStorefront struct{}

func (stubStorefront) FetchCustomers(context.Context, string, string) ([]model.StorefrontCustomer, error) {
	return nil, nil
}

type stubOAuth struct{}

func (stubOAuth) ExchangeCode(context.Context, string, string) (string, error) {
	return "shpat_test", nil
}
func (stubOAuth) RegisterWebhooks(context.Context, string, string, string) error { return nil }

type stubPublisher struct{}

func (stubPublisher) Publish(context.Context, ...event.DomainEvent) error { return nil }

type fixture struct {
	server     *rest.Server
	jwtService *auth.JWTService
	cache      *stubCache
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	metrics := observability.NewMetrics()
	cache := &stubCache{}

	jwtService, err := auth.NewJWTService(auth.JWTConfig{Secret: "test-secret"})
	require.NoError(t, err)

	scorer := service.NewRiskScorer()
	enricher := service.NewEnricher(scorer, time.Now)
	list := usecase.NewListCustomersUseCase(
		stubCustomerRepo{}, stubIntegrationRepo{}, stubStorefront{}, cache,
		enricher, service.NewReconciler(), time.Minute, metrics, logger,
	)

	usecases := rest.UseCases{
		ListCustomers:   list,
		UploadCustomers: usecase.NewUploadCustomersUseCase(stubCustomerRepo{}, cache, stubPublisher{}, logger),
		ConnectStore:    usecase.NewConnectStoreUseCase(stubIntegrationRepo{}, stubOAuth{}, stubPublisher{}, "http://localhost/api/shopify/webhook", logger),
		DisconnectStore: usecase.NewDisconnectStoreUseCase(stubIntegrationRepo{}, cache, stubPublisher{}, logger),
		HandleWebhook: usecase.NewHandleWebhookUseCase(
			stubIntegrationRepo{}, realVerifier{}, cache, stubPublisher{}, metrics, logger,
		),
		CreateCampaign:  usecase.NewCreateCampaignUseCase(stubCampaignRepo{}, logger),
		ListCampaigns:   usecase.NewListCampaignsUseCase(stubCampaignRepo{}),
		PreviewAudience: usecase.NewPreviewAudienceUseCase(stubCampaignRepo{}, list, time.Now),
	}

	server := rest.NewServer(
		usecases,
		jwtService,
		metrics,
		func(shop, redirect string) string { return "https://" + shop + "/admin/oauth/authorize" },
		"http://localhost/api/shopify/callback",
		logger,
	)
	return fixture{server: server, jwtService: jwtService, cache: cache}
}

// realVerifier mirrors the production HMAC check so handler tests exercise
// genuine signatures.
type realVerifier struct{}

func (realVerifier) Verify(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func sign(body []byte) string {
	mac := hmac.New(sha256.New, []byte(webhookSecret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func (f fixture) token(t *testing.T) string {
	t.Helper()
	token, err := f.jwtService.GenerateToken("user-1", "org-1", []string{auth.RoleOwner})
	require.NoError(t, err)
	return token
}

func TestServer_Health(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestServer_Metrics(t *testing.T) {
	f := newFixture(t)
	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_AuthRequired(t *testing.T) {
	f := newFixture(t)
	router := f.server.Router()

	for _, path := range []string{"/api/customers", "/api/campaigns"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestServer_ListCustomers(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/customers", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t))

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Customers []model.EnrichedCustomer `json:"customers"`
		FromCache bool                     `json:"fromCache"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.FromCache)
}

func TestServer_UploadCustomers_BadPayload(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/customers/upload", bytes.NewReader([]byte(`{"customers": []}`)))
	req.Header.Set("Authorization", "Bearer "+f.token(t))

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Webhook_ValidSignature(t *testing.T) {
	f := newFixture(t)

	body := []byte(`{"id": 42}`)
	req := httptest.NewRequest(http.MethodPost, "/api/shopify/webhook", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Shop-Domain", "test.myshopify.com")
	req.Header.Set("X-Shopify-Topic", "orders/create")
	req.Header.Set("X-Shopify-Hmac-Sha256", sign(body))

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"customers:org-1"}, f.cache.deletes)
}

func TestServer_Webhook_InvalidSignature(t *testing.T) {
	f := newFixture(t)

	body := []byte(`{"id": 42}`)
	req := httptest.NewRequest(http.MethodPost, "/api/shopify/webhook", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Shop-Domain", "test.myshopify.com")
	req.Header.Set("X-Shopify-Topic", "orders/create")
	req.Header.Set("X-Shopify-Hmac-Sha256", "forged")

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.cache.deletes)
}

func TestServer_Webhook_UnknownShop(t *testing.T) {
	f := newFixture(t)

	body := []byte(`{}`)
	req := httptest.NewRequest(http.MethodPost, "/api/shopify/webhook", bytes.NewReader(body))
	req.Header.Set("X-Shopify-Shop-Domain", "stranger.myshopify.com")
	req.Header.Set("X-Shopify-Topic", "orders/create")
	req.Header.Set("X-Shopify-Hmac-Sha256", sign(body))

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ShopifyAuth(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/shopify/auth?shop=test.myshopify.com", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t))

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "test.myshopify.com")
}

func TestServer_CreateCampaign(t *testing.T) {
	f := newFixture(t)

	payload := `{"name": "Winback", "type": "WINBACK", "priority": "HIGH", "targetingRules": {"riskScoreRange": {"min": 60, "max": 100}}}`
	req := httptest.NewRequest(http.MethodPost, "/api/campaigns", bytes.NewReader([]byte(payload)))
	req.Header.Set("Authorization", "Bearer "+f.token(t))

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"DRAFT"`)
}

func TestServer_PreviewAudience_UnknownCampaign(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/campaigns/nope/audience", nil)
	req.Header.Set("Authorization", "Bearer "+f.token(t))

	rec := httptest.NewRecorder()
	f.server.Router().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
