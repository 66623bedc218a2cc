package shopify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anandMohanan/staybase/internal/infrastructure/shopify"
)

func TestClient_RegisterWebhooks(t *testing.T) {
	var topics []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Variables struct {
				Topic      string `json:"topic"`
				WebhookURL string `json:"webhookUrl"`
			} `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		topics = append(topics, body.Variables.Topic)
		assert.Equal(t, "https://app.staybase.io/api/shopify/webhook", body.Variables.WebhookURL)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"webhookSubscriptionCreate": {"webhookSubscription": {"id": "gid://shopify/WebhookSubscription/1"}, "userErrors": []}}}`))
	}))
	defer srv.Close()

	client := shopify.NewClient("id", "secret", testLogger(), shopify.WithBaseURL(srv.URL))
	err := client.RegisterWebhooks(context.Background(), "test.myshopify.com", "shpat_test",
		"https://app.staybase.io/api/shopify/webhook")

	require.NoError(t, err)
	assert.Equal(t, []string{
		"CUSTOMERS_CREATE", "CUSTOMERS_UPDATE", "CUSTOMERS_DELETE",
		"ORDERS_CREATE", "ORDERS_UPDATED", "ORDERS_CANCELLED",
	}, topics)
}

func TestClient_RegisterWebhooks_UserErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data": {"webhookSubscriptionCreate": {"userErrors": [{"field": "topic", "message": "address not allowed"}]}}}`))
	}))
	defer srv.Close()

	client := shopify.NewClient("id", "secret", testLogger(), shopify.WithBaseURL(srv.URL))
	err := client.RegisterWebhooks(context.Background(), "test.myshopify.com", "shpat_test", "http://localhost/hook")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "address not allowed")
}
