package shopify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// oauthScopes are the access scopes requested during the install flow.
var oauthScopes = []string{
	"read_customers",
	"write_customers",
	"read_orders",
	"write_orders",
	"read_products",
}

// webhookTopics are the subscriptions registered after a successful install.
// Each one mutates customer or order data and therefore stales the cached
// customer view.
var webhookTopics = []string{
	"customers/create",
	"customers/update",
	"customers/delete",
	"orders/create",
	"orders/updated",
	"orders/cancelled",
}

const webhookSubscriptionMutation = `
mutation webhookSubscriptionCreate($topic: WebhookSubscriptionTopic!, $webhookUrl: URL!) {
  webhookSubscriptionCreate(topic: $topic, webhookSubscription: {
    callbackUrl: $webhookUrl,
    format: JSON
  }) {
    webhookSubscription {
      id
    }
    userErrors {
      field
      message
    }
  }
}
`

// AuthorizeURL builds the shop's OAuth authorization URL the merchant is
// redirected to when connecting a store.
func (c *Client) AuthorizeURL(shopDomain, redirectURI string) string {
	params := url.Values{}
	params.Set("client_id", c.clientID)
	params.Set("scope", strings.Join(oauthScopes, ","))
	params.Set("redirect_uri", redirectURI)
	return c.shopURL(shopDomain, "/admin/oauth/authorize") + "?" + params.Encode()
}

// ExchangeCode swaps an OAuth authorization code for an access token.
func (c *Client) ExchangeCode(ctx context.Context, shopDomain, code string) (string, error) {
	payload, err := json.Marshal(map[string]string{
		"client_id":     c.clientID,
		"client_secret": c.clientSecret,
		"code":          code,
	})
	if err != nil {
		return "", fmt.Errorf("shopify: marshal token request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.shopURL(shopDomain, "/admin/oauth/access_token"), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("shopify: build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("shopify: exchange code: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("shopify: token exchange returned status %d", resp.StatusCode)
	}

	var body struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("shopify: decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("shopify: token exchange returned empty access token")
	}
	return body.AccessToken, nil
}

type webhookSubscriptionResponse struct {
	Data struct {
		WebhookSubscriptionCreate struct {
			UserErrors []struct {
				Message string `json:"message"`
			} `json:"userErrors"`
		} `json:"webhookSubscriptionCreate"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// RegisterWebhooks subscribes the app to every relevant topic. A failed topic
// is logged and skipped so one bad subscription does not block the rest; the
// last failure is returned for the caller to surface.
func (c *Client) RegisterWebhooks(ctx context.Context, shopDomain, accessToken, callbackURL string) error {
	var lastErr error
	for _, topic := range webhookTopics {
		req := graphQLRequest{
			Query: webhookSubscriptionMutation,
			Variables: map[string]any{
				"topic":      topicEnum(topic),
				"webhookUrl": callbackURL,
			},
		}

		var resp webhookSubscriptionResponse
		err := c.graphql(ctx, shopDomain, accessToken, req, &resp)
		if err == nil && len(resp.Errors) > 0 {
			err = fmt.Errorf("%w: %s", ErrQueryFailed, resp.Errors[0].Message)
		}
		if err == nil && len(resp.Data.WebhookSubscriptionCreate.UserErrors) > 0 {
			err = fmt.Errorf("shopify: webhook subscription rejected: %s",
				resp.Data.WebhookSubscriptionCreate.UserErrors[0].Message)
		}
		if err != nil {
			c.logger.Warn("failed to register webhook", "topic", topic, "shop_domain", shopDomain, "error", err)
			lastErr = err
		}
	}
	return lastErr
}

// topicEnum converts a "customers/create" style topic to the GraphQL enum
// form CUSTOMERS_CREATE.
func topicEnum(topic string) string {
	return strings.ToUpper(strings.NewReplacer("/", "_", "-", "_").Replace(topic))
}

// HMACVerifier validates webhook deliveries against the integration's secret.
type HMACVerifier struct{}

// NewHMACVerifier creates a new HMACVerifier.
func NewHMACVerifier() *HMACVerifier {
	return &HMACVerifier{}
}

// Verify reports whether signature is the base64 HMAC-SHA256 of body under
// secret. Comparison is constant-time.
func (v *HMACVerifier) Verify(secret string, body []byte, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
