package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anandMohanan/staybase/internal/domain/model"
)

const apiVersion = "2024-10"

// ErrQueryFailed is returned when the admin API answers with a GraphQL error
// envelope. No partial results are surfaced past it.
var ErrQueryFailed = errors.New("shopify: graphql query failed")

// customersQuery fetches up to 50 customers. Per customer it pulls three
// order connections: the first 250 orders for spend/count aggregation (a
// deliberate cap, so both undercount for larger customers), the single most
// recent order for recency, and the 10 most recent for the detail view.
const customersQuery = `
query GetCustomers {
  customers(first: 50) {
    edges {
      node {
        id
        firstName
        lastName
        email
        allOrders: orders(first: 250) {
          edges {
            node {
              totalPriceSet {
                shopMoney {
                  amount
                }
              }
            }
          }
        }
        lastOrder: orders(first: 1, reverse: true) {
          edges {
            node {
              createdAt
              totalPriceSet {
                shopMoney {
                  amount
                }
              }
            }
          }
        }
        recentOrders: orders(first: 10) {
          edges {
            node {
              createdAt
              totalPriceSet {
                shopMoney {
                  amount
                }
              }
            }
          }
        }
      }
    }
  }
}
`

// Client talks to the Shopify admin GraphQL API for connected shops.
type Client struct {
	httpClient   *http.Client
	clientID     string
	clientSecret string
	baseURL      string // test override; empty means https://{shop}
	logger       *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the per-shop base URL, used to point the client at a
// test server.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Client with the app's OAuth credentials.
func NewClient(clientID, clientSecret string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		clientID:     clientID,
		clientSecret: clientSecret,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) shopURL(shopDomain, path string) string {
	if c.baseURL != "" {
		return c.baseURL + path
	}
	return "https://" + shopDomain + path
}

type graphQLRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphQLError struct {
	Message string `json:"message"`
}

type orderNode struct {
	CreatedAt     time.Time `json:"createdAt"`
	TotalPriceSet struct {
		ShopMoney struct {
			Amount decimal.Decimal `json:"amount"`
		} `json:"shopMoney"`
	} `json:"totalPriceSet"`
}

type orderConnection struct {
	Edges []struct {
		Node orderNode `json:"node"`
	} `json:"edges"`
}

type customerNode struct {
	ID           string          `json:"id"`
	FirstName    string          `json:"firstName"`
	LastName     string          `json:"lastName"`
	Email        string          `json:"email"`
	AllOrders    orderConnection `json:"allOrders"`
	LastOrder    orderConnection `json:"lastOrder"`
	RecentOrders orderConnection `json:"recentOrders"`
}

type customersResponse struct {
	Data struct {
		Customers struct {
			Edges []struct {
				Node customerNode `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	} `json:"data"`
	Errors []graphQLError `json:"errors"`
}

// FetchCustomers runs the customers query against a shop and lifts the
// edge/node connection shape into StorefrontCustomer values.
func (c *Client) FetchCustomers(ctx context.Context, shopDomain, accessToken string) ([]model.StorefrontCustomer, error) {
	var resp customersResponse
	if err := c.graphql(ctx, shopDomain, accessToken, graphQLRequest{Query: customersQuery}, &resp); err != nil {
		return nil, err
	}

	if len(resp.Errors) > 0 {
		c.logger.Error("customers query returned errors", "shop_domain", shopDomain, "first_error", resp.Errors[0].Message)
		return nil, fmt.Errorf("%w: %s", ErrQueryFailed, resp.Errors[0].Message)
	}

	customers := make([]model.StorefrontCustomer, 0, len(resp.Data.Customers.Edges))
	for _, edge := range resp.Data.Customers.Edges {
		customers = append(customers, mapCustomerNode(edge.Node))
	}
	return customers, nil
}

func mapCustomerNode(node customerNode) model.StorefrontCustomer {
	totals := make([]decimal.Decimal, 0, len(node.AllOrders.Edges))
	for _, e := range node.AllOrders.Edges {
		totals = append(totals, e.Node.TotalPriceSet.ShopMoney.Amount)
	}

	var lastOrder *model.Order
	if len(node.LastOrder.Edges) > 0 {
		n := node.LastOrder.Edges[0].Node
		lastOrder = &model.Order{CreatedAt: n.CreatedAt, Total: n.TotalPriceSet.ShopMoney.Amount}
	}

	recent := make([]model.Order, 0, len(node.RecentOrders.Edges))
	for _, e := range node.RecentOrders.Edges {
		recent = append(recent, model.Order{
			CreatedAt: e.Node.CreatedAt,
			Total:     e.Node.TotalPriceSet.ShopMoney.Amount,
		})
	}

	return model.StorefrontCustomer{
		GID:          node.ID,
		FirstName:    node.FirstName,
		LastName:     node.LastName,
		Email:        node.Email,
		OrderTotals:  totals,
		LastOrder:    lastOrder,
		RecentOrders: recent,
	}
}

// graphql posts one GraphQL request to the shop's admin endpoint.
func (c *Client) graphql(ctx context.Context, shopDomain, accessToken string, reqBody graphQLRequest, out any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("shopify: marshal request: %w", err)
	}

	url := c.shopURL(shopDomain, "/admin/api/"+apiVersion+"/graphql.json")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("shopify: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("shopify: execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: unexpected status %d", ErrQueryFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("shopify: decode response: %w", err)
	}
	return nil
}
