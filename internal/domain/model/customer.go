package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Source tags which upstream a customer record came from. The tag survives
// reconciliation so callers can tell which view won for the non-numeric fields.
type Source string

const (
	SourceShopify  Source = "shopify"
	SourceDatabase Source = "database"
)

// NoOrderSentinelDays is the days-since-last-order value assigned to customers
// with no order history. Treated as maximally stale by the risk scorer.
const NoOrderSentinelDays = 999

// Order is a single order summary carried on an enriched customer.
type Order struct {
	CreatedAt time.Time       `json:"createdAt"`
	Total     decimal.Decimal `json:"total"`
}

// EnrichedCustomer is the normalized customer shape exchanged between the
// enrichment and reconciliation stages and returned to API callers. Values are
// rebuilt from source data on every fetch; they are never persisted as such.
type EnrichedCustomer struct {
	ID            string          `json:"id"`
	FirstName     string          `json:"firstName,omitempty"`
	LastName      string          `json:"lastName,omitempty"`
	Email         string          `json:"email"`
	TotalSpent    decimal.Decimal `json:"totalSpent"`
	LastOrderDate *time.Time      `json:"lastOrderDate"`
	OrderCount    int             `json:"orderCount"`
	RiskScore     int             `json:"riskScore"`
	RecentOrders  []Order         `json:"recentOrders"`
	Source        Source          `json:"source"`
}

// OrderAggregate holds the per-customer order-history signals the risk scorer
// consumes. All fields are expected to be non-negative.
type OrderAggregate struct {
	DaysSinceLastOrder int
	OrderCount         int
	TotalSpent         decimal.Decimal
	AverageOrderValue  decimal.Decimal
}

// NewOrderAggregate builds an aggregate, deriving the average order value with
// a floor of one order so customers without orders do not divide by zero.
func NewOrderAggregate(daysSinceLastOrder, orderCount int, totalSpent decimal.Decimal) OrderAggregate {
	divisor := orderCount
	if divisor < 1 {
		divisor = 1
	}
	return OrderAggregate{
		DaysSinceLastOrder: daysSinceLastOrder,
		OrderCount:         orderCount,
		TotalSpent:         totalSpent,
		AverageOrderValue:  totalSpent.Div(decimal.NewFromInt(int64(divisor))),
	}
}

// StoredCustomer is a customer row as persisted by CSV upload. It carries only
// order summary columns, no per-order detail.
type StoredCustomer struct {
	ID             string
	CustomerID     string
	OrganizationID string
	Name           string
	Email          string
	TotalOrders    int
	TotalSpent     decimal.Decimal
	LastOrderDate  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// StorefrontCustomer is a customer as returned by the Shopify admin GraphQL
// query, already lifted out of its edge/node connection shape. OrderTotals
// holds every fetched order (the upstream query caps at 250, a documented
// precision boundary for customers with more lifetime orders).
type StorefrontCustomer struct {
	GID          string
	FirstName    string
	LastName     string
	Email        string
	OrderTotals  []decimal.Decimal
	LastOrder    *Order
	RecentOrders []Order
}
