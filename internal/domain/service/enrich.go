package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/anandMohanan/staybase/internal/domain/model"
)

// Enricher projects raw customer records from either source into the common
// EnrichedCustomer shape, recomputing the risk score on every projection. The
// score is never trusted from upstream data.
type Enricher struct {
	scorer *RiskScorer
	now    func() time.Time
}

// NewEnricher creates an Enricher. The clock is injectable so enrichment of
// fixed fixtures stays deterministic in tests; pass time.Now in production.
func NewEnricher(scorer *RiskScorer, now func() time.Time) *Enricher {
	return &Enricher{scorer: scorer, now: now}
}

// FromStoreRecord normalizes a persisted customer row. Uploaded rows carry a
// single combined name and no per-order breakdown, so the name is split on
// the first space and recent orders are left empty.
func (e *Enricher) FromStoreRecord(rec model.StoredCustomer) model.EnrichedCustomer {
	firstName, lastName := splitName(rec.Name)
	days := daysSince(rec.LastOrderDate, e.now())
	agg := model.NewOrderAggregate(days, rec.TotalOrders, rec.TotalSpent)

	return model.EnrichedCustomer{
		ID:            rec.CustomerID,
		FirstName:     firstName,
		LastName:      lastName,
		Email:         rec.Email,
		TotalSpent:    rec.TotalSpent,
		LastOrderDate: rec.LastOrderDate,
		OrderCount:    rec.TotalOrders,
		RiskScore:     e.scorer.Score(agg),
		RecentOrders:  []model.Order{},
		Source:        model.SourceDatabase,
	}
}

// FromStorefrontCustomer normalizes a live Shopify query result. Total spend
// and order count are computed over every fetched order; the upstream query
// caps at 250 orders, so both undercount for larger customers and the merge
// step compensates by taking the max across sources.
func (e *Enricher) FromStorefrontCustomer(sc model.StorefrontCustomer) model.EnrichedCustomer {
	totalSpent := decimal.Zero
	for _, t := range sc.OrderTotals {
		totalSpent = totalSpent.Add(t)
	}
	orderCount := len(sc.OrderTotals)

	var lastOrderDate *time.Time
	if sc.LastOrder != nil {
		d := sc.LastOrder.CreatedAt
		lastOrderDate = &d
	}
	days := daysSince(lastOrderDate, e.now())
	agg := model.NewOrderAggregate(days, orderCount, totalSpent)

	recentOrders := sc.RecentOrders
	if recentOrders == nil {
		recentOrders = []model.Order{}
	}

	return model.EnrichedCustomer{
		ID:            customerIDFromGID(sc.GID),
		FirstName:     sc.FirstName,
		LastName:      sc.LastName,
		Email:         sc.Email,
		TotalSpent:    totalSpent,
		LastOrderDate: lastOrderDate,
		OrderCount:    orderCount,
		RiskScore:     e.scorer.Score(agg),
		RecentOrders:  recentOrders,
		Source:        model.SourceShopify,
	}
}

// splitName divides a combined name on the first space. A single-word name
// yields an empty last name.
func splitName(name string) (first, last string) {
	first, last, _ = strings.Cut(name, " ")
	return first, last
}

// daysSince returns whole days elapsed since t, or the no-order sentinel when
// t is nil.
func daysSince(t *time.Time, now time.Time) int {
	if t == nil {
		return model.NoOrderSentinelDays
	}
	return int(now.Sub(*t) / (24 * time.Hour))
}

// customerIDFromGID extracts the trailing numeric segment of a Shopify global
// id such as "gid://shopify/Customer/1234567890".
func customerIDFromGID(gid string) string {
	if i := strings.LastIndex(gid, "/"); i >= 0 {
		return gid[i+1:]
	}
	return gid
}
