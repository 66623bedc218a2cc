package service

import (
	"strings"

	"github.com/anandMohanan/staybase/internal/domain/model"
)

// Reconciler merges the database-sourced and Shopify-sourced customer views
// into one deduplicated list keyed by case-insensitive email.
type Reconciler struct{}

// NewReconciler creates a new Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// Merge combines the two lists. Database records seed the result; a Shopify
// record with a colliding email replaces the stored record's fields, except
// that each source may undercount the numeric view (stale uploads on one
// side, the 250-order query cap on the other), so the merge keeps the larger
// totalSpent and orderCount and the lower (more engaged) riskScore.
// Shopify-only customers are appended after all database customers, each list
// keeping its original relative order. Emails are treated as opaque strings;
// a malformed email simply never collides unless duplicated verbatim.
func (r *Reconciler) Merge(dbCustomers, shopifyCustomers []model.EnrichedCustomer) []model.EnrichedCustomer {
	index := make(map[string]int, len(dbCustomers))
	merged := make([]model.EnrichedCustomer, 0, len(dbCustomers)+len(shopifyCustomers))

	for _, c := range dbCustomers {
		key := strings.ToLower(c.Email)
		if i, ok := index[key]; ok {
			// Database emails are unique per organization; last write wins
			// if that assumption is ever violated upstream.
			merged[i] = c
			continue
		}
		index[key] = len(merged)
		merged = append(merged, c)
	}

	for _, sc := range shopifyCustomers {
		key := strings.ToLower(sc.Email)
		i, ok := index[key]
		if !ok {
			index[key] = len(merged)
			merged = append(merged, sc)
			continue
		}

		existing := merged[i]
		combined := sc
		if existing.TotalSpent.GreaterThan(combined.TotalSpent) {
			combined.TotalSpent = existing.TotalSpent
		}
		if existing.OrderCount > combined.OrderCount {
			combined.OrderCount = existing.OrderCount
		}
		if existing.RiskScore < combined.RiskScore {
			combined.RiskScore = existing.RiskScore
		}
		merged[i] = combined
	}

	return merged
}
