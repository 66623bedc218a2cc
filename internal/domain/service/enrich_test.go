package service_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/anandMohanan/staybase/internal/domain/model"
	"github.com/anandMohanan/staybase/internal/domain/service"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newEnricher() *service.Enricher {
	return service.NewEnricher(service.NewRiskScorer(), func() time.Time { return fixedNow })
}

func TestEnricher_FromStoreRecord(t *testing.T) {
	lastOrder := fixedNow.AddDate(0, 0, -30)
	rec := model.StoredCustomer{
		CustomerID:    "c-123",
		Name:          "Jamie van der Berg",
		Email:         "jamie@example.com",
		TotalOrders:   4,
		TotalSpent:    decimal.NewFromFloat(320.50),
		LastOrderDate: &lastOrder,
	}

	got := newEnricher().FromStoreRecord(rec)

	assert.Equal(t, "c-123", got.ID)
	assert.Equal(t, "Jamie", got.FirstName)
	assert.Equal(t, "van der Berg", got.LastName)
	assert.Equal(t, "jamie@example.com", got.Email)
	assert.Equal(t, 4, got.OrderCount)
	assert.True(t, got.TotalSpent.Equal(decimal.NewFromFloat(320.50)))
	assert.Equal(t, model.SourceDatabase, got.Source)

	// Stored rows carry no per-order detail, but the field stays non-nil so it
	// serializes as an empty array.
	assert.NotNil(t, got.RecentOrders)
	assert.Empty(t, got.RecentOrders)
}

func TestEnricher_FromStoreRecord_SingleWordName(t *testing.T) {
	got := newEnricher().FromStoreRecord(model.StoredCustomer{
		Name:  "Cher",
		Email: "cher@example.com",
	})

	assert.Equal(t, "Cher", got.FirstName)
	assert.Empty(t, got.LastName)
}

func TestEnricher_FromStoreRecord_NoOrdersIsMaximalRisk(t *testing.T) {
	got := newEnricher().FromStoreRecord(model.StoredCustomer{
		Name:  "No Orders",
		Email: "none@example.com",
	})

	assert.Nil(t, got.LastOrderDate)
	assert.Equal(t, 100, got.RiskScore)
}

func TestEnricher_FromStorefrontCustomer(t *testing.T) {
	lastOrderAt := fixedNow.AddDate(0, 0, -10)
	sc := model.StorefrontCustomer{
		GID:       "gid://shopify/Customer/7453210998",
		FirstName: "Ada",
		LastName:  "Osei",
		Email:     "ada@example.com",
		OrderTotals: []decimal.Decimal{
			decimal.NewFromFloat(100.25),
			decimal.NewFromFloat(49.75),
			decimal.NewFromInt(250),
		},
		LastOrder: &model.Order{CreatedAt: lastOrderAt, Total: decimal.NewFromInt(250)},
		RecentOrders: []model.Order{
			{CreatedAt: lastOrderAt, Total: decimal.NewFromInt(250)},
		},
	}

	got := newEnricher().FromStorefrontCustomer(sc)

	assert.Equal(t, "7453210998", got.ID)
	assert.Equal(t, "Ada", got.FirstName)
	assert.True(t, got.TotalSpent.Equal(decimal.NewFromFloat(400)))
	assert.Equal(t, 3, got.OrderCount)
	assert.Equal(t, lastOrderAt, *got.LastOrderDate)
	assert.Len(t, got.RecentOrders, 1)
	assert.Equal(t, model.SourceShopify, got.Source)
}

func TestEnricher_FromStorefrontCustomer_NoOrders(t *testing.T) {
	got := newEnricher().FromStorefrontCustomer(model.StorefrontCustomer{
		GID:   "gid://shopify/Customer/1",
		Email: "new@example.com",
	})

	assert.Nil(t, got.LastOrderDate)
	assert.True(t, got.TotalSpent.IsZero())
	assert.Equal(t, 0, got.OrderCount)
	assert.Equal(t, 100, got.RiskScore)
	assert.NotNil(t, got.RecentOrders)
	assert.Empty(t, got.RecentOrders)
}

func TestEnricher_PartialDaysFloor(t *testing.T) {
	// 29.5 days ago floors to 29 whole days.
	lastOrder := fixedNow.Add(-29*24*time.Hour - 12*time.Hour)
	got := newEnricher().FromStoreRecord(model.StoredCustomer{
		Name:          "Floor Check",
		Email:         "floor@example.com",
		TotalOrders:   10,
		TotalSpent:    decimal.NewFromInt(5000),
		LastOrderDate: &lastOrder,
	})

	// Only the time factor contributes: 29/90 * 40 = 12.888 -> 13.
	assert.Equal(t, 13, got.RiskScore)
}
