package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/anandMohanan/staybase/internal/application/dto"
	"github.com/anandMohanan/staybase/internal/domain/event"
	"github.com/anandMohanan/staybase/internal/domain/model"
	"github.com/anandMohanan/staybase/internal/domain/port"
)

// UploadCustomersUseCase validates and persists a CSV batch of customer
// summaries, then invalidates the organization's cached merged view so the
// next list rebuilds with the new rows.
type UploadCustomersUseCase struct {
	customers port.CustomerRepository
	cache     port.CustomerCache
	publisher port.EventPublisher
	logger    *slog.Logger
}

// NewUploadCustomersUseCase creates a new UploadCustomersUseCase.
func NewUploadCustomersUseCase(
	customers port.CustomerRepository,
	cache port.CustomerCache,
	publisher port.EventPublisher,
	logger *slog.Logger,
) *UploadCustomersUseCase {
	return &UploadCustomersUseCase{
		customers: customers,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
	}
}

// Execute validates every row before inserting any. Validation errors name
// the offending customer's email so operators can fix the CSV.
func (uc *UploadCustomersUseCase) Execute(ctx context.Context, req dto.UploadCustomersRequest) (dto.UploadCustomersResponse, error) {
	if len(req.Rows) == 0 {
		return dto.UploadCustomersResponse{}, fmt.Errorf("no customer rows to upload")
	}

	now := time.Now().UTC()
	customers := make([]model.StoredCustomer, 0, len(req.Rows))
	for _, row := range req.Rows {
		customer, err := parseCustomerRow(row, req.OrganizationID, now)
		if err != nil {
			return dto.UploadCustomersResponse{}, err
		}
		customers = append(customers, customer)
	}

	if err := uc.customers.InsertBatch(ctx, customers); err != nil {
		return dto.UploadCustomersResponse{}, fmt.Errorf("insert customers: %w", err)
	}

	if err := uc.cache.Delete(ctx, CustomerCacheKey(req.OrganizationID)); err != nil {
		uc.logger.Warn("customer cache invalidation failed", "organization_id", req.OrganizationID, "error", err)
	}

	if err := uc.publisher.Publish(ctx, event.NewCustomersUploaded(req.OrganizationID, len(customers))); err != nil {
		uc.logger.Warn("failed to publish upload event", "organization_id", req.OrganizationID, "error", err)
	}

	uc.logger.Info("customers uploaded", "organization_id", req.OrganizationID, "count", len(customers))

	return dto.UploadCustomersResponse{Inserted: len(customers)}, nil
}

func parseCustomerRow(row dto.CustomerRow, organizationID string, now time.Time) (model.StoredCustomer, error) {
	if row.Email == "" {
		return model.StoredCustomer{}, fmt.Errorf("customer row missing email")
	}
	if row.Name == "" {
		return model.StoredCustomer{}, fmt.Errorf("customer %s missing name", row.Email)
	}

	totalOrders, err := strconv.Atoi(row.TotalOrders)
	if err != nil || totalOrders < 0 {
		return model.StoredCustomer{}, fmt.Errorf("invalid total_orders for customer %s", row.Email)
	}

	totalSpent, err := decimal.NewFromString(row.TotalSpent)
	if err != nil || totalSpent.IsNegative() {
		return model.StoredCustomer{}, fmt.Errorf("invalid total_spent for customer %s", row.Email)
	}

	lastOrderDate, err := parseOrderDate(row.LastOrderDate)
	if err != nil {
		return model.StoredCustomer{}, fmt.Errorf("invalid last_order_date for customer %s", row.Email)
	}

	return model.StoredCustomer{
		ID:             uuid.New().String(),
		CustomerID:     uuid.New().String(),
		OrganizationID: organizationID,
		Name:           row.Name,
		Email:          row.Email,
		TotalOrders:    totalOrders,
		TotalSpent:     totalSpent,
		LastOrderDate:  lastOrderDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

// parseOrderDate accepts RFC 3339 timestamps and bare dates, the two formats
// spreadsheet exports actually produce. An empty value means no orders yet.
func parseOrderDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t, nil
		}
	}
	return nil, fmt.Errorf("unrecognized date %q", s)
}
