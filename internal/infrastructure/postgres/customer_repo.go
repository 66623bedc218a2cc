package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anandMohanan/staybase/internal/domain/model"
	pkgpostgres "github.com/anandMohanan/staybase/pkg/postgres"
)

// CustomerRepo is the PostgreSQL implementation of CustomerRepository.
type CustomerRepo struct {
	pool *pgxpool.Pool
}

// NewCustomerRepo creates a new CustomerRepo.
func NewCustomerRepo(pool *pgxpool.Pool) *CustomerRepo {
	return &CustomerRepo{pool: pool}
}

// FindByOrganization retrieves all stored customers for an organization in
// upload order.
func (r *CustomerRepo) FindByOrganization(ctx context.Context, organizationID string) ([]model.StoredCustomer, error) {
	query := `
		SELECT id, customer_id, organization_id, name, email,
			total_orders, total_spent, last_order_date, created_at, updated_at
		FROM customers
		WHERE organization_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	defer rows.Close()

	var customers []model.StoredCustomer
	for rows.Next() {
		var c model.StoredCustomer
		if err := rows.Scan(
			&c.ID,
			&c.CustomerID,
			&c.OrganizationID,
			&c.Name,
			&c.Email,
			&c.TotalOrders,
			&c.TotalSpent,
			&c.LastOrderDate,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate customers: %w", err)
	}

	return customers, nil
}

// InsertBatch persists a batch of uploaded customers in one transaction so a
// partially bad batch never lands.
func (r *CustomerRepo) InsertBatch(ctx context.Context, customers []model.StoredCustomer) error {
	query := `
		INSERT INTO customers (
			id, customer_id, organization_id, name, email,
			total_orders, total_spent, last_order_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	return pkgpostgres.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, c := range customers {
			batch.Queue(query,
				c.ID,
				c.CustomerID,
				c.OrganizationID,
				c.Name,
				c.Email,
				c.TotalOrders,
				c.TotalSpent,
				c.LastOrderDate,
				c.CreatedAt,
				c.UpdatedAt,
			)
		}

		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range customers {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("insert customer: %w", err)
			}
		}
		return nil
	})
}
