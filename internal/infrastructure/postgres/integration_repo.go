package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anandMohanan/staybase/internal/domain/model"
	"github.com/anandMohanan/staybase/internal/domain/port"
)

// IntegrationRepo is the PostgreSQL implementation of IntegrationRepository.
type IntegrationRepo struct {
	pool *pgxpool.Pool
}

// NewIntegrationRepo creates a new IntegrationRepo.
func NewIntegrationRepo(pool *pgxpool.Pool) *IntegrationRepo {
	return &IntegrationRepo{pool: pool}
}

const integrationColumns = `
	id, organization_id, platform, access_token, shop_domain,
	status, webhook_secret, last_sync
`

// FindByOrganization retrieves the integration for an organization.
func (r *IntegrationRepo) FindByOrganization(ctx context.Context, organizationID string) (model.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE organization_id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, organizationID))
}

// FindByShopDomain retrieves the integration for a shop domain.
func (r *IntegrationRepo) FindByShopDomain(ctx context.Context, shopDomain string) (model.Integration, error) {
	query := `SELECT ` + integrationColumns + ` FROM integrations WHERE shop_domain = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, shopDomain))
}

// Save persists an integration, replacing any previous one for the same
// organization so reconnecting a store is an upsert.
func (r *IntegrationRepo) Save(ctx context.Context, integration model.Integration) error {
	query := `
		INSERT INTO integrations (
			id, organization_id, platform, access_token, shop_domain,
			status, webhook_secret, last_sync
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organization_id) DO UPDATE SET
			platform = EXCLUDED.platform,
			access_token = EXCLUDED.access_token,
			shop_domain = EXCLUDED.shop_domain,
			status = EXCLUDED.status,
			webhook_secret = EXCLUDED.webhook_secret,
			last_sync = EXCLUDED.last_sync
	`

	_, err := r.pool.Exec(ctx, query,
		integration.ID,
		integration.OrganizationID,
		integration.Platform,
		integration.AccessToken,
		integration.ShopDomain,
		integration.Status,
		integration.WebhookSecret,
		integration.LastSync,
	)
	if err != nil {
		return fmt.Errorf("save integration: %w", err)
	}
	return nil
}

// DeleteByOrganization removes the integration for an organization.
func (r *IntegrationRepo) DeleteByOrganization(ctx context.Context, organizationID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM integrations WHERE organization_id = $1`, organizationID)
	if err != nil {
		return fmt.Errorf("delete integration: %w", err)
	}
	return nil
}

func (r *IntegrationRepo) scanOne(row pgx.Row) (model.Integration, error) {
	var i model.Integration
	var status string
	err := row.Scan(
		&i.ID,
		&i.OrganizationID,
		&i.Platform,
		&i.AccessToken,
		&i.ShopDomain,
		&status,
		&i.WebhookSecret,
		&i.LastSync,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Integration{}, port.ErrNotFound
	}
	if err != nil {
		return model.Integration{}, fmt.Errorf("scan integration: %w", err)
	}
	i.Status = model.IntegrationStatus(status)
	return i, nil
}
