package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anandMohanan/staybase/internal/domain/model"
	"github.com/anandMohanan/staybase/internal/domain/port"
)

// CampaignRepo is the PostgreSQL implementation of CampaignRepository.
type CampaignRepo struct {
	pool *pgxpool.Pool
}

// NewCampaignRepo creates a new CampaignRepo.
func NewCampaignRepo(pool *pgxpool.Pool) *CampaignRepo {
	return &CampaignRepo{pool: pool}
}

// Save persists a campaign. Uses upsert to handle both create and update.
func (r *CampaignRepo) Save(ctx context.Context, campaign model.Campaign) error {
	rulesJSON, err := json.Marshal(campaign.TargetingRules)
	if err != nil {
		return fmt.Errorf("marshal targeting rules: %w", err)
	}

	query := `
		INSERT INTO campaigns (
			id, name, description, status, type, priority, organization_id,
			target_audience, targeting_rules, reach_count,
			start_date, end_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			status = EXCLUDED.status,
			type = EXCLUDED.type,
			priority = EXCLUDED.priority,
			target_audience = EXCLUDED.target_audience,
			targeting_rules = EXCLUDED.targeting_rules,
			reach_count = EXCLUDED.reach_count,
			start_date = EXCLUDED.start_date,
			end_date = EXCLUDED.end_date,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.pool.Exec(ctx, query,
		campaign.ID,
		campaign.Name,
		campaign.Description,
		campaign.Status,
		campaign.Type,
		campaign.Priority,
		campaign.OrganizationID,
		campaign.TargetAudience,
		rulesJSON,
		campaign.ReachCount,
		campaign.StartDate,
		campaign.EndDate,
		campaign.CreatedAt,
		campaign.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save campaign: %w", err)
	}
	return nil
}

const campaignColumns = `
	id, name, description, status, type, priority, organization_id,
	target_audience, targeting_rules, reach_count,
	start_date, end_date, created_at, updated_at
`

// FindByID retrieves a campaign by id.
func (r *CampaignRepo) FindByID(ctx context.Context, id string) (model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	return scanCampaign(r.pool.QueryRow(ctx, query, id))
}

// FindByOrganization retrieves all campaigns for an organization, newest
// first.
func (r *CampaignRepo) FindByOrganization(ctx context.Context, organizationID string) ([]model.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE organization_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("query campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []model.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate campaigns: %w", err)
	}
	return campaigns, nil
}

func scanCampaign(row pgx.Row) (model.Campaign, error) {
	var c model.Campaign
	var status, campaignType, priority string
	var rulesJSON []byte

	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Description,
		&status,
		&campaignType,
		&priority,
		&c.OrganizationID,
		&c.TargetAudience,
		&rulesJSON,
		&c.ReachCount,
		&c.StartDate,
		&c.EndDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Campaign{}, port.ErrNotFound
	}
	if err != nil {
		return model.Campaign{}, fmt.Errorf("scan campaign: %w", err)
	}

	c.Status = model.CampaignStatus(status)
	c.Type = model.CampaignType(campaignType)
	c.Priority = model.CampaignPriority(priority)
	if len(rulesJSON) > 0 {
		if err := json.Unmarshal(rulesJSON, &c.TargetingRules); err != nil {
			return model.Campaign{}, fmt.Errorf("unmarshal targeting rules: %w", err)
		}
	}
	return c, nil
}
