package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anandMohanan/staybase/internal/application/dto"
	"github.com/anandMohanan/staybase/internal/domain/model"
	"github.com/anandMohanan/staybase/internal/domain/port"
)

// CreateCampaignUseCase creates a retention campaign in DRAFT.
type CreateCampaignUseCase struct {
	campaigns port.CampaignRepository
	logger    *slog.Logger
}

// NewCreateCampaignUseCase creates a new CreateCampaignUseCase.
func NewCreateCampaignUseCase(campaigns port.CampaignRepository, logger *slog.Logger) *CreateCampaignUseCase {
	return &CreateCampaignUseCase{campaigns: campaigns, logger: logger}
}

// Execute validates and persists the campaign.
func (uc *CreateCampaignUseCase) Execute(ctx context.Context, req dto.CreateCampaignRequest) (dto.CampaignResponse, error) {
	if req.Name == "" {
		return dto.CampaignResponse{}, fmt.Errorf("campaign name is required")
	}

	campaignType, err := model.ParseCampaignType(req.Type)
	if err != nil {
		return dto.CampaignResponse{}, fmt.Errorf("invalid campaign type: %w", err)
	}
	priority, err := model.ParseCampaignPriority(req.Priority)
	if err != nil {
		return dto.CampaignResponse{}, fmt.Errorf("invalid campaign priority: %w", err)
	}
	if r := req.TargetingRules.RiskScoreRange; r != nil {
		if r.Min < 0 || r.Max > 100 || r.Min > r.Max {
			return dto.CampaignResponse{}, fmt.Errorf("risk score range must satisfy 0 <= min <= max <= 100")
		}
	}

	now := time.Now().UTC()
	campaign := model.Campaign{
		ID:             uuid.New().String(),
		Name:           req.Name,
		Description:    req.Description,
		Status:         model.CampaignDraft,
		Type:           campaignType,
		Priority:       priority,
		OrganizationID: req.OrganizationID,
		TargetAudience: req.TargetAudience,
		TargetingRules: req.TargetingRules,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := uc.campaigns.Save(ctx, campaign); err != nil {
		return dto.CampaignResponse{}, fmt.Errorf("save campaign: %w", err)
	}

	uc.logger.Info("campaign created", "organization_id", req.OrganizationID, "campaign_id", campaign.ID, "type", campaignType)
	return dto.NewCampaignResponse(campaign), nil
}

// ListCampaignsUseCase lists an organization's campaigns.
type ListCampaignsUseCase struct {
	campaigns port.CampaignRepository
}

// NewListCampaignsUseCase creates a new ListCampaignsUseCase.
func NewListCampaignsUseCase(campaigns port.CampaignRepository) *ListCampaignsUseCase {
	return &ListCampaignsUseCase{campaigns: campaigns}
}

// Execute returns every campaign owned by the organization.
func (uc *ListCampaignsUseCase) Execute(ctx context.Context, organizationID string) ([]dto.CampaignResponse, error) {
	campaigns, err := uc.campaigns.FindByOrganization(ctx, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}

	out := make([]dto.CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, dto.NewCampaignResponse(c))
	}
	return out, nil
}

// PreviewAudienceUseCase resolves the customers a campaign's targeting rules
// select right now, by running the merged customer pipeline and filtering.
type PreviewAudienceUseCase struct {
	campaigns port.CampaignRepository
	list      *ListCustomersUseCase
	now       func() time.Time
}

// NewPreviewAudienceUseCase creates a new PreviewAudienceUseCase.
func NewPreviewAudienceUseCase(campaigns port.CampaignRepository, list *ListCustomersUseCase, now func() time.Time) *PreviewAudienceUseCase {
	return &PreviewAudienceUseCase{campaigns: campaigns, list: list, now: now}
}

// Execute returns the campaign's current audience. Campaigns belonging to a
// different organization are reported as not found rather than leaked.
func (uc *PreviewAudienceUseCase) Execute(ctx context.Context, req dto.PreviewAudienceRequest) (dto.PreviewAudienceResponse, error) {
	campaign, err := uc.campaigns.FindByID(ctx, req.CampaignID)
	if err != nil {
		return dto.PreviewAudienceResponse{}, fmt.Errorf("fetch campaign: %w", err)
	}
	if campaign.OrganizationID != req.OrganizationID {
		return dto.PreviewAudienceResponse{}, fmt.Errorf("fetch campaign: %w", port.ErrNotFound)
	}

	listResp, err := uc.list.Execute(ctx, dto.ListCustomersRequest{OrganizationID: req.OrganizationID})
	if err != nil {
		return dto.PreviewAudienceResponse{}, err
	}

	now := uc.now()
	audience := make([]model.EnrichedCustomer, 0, len(listResp.Customers))
	for _, c := range listResp.Customers {
		if campaign.TargetingRules.Matches(c, now) {
			audience = append(audience, c)
		}
	}

	return dto.PreviewAudienceResponse{
		CampaignID: campaign.ID,
		Size:       len(audience),
		Customers:  audience,
	}, nil
}
