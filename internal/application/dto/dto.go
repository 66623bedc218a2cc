package dto

import (
	"time"

	"github.com/anandMohanan/staybase/internal/domain/model"
)

// ListCustomersRequest asks for the merged customer view of one organization.
type ListCustomersRequest struct {
	OrganizationID string
}

// ListCustomersResponse carries the merged, risk-scored customer list.
type ListCustomersResponse struct {
	Customers []model.EnrichedCustomer `json:"customers"`
	FromCache bool                     `json:"fromCache"`
}

// CustomerRow is one raw CSV upload row. Fields arrive as strings and are
// validated during the upload use case.
type CustomerRow struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	TotalOrders   string `json:"total_orders"`
	TotalSpent    string `json:"total_spent"`
	LastOrderDate string `json:"last_order_date"`
}

// UploadCustomersRequest carries a CSV batch for one organization.
type UploadCustomersRequest struct {
	OrganizationID string
	Rows           []CustomerRow
}

// UploadCustomersResponse reports how many rows were inserted.
type UploadCustomersResponse struct {
	Inserted int `json:"inserted"`
}

// ConnectStoreRequest completes the OAuth callback for a shop.
type ConnectStoreRequest struct {
	OrganizationID string
	ShopDomain     string
	Code           string
}

// ConnectStoreResponse describes the stored integration.
type ConnectStoreResponse struct {
	ShopDomain string `json:"shopDomain"`
	Status     string `json:"status"`
}

// DisconnectStoreRequest removes the integration for an organization.
type DisconnectStoreRequest struct {
	OrganizationID string
}

// WebhookRequest is an inbound storefront webhook delivery.
type WebhookRequest struct {
	ShopDomain string
	Topic      string
	Signature  string
	RawBody    []byte
}

// CreateCampaignRequest creates a campaign in DRAFT.
type CreateCampaignRequest struct {
	OrganizationID string
	Name           string               `json:"name"`
	Description    string               `json:"description"`
	Type           string               `json:"type"`
	Priority       string               `json:"priority"`
	TargetAudience string               `json:"targetAudience"`
	TargetingRules model.TargetingRules `json:"targetingRules"`
	StartDate      *time.Time           `json:"startDate"`
	EndDate        *time.Time           `json:"endDate"`
}

// CampaignResponse is the API view of a campaign.
type CampaignResponse struct {
	ID             string               `json:"id"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	Status         string               `json:"status"`
	Type           string               `json:"type"`
	Priority       string               `json:"priority"`
	TargetAudience string               `json:"targetAudience,omitempty"`
	TargetingRules model.TargetingRules `json:"targetingRules"`
	ReachCount     int                  `json:"reachCount"`
	StartDate      *time.Time           `json:"startDate"`
	EndDate        *time.Time           `json:"endDate"`
	CreatedAt      time.Time            `json:"createdAt"`
	UpdatedAt      time.Time            `json:"updatedAt"`
}

// NewCampaignResponse maps a campaign model to its API view.
func NewCampaignResponse(c model.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Status:         string(c.Status),
		Type:           string(c.Type),
		Priority:       string(c.Priority),
		TargetAudience: c.TargetAudience,
		TargetingRules: c.TargetingRules,
		ReachCount:     c.ReachCount,
		StartDate:      c.StartDate,
		EndDate:        c.EndDate,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// PreviewAudienceRequest resolves a campaign's current audience.
type PreviewAudienceRequest struct {
	OrganizationID string
	CampaignID     string
}

// PreviewAudienceResponse lists the customers a campaign would reach now.
type PreviewAudienceResponse struct {
	CampaignID string                   `json:"campaignId"`
	Size       int                      `json:"size"`
	Customers  []model.EnrichedCustomer `json:"customers"`
}
