package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CampaignStatus is the lifecycle state of a campaign.
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "DRAFT"
	CampaignScheduled CampaignStatus = "SCHEDULED"
	CampaignActive    CampaignStatus = "ACTIVE"
	CampaignPaused    CampaignStatus = "PAUSED"
	CampaignCompleted CampaignStatus = "COMPLETED"
	CampaignArchived  CampaignStatus = "ARCHIVED"
)

// CampaignType categorizes the retention play a campaign runs.
type CampaignType string

const (
	CampaignAbandonedCart CampaignType = "ABANDONED_CART"
	CampaignWinback       CampaignType = "WINBACK"
	CampaignReengagement  CampaignType = "REENGAGEMENT"
	CampaignLoyaltyReward CampaignType = "LOYALTY_REWARD"
	CampaignProductUpdate CampaignType = "PRODUCT_UPDATE"
	CampaignNewsletter    CampaignType = "NEWSLETTER"
)

// CampaignPriority orders campaigns when sending capacity is constrained.
type CampaignPriority string

const (
	PriorityUrgent CampaignPriority = "URGENT"
	PriorityHigh   CampaignPriority = "HIGH"
	PriorityMedium CampaignPriority = "MEDIUM"
	PriorityLow    CampaignPriority = "LOW"
)

// ScoreRange bounds an inclusive integer range, used for risk score targeting.
type ScoreRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// AmountRange bounds an inclusive currency range.
type AmountRange struct {
	Min decimal.Decimal `json:"min"`
	Max decimal.Decimal `json:"max"`
}

// DayRange bounds an inclusive range of days since last purchase.
type DayRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// TargetingRules select which customers a campaign reaches. Nil ranges do not
// constrain. Stored as JSONB alongside the campaign row.
type TargetingRules struct {
	LastPurchaseRange *DayRange    `json:"lastPurchaseRange"`
	TotalSpentRange   *AmountRange `json:"totalSpentRange"`
	RiskScoreRange    *ScoreRange  `json:"riskScoreRange"`
	Tags              []string     `json:"tags"`
}

// Matches reports whether the customer falls inside every configured range.
// Days since last purchase uses the no-order sentinel for customers without
// order history, so an open-ended stale range still captures them.
func (r TargetingRules) Matches(c EnrichedCustomer, now time.Time) bool {
	if r.RiskScoreRange != nil {
		if c.RiskScore < r.RiskScoreRange.Min || c.RiskScore > r.RiskScoreRange.Max {
			return false
		}
	}
	if r.TotalSpentRange != nil {
		if c.TotalSpent.LessThan(r.TotalSpentRange.Min) || c.TotalSpent.GreaterThan(r.TotalSpentRange.Max) {
			return false
		}
	}
	if r.LastPurchaseRange != nil {
		days := NoOrderSentinelDays
		if c.LastOrderDate != nil {
			days = int(now.Sub(*c.LastOrderDate) / (24 * time.Hour))
		}
		if days < r.LastPurchaseRange.Min || days > r.LastPurchaseRange.Max {
			return false
		}
	}
	return true
}

// Campaign is a retention campaign owned by one organization.
type Campaign struct {
	ID             string
	Name           string
	Description    string
	Status         CampaignStatus
	Type           CampaignType
	Priority       CampaignPriority
	OrganizationID string
	TargetAudience string
	TargetingRules TargetingRules
	ReachCount     int
	StartDate      *time.Time
	EndDate        *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

var validCampaignTypes = map[CampaignType]struct{}{
	CampaignAbandonedCart: {},
	CampaignWinback:       {},
	CampaignReengagement:  {},
	CampaignLoyaltyReward: {},
	CampaignProductUpdate: {},
	CampaignNewsletter:    {},
}

// ParseCampaignType validates a campaign type string.
func ParseCampaignType(s string) (CampaignType, error) {
	t := CampaignType(s)
	if _, ok := validCampaignTypes[t]; !ok {
		return "", fmt.Errorf("unknown campaign type %q", s)
	}
	return t, nil
}

var validPriorities = map[CampaignPriority]struct{}{
	PriorityUrgent: {},
	PriorityHigh:   {},
	PriorityMedium: {},
	PriorityLow:    {},
}

// ParseCampaignPriority validates a priority string. Empty defaults to MEDIUM.
func ParseCampaignPriority(s string) (CampaignPriority, error) {
	if s == "" {
		return PriorityMedium, nil
	}
	p := CampaignPriority(s)
	if _, ok := validPriorities[p]; !ok {
		return "", fmt.Errorf("unknown campaign priority %q", s)
	}
	return p, nil
}
