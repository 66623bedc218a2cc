package service

import (
	"math"

	"github.com/anandMohanan/staybase/internal/domain/model"
)

// Weights and saturation points for the three risk factors. A customer
// inactive for recencyHorizonDays or more takes the full time weight; lifetime
// spend of valueSaturation or more zeroes the value factor; frequencySaturation
// orders zero the frequency factor. The weights sum to 100 so the score is
// bounded without a final clamp.
const (
	recencyHorizonDays  = 90.0
	valueSaturation     = 5000.0
	frequencySaturation = 10.0

	timeWeight      = 40.0
	valueWeight     = 30.0
	frequencyWeight = 30.0
)

// RiskScorer converts a customer's order-history aggregate into a churn risk
// score in [0,100]. Higher means more likely to disengage. It is a linear
// model kept deliberately simple so a score is always explainable: 40% of the
// weight is recency, 30% lifetime value, 30% order frequency.
type RiskScorer struct{}

// NewRiskScorer creates a new RiskScorer.
func NewRiskScorer() *RiskScorer {
	return &RiskScorer{}
}

// Score computes the risk score for one aggregate. Each factor is clamped
// before weighting so no single signal can push past its weight; the rounded
// sum is therefore always in [0,100]. Pure and deterministic, so scores are
// safely recomputed on every cache miss. Inputs are assumed non-negative;
// callers map missing order history to the no-order sentinel upstream.
func (s *RiskScorer) Score(agg model.OrderAggregate) int {
	totalSpent := agg.TotalSpent.InexactFloat64()

	timeFactor := math.Min(float64(agg.DaysSinceLastOrder)/recencyHorizonDays, 1) * timeWeight
	valueFactor := math.Max(1-totalSpent/valueSaturation, 0) * valueWeight
	frequencyFactor := math.Max(1-float64(agg.OrderCount)/frequencySaturation, 0) * frequencyWeight

	return int(math.Round(timeFactor + valueFactor + frequencyFactor))
}
