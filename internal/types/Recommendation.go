/*

This file contains the per-holding recommendation type produced by the
optimizer. Recommendations are created fresh per optimization call and never
persisted by the engine itself.

*/

package types

// Priority classifies how urgently a recommendation should be surfaced.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// priorityRank orders priorities for sorting; higher is more urgent.
var priorityRank = map[Priority]int{
	PriorityLow:      0,
	PriorityMedium:   1,
	PriorityHigh:     2,
	PriorityCritical: 3,
}

// Rank returns the sortable rank of the priority (unknown values rank lowest).
func (p Priority) Rank() int {
	return priorityRank[p]
}

// YieldRecommendation pairs one holding with its single best-scoring
// opportunity and the sized position.
type YieldRecommendation struct {
	Opportunity     YieldOpportunity `json:"opportunity"`
	HoldingSymbol   string           `json:"holding_symbol"`
	SuggestedAmount float64          `json:"suggested_amount"` // USD
	ExpectedReturn  float64          `json:"expected_return"`  // USD over the timeframe
	TimeframeDays   int              `json:"timeframe_days"`
	Confidence      float64          `json:"confidence"` // [0,1]
	Priority        Priority         `json:"priority"`
	Reasoning       []string         `json:"reasoning"`
	Actions         []string         `json:"actions"`
}
