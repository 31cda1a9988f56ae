/*

This file contains the aggregate optimization result returned to callers,
plus the snapshot record optionally persisted through a ResultStore.

*/

package types

import "time"

// PortfolioOptimization is the single aggregate returned by one optimization
// call. Empty slices are a valid "nothing qualifies" state, not a failure.
type PortfolioOptimization struct {
	RequestID string    `json:"request_id"`
	ChainID   ChainID   `json:"chain_id"`
	Timestamp time.Time `json:"timestamp"`

	// CurrentYield is always 0 in the current scope: the engine has no
	// evidence about already-deployed capital.
	CurrentYield float64 `json:"current_yield"`
	// OptimizedYield is the value-weighted average APY across suggested
	// amounts, in percent.
	OptimizedYield float64 `json:"optimized_yield"`
	PotentialGain  float64 `json:"potential_gain"`

	Recommendations        []YieldRecommendation `json:"recommendations"`
	RiskAssessment         RiskAssessment        `json:"risk_assessment"`
	CrossChainOpportunities []CrossChainArbitrage `json:"cross_chain_opportunities"`
	YieldStrategies        []YieldStrategy       `json:"yield_strategies"`
}

// OptimizationSnapshot is the compact record of one optimization call for
// the optional history store.
type OptimizationSnapshot struct {
	SnapshotID          int64     `json:"snapshot_id,omitempty"` // assigned by the store
	RequestID           string    `json:"request_id"`
	ChainID             ChainID   `json:"chain_id"`
	Timestamp           time.Time `json:"timestamp"`
	RiskTolerance       int       `json:"risk_tolerance"`
	HoldingsValueUSD    float64   `json:"holdings_value_usd"`
	RecommendationCount int       `json:"recommendation_count"`
	ArbitrageCount      int       `json:"arbitrage_count"`
	StrategyCount       int       `json:"strategy_count"`
	OptimizedYield      float64   `json:"optimized_yield"`
	PotentialGain       float64   `json:"potential_gain"`
	OverallRisk         float64   `json:"overall_risk"`
}
