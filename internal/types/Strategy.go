/*

This file contains the multi-step strategy types assembled by the strategist.
Steps are ordered and immutable once synthesized.

*/

package types

// StrategyStep is a single, ordered action inside a strategy. The engine only
// describes actions; execution is the caller's concern.
type StrategyStep struct {
	Order           int     `json:"order"`
	Action          string  `json:"action"` // e.g., "deposit", "bridge", "monitor"
	Protocol        string  `json:"protocol,omitempty"`
	ChainID         ChainID `json:"chain_id,omitempty"`
	EstimatedGasUSD float64 `json:"estimated_gas_usd"`
	ExpectedOutcome string  `json:"expected_outcome"`
}

// YieldStrategy is a named, multi-step plan built from recommendations and
// arbitrage results.
type YieldStrategy struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Description       string         `json:"description"`
	ExpectedAPY       float64        `json:"expected_apy"`
	RiskLevel         int            `json:"risk_level"`
	TimeHorizonDays   int            `json:"time_horizon_days"`
	Steps             []StrategyStep `json:"steps"`
	TotalGasCostUSD   float64        `json:"total_gas_cost_usd"`
	BreakEvenTimeDays float64        `json:"break_even_time_days"`
}
