/*

This file contains the portfolio-level risk assessment type. The assessment
is derived per optimization call and never persisted.

*/

package types

// RiskAssessment aggregates recommendation-level risk into portfolio-level
// metrics.
type RiskAssessment struct {
	OverallRisk          float64 `json:"overall_risk"`          // mean riskScore of recommended opportunities
	DiversificationScore float64 `json:"diversification_score"` // [0,1]
	LiquidityRisk        float64 `json:"liquidity_risk"`        // binary heuristic: 3 or 7
	// SmartContractRisk mirrors OverallRisk. A coarse proxy carried over
	// deliberately so observable behavior stays stable.
	SmartContractRisk float64  `json:"smart_contract_risk"`
	Recommendations   []string `json:"recommendations"` // free-text advisories
}
