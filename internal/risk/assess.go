/*

This file contains the portfolio-level risk assessor. It aggregates
recommendation-level risk into diversification, liquidity, and smart
contract risk figures plus free-text advisories.

The assessment is derived, never persisted: it is recomputed on every
optimization call from that call's recommendations.

*/

package risk

import (
	"fmt"

	"github.com/defiscope/yoe/internal/types"
)

// Assess aggregates the recommendation set into a portfolio risk view.
//
// An empty recommendation set is a valid outcome and returns a fixed
// minimum-risk assessment with an explanatory note.
func Assess(recommendations []types.YieldRecommendation, riskTolerance int, params types.EngineParameters) types.RiskAssessment {
	if len(recommendations) == 0 {
		return types.RiskAssessment{
			OverallRisk:          1,
			DiversificationScore: 0,
			LiquidityRisk:        1,
			SmartContractRisk:    1,
			Recommendations: []string{
				"No opportunities currently meet your criteria; no capital at risk",
			},
		}
	}

	riskSum := 0
	protocols := make(map[string]struct{})
	longLock := false
	for _, rec := range recommendations {
		riskSum += rec.Opportunity.RiskScore
		protocols[rec.Opportunity.ProtocolName] = struct{}{}
		if rec.Opportunity.Requirements.LockPeriodDays > params.LongLockDays {
			longLock = true
		}
	}

	overallRisk := float64(riskSum) / float64(len(recommendations))

	diversification := float64(len(protocols)) / float64(params.DiversificationTarget)
	if diversification > 1 {
		diversification = 1
	}

	liquidityRisk := params.LiquidityRiskLow
	if longLock {
		liquidityRisk = params.LiquidityRiskHigh
	}

	advisories := make([]string, 0, 3)
	if diversification < 0.5 {
		advisories = append(advisories, fmt.Sprintf("Positions concentrate in %d protocol(s); spreading across more protocols would reduce correlated risk", len(protocols)))
	}
	if overallRisk > float64(riskTolerance) {
		advisories = append(advisories, fmt.Sprintf("Average opportunity risk %.1f exceeds your stated tolerance %d", overallRisk, riskTolerance))
	}
	if liquidityRisk > 5 {
		advisories = append(advisories, fmt.Sprintf("Some positions lock funds beyond %d days; keep a liquid reserve for withdrawals", params.LongLockDays))
	}

	return types.RiskAssessment{
		OverallRisk:          overallRisk,
		DiversificationScore: diversification,
		LiquidityRisk:        liquidityRisk,
		// The average doubles as the contract risk proxy; protocol-level
		// audit data is not granular enough yet to do better.
		SmartContractRisk: overallRisk,
		Recommendations:   advisories,
	}
}
