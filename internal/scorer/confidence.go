/*

This file contains the confidence score for a single opportunity.

The function is pure and exact: the same opportunity always produces the
identical value, and tests pin the arithmetic. Any change to the formula is
an observable behavior change for every caller.

*/

package scorer

import (
	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/types"
	"github.com/defiscope/yoe/internal/utils"
)

// Confidence computes the [0,1] confidence for one opportunity.
//
// Additive from a base of ConfidenceBase:
//   - TVL bucket bonus: TVLBonusLarge above the large threshold, else
//     TVLBonusMedium above the medium threshold, else nothing.
//   - Risk bonus: (10 - riskScore) * RiskBonusStep, so safer opportunities
//     score strictly higher, all else equal.
//   - Reputation bonus: flat ReputationBonus for allow-listed protocols.
//
// The result is clamped to [0,1].
func Confidence(o types.YieldOpportunity, params types.EngineParameters) float64 {
	score := params.ConfidenceBase

	switch {
	case o.TVL > params.TVLLargeThreshold:
		score += params.TVLBonusLarge
	case o.TVL > params.TVLMediumThreshold:
		score += params.TVLBonusMedium
	}

	score += float64(10-o.RiskScore) * params.RiskBonusStep

	if config.IsEstablishedProtocol(o.ProtocolName) {
		score += params.ReputationBonus
	}

	return utils.Clamp01(score)
}
