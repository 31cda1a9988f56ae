/*

This file contains the priority classification for a recommendation.

The classification is monotone: a higher expected return or a higher
confidence never lowers the class, and a higher risk score never raises it.

*/

package scorer

import "github.com/defiscope/yoe/internal/types"

// Priority classifies a recommendation from its annualized expected return
// in USD, the opportunity's risk score, and the confidence value.
func Priority(expectedReturnUSD float64, riskScore int, confidence float64, params types.EngineParameters) types.Priority {
	var p types.Priority
	switch {
	case expectedReturnUSD >= params.CriticalReturnUSD && confidence >= params.CriticalConfidence:
		p = types.PriorityCritical
	case expectedReturnUSD >= params.HighReturnUSD && confidence >= params.HighConfidence:
		p = types.PriorityHigh
	case expectedReturnUSD >= params.MediumReturnUSD:
		p = types.PriorityMedium
	default:
		p = types.PriorityLow
	}

	if riskScore >= params.RiskDemotionFloor {
		p = demote(p)
	}
	return p
}

// demote lowers the class by one step; low stays low.
func demote(p types.Priority) types.Priority {
	switch p {
	case types.PriorityCritical:
		return types.PriorityHigh
	case types.PriorityHigh:
		return types.PriorityMedium
	case types.PriorityMedium:
		return types.PriorityLow
	default:
		return types.PriorityLow
	}
}
