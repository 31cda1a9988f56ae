/*

This file contains the recommendation generator: it matches wallet holdings
to catalog opportunities, sizes positions, and produces ranked per-asset
recommendations.

Per-holding failure modes (dust, insufficient capital, no qualifying match)
are omissions, never errors: the holding is silently absent from the result.

*/

package optimizer

import (
	"fmt"
	"math"
	"sort"

	"github.com/defiscope/yoe/internal/logger"
	"github.com/defiscope/yoe/internal/scorer"
	"github.com/defiscope/yoe/internal/types"
)

var generatorLogger = logger.GetForComponent("recommendation_generator")

// Generate produces at most one recommendation per qualifying holding.
//
// Per holding at or above the dust floor:
//  1. Filter the snapshot through the shared matcher (asset match, risk
//     bound, preference predicates) and rank by APY then confidence.
//  2. Size the position: min(deployable share of the holding, holding minus
//     the minimum deposit). The sized amount must strictly exceed the
//     minimum deposit or the holding is skipped.
//  3. Expected return is the sized amount earning the full APY over the
//     fixed one-year horizon.
//
// The result sorts by priority, then expected return descending.
func Generate(holdings []types.AssetHolding, opportunities []types.YieldOpportunity, riskTolerance int, prefs types.OptimizationPreferences, params types.EngineParameters) []types.YieldRecommendation {
	recommendations := make([]types.YieldRecommendation, 0, len(holdings))

	for _, holding := range holdings {
		if math.IsNaN(holding.USDValue) || math.IsInf(holding.USDValue, 0) {
			generatorLogger.Warn().
				Str("symbol", holding.Symbol).
				Float64("usdValue", holding.USDValue).
				Msg("Skipping holding with non-finite USD value")
			continue
		}
		if holding.USDValue < params.DustFloorUSD {
			generatorLogger.Debug().
				Str("symbol", holding.Symbol).
				Float64("usdValue", holding.USDValue).
				Msg("Skipping dust holding")
			continue
		}

		best, ok := BestQualifying(opportunities, holding.Symbol, riskTolerance, prefs, params)
		if !ok {
			// NoQualifyingOpportunity: a valid empty outcome for this holding.
			generatorLogger.Debug().
				Str("symbol", holding.Symbol).
				Msg("No qualifying opportunity for holding")
			continue
		}

		suggested := sizePosition(holding.USDValue, best.Requirements.MinDepositUSD, params)
		if suggested <= best.Requirements.MinDepositUSD {
			// InsufficientCapital: cannot meet the minimum after reserving
			// the capital buffer.
			generatorLogger.Debug().
				Str("symbol", holding.Symbol).
				Float64("suggested", suggested).
				Float64("minDeposit", best.Requirements.MinDepositUSD).
				Msg("Holding cannot meet minimum deposit after reservation")
			continue
		}

		confidence := scorer.Confidence(best, params)
		expectedReturn := suggested * best.APY / 100.0
		priority := scorer.Priority(expectedReturn, best.RiskScore, confidence, params)

		recommendations = append(recommendations, types.YieldRecommendation{
			Opportunity:     best,
			HoldingSymbol:   holding.Symbol,
			SuggestedAmount: suggested,
			ExpectedReturn:  expectedReturn,
			TimeframeDays:   params.TimeframeDays,
			Confidence:      confidence,
			Priority:        priority,
			Reasoning:       buildReasoning(holding, best, suggested, riskTolerance, params),
			Actions:         buildActions(best),
		})
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		a, b := recommendations[i], recommendations[j]
		if a.Priority.Rank() != b.Priority.Rank() {
			return a.Priority.Rank() > b.Priority.Rank()
		}
		return a.ExpectedReturn > b.ExpectedReturn
	})

	generatorLogger.Info().
		Int("holdings", len(holdings)).
		Int("recommendations", len(recommendations)).
		Msg("Recommendation generation complete")

	return recommendations
}

// sizePosition applies the sizing rule: deploy at most the non-reserved
// share of the holding, and never so much that the remainder cannot cover
// the minimum deposit.
func sizePosition(holdingValueUSD, minDepositUSD float64, params types.EngineParameters) float64 {
	deployable := (1.0 - params.CapitalReserveRatio) * holdingValueUSD
	afterMinimum := holdingValueUSD - minDepositUSD
	return math.Min(deployable, afterMinimum)
}

// buildReasoning assembles the human-readable justification lines.
func buildReasoning(holding types.AssetHolding, o types.YieldOpportunity, suggested float64, riskTolerance int, params types.EngineParameters) []string {
	reasoning := []string{
		fmt.Sprintf("%s offers %.2f%% APY for %s (%s)", o.ProtocolName, o.APY, o.Asset, o.Category),
		fmt.Sprintf("Risk score %d/10 within tolerance %d", o.RiskScore, riskTolerance),
		fmt.Sprintf("Deploying $%.2f of $%.2f held, %.0f%% reserved", suggested, holding.USDValue, params.CapitalReserveRatio*100),
	}
	if o.TVL > 0 {
		reasoning = append(reasoning, fmt.Sprintf("$%.0f TVL backs liquidity", o.TVL))
	}
	if o.Requirements.LockPeriodDays > 0 {
		reasoning = append(reasoning, fmt.Sprintf("Funds locked for %d days", o.Requirements.LockPeriodDays))
	}
	return reasoning
}

// buildActions lists the action descriptors the UI can act on. The engine
// only describes; it never executes.
func buildActions(o types.YieldOpportunity) []string {
	actions := []string{
		"deposit via " + o.Actions.DepositTarget,
		"withdraw via " + o.Actions.WithdrawTarget,
	}
	if o.Actions.ClaimTarget != "" {
		actions = append(actions, "claim rewards via "+o.Actions.ClaimTarget)
	}
	return actions
}
