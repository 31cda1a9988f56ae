/*

This file contains the cross-chain arbitrage analyzer. It compares the best
qualifying yield for each sizable holding on its home chain against every
other supported chain, and materializes a candidate only when the move is
profitable net of bridging cost and breaks even inside the allowed window.

Chains without a registered bridge route from the source are skipped, never
errored: the bridge table is configuration and absence means "unsupported".

*/

package arbitrage

import (
	"math"
	"sort"

	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/logger"
	"github.com/defiscope/yoe/internal/optimizer"
	"github.com/defiscope/yoe/internal/types"
)

var arbLogger = logger.GetForComponent("arbitrage_analyzer")

// Analyze scans holdings on the source chain against opportunity snapshots
// from every chain and returns profitable cross-chain moves, best first.
//
// For each holding at or above the arbitrage floor:
//   - The source-side baseline APY is the best qualifying opportunity on the
//     source chain, or zero when the asset earns nothing there.
//   - Each target chain contributes at most one candidate: its best
//     qualifying opportunity must beat the source APY by strictly more than
//     the minimum spread.
//   - The move amount is the holding value clamped to the bridge route's
//     capacity. Bridge cost is the route fee rate applied to that amount.
//   - The candidate survives only with positive net annual profit and a
//     break-even time inside the allowed window.
//
// Risk is the target opportunity's risk score raised to the bridge risk
// floor, since any cross-chain move carries bridge exposure on top of the
// destination protocol.
func Analyze(holdings []types.AssetHolding, sourceChainID types.ChainID, riskTolerance int, prefs types.OptimizationPreferences, params types.EngineParameters, snapshots map[types.ChainID][]types.YieldOpportunity) []types.CrossChainArbitrage {
	results := make([]types.CrossChainArbitrage, 0)

	targetChains := make([]types.ChainID, 0, len(snapshots))
	for chainID := range snapshots {
		if chainID != sourceChainID {
			targetChains = append(targetChains, chainID)
		}
	}
	sort.Slice(targetChains, func(i, j int) bool { return targetChains[i] < targetChains[j] })

	for _, holding := range holdings {
		if math.IsNaN(holding.USDValue) || math.IsInf(holding.USDValue, 0) {
			continue
		}
		if holding.USDValue < params.ArbitrageFloorUSD {
			continue
		}

		sourceAPY := 0.0
		if sourceBest, ok := optimizer.BestQualifying(snapshots[sourceChainID], holding.Symbol, riskTolerance, prefs, params); ok {
			sourceAPY = sourceBest.APY
		}

		for _, targetChainID := range targetChains {
			targetBest, ok := optimizer.BestQualifying(snapshots[targetChainID], holding.Symbol, riskTolerance, prefs, params)
			if !ok {
				continue
			}

			spread := targetBest.APY - sourceAPY
			if spread <= params.MinAPYSpread {
				continue
			}

			route, ok := config.BridgeRouteFor(sourceChainID, targetChainID)
			if !ok {
				arbLogger.Debug().
					Uint64("sourceChainID", uint64(sourceChainID)).
					Uint64("targetChainID", uint64(targetChainID)).
					Msg("No bridge route, skipping target chain")
				continue
			}

			moveAmount := holding.USDValue
			if route.MaxAmountUSD > 0 && moveAmount > route.MaxAmountUSD {
				moveAmount = route.MaxAmountUSD
			}

			bridgeCost := moveAmount * route.FeeRate
			potentialProfit := moveAmount * spread / 100.0
			netProfit := potentialProfit - bridgeCost
			if netProfit <= 0 {
				continue
			}

			breakEvenDays := bridgeCost / (potentialProfit / 365.0)
			if breakEvenDays >= params.MaxBreakEvenDays {
				continue
			}

			risk := targetBest.RiskScore
			if risk < params.BridgeRiskFloor {
				risk = params.BridgeRiskFloor
			}

			results = append(results, types.CrossChainArbitrage{
				Asset:               holding.Symbol,
				SourceChainID:       sourceChainID,
				TargetChainID:       targetChainID,
				SourceAPY:           sourceAPY,
				TargetAPY:           targetBest.APY,
				APYDifference:       spread,
				MoveAmountUSD:       moveAmount,
				PotentialProfit:     potentialProfit,
				BridgeCost:          bridgeCost,
				NetProfit:           netProfit,
				TimeToBreakEvenDays: breakEvenDays,
				Risk:                risk,
				TargetOpportunityID: targetBest.ID,
				TargetProtocol:      targetBest.ProtocolName,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].NetProfit > results[j].NetProfit
	})

	arbLogger.Info().
		Uint64("sourceChainID", uint64(sourceChainID)).
		Int("holdings", len(holdings)).
		Int("candidates", len(results)).
		Msg("Cross-chain arbitrage analysis complete")

	return results
}
