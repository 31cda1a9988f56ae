/*

This file contains the strategy synthesizer. It assembles named multi-step
strategies from the catalog snapshot and the arbitrage results. Each of the
three templates is conditionally emitted; missing inputs for a template mean
the template is omitted, never an error.

Steps are ordered and immutable once synthesized.

*/

package strategist

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/logger"
	"github.com/defiscope/yoe/internal/types"
)

var strategistLogger = logger.GetForComponent("strategy_synthesizer")

// Flat per-step gas estimates in USD. These are planning figures for the
// step list, not execution quotes.
const (
	depositGasUSD = 15.0
	bridgeGasUSD  = 25.0
)

// Synthesize produces zero or more strategies from the three templates,
// sorted by expected APY descending.
func Synthesize(holdings []types.AssetHolding, opportunities []types.YieldOpportunity, arbitrageResults []types.CrossChainArbitrage, riskTolerance int, chainID types.ChainID, params types.EngineParameters) []types.YieldStrategy {
	strategies := make([]types.YieldStrategy, 0, 3)

	if s, ok := conservativeStablecoin(holdings, opportunities, riskTolerance, chainID, params); ok {
		strategies = append(strategies, s)
	}
	if s, ok := aggressiveYield(opportunities, riskTolerance, chainID, params); ok {
		strategies = append(strategies, s)
	}
	if s, ok := crossChain(arbitrageResults, riskTolerance, params); ok {
		strategies = append(strategies, s)
	}

	sort.SliceStable(strategies, func(i, j int) bool {
		return strategies[i].ExpectedAPY > strategies[j].ExpectedAPY
	})

	strategistLogger.Debug().
		Int("strategies", len(strategies)).
		Int("riskTolerance", riskTolerance).
		Msg("Strategy synthesis complete")

	return strategies
}

// conservativeStablecoin builds the low-risk stablecoin parking strategy.
// Requires a stablecoin position above the floor, sufficient tolerance, and
// at least one low-risk stablecoin opportunity.
func conservativeStablecoin(holdings []types.AssetHolding, opportunities []types.YieldOpportunity, riskTolerance int, chainID types.ChainID, params types.EngineParameters) (types.YieldStrategy, bool) {
	if riskTolerance < params.StableStrategyTolerance {
		return types.YieldStrategy{}, false
	}

	stableSum := 0.0
	for _, h := range holdings {
		if config.IsStablecoin(h.Symbol) {
			stableSum += h.USDValue
		}
	}
	if stableSum <= params.StableStrategyFloorUSD {
		return types.YieldStrategy{}, false
	}

	var best types.YieldOpportunity
	found := false
	for _, o := range opportunities {
		if !config.IsStablecoin(o.Asset) || o.RiskScore > params.StableMaxRiskScore {
			continue
		}
		if !found || o.APY > best.APY {
			best = o
			found = true
		}
	}
	if !found {
		return types.YieldStrategy{}, false
	}

	totalGas := depositGasUSD
	return types.YieldStrategy{
		ID:          uuid.New().String(),
		Name:        "Conservative Stablecoin Yield",
		Description: fmt.Sprintf("Park stablecoin balances in %s at %.2f%% APY with minimal risk", best.ProtocolName, best.APY),
		ExpectedAPY: best.APY,
		RiskLevel:   best.RiskScore,
		Steps: []types.StrategyStep{
			{
				Order:           1,
				Action:          "deposit",
				Protocol:        best.ProtocolName,
				ChainID:         chainID,
				EstimatedGasUSD: depositGasUSD,
				ExpectedOutcome: fmt.Sprintf("Earn %.2f%% APY on %s", best.APY, best.Asset),
			},
		},
		TimeHorizonDays:   params.TimeframeDays,
		TotalGasCostUSD:   totalGas,
		BreakEvenTimeDays: breakEvenDays(totalGas, stableSum, best.APY),
	}, true
}

// aggressiveYield builds the high-APY strategy for risk-seeking callers.
// Requires an opportunity above the aggressive APY floor inside the
// tolerance band.
func aggressiveYield(opportunities []types.YieldOpportunity, riskTolerance int, chainID types.ChainID, params types.EngineParameters) (types.YieldStrategy, bool) {
	if riskTolerance < params.AggressiveTolerance {
		return types.YieldStrategy{}, false
	}

	var best types.YieldOpportunity
	found := false
	for _, o := range opportunities {
		if o.APY <= params.AggressiveMinAPY || o.RiskScore > riskTolerance {
			continue
		}
		if !found || o.APY > best.APY {
			best = o
			found = true
		}
	}
	if !found {
		return types.YieldStrategy{}, false
	}

	totalGas := depositGasUSD
	return types.YieldStrategy{
		ID:          uuid.New().String(),
		Name:        "Aggressive Yield Farming",
		Description: fmt.Sprintf("Chase %.2f%% APY on %s via %s, accepting elevated risk", best.APY, best.Asset, best.ProtocolName),
		ExpectedAPY: best.APY,
		RiskLevel:   best.RiskScore,
		Steps: []types.StrategyStep{
			{
				Order:           1,
				Action:          "deposit",
				Protocol:        best.ProtocolName,
				ChainID:         chainID,
				EstimatedGasUSD: depositGasUSD,
				ExpectedOutcome: fmt.Sprintf("Earn %.2f%% APY on %s", best.APY, best.Asset),
			},
			{
				Order:           2,
				Action:          "monitor and rebalance weekly",
				Protocol:        best.ProtocolName,
				ChainID:         chainID,
				EstimatedGasUSD: 0,
				ExpectedOutcome: "Exit early if APY decays or risk profile worsens",
			},
		},
		TimeHorizonDays:   params.TimeframeDays,
		TotalGasCostUSD:   totalGas,
		BreakEvenTimeDays: breakEvenDays(totalGas, 0, best.APY),
	}, true
}

// crossChain wraps the single best arbitrage result into a bridge-then-deploy
// plan.
func crossChain(arbitrageResults []types.CrossChainArbitrage, riskTolerance int, params types.EngineParameters) (types.YieldStrategy, bool) {
	if riskTolerance < params.CrossChainTolerance || len(arbitrageResults) == 0 {
		return types.YieldStrategy{}, false
	}

	// Arbitrage results arrive sorted by net profit descending.
	best := arbitrageResults[0]

	totalGas := bridgeGasUSD + depositGasUSD
	return types.YieldStrategy{
		ID:          uuid.New().String(),
		Name:        "Cross-Chain Yield Arbitrage",
		Description: fmt.Sprintf("Bridge %s from chain %d to chain %d for a %.2f point APY improvement", best.Asset, best.SourceChainID, best.TargetChainID, best.APYDifference),
		ExpectedAPY: best.TargetAPY,
		RiskLevel:   best.Risk,
		Steps: []types.StrategyStep{
			{
				Order:           1,
				Action:          "bridge",
				Protocol:        "bridge",
				ChainID:         best.SourceChainID,
				EstimatedGasUSD: bridgeGasUSD,
				ExpectedOutcome: fmt.Sprintf("Move $%.2f of %s to chain %d (bridge fee $%.2f)", best.MoveAmountUSD, best.Asset, best.TargetChainID, best.BridgeCost),
			},
			{
				Order:           2,
				Action:          "deposit",
				Protocol:        best.TargetProtocol,
				ChainID:         best.TargetChainID,
				EstimatedGasUSD: depositGasUSD,
				ExpectedOutcome: fmt.Sprintf("Earn %.2f%% APY, netting $%.2f over the first year", best.TargetAPY, best.NetProfit),
			},
		},
		TimeHorizonDays:   params.TimeframeDays,
		TotalGasCostUSD:   totalGas,
		BreakEvenTimeDays: best.TimeToBreakEvenDays,
	}, true
}

// breakEvenDays estimates days until yield covers the gas outlay. A zero
// deployed amount or zero APY yields zero, meaning "not meaningful".
func breakEvenDays(gasUSD, deployedUSD, apy float64) float64 {
	if deployedUSD <= 0 || apy <= 0 {
		return 0
	}
	daily := deployedUSD * apy / 100.0 / 365.0
	return gasUSD / daily
}
