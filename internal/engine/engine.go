/*

This file contains the Engine, the orchestrator for one optimization call.
It validates the caller's arguments, reads catalog snapshots, and runs the
generator, arbitrage analyzer, strategist, and risk assessor over them,
returning the four outputs as a single aggregate.

Per-holding and per-fetcher failures are absorbed as omissions downstream;
the only errors surfaced here are caller programming errors (unsupported
chain, out-of-range tolerance, malformed preferences).

*/

package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/defiscope/yoe/internal/arbitrage"
	"github.com/defiscope/yoe/internal/catalog"
	"github.com/defiscope/yoe/internal/config"
	"github.com/defiscope/yoe/internal/logger"
	"github.com/defiscope/yoe/internal/optimizer"
	"github.com/defiscope/yoe/internal/risk"
	"github.com/defiscope/yoe/internal/strategist"
	"github.com/defiscope/yoe/internal/types"
)

const (
	DefaultParameterConfigName    = "default_yoe_engine"
	DefaultParameterConfigVersion = 1
)

var (
	ErrUnsupportedChain     = errors.New("unsupported chain")
	ErrInvalidRiskTolerance = errors.New("risk tolerance must be between 1 and 10")
	ErrInvalidPreferences   = errors.New("invalid preferences")
)

// ResultStore persists optimization snapshots. Nil disables persistence;
// the engine itself never requires a database.
type ResultStore interface {
	SaveOptimization(ctx context.Context, snapshot types.OptimizationSnapshot) error
}

// Config holds the configuration for creating a new Engine instance.
type Config struct {
	Catalog *catalog.Catalog
	// Store is optional; nil means optimization history is not kept.
	Store  ResultStore
	Params types.EngineParameters

	ConfigName    string
	ConfigVersion int
}

// Engine runs portfolio optimizations against the shared catalog.
type Engine struct {
	logger  zerolog.Logger
	catalog *catalog.Catalog
	store   ResultStore
	params  types.EngineParameters

	configName    string
	configVersion int
}

// New creates an Engine with dependency injection.
func New(cfg Config) (*Engine, error) {
	if err := validateEngineConfig(cfg); err != nil {
		return nil, fmt.Errorf("engine configuration validation failed: %w", err)
	}

	e := &Engine{
		logger:        logger.GetForComponent("engine_core"),
		catalog:       cfg.Catalog,
		store:         cfg.Store,
		params:        cfg.Params,
		configName:    cfg.ConfigName,
		configVersion: cfg.ConfigVersion,
	}

	e.logger.Info().
		Str("configName", e.configName).
		Int("configVersion", e.configVersion).
		Bool("persistence", e.store != nil).
		Msg("Engine instance created")

	return e, nil
}

func validateEngineConfig(cfg Config) error {
	if cfg.Catalog == nil {
		return fmt.Errorf("catalog cannot be nil")
	}
	if cfg.Params.TimeframeDays <= 0 {
		return fmt.Errorf("engine parameters look uninitialized (timeframe days %d)", cfg.Params.TimeframeDays)
	}
	if cfg.ConfigName == "" {
		return fmt.Errorf("config name cannot be empty")
	}
	if cfg.ConfigVersion <= 0 {
		return fmt.Errorf("config version must be positive")
	}
	return nil
}

// Params returns the active parameter set.
func (e *Engine) Params() types.EngineParameters {
	return e.params
}

// Optimize runs one full optimization: recommendations, cross-chain
// arbitrage, strategies, and the portfolio risk assessment, returned
// together. The result is structurally complete even when every slice is
// empty.
func (e *Engine) Optimize(ctx context.Context, holdings []types.AssetHolding, chainID types.ChainID, riskTolerance int, prefs types.OptimizationPreferences) (types.PortfolioOptimization, error) {
	if !config.IsSupportedChain(chainID) {
		return types.PortfolioOptimization{}, fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}
	if riskTolerance < 1 || riskTolerance > 10 {
		return types.PortfolioOptimization{}, fmt.Errorf("%w: got %d", ErrInvalidRiskTolerance, riskTolerance)
	}
	if err := prefs.Validate(); err != nil {
		return types.PortfolioOptimization{}, fmt.Errorf("%w: %v", ErrInvalidPreferences, err)
	}
	prefs = prefs.Normalize()

	requestID := uuid.New().String()
	reqLogger := e.logger.With().
		Str("requestID", requestID).
		Uint64("chainID", uint64(chainID)).
		Int("riskTolerance", riskTolerance).
		Logger()

	reqLogger.Info().
		Int("holdings", len(holdings)).
		Bool("crossChain", prefs.CrossChain()).
		Msg("Starting portfolio optimization")

	opportunities, err := e.catalog.GetOpportunities(ctx, chainID, false)
	if err != nil {
		return types.PortfolioOptimization{}, fmt.Errorf("%w: %d", ErrUnsupportedChain, chainID)
	}

	recommendations := optimizer.Generate(holdings, opportunities, riskTolerance, prefs, e.params)

	arbitrageResults := make([]types.CrossChainArbitrage, 0)
	if prefs.CrossChain() {
		arbitrageResults = arbitrage.Analyze(holdings, chainID, riskTolerance, prefs, e.params, e.chainSnapshots(ctx, chainID, opportunities))
	}

	strategies := strategist.Synthesize(holdings, opportunities, arbitrageResults, riskTolerance, chainID, e.params)
	assessment := risk.Assess(recommendations, riskTolerance, e.params)

	optimizedYield, potentialGain := yieldSummary(recommendations)

	result := types.PortfolioOptimization{
		RequestID:               requestID,
		ChainID:                 chainID,
		Timestamp:               time.Now().UTC(),
		CurrentYield:            0,
		OptimizedYield:          optimizedYield,
		PotentialGain:           potentialGain,
		Recommendations:         recommendations,
		RiskAssessment:          assessment,
		CrossChainOpportunities: arbitrageResults,
		YieldStrategies:         strategies,
	}

	reqLogger.Info().
		Int("recommendations", len(recommendations)).
		Int("arbitrage", len(arbitrageResults)).
		Int("strategies", len(strategies)).
		Float64("optimizedYield", optimizedYield).
		Msg("Portfolio optimization complete")

	e.persistSnapshot(ctx, reqLogger, result, holdings, riskTolerance)

	return result, nil
}

// chainSnapshots assembles the per-chain opportunity map the arbitrage
// analyzer compares across. The source chain reuses the snapshot already
// read; other chains that fail to load contribute empty lists, consistent
// with the absorb-and-omit policy for data availability.
func (e *Engine) chainSnapshots(ctx context.Context, sourceChainID types.ChainID, sourceOpportunities []types.YieldOpportunity) map[types.ChainID][]types.YieldOpportunity {
	snapshots := map[types.ChainID][]types.YieldOpportunity{
		sourceChainID: sourceOpportunities,
	}
	for _, chainID := range e.catalog.Chains() {
		if chainID == sourceChainID {
			continue
		}
		opportunities, err := e.catalog.GetOpportunities(ctx, chainID, false)
		if err != nil {
			continue
		}
		snapshots[chainID] = opportunities
	}
	return snapshots
}

// yieldSummary computes the value-weighted average APY across the suggested
// amounts, and the gain over the (always zero) current yield.
func yieldSummary(recommendations []types.YieldRecommendation) (optimizedYield, potentialGain float64) {
	totalSuggested := 0.0
	weighted := 0.0
	for _, rec := range recommendations {
		totalSuggested += rec.SuggestedAmount
		weighted += rec.SuggestedAmount * rec.Opportunity.APY
	}
	if totalSuggested <= 0 {
		return 0, 0
	}
	optimizedYield = weighted / totalSuggested
	return optimizedYield, optimizedYield
}

// persistSnapshot writes the compact history record when a store is wired.
// Persistence failures are logged and swallowed; history is best effort.
func (e *Engine) persistSnapshot(ctx context.Context, reqLogger zerolog.Logger, result types.PortfolioOptimization, holdings []types.AssetHolding, riskTolerance int) {
	if e.store == nil {
		return
	}

	holdingsValue := 0.0
	for _, h := range holdings {
		holdingsValue += h.USDValue
	}

	snapshot := types.OptimizationSnapshot{
		RequestID:           result.RequestID,
		ChainID:             result.ChainID,
		Timestamp:           result.Timestamp,
		RiskTolerance:       riskTolerance,
		HoldingsValueUSD:    holdingsValue,
		RecommendationCount: len(result.Recommendations),
		ArbitrageCount:      len(result.CrossChainOpportunities),
		StrategyCount:       len(result.YieldStrategies),
		OptimizedYield:      result.OptimizedYield,
		PotentialGain:       result.PotentialGain,
		OverallRisk:         result.RiskAssessment.OverallRisk,
	}

	if err := e.store.SaveOptimization(ctx, snapshot); err != nil {
		reqLogger.Error().Err(err).Msg("Failed to persist optimization snapshot")
	}
}
