// ./internal/state/parameters_store.go
package state

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/defiscope/yoe/internal/types"
)

// SaveEngineParameters saves a new version of engine parameters.
func SaveEngineParameters(params types.EngineParameters, configName string, version int, makeActive bool) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	tx, err := DB.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p) // Re-panic after rollback
		} else if err != nil {
			tx.Rollback() // Rollback if error occurred
		}
	}()

	if makeActive {
		stmtDeactivate := `UPDATE engine_parameters SET is_active = FALSE WHERE config_name = $1 AND is_active = TRUE;`
		_, err = tx.Exec(stmtDeactivate, configName)
		if err != nil {
			return 0, fmt.Errorf("failed to deactivate existing active parameters for %s: %w", configName, err)
		}
	}

	stmt := `
		INSERT INTO engine_parameters (
			version, config_name, is_active, activated_at, created_at,
			dust_floor_usd, capital_reserve_ratio, timeframe_days,
			confidence_base, tvl_bonus_large, tvl_bonus_medium,
			tvl_large_threshold, tvl_medium_threshold, risk_bonus_step, reputation_bonus,
			critical_return_usd, critical_confidence, high_return_usd, high_confidence,
			medium_return_usd, risk_demotion_floor,
			arbitrage_floor_usd, min_apy_spread, max_break_even_days, bridge_risk_floor,
			stable_strategy_floor_usd, stable_strategy_tolerance, stable_max_risk_score,
			aggressive_tolerance, aggressive_min_apy, cross_chain_tolerance,
			diversification_target, long_lock_days, liquidity_risk_high, liquidity_risk_low,
			refresh_interval_seconds, fetcher_timeout_seconds
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15,
			$16, $17, $18, $19,
			$20, $21,
			$22, $23, $24, $25,
			$26, $27, $28,
			$29, $30, $31,
			$32, $33, $34, $35,
			$36, $37
		) RETURNING params_id;`

	var paramsID int64
	currentTime := time.Now()
	err = tx.QueryRow(
		stmt,
		version, configName, makeActive, currentTime, currentTime,
		params.DustFloorUSD, params.CapitalReserveRatio, params.TimeframeDays,
		params.ConfidenceBase, params.TVLBonusLarge, params.TVLBonusMedium,
		params.TVLLargeThreshold, params.TVLMediumThreshold, params.RiskBonusStep, params.ReputationBonus,
		params.CriticalReturnUSD, params.CriticalConfidence, params.HighReturnUSD, params.HighConfidence,
		params.MediumReturnUSD, params.RiskDemotionFloor,
		params.ArbitrageFloorUSD, params.MinAPYSpread, params.MaxBreakEvenDays, params.BridgeRiskFloor,
		params.StableStrategyFloorUSD, params.StableStrategyTolerance, params.StableMaxRiskScore,
		params.AggressiveTolerance, params.AggressiveMinAPY, params.CrossChainTolerance,
		params.DiversificationTarget, params.LongLockDays, params.LiquidityRiskHigh, params.LiquidityRiskLow,
		int(params.RefreshInterval.Seconds()), int(params.FetcherTimeout.Seconds()),
	).Scan(&paramsID)

	if err != nil {
		return 0, fmt.Errorf("failed to insert engine parameters: %w", err)
	}

	err = tx.Commit()
	if err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Info().
		Int("version", version).
		Str("config", configName).
		Int64("params_id", paramsID).
		Bool("active", makeActive).
		Msg("Saved engine parameters")
	return paramsID, nil
}

// LoadActiveEngineParameters loads the currently active engine parameters
// for the named configuration. Returns sql.ErrNoRows when none is active.
func LoadActiveEngineParameters(configName string) (*types.EngineParameters, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	stmt := `
		SELECT
			dust_floor_usd, capital_reserve_ratio, timeframe_days,
			confidence_base, tvl_bonus_large, tvl_bonus_medium,
			tvl_large_threshold, tvl_medium_threshold, risk_bonus_step, reputation_bonus,
			critical_return_usd, critical_confidence, high_return_usd, high_confidence,
			medium_return_usd, risk_demotion_floor,
			arbitrage_floor_usd, min_apy_spread, max_break_even_days, bridge_risk_floor,
			stable_strategy_floor_usd, stable_strategy_tolerance, stable_max_risk_score,
			aggressive_tolerance, aggressive_min_apy, cross_chain_tolerance,
			diversification_target, long_lock_days, liquidity_risk_high, liquidity_risk_low,
			refresh_interval_seconds, fetcher_timeout_seconds
		FROM engine_parameters
		WHERE config_name = $1 AND is_active = TRUE
		ORDER BY activated_at DESC
		LIMIT 1;`

	var params types.EngineParameters
	var refreshSeconds, timeoutSeconds int
	err := DB.QueryRow(stmt, configName).Scan(
		&params.DustFloorUSD, &params.CapitalReserveRatio, &params.TimeframeDays,
		&params.ConfidenceBase, &params.TVLBonusLarge, &params.TVLBonusMedium,
		&params.TVLLargeThreshold, &params.TVLMediumThreshold, &params.RiskBonusStep, &params.ReputationBonus,
		&params.CriticalReturnUSD, &params.CriticalConfidence, &params.HighReturnUSD, &params.HighConfidence,
		&params.MediumReturnUSD, &params.RiskDemotionFloor,
		&params.ArbitrageFloorUSD, &params.MinAPYSpread, &params.MaxBreakEvenDays, &params.BridgeRiskFloor,
		&params.StableStrategyFloorUSD, &params.StableStrategyTolerance, &params.StableMaxRiskScore,
		&params.AggressiveTolerance, &params.AggressiveMinAPY, &params.CrossChainTolerance,
		&params.DiversificationTarget, &params.LongLockDays, &params.LiquidityRiskHigh, &params.LiquidityRiskLow,
		&refreshSeconds, &timeoutSeconds,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to load active engine parameters for %s: %w", configName, err)
	}

	params.RefreshInterval = time.Duration(refreshSeconds) * time.Second
	params.FetcherTimeout = time.Duration(timeoutSeconds) * time.Second

	log.Debug().
		Str("config", configName).
		Msg("Loaded active engine parameters")

	return &params, nil
}
