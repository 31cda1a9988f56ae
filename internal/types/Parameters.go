/*

This file contains the tunable thresholds and floors used by the engine's
scoring, matching, and arbitrage logic. Different sets of these parameters
can exist for different deployments; the active set is loaded from the
database at startup, falling back to compiled defaults.

*/

package types

import "time"

// EngineParameters holds all tunable weights and thresholds used across the
// optimizer, arbitrage analyzer, and strategist.
type EngineParameters struct {
	// --- Recommendation Generation ---
	DustFloorUSD        float64 `json:"dust_floor_usd"`        // holdings below this are skipped entirely
	CapitalReserveRatio float64 `json:"capital_reserve_ratio"` // fraction of a holding kept back, e.g. 0.2 for 20%
	TimeframeDays       int     `json:"timeframe_days"`        // fixed recommendation horizon

	// --- Confidence Score Components ---
	ConfidenceBase       float64 `json:"confidence_base"`         // starting confidence before bonuses
	TVLBonusLarge        float64 `json:"tvl_bonus_large"`         // bonus when TVL > TVLLargeThreshold
	TVLBonusMedium       float64 `json:"tvl_bonus_medium"`        // bonus when TVL > TVLMediumThreshold
	TVLLargeThreshold    float64 `json:"tvl_large_threshold"`     // e.g. 1e9
	TVLMediumThreshold   float64 `json:"tvl_medium_threshold"`    // e.g. 1e8
	RiskBonusStep        float64 `json:"risk_bonus_step"`         // per point of (10 - riskScore)
	ReputationBonus      float64 `json:"reputation_bonus"`        // flat bonus for allow-listed protocols

	// --- Priority Classification ---
	CriticalReturnUSD    float64 `json:"critical_return_usd"`    // annual expected return floor for critical
	CriticalConfidence   float64 `json:"critical_confidence"`    // confidence floor for critical
	HighReturnUSD        float64 `json:"high_return_usd"`        // annual expected return floor for high
	HighConfidence       float64 `json:"high_confidence"`        // confidence floor for high
	MediumReturnUSD      float64 `json:"medium_return_usd"`      // annual expected return floor for medium
	RiskDemotionFloor    int     `json:"risk_demotion_floor"`    // riskScore at which priority is demoted one class

	// --- Cross-Chain Arbitrage ---
	ArbitrageFloorUSD float64 `json:"arbitrage_floor_usd"` // minimum holding value for cross-chain moves
	MinAPYSpread      float64 `json:"min_apy_spread"`      // percentage points; spreads at or below this are ignored
	MaxBreakEvenDays  float64 `json:"max_break_even_days"` // entries breaking even later than this are dropped
	BridgeRiskFloor   int     `json:"bridge_risk_floor"`   // minimum risk assigned to any cross-chain move

	// --- Strategy Synthesis ---
	StableStrategyFloorUSD  float64 `json:"stable_strategy_floor_usd"`  // stablecoin sum needed for the conservative template
	StableStrategyTolerance int     `json:"stable_strategy_tolerance"`  // minimum risk tolerance for the conservative template
	StableMaxRiskScore      int     `json:"stable_max_risk_score"`      // low-risk cutoff for stablecoin opportunities
	AggressiveTolerance     int     `json:"aggressive_tolerance"`       // minimum risk tolerance for the aggressive template
	AggressiveMinAPY        float64 `json:"aggressive_min_apy"`         // APY floor for the aggressive template
	CrossChainTolerance     int     `json:"cross_chain_tolerance"`      // minimum risk tolerance for the cross-chain template

	// --- Risk Assessment ---
	DiversificationTarget int     `json:"diversification_target"` // distinct protocols for a full diversification score
	LongLockDays          int     `json:"long_lock_days"`         // lock length that flips liquidity risk high
	LiquidityRiskHigh     float64 `json:"liquidity_risk_high"`
	LiquidityRiskLow      float64 `json:"liquidity_risk_low"`

	// --- Catalog ---
	RefreshInterval time.Duration `json:"refresh_interval"` // staleness window before a read triggers a refresh
	FetcherTimeout  time.Duration `json:"fetcher_timeout"`  // independent per-fetcher deadline
}
