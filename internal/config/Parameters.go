/*

This file contains the default engine parameters.

These values are used if no active parameters are found in the database
during initialization. The scoring constants (confidence base, TVL buckets,
risk step, reputation bonus) are contractual: tests pin them, and changing
them silently changes every confidence value callers see.

*/

package config

import (
	"time"

	"github.com/defiscope/yoe/internal/types"
)

// DefaultEngineParameters provides the baseline thresholds for the engine.
var DefaultEngineParameters = types.EngineParameters{
	// --- Recommendation Generation ---
	DustFloorUSD: 10.0, // Holdings under $10 cost more in gas than they can earn.

	CapitalReserveRatio: 0.20, // Never deploy more than 80% of a holding.
	// Keeps a buffer for gas, fees, and exit flexibility.

	TimeframeDays: 365, // Fixed one-year horizon for expected returns.

	// --- Confidence Score Components ---
	ConfidenceBase:     0.5,
	TVLBonusLarge:      0.2,
	TVLBonusMedium:     0.1,
	TVLLargeThreshold:  1e9,
	TVLMediumThreshold: 1e8,
	RiskBonusStep:      0.03, // (10 - riskScore) * step
	ReputationBonus:    0.1,  // flat bonus for allow-listed protocols

	// --- Priority Classification ---
	CriticalReturnUSD:  5000.0,
	CriticalConfidence: 0.75,
	HighReturnUSD:      1000.0,
	HighConfidence:     0.6,
	MediumReturnUSD:    100.0,
	RiskDemotionFloor:  8, // riskScore >= 8 demotes the class by one

	// --- Cross-Chain Arbitrage ---
	ArbitrageFloorUSD: 100.0, // Bridging overhead makes smaller moves pointless.
	MinAPYSpread:      2.0,   // Percentage points; spreads at or below are noise.
	MaxBreakEvenDays:  365.0,
	BridgeRiskFloor:   6, // Cross-chain transfer is inherently riskier than same-chain deployment.

	// --- Strategy Synthesis ---
	StableStrategyFloorUSD:  1000.0,
	StableStrategyTolerance: 3,
	StableMaxRiskScore:      4,
	AggressiveTolerance:     7,
	AggressiveMinAPY:        15.0,
	CrossChainTolerance:     6,

	// --- Risk Assessment ---
	DiversificationTarget: 5,
	LongLockDays:          30,
	LiquidityRiskHigh:     7,
	LiquidityRiskLow:      3,

	// --- Catalog ---
	RefreshInterval: 5 * time.Minute,
	FetcherTimeout:  5 * time.Second,
}
