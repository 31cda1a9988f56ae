/*

This is a custom type for yield opportunities which contains all the state
needed for scoring, matching, and arbitrage detection. Catalog entries are
immutable snapshots: a refresh replaces a chain's whole list, it never
mutates entries in place.

*/

package types

import "time"

// OpportunityCategory classifies how the yield is produced.
type OpportunityCategory string

const (
	CategoryLending         OpportunityCategory = "lending"
	CategoryLiquidityMining OpportunityCategory = "liquidity_mining"
	CategoryStaking         OpportunityCategory = "staking"
	CategoryYieldFarming    OpportunityCategory = "yield_farming"
	CategoryLiquidStaking   OpportunityCategory = "liquid_staking"
)

// APYSample is one historical observation of an opportunity's yield.
type APYSample struct {
	Timestamp time.Time `json:"timestamp"`
	APY       float64   `json:"apy"`
	TVL       float64   `json:"tvl"`
}

// FeeSchedule holds the fee rates charged by the protocol, as fractions.
type FeeSchedule struct {
	Deposit     float64 `json:"deposit"`
	Withdrawal  float64 `json:"withdrawal"`
	Performance float64 `json:"performance"`
	Management  float64 `json:"management,omitempty"`
}

// OpportunityRequirements are the entry constraints of an opportunity.
type OpportunityRequirements struct {
	MinDepositUSD  float64     `json:"min_deposit_usd"`
	LockPeriodDays int         `json:"lock_period_days,omitempty"` // 0 = no lock
	Fees           FeeSchedule `json:"fees"`
}

// OpportunityActions carries the contract addresses / action descriptors the
// UI needs to act on a recommendation. The engine never executes these.
type OpportunityActions struct {
	DepositTarget  string `json:"deposit_target"`
	WithdrawTarget string `json:"withdraw_target"`
	ClaimTarget    string `json:"claim_target,omitempty"`
}

// YieldOpportunity is one yield-bearing position available on one chain.
// Invariants: RiskScore in [1,10] (1 = safest), APY >= 0.
type YieldOpportunity struct {
	ID              string                  `json:"id"`
	ProtocolName    string                  `json:"protocol_name"`
	Asset           string                  `json:"asset"` // symbol, e.g. "USDC"
	APY             float64                 `json:"apy"`   // percent
	APYHistory      []APYSample             `json:"apy_history,omitempty"`
	TVL             float64                 `json:"tvl"` // USD
	RiskScore       int                     `json:"risk_score"`
	Category        OpportunityCategory     `json:"category"`
	Requirements    OpportunityRequirements `json:"requirements"`
	Actions         OpportunityActions      `json:"actions"`
	ChainID         ChainID                 `json:"chain_id"`
	UpdatedAt       time.Time               `json:"updated_at"`
	AuditStatus     string                  `json:"audit_status,omitempty"` // e.g., "audited", "unaudited"
	LaunchDate      time.Time               `json:"launch_date,omitempty"`
	AutoCompounding bool                    `json:"auto_compounding"`
	GovernanceToken string                  `json:"governance_token,omitempty"`
}

// Valid reports whether the opportunity satisfies its structural invariants.
func (o YieldOpportunity) Valid() bool {
	return o.RiskScore >= 1 && o.RiskScore <= 10 && o.APY >= 0 && o.TVL >= 0 &&
		o.ID != "" && o.Asset != "" && o.ProtocolName != ""
}
