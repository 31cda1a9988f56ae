/*

This file contains the cross-chain arbitrage result type. An arbitrage entry
is only materialized when it is profitable net of bridging cost and breaks
even inside a year; anything else is dropped by the analyzer.

*/

package types

// CrossChainArbitrage is one profitable cross-chain yield transfer.
// Invariants: NetProfit > 0 and TimeToBreakEvenDays < 365.
type CrossChainArbitrage struct {
	Asset               string  `json:"asset"`
	SourceChainID       ChainID `json:"source_chain_id"`
	TargetChainID       ChainID `json:"target_chain_id"`
	SourceAPY           float64 `json:"source_apy"`
	TargetAPY           float64 `json:"target_apy"`
	APYDifference       float64 `json:"apy_difference"`
	MoveAmountUSD       float64 `json:"move_amount_usd"`  // amount bridged, capped by route capacity
	PotentialProfit     float64 `json:"potential_profit"` // annualized, gross of bridge cost
	BridgeCost          float64 `json:"bridge_cost"`
	NetProfit           float64 `json:"net_profit"`
	TimeToBreakEvenDays float64 `json:"time_to_break_even_days"`
	Risk                int     `json:"risk"`
	TargetOpportunityID string  `json:"target_opportunity_id"`
	TargetProtocol      string  `json:"target_protocol"`
}
