/*

This file contains chain identity types. The set of supported chains is a
fixed registry defined in internal/config.

*/

package types

// ChainID is the EVM-style numeric chain identifier (1 = Ethereum mainnet).
type ChainID uint64

// Chain describes one supported network.
type Chain struct {
	ID           ChainID `json:"id"`
	Name         string  `json:"name"`          // e.g., "Arbitrum One"
	NativeSymbol string  `json:"native_symbol"` // e.g., "ETH"
}

// BridgeRoute describes the static cost model for moving assets between two
// chains. Routes are configuration, never fetched at runtime.
type BridgeRoute struct {
	SourceChainID ChainID `json:"source_chain_id"`
	TargetChainID ChainID `json:"target_chain_id"`
	FeeRate       float64 `json:"fee_rate"`       // fraction of the moved amount, e.g. 0.003
	ETAMinutes    int     `json:"eta_minutes"`    // typical settlement time
	MaxAmountUSD  float64 `json:"max_amount_usd"` // route capacity per transfer
}
