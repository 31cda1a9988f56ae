/*

This is a custom type for wallet holdings as supplied by the external balance
scanner. Holdings are immutable inputs to a single optimization call.

*/

package types

// AssetHolding is one scanned wallet balance with its USD valuation already
// attached by the pricing collaborator.
type AssetHolding struct {
	ContractAddress string  `json:"contract_address"` // token contract, empty for the native asset
	Symbol          string  `json:"symbol"`           // e.g., "USDC"
	Balance         string  `json:"balance"`          // decimal string in whole-token units, e.g. "1043.25"
	USDValue        float64 `json:"usd_value"`
}
