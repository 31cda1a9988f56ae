/*

This file contains the fixed registry of supported chains. A chain absent
from this table is rejected at the engine boundary: requesting it is a
caller programming error, not a recoverable condition.

*/

package config

import "github.com/defiscope/yoe/internal/types"

var (
	// SupportedChains maps chain IDs to their identity records.
	SupportedChains = map[types.ChainID]types.Chain{
		1:     {ID: 1, Name: "Ethereum", NativeSymbol: "ETH"},
		10:    {ID: 10, Name: "Optimism", NativeSymbol: "ETH"},
		56:    {ID: 56, Name: "BNB Smart Chain", NativeSymbol: "BNB"},
		137:   {ID: 137, Name: "Polygon", NativeSymbol: "POL"},
		8453:  {ID: 8453, Name: "Base", NativeSymbol: "ETH"},
		42161: {ID: 42161, Name: "Arbitrum One", NativeSymbol: "ETH"},
		43114: {ID: 43114, Name: "Avalanche", NativeSymbol: "AVAX"},
	}
)

// IsSupportedChain reports whether the chain ID is in the registry.
func IsSupportedChain(id types.ChainID) bool {
	_, ok := SupportedChains[id]
	return ok
}

// ChainIDs returns all supported chain IDs. Order is not guaranteed.
func ChainIDs() []types.ChainID {
	ids := make([]types.ChainID, 0, len(SupportedChains))
	for id := range SupportedChains {
		ids = append(ids, id)
	}
	return ids
}
