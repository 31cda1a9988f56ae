/*

This file contains the static bridge cost table used by the arbitrage
analyzer. Fee rates and ETAs are maintained by hand from published bridge
pricing; they are configuration, never fetched at runtime.

A pair absent from this table means no supported route exists and the
analyzer skips it.

*/

package config

import "github.com/defiscope/yoe/internal/types"

type bridgeKey struct {
	source types.ChainID
	target types.ChainID
}

var bridgeRoutes = map[bridgeKey]types.BridgeRoute{}

func init() {
	// Routes are symmetric in availability but not necessarily in cost;
	// register each direction explicitly.
	routes := []types.BridgeRoute{
		{SourceChainID: 1, TargetChainID: 10, FeeRate: 0.0015, ETAMinutes: 20, MaxAmountUSD: 5_000_000},
		{SourceChainID: 10, TargetChainID: 1, FeeRate: 0.0020, ETAMinutes: 60, MaxAmountUSD: 5_000_000},
		{SourceChainID: 1, TargetChainID: 42161, FeeRate: 0.0015, ETAMinutes: 15, MaxAmountUSD: 10_000_000},
		{SourceChainID: 42161, TargetChainID: 1, FeeRate: 0.0020, ETAMinutes: 60, MaxAmountUSD: 10_000_000},
		{SourceChainID: 1, TargetChainID: 137, FeeRate: 0.0025, ETAMinutes: 30, MaxAmountUSD: 2_000_000},
		{SourceChainID: 137, TargetChainID: 1, FeeRate: 0.0030, ETAMinutes: 45, MaxAmountUSD: 2_000_000},
		{SourceChainID: 1, TargetChainID: 8453, FeeRate: 0.0015, ETAMinutes: 15, MaxAmountUSD: 5_000_000},
		{SourceChainID: 8453, TargetChainID: 1, FeeRate: 0.0020, ETAMinutes: 60, MaxAmountUSD: 5_000_000},
		{SourceChainID: 1, TargetChainID: 43114, FeeRate: 0.0030, ETAMinutes: 25, MaxAmountUSD: 1_500_000},
		{SourceChainID: 43114, TargetChainID: 1, FeeRate: 0.0030, ETAMinutes: 25, MaxAmountUSD: 1_500_000},
		{SourceChainID: 1, TargetChainID: 56, FeeRate: 0.0035, ETAMinutes: 20, MaxAmountUSD: 1_000_000},
		{SourceChainID: 56, TargetChainID: 1, FeeRate: 0.0035, ETAMinutes: 20, MaxAmountUSD: 1_000_000},
		{SourceChainID: 10, TargetChainID: 42161, FeeRate: 0.0010, ETAMinutes: 10, MaxAmountUSD: 3_000_000},
		{SourceChainID: 42161, TargetChainID: 10, FeeRate: 0.0010, ETAMinutes: 10, MaxAmountUSD: 3_000_000},
		{SourceChainID: 10, TargetChainID: 8453, FeeRate: 0.0010, ETAMinutes: 10, MaxAmountUSD: 3_000_000},
		{SourceChainID: 8453, TargetChainID: 10, FeeRate: 0.0010, ETAMinutes: 10, MaxAmountUSD: 3_000_000},
		{SourceChainID: 42161, TargetChainID: 137, FeeRate: 0.0020, ETAMinutes: 25, MaxAmountUSD: 1_000_000},
		{SourceChainID: 137, TargetChainID: 42161, FeeRate: 0.0020, ETAMinutes: 25, MaxAmountUSD: 1_000_000},
	}
	for _, r := range routes {
		bridgeRoutes[bridgeKey{r.SourceChainID, r.TargetChainID}] = r
	}
}

// BridgeRouteFor returns the static route for the (source, target) pair, or
// false when no supported route exists.
func BridgeRouteFor(source, target types.ChainID) (types.BridgeRoute, bool) {
	r, ok := bridgeRoutes[bridgeKey{source, target}]
	return r, ok
}

// BridgeRoutes returns a copy of every registered route.
func BridgeRoutes() []types.BridgeRoute {
	out := make([]types.BridgeRoute, 0, len(bridgeRoutes))
	for _, r := range bridgeRoutes {
		out = append(out, r)
	}
	return out
}
