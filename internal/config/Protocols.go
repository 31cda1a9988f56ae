/*

This file contains the fixed protocol allow-list used by the confidence
score and the stablecoin symbol set used by the strategist.

If a protocol is missing here it simply earns no reputation bonus; keep the
list limited to protocols with a long audited track record.

*/

package config

import "strings"

var (
	// EstablishedProtocols earn the flat reputation bonus in the
	// confidence score. Keys are lower-cased protocol names.
	EstablishedProtocols = map[string]bool{
		"aave":     true,
		"compound": true,
		"lido":     true,
		"curve":    true,
		"convex":   true,
		"uniswap":  true,
		"balancer": true,
		"yearn":    true,
	}

	// Stablecoins is the fixed symbol set treated as stable value by the
	// conservative strategy template.
	Stablecoins = map[string]bool{
		"USDC": true,
		"USDT": true,
		"DAI":  true,
		"FRAX": true,
		"LUSD": true,
	}
)

// IsEstablishedProtocol reports whether the protocol is allow-listed,
// case-insensitively.
func IsEstablishedProtocol(name string) bool {
	return EstablishedProtocols[strings.ToLower(name)]
}

// IsStablecoin reports whether the symbol is in the fixed stable set.
func IsStablecoin(symbol string) bool {
	return Stablecoins[strings.ToUpper(symbol)]
}
