/*

This file contains the shared "best qualifying opportunity for asset X under
risk tolerance R" query. Both the recommendation generator and the
cross-chain arbitrage analyzer go through it, so matching semantics cannot
drift between the two.

*/

package optimizer

import (
	"sort"
	"strings"

	"github.com/defiscope/yoe/internal/scorer"
	"github.com/defiscope/yoe/internal/types"
)

// AssetMatches reports whether an opportunity's asset serves a holding's
// symbol: exact match, substring match (pool symbols like "USDC-WETH"), or
// the ETH/WETH equivalence.
func AssetMatches(opportunityAsset, holdingSymbol string) bool {
	asset := strings.ToUpper(strings.TrimSpace(opportunityAsset))
	symbol := strings.ToUpper(strings.TrimSpace(holdingSymbol))
	if asset == "" || symbol == "" {
		return false
	}
	if asset == symbol {
		return true
	}
	if strings.Contains(asset, symbol) || strings.Contains(symbol, asset) {
		return true
	}
	// Wrapped native equivalence: holders of ETH can enter WETH positions
	// and vice versa.
	if (asset == "ETH" && symbol == "WETH") || (asset == "WETH" && symbol == "ETH") {
		return true
	}
	return false
}

// Qualifies applies the risk bound and every preference predicate to one
// opportunity.
func Qualifies(o types.YieldOpportunity, holdingSymbol string, riskTolerance int, prefs types.OptimizationPreferences) bool {
	if !AssetMatches(o.Asset, holdingSymbol) {
		return false
	}
	if o.RiskScore > riskTolerance || o.RiskScore > prefs.MaxRiskLevel {
		return false
	}
	for _, excluded := range prefs.ExcludedProtocols {
		if strings.EqualFold(o.ProtocolName, excluded) {
			return false
		}
	}
	if len(prefs.PreferredProtocols) > 0 {
		allowed := false
		for _, preferred := range prefs.PreferredProtocols {
			if strings.EqualFold(o.ProtocolName, preferred) {
				allowed = true
				break
			}
		}
		if !allowed {
			return false
		}
	}
	if prefs.MaxLockPeriodDays > 0 && o.Requirements.LockPeriodDays > prefs.MaxLockPeriodDays {
		return false
	}
	if prefs.MinLiquidity > 0 && o.TVL < prefs.MinLiquidity {
		return false
	}
	return true
}

// RankQualifying filters the catalog snapshot for one holding symbol and
// ranks the survivors: APY descending as the primary key, confidence
// descending on ties. When the caller prefers auto-compounding,
// auto-compounding opportunities rank ahead on remaining ties.
func RankQualifying(opportunities []types.YieldOpportunity, holdingSymbol string, riskTolerance int, prefs types.OptimizationPreferences, params types.EngineParameters) []types.YieldOpportunity {
	qualifying := make([]types.YieldOpportunity, 0, len(opportunities))
	for _, o := range opportunities {
		if Qualifies(o, holdingSymbol, riskTolerance, prefs) {
			qualifying = append(qualifying, o)
		}
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		a, b := qualifying[i], qualifying[j]
		if a.APY != b.APY {
			return a.APY > b.APY
		}
		confA := scorer.Confidence(a, params)
		confB := scorer.Confidence(b, params)
		if confA != confB {
			return confA > confB
		}
		if prefs.AutoCompoundPreference && a.AutoCompounding != b.AutoCompounding {
			return a.AutoCompounding
		}
		return false
	})

	return qualifying
}

// BestQualifying returns the single best qualifying opportunity for the
// holding symbol, or false when none qualifies.
func BestQualifying(opportunities []types.YieldOpportunity, holdingSymbol string, riskTolerance int, prefs types.OptimizationPreferences, params types.EngineParameters) (types.YieldOpportunity, bool) {
	ranked := RankQualifying(opportunities, holdingSymbol, riskTolerance, prefs, params)
	if len(ranked) == 0 {
		return types.YieldOpportunity{}, false
	}
	return ranked[0], true
}
