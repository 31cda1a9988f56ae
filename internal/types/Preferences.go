/*

This file contains the caller-supplied optimization preferences. Every field
has a documented default applied by Normalize so a zero value means
"no filtering", never an accidental exclusion of everything.

*/

package types

import "fmt"

// OptimizationPreferences tune one optimization call. The zero value is
// usable after Normalize.
type OptimizationPreferences struct {
	// MaxRiskLevel caps opportunity risk scores independently of the call's
	// risk tolerance. 0 means no additional cap (defaults to 10).
	MaxRiskLevel int `json:"max_risk_level"`
	// PreferredProtocols, when non-empty, acts as an allow-list: only these
	// protocols qualify.
	PreferredProtocols []string `json:"preferred_protocols,omitempty"`
	// ExcludedProtocols is a block-list applied after the allow-list.
	ExcludedProtocols []string `json:"excluded_protocols,omitempty"`
	// MaxLockPeriodDays rejects opportunities with longer locks. 0 = unbounded.
	MaxLockPeriodDays int `json:"max_lock_period_days"`
	// MinLiquidity is a TVL floor in USD. 0 = no floor.
	MinLiquidity float64 `json:"min_liquidity"`
	// CrossChainEnabled gates the arbitrage analyzer. Defaults to true.
	CrossChainEnabled *bool `json:"cross_chain_enabled,omitempty"`
	// AutoCompoundPreference, when set, prefers auto-compounding
	// opportunities on ranking ties.
	AutoCompoundPreference bool `json:"auto_compound_preference"`
	// GasCostSensitivity is a 1-10 dial reserved for strategy gas estimates.
	// Defaults to 5.
	GasCostSensitivity int `json:"gas_cost_sensitivity"`
}

// Normalize applies documented defaults in place and returns the receiver.
func (p OptimizationPreferences) Normalize() OptimizationPreferences {
	if p.MaxRiskLevel <= 0 || p.MaxRiskLevel > 10 {
		p.MaxRiskLevel = 10
	}
	if p.CrossChainEnabled == nil {
		enabled := true
		p.CrossChainEnabled = &enabled
	}
	if p.GasCostSensitivity < 1 || p.GasCostSensitivity > 10 {
		p.GasCostSensitivity = 5
	}
	return p
}

// Validate rejects structurally malformed preferences. Called at the engine
// boundary; a failure here is a caller programming error.
func (p OptimizationPreferences) Validate() error {
	if p.MaxLockPeriodDays < 0 {
		return fmt.Errorf("max_lock_period_days cannot be negative: %d", p.MaxLockPeriodDays)
	}
	if p.MinLiquidity < 0 {
		return fmt.Errorf("min_liquidity cannot be negative: %f", p.MinLiquidity)
	}
	return nil
}

// CrossChain reports the effective cross-chain toggle.
func (p OptimizationPreferences) CrossChain() bool {
	return p.CrossChainEnabled == nil || *p.CrossChainEnabled
}
