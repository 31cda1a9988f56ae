/*
This file contains common utility functions for parsing decimal-string
balances supplied by the external balance scanner and for precision-safe
valuation math.
*/

package utils

import (
	"errors"
	"fmt"
	"math"
	"strings"

	sdkmath "cosmossdk.io/math"
)

// Error definitions for zero-tolerance error handling
var (
	ErrBalanceEmpty    = errors.New("balance string is empty")
	ErrBalanceInvalid  = errors.New("balance string is not a valid decimal")
	ErrBalanceNegative = errors.New("balance is negative")
	ErrNotFinite       = errors.New("value is not finite")
	ErrPriceInvalid    = errors.New("price is invalid")
)

// ParseBalance parses a scanner-supplied decimal string ("1043.25") into a
// float64 whole-token amount. Scientific notation is rejected; the scanner
// contract is plain decimal strings.
func ParseBalance(balance string) (float64, error) {
	trimmed := strings.TrimSpace(balance)
	if trimmed == "" {
		return 0, ErrBalanceEmpty
	}

	dec, err := sdkmath.LegacyNewDecFromStr(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrBalanceInvalid, balance, err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("%w: %q", ErrBalanceNegative, balance)
	}

	result, err := dec.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrBalanceInvalid, balance, err)
	}
	if math.IsNaN(result) || math.IsInf(result, 0) {
		return 0, fmt.Errorf("%w: result is %f", ErrNotFinite, result)
	}

	return result, nil
}

// BalanceValueUSD values a decimal-string balance at the given USD price
// using decimal math, avoiding float accumulation error on large balances.
func BalanceValueUSD(balance string, priceUSD float64) (float64, error) {
	if math.IsNaN(priceUSD) || math.IsInf(priceUSD, 0) || priceUSD < 0 {
		return 0, fmt.Errorf("%w: %f", ErrPriceInvalid, priceUSD)
	}

	trimmed := strings.TrimSpace(balance)
	if trimmed == "" {
		return 0, ErrBalanceEmpty
	}
	dec, err := sdkmath.LegacyNewDecFromStr(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrBalanceInvalid, balance, err)
	}
	if dec.IsNegative() {
		return 0, fmt.Errorf("%w: %q", ErrBalanceNegative, balance)
	}

	price, err := sdkmath.LegacyNewDecFromStr(fmt.Sprintf("%.12f", priceUSD))
	if err != nil {
		return 0, fmt.Errorf("%w: %f: %w", ErrPriceInvalid, priceUSD, err)
	}

	value, err := dec.Mul(price).Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBalanceInvalid, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%w: result is %f", ErrNotFinite, value)
	}
	return value, nil
}

// Clamp01 clamps v to [0,1], mapping NaN to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
