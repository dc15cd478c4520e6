// Package units converts between human decimal strings and integer base units.
package units

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"swapDesk/internal/apperrors"
)

// ParseUnits converts a decimal string into base units with the given
// decimals. Input with more significant fractional digits than decimals
// allows is rejected.
func ParseUnits(value string, decimals uint8) (*big.Int, error) {
	shifted, err := parseShifted(value, decimals)
	if err != nil {
		return nil, err
	}
	if !shifted.Equal(shifted.Truncate(0)) {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits", apperrors.ErrInvalidAmount, value, decimals)
	}
	return shifted.BigInt(), nil
}

// ParseUnitsTrunc is ParseUnits but drops excess fractional digits, rounding toward zero.
func ParseUnitsTrunc(value string, decimals uint8) (*big.Int, error) {
	shifted, err := parseShifted(value, decimals)
	if err != nil {
		return nil, err
	}
	return shifted.Truncate(0).BigInt(), nil
}

func parseShifted(value string, decimals uint8) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", apperrors.ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", apperrors.ErrInvalidAmount, value)
	}
	if d.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", apperrors.ErrInvalidAmount, value)
	}
	return d.Shift(int32(decimals)), nil
}

// FormatUnits renders base units as a decimal string without trailing zeros.
func FormatUnits(value *big.Int, decimals uint8) string {
	if value == nil {
		return "0"
	}
	return decimal.NewFromBigInt(value, -int32(decimals)).String()
}

// IsPositive reports whether value parses as a number greater than zero.
func IsPositive(value string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return d.Sign() > 0
}

// Display shortens an amount for humans: at most places fractional digits
// and "<0.0001"-style output for dust.
func Display(value string, places int32) string {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil || d.IsZero() {
		return "0.0"
	}
	floor := decimal.New(1, -places)
	if d.Sign() > 0 && d.LessThan(floor) {
		return "<" + floor.String()
	}
	return d.StringFixed(places)
}
