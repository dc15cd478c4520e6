// Package amm holds the integer arithmetic used to preview and bound
// constant-product pool operations.
package amm

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"

	"swapDesk/internal/apperrors"
)

// BoundDenominator is the fixed denominator of the slippage multiplier.
var BoundDenominator = big.NewInt(10000)

var (
	hundred      = decimal.NewFromInt(100)
	maxTolerance = decimal.NewFromInt(50)
)

// DefaultTolerance is 0.5%.
var DefaultTolerance = Tolerance{pct: decimal.RequireFromString("0.5")}

// Tolerance is a slippage tolerance in percent, within [0, 50].
type Tolerance struct {
	pct decimal.Decimal
}

// ParseTolerance parses a percentage such as "0.5".
func ParseTolerance(value string) (Tolerance, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultTolerance, nil
	}
	pct, err := decimal.NewFromString(value)
	if err != nil {
		return Tolerance{}, fmt.Errorf("%w: slippage %q", apperrors.ErrInvalidAmount, value)
	}
	if pct.Sign() < 0 || pct.GreaterThan(maxTolerance) {
		return Tolerance{}, fmt.Errorf("%w: slippage %s outside [0, 50]", apperrors.ErrInvalidAmount, pct)
	}
	return Tolerance{pct: pct}, nil
}

// Numerator returns floor((100 - tolerance) * 100).
func (t Tolerance) Numerator() *big.Int {
	return hundred.Sub(t.pct).Mul(hundred).Floor().BigInt()
}

func (t Tolerance) String() string {
	return t.pct.String()
}

// MinAmount returns floor(quoted * Numerator / 10000).
func MinAmount(quoted *big.Int, t Tolerance) *big.Int {
	if quoted == nil || quoted.Sign() <= 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(quoted, t.Numerator())
	return out.Quo(out, BoundDenominator)
}
