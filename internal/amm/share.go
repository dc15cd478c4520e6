package amm

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"

	"swapDesk/internal/apperrors"
)

var basisPoints = big.NewInt(10000)

// PoolShare returns balance/totalSupply as a percentage with two decimals.
// The division is done on integers; the fraction below 0.01% is dropped.
func PoolShare(balance, totalSupply *big.Int) string {
	if balance == nil || totalSupply == nil || totalSupply.Sign() == 0 {
		return "0.00"
	}
	bp := new(big.Int).Mul(balance, basisPoints)
	bp.Quo(bp, totalSupply)
	return decimal.NewFromBigInt(bp, -2).StringFixed(2)
}

// Deposited returns the part of reserve attributable to balance LP units.
func Deposited(balance, reserve, totalSupply *big.Int) *big.Int {
	if balance == nil || reserve == nil || totalSupply == nil || totalSupply.Sign() == 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(balance, reserve)
	return out.Quo(out, totalSupply)
}

// LiquidityForPercent returns balance * percent / 100. 100% returns balance
// exactly; 0% is rejected.
func LiquidityForPercent(balance *big.Int, percent uint64) (*big.Int, error) {
	if percent == 0 || percent > 100 {
		return nil, fmt.Errorf("%w: remove percentage %d outside (0, 100]", apperrors.ErrInvalidAmount, percent)
	}
	if balance == nil || balance.Sign() <= 0 {
		return nil, fmt.Errorf("%w: empty position", apperrors.ErrInsufficientBalance)
	}
	if percent == 100 {
		return new(big.Int).Set(balance), nil
	}
	out := new(big.Int).Mul(balance, new(big.Int).SetUint64(percent))
	out.Quo(out, big.NewInt(100))
	if out.Sign() == 0 {
		return nil, fmt.Errorf("%w: %d%% of %s rounds to zero", apperrors.ErrInvalidAmount, percent, balance)
	}
	return out, nil
}
