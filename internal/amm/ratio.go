package amm

import (
	"bytes"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// SortsBefore reports whether a is token0 of the (a, b) pair. Pair contracts
// order their tokens by ascending address.
func SortsBefore(a, b common.Address) bool {
	return bytes.Compare(a.Bytes(), b.Bytes()) < 0
}

// PairedAmount returns amountIn * reserveOther / reserveSame, the amount of
// the other side that keeps the pool price unchanged. Zero reserves yield zero.
func PairedAmount(amountIn, reserveSame, reserveOther *big.Int) *big.Int {
	if amountIn == nil || reserveSame == nil || reserveOther == nil {
		return new(big.Int)
	}
	if reserveSame.Sign() == 0 || reserveOther.Sign() == 0 {
		return new(big.Int)
	}
	out := new(big.Int).Mul(amountIn, reserveOther)
	return out.Quo(out, reserveSame)
}
