package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/chain"
)

// Factory binds the pair registry.
type Factory struct {
	caller  chain.Caller
	Address common.Address
}

func NewFactory(caller chain.Caller, address common.Address) *Factory {
	return &Factory{caller: caller, Address: address}
}

// GetPair returns the pair for tokenA/tokenB, or the zero address when none exists.
func (f *Factory) GetPair(ctx context.Context, tokenA, tokenB common.Address) (common.Address, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}
	return callAddress(ctx, f.caller, f.Address, parsed, "getPair", tokenA, tokenB)
}

func (f *Factory) AllPairsLength(ctx context.Context) (uint64, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return 0, fmt.Errorf("parse factory abi: %w", err)
	}
	n, err := callBigInt(ctx, f.caller, f.Address, parsed, "allPairsLength")
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("allPairsLength out of range: %s", n)
	}
	return n.Uint64(), nil
}

func (f *Factory) AllPairs(ctx context.Context, index uint64) (common.Address, error) {
	parsed, err := FactoryABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse factory abi: %w", err)
	}
	return callAddress(ctx, f.caller, f.Address, parsed, "allPairs", new(big.Int).SetUint64(index))
}
