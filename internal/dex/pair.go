package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/chain"
	"swapDesk/internal/model"
)

// Pair binds a constant-product pair contract, which is also its LP token.
type Pair struct {
	caller  chain.Caller
	Address common.Address
}

func NewPair(caller chain.Caller, address common.Address) *Pair {
	return &Pair{caller: caller, Address: address}
}

func (p *Pair) Token0(ctx context.Context) (common.Address, error) {
	parsed, err := PairABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse pair abi: %w", err)
	}
	return callAddress(ctx, p.caller, p.Address, parsed, "token0")
}

func (p *Pair) Token1(ctx context.Context) (common.Address, error) {
	parsed, err := PairABI()
	if err != nil {
		return common.Address{}, fmt.Errorf("parse pair abi: %w", err)
	}
	return callAddress(ctx, p.caller, p.Address, parsed, "token1")
}

// GetReserves returns reserve0 and reserve1 in the pair's own token order.
func (p *Pair) GetReserves(ctx context.Context) (*big.Int, *big.Int, error) {
	parsed, err := PairABI()
	if err != nil {
		return nil, nil, fmt.Errorf("parse pair abi: %w", err)
	}
	values, err := callMethod(ctx, p.caller, p.Address, parsed, "getReserves")
	if err != nil {
		return nil, nil, err
	}
	if len(values) < 2 {
		return nil, nil, fmt.Errorf("getReserves: expected 3 values, got %d", len(values))
	}
	reserve0, err := asBigInt(values[0])
	if err != nil {
		return nil, nil, fmt.Errorf("reserve0: %w", err)
	}
	reserve1, err := asBigInt(values[1])
	if err != nil {
		return nil, nil, fmt.Errorf("reserve1: %w", err)
	}
	return reserve0, reserve1, nil
}

func (p *Pair) TotalSupply(ctx context.Context) (*big.Int, error) {
	parsed, err := PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}
	return callBigInt(ctx, p.caller, p.Address, parsed, "totalSupply")
}

func (p *Pair) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	parsed, err := PairABI()
	if err != nil {
		return nil, fmt.Errorf("parse pair abi: %w", err)
	}
	return callBigInt(ctx, p.caller, p.Address, parsed, "balanceOf", owner)
}

// Snapshot reads tokens, reserves and total supply into one ReservePair.
func (p *Pair) Snapshot(ctx context.Context) (model.ReservePair, error) {
	out := model.ReservePair{PairAddress: p.Address}
	var err error
	if out.Token0, err = p.Token0(ctx); err != nil {
		return out, err
	}
	if out.Token1, err = p.Token1(ctx); err != nil {
		return out, err
	}
	if out.Reserve0, out.Reserve1, err = p.GetReserves(ctx); err != nil {
		return out, err
	}
	if out.TotalSupply, err = p.TotalSupply(ctx); err != nil {
		return out, err
	}
	return out, nil
}
