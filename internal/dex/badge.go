package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/chain"
)

// Badge binds the one-per-account badge contract.
type Badge struct {
	caller  chain.Caller
	Address common.Address
}

func NewBadge(caller chain.Caller, address common.Address) *Badge {
	return &Badge{caller: caller, Address: address}
}

func (b *Badge) ClaimOpen(ctx context.Context) (bool, error) {
	parsed, err := BadgeABI()
	if err != nil {
		return false, fmt.Errorf("parse badge abi: %w", err)
	}
	values, err := callMethod(ctx, b.caller, b.Address, parsed, "claimOpen")
	if err != nil {
		return false, err
	}
	return asBool(values[0])
}

func (b *Badge) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	parsed, err := BadgeABI()
	if err != nil {
		return nil, fmt.Errorf("parse badge abi: %w", err)
	}
	return callBigInt(ctx, b.caller, b.Address, parsed, "balanceOf", owner)
}

func PackClaim() ([]byte, error) {
	return pack(BadgeABI, "claim")
}
