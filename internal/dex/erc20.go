package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/chain"
)

// ERC20 binds the token calls used for balances and allowances.
type ERC20 struct {
	caller  chain.Caller
	Address common.Address
}

func NewERC20(caller chain.Caller, address common.Address) *ERC20 {
	return &ERC20{caller: caller, Address: address}
}

func (t *ERC20) BalanceOf(ctx context.Context, owner common.Address) (*big.Int, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return callBigInt(ctx, t.caller, t.Address, parsed, "balanceOf", owner)
}

func (t *ERC20) Allowance(ctx context.Context, owner, spender common.Address) (*big.Int, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return callBigInt(ctx, t.caller, t.Address, parsed, "allowance", owner, spender)
}

func (t *ERC20) TotalSupply(ctx context.Context) (*big.Int, error) {
	parsed, err := ERC20ABI()
	if err != nil {
		return nil, fmt.Errorf("parse erc20 abi: %w", err)
	}
	return callBigInt(ctx, t.caller, t.Address, parsed, "totalSupply")
}

// PackApprove encodes approve(spender, amount).
func PackApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	return pack(ERC20ABI, "approve", spender, amount)
}
