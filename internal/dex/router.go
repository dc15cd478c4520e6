package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/chain"
)

// Router binds the periphery router that quotes and executes swaps and
// liquidity changes.
type Router struct {
	caller  chain.Caller
	Address common.Address
}

func NewRouter(caller chain.Caller, address common.Address) *Router {
	return &Router{caller: caller, Address: address}
}

// GetAmountsOut returns the router's output amounts along path for amountIn.
func (r *Router) GetAmountsOut(ctx context.Context, amountIn *big.Int, path []common.Address) ([]*big.Int, error) {
	parsed, err := RouterABI()
	if err != nil {
		return nil, fmt.Errorf("parse router abi: %w", err)
	}
	values, err := callMethod(ctx, r.caller, r.Address, parsed, "getAmountsOut", amountIn, path)
	if err != nil {
		return nil, err
	}
	amounts, ok := values[0].([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("getAmountsOut: unsupported type %T", values[0])
	}
	if len(amounts) != len(path) {
		return nil, fmt.Errorf("getAmountsOut: %d amounts for path of %d", len(amounts), len(path))
	}
	return amounts, nil
}

func PackSwapExactTokensForTokens(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	return pack(RouterABI, "swapExactTokensForTokens", amountIn, amountOutMin, path, to, deadline)
}

// PackSwapExactETHForTokens encodes a swap whose input is attached as call value.
func PackSwapExactETHForTokens(amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	return pack(RouterABI, "swapExactETHForTokens", amountOutMin, path, to, deadline)
}

func PackSwapExactTokensForETH(amountIn, amountOutMin *big.Int, path []common.Address, to common.Address, deadline *big.Int) ([]byte, error) {
	return pack(RouterABI, "swapExactTokensForETH", amountIn, amountOutMin, path, to, deadline)
}

func PackAddLiquidity(tokenA, tokenB common.Address, amountADesired, amountBDesired, amountAMin, amountBMin *big.Int, to common.Address, deadline *big.Int) ([]byte, error) {
	return pack(RouterABI, "addLiquidity", tokenA, tokenB, amountADesired, amountBDesired, amountAMin, amountBMin, to, deadline)
}

// PackAddLiquidityETH encodes addLiquidityETH; the native amount travels as call value.
func PackAddLiquidityETH(token common.Address, amountTokenDesired, amountTokenMin, amountETHMin *big.Int, to common.Address, deadline *big.Int) ([]byte, error) {
	return pack(RouterABI, "addLiquidityETH", token, amountTokenDesired, amountTokenMin, amountETHMin, to, deadline)
}

func PackRemoveLiquidity(tokenA, tokenB common.Address, liquidity, amountAMin, amountBMin *big.Int, to common.Address, deadline *big.Int) ([]byte, error) {
	return pack(RouterABI, "removeLiquidity", tokenA, tokenB, liquidity, amountAMin, amountBMin, to, deadline)
}

func PackRemoveLiquidityETH(token common.Address, liquidity, amountTokenMin, amountETHMin *big.Int, to common.Address, deadline *big.Int) ([]byte, error) {
	return pack(RouterABI, "removeLiquidityETH", token, liquidity, amountTokenMin, amountETHMin, to, deadline)
}
