package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapDesk/internal/apperrors"
	"swapDesk/internal/model"
)

func TestQuoteSwapNonPositiveSkipsChain(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)

	for _, in := range []string{"", "0", "0.000", "-1", "abc"} {
		out, err := svc.QuoteSwap(context.Background(), tokenA, tokenB, in)
		require.NoError(t, err, in)
		assert.Equal(t, "0", out, in)
	}
	assert.Equal(t, 0, fx.chain.Calls())
}

func TestQuoteSwapOverPrecision(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)

	out, err := svc.QuoteSwap(context.Background(), tokenA, tokenB, "1.0000000000000000001")
	assert.Equal(t, "0", out)
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	assert.Equal(t, 0, fx.chain.Calls())
}

func TestQuoteSwapMatchesRouter(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)

	out, err := svc.QuoteSwap(context.Background(), tokenA, tokenB, "1")
	require.NoError(t, err)
	assert.Equal(t, "1.992013962079806432", out)
}

func TestQuoteSwapNativeQuotesWrapped(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)
	weth := ethToken
	weth.Address = wethAddr

	native, err := svc.QuoteSwap(context.Background(), ethToken, tokenA, "1")
	require.NoError(t, err)
	wrapped, err := svc.QuoteSwap(context.Background(), weth, tokenA, "1")
	require.NoError(t, err)
	assert.NotEqual(t, "0", native)
	assert.Equal(t, wrapped, native)
}

func TestQuoteSwapChainFailureReturnsZero(t *testing.T) {
	fx := newFixture(t)
	fx.chain.FailCalls(errors.New("dial tcp: connection refused"))
	svc := NewSwapService(fx.env)

	out, err := svc.QuoteSwap(context.Background(), tokenA, tokenB, "1")
	require.NoError(t, err)
	assert.Equal(t, "0", out)
}

func TestExecuteSwapApprovesThenSwaps(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)

	results, err := svc.ExecuteSwap(context.Background(), SwapRequest{From: tokenA, To: tokenB, AmountIn: "1"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "approve", results[0].Name)
	assert.Equal(t, "swap", results[1].Name)

	sent := fx.tx.Sent()
	require.Equal(t, []string{"approve", "swapExactTokensForTokens"}, methods(sent))
	assert.Equal(t, 0, sent[0].Args[1].(*big.Int).Cmp(ether(2)), "approval headroom")

	expected, _ := new(big.Int).SetString("1992013962079806432", 10)
	minOut := new(big.Int).Mul(expected, big.NewInt(9950))
	minOut.Quo(minOut, big.NewInt(10000))
	assert.Equal(t, 0, sent[1].Args[1].(*big.Int).Cmp(minOut))
	assert.Equal(t, []common.Address{tokenAAddr, tokenBAddr}, sent[1].Args[2].([]common.Address))
	assert.Equal(t, 0, fx.b.Balance(user).Cmp(new(big.Int).Add(ether(10_000), expected)))
}

func TestExecuteSwapNativeInput(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)

	results, err := svc.ExecuteSwap(context.Background(), SwapRequest{From: ethToken, To: tokenA, AmountIn: "1"})
	require.NoError(t, err)
	require.Len(t, results, 1)

	sent := fx.tx.Sent()
	require.Equal(t, []string{"swapExactETHForTokens"}, methods(sent))
	assert.Equal(t, 0, sent[0].Value.Cmp(ether(1)))
	path := sent[0].Args[1].([]common.Address)
	assert.Equal(t, []common.Address{wethAddr, tokenAAddr}, path)
	assert.NotContains(t, path, ethToken.Address)
}

func TestExecuteSwapNativeOutput(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)
	before := fx.chain.Native(user)

	_, err := svc.ExecuteSwap(context.Background(), SwapRequest{From: tokenA, To: ethToken, AmountIn: "10"})
	require.NoError(t, err)
	assert.Equal(t, []string{"approve", "swapExactTokensForETH"}, methods(fx.tx.Sent()))
	assert.Equal(t, 1, fx.chain.Native(user).Cmp(before))
}

func TestExecuteSwapCachedBalanceTooLow(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)
	from := tokenA
	from.Balance = "0.5"

	_, err := svc.ExecuteSwap(context.Background(), SwapRequest{From: from, To: tokenB, AmountIn: "1"})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	assert.Empty(t, fx.tx.Sent())
}

func TestExecuteSwapSlippageRevert(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)

	// A stale preview far above what the pool pays.
	_, err := svc.ExecuteSwap(context.Background(), SwapRequest{From: tokenA, To: tokenB, AmountIn: "1", ExpectedOut: "3"})
	assert.ErrorIs(t, err, apperrors.ErrSlippageExceeded)
	assert.Equal(t, []string{"approve"}, methods(fx.tx.Sent()))
}

func TestExecuteSwapRejectsZeroExpectedOutput(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)

	// 1 wei of A against the 1000:10 A/WETH pool rounds to 0 ETH.
	_, err := svc.ExecuteSwap(context.Background(), SwapRequest{From: tokenA, To: ethToken, AmountIn: "0.000000000000000001"})
	assert.ErrorIs(t, err, apperrors.ErrInsufficientLiquidity)
	assert.Empty(t, fx.tx.Sent())

	_, err = svc.ExecuteSwap(context.Background(), SwapRequest{From: tokenA, To: tokenB, AmountIn: "1", ExpectedOut: "0"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	assert.Empty(t, fx.tx.Sent())
}

func TestExecuteSwapWithoutSigner(t *testing.T) {
	fx := newFixture(t)
	fx.env.Seq = nil
	svc := NewSwapService(fx.env)

	_, err := svc.ExecuteSwap(context.Background(), SwapRequest{From: tokenA, To: tokenB, AmountIn: "1"})
	assert.ErrorIs(t, err, ErrNoSigner)
}

func TestExecuteSwapLostReceiptVerifiedByBalance(t *testing.T) {
	fx := newFixture(t)
	fx.tx.WithholdReceipt("swapExactTokensForTokens")
	svc := NewSwapService(fx.env)

	results, err := svc.ExecuteSwap(context.Background(), SwapRequest{From: tokenA, To: tokenB, AmountIn: "1"})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.True(t, results[1].Verified)
	assert.Nil(t, results[1].Receipt)
}

func TestPairInfo(t *testing.T) {
	fx := newFixture(t)
	svc := NewSwapService(fx.env)

	info := svc.PairInfo(context.Background(), tokenB, tokenA)
	require.NotNil(t, info)
	assert.Equal(t, pairABAddr, info.PairAddress)
	assert.Equal(t, tokenAAddr, info.Token0)
	assert.Equal(t, 0, info.Reserve1.Cmp(ether(2000)))

	missing := model.Token{Address: common.HexToAddress("0x00000000000000000000000000000000000000c3"), Decimals: 18}
	assert.Nil(t, svc.PairInfo(context.Background(), tokenA, missing))
}
