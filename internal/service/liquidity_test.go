package service

import (
	"context"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapDesk/internal/apperrors"
	"swapDesk/internal/model"
)

func TestQuoteLiquidityKeepsPrice(t *testing.T) {
	fx := newFixture(t)
	svc := NewLiquidityService(fx.env)
	ctx := context.Background()

	tests := []struct {
		a, b   model.Token
		amount string
		side   Side
		want   string
	}{
		{tokenA, tokenB, "100", SideA, "200"},
		{tokenA, tokenB, "200", SideB, "100"},
		{tokenB, tokenA, "200", SideA, "100"},
		{tokenB, tokenA, "100", SideB, "200"},
		{ethToken, tokenA, "1", SideA, "100"},
	}
	for _, tt := range tests {
		got, err := svc.QuoteLiquidity(ctx, tt.a, tt.b, tt.amount, tt.side)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "%s/%s %s on %s", tt.a.Symbol, tt.b.Symbol, tt.amount, tt.side)
	}
}

func TestQuoteLiquidityWithoutPair(t *testing.T) {
	fx := newFixture(t)
	svc := NewLiquidityService(fx.env)
	unlisted := model.Token{Address: common.HexToAddress("0x00000000000000000000000000000000000000c3"), Decimals: 18}

	got, err := svc.QuoteLiquidity(context.Background(), tokenA, unlisted, "100", SideA)
	require.NoError(t, err)
	assert.Equal(t, "0", got)

	got, err = svc.QuoteLiquidity(context.Background(), tokenA, tokenB, "0", SideA)
	require.NoError(t, err)
	assert.Equal(t, "0", got)
}

func TestQuoteLiquidityEmptyReserve(t *testing.T) {
	fx := newFixture(t)
	fx.pairAB.SetReserves(new(big.Int), ether(5))
	svc := NewLiquidityService(fx.env)

	got, err := svc.QuoteLiquidity(context.Background(), tokenA, tokenB, "100", SideA)
	require.NoError(t, err)
	assert.Equal(t, "0", got)
}

func TestAddLiquidityApprovesBothSides(t *testing.T) {
	fx := newFixture(t)
	svc := NewLiquidityService(fx.env)

	results, err := svc.AddLiquidity(context.Background(), AddLiquidityRequest{
		TokenA: tokenA, TokenB: tokenB, AmountA: "10", AmountB: "20",
	})
	require.NoError(t, err)
	require.Len(t, results, 3)

	sent := fx.tx.Sent()
	require.Equal(t, []string{"approve", "approve", "addLiquidity"}, methods(sent))
	assert.Equal(t, tokenAAddr, sent[0].To)
	assert.Equal(t, tokenBAddr, sent[1].To)
	add := sent[2].Args
	assert.Equal(t, 0, add[4].(*big.Int).Cmp(new(big.Int).Mul(big.NewInt(995), big.NewInt(10_000_000_000_000_000))), "minA is 9.95")
	assert.Equal(t, 0, add[5].(*big.Int).Cmp(new(big.Int).Mul(big.NewInt(199), big.NewInt(100_000_000_000_000_000))), "minB is 19.9")
	assert.Equal(t, 1, fx.pairAB.Balance(user).Sign())
}

func TestAddLiquidityNativeSide(t *testing.T) {
	fx := newFixture(t)
	svc := NewLiquidityService(fx.env)

	_, err := svc.AddLiquidity(context.Background(), AddLiquidityRequest{
		TokenA: ethToken, TokenB: tokenA, AmountA: "1", AmountB: "100",
	})
	require.NoError(t, err)

	sent := fx.tx.Sent()
	require.Equal(t, []string{"approve", "addLiquidityETH"}, methods(sent))
	assert.Equal(t, tokenAAddr, sent[0].To)
	assert.Equal(t, tokenAAddr, sent[1].Args[0])
	assert.Equal(t, 0, sent[1].Value.Cmp(ether(1)))
	assert.Equal(t, 1, fx.pairAW.Balance(user).Sign())
}

func TestAddLiquiditySameToken(t *testing.T) {
	fx := newFixture(t)
	svc := NewLiquidityService(fx.env)

	_, err := svc.AddLiquidity(context.Background(), AddLiquidityRequest{
		TokenA: tokenA, TokenB: tokenA, AmountA: "1", AmountB: "1",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	assert.Empty(t, fx.tx.Sent())
}

func TestRemoveLiquidityFullBalanceWithFreshReserves(t *testing.T) {
	fx := newFixture(t)
	fx.pairAB.Mint(user, big.NewInt(250))
	fx.pairAB.Mint(other, big.NewInt(750))
	// Reserves moved since the position was listed.
	fx.pairAB.SetReserves(ether(2000), ether(4000))
	svc := NewLiquidityService(fx.env)

	_, err := svc.RemoveLiquidity(context.Background(), RemoveLiquidityRequest{Pair: pairABAddr, Percent: 100})
	require.NoError(t, err)

	sent := fx.tx.Sent()
	require.Equal(t, []string{"approve", "removeLiquidity"}, methods(sent))
	assert.Equal(t, pairABAddr, sent[0].To)
	args := sent[1].Args
	assert.Equal(t, 0, args[2].(*big.Int).Cmp(big.NewInt(250)))
	min0 := new(big.Int).Mul(big.NewInt(4975), big.NewInt(100_000_000_000_000_000))
	min1 := ether(995)
	assert.Equal(t, 0, args[3].(*big.Int).Cmp(min0))
	assert.Equal(t, 0, args[4].(*big.Int).Cmp(min1))
	assert.Equal(t, 0, fx.pairAB.Balance(user).Sign())
}

func TestRemoveLiquidityRejectsZeroPercent(t *testing.T) {
	fx := newFixture(t)
	fx.pairAB.Mint(user, big.NewInt(250))
	svc := NewLiquidityService(fx.env)

	for _, pct := range []uint64{0, 101} {
		_, err := svc.RemoveLiquidity(context.Background(), RemoveLiquidityRequest{Pair: pairABAddr, Percent: pct})
		assert.ErrorIs(t, err, apperrors.ErrInvalidAmount)
	}
	assert.Empty(t, fx.tx.Sent())
}

func TestRemoveLiquidityWrappedPair(t *testing.T) {
	fx := newFixture(t)
	fx.pairAW.Mint(user, big.NewInt(100))
	fx.pairAW.Mint(other, big.NewInt(900))
	before := fx.chain.Native(user)
	svc := NewLiquidityService(fx.env)

	_, err := svc.RemoveLiquidity(context.Background(), RemoveLiquidityRequest{Pair: pairAWAddr, Percent: 50})
	require.NoError(t, err)

	sent := fx.tx.Sent()
	require.Equal(t, []string{"approve", "removeLiquidityETH"}, methods(sent))
	args := sent[1].Args
	assert.Equal(t, tokenAAddr, args[0])
	assert.Equal(t, 0, args[1].(*big.Int).Cmp(big.NewInt(50)))
	// 50 of 1000 LP against 1000 A : 10 WETH, less 0.5%.
	minToken := new(big.Int).Mul(big.NewInt(4975), big.NewInt(1e16))
	minETH := new(big.Int).Mul(big.NewInt(4975), big.NewInt(1e14))
	assert.Equal(t, 0, args[2].(*big.Int).Cmp(minToken), "token min %s", args[2])
	assert.Equal(t, 0, args[3].(*big.Int).Cmp(minETH), "eth min %s", args[3])
	assert.Equal(t, 0, fx.pairAW.Balance(user).Cmp(big.NewInt(50)))
	assert.Equal(t, 1, fx.chain.Native(user).Cmp(before))
}

func TestPositions(t *testing.T) {
	fx := newFixture(t)
	fx.pairAB.Mint(user, big.NewInt(250))
	fx.pairAB.Mint(other, big.NewInt(750))
	fx.pairAW.Mint(other, big.NewInt(10))
	svc := NewLiquidityService(fx.env)

	positions := svc.Positions(context.Background(), user)
	require.Len(t, positions, 1)
	p := positions[0]
	assert.Equal(t, pairABAddr, p.Pair)
	assert.Equal(t, "AAA", p.Token0.Symbol)
	assert.Equal(t, "BBB", p.Token1.Symbol)
	assert.Equal(t, "250", p.Balance)
	assert.Equal(t, "1000", p.TotalSupply)
	assert.Equal(t, "25.00", p.PoolShare)
	assert.Equal(t, "250", p.Token0Deposited)
	assert.Equal(t, "500", p.Token1Deposited)
}

func TestPositionsFailSoft(t *testing.T) {
	fx := newFixture(t)
	fx.chain.FailCalls(context.DeadlineExceeded)
	svc := NewLiquidityService(fx.env)

	positions := svc.Positions(context.Background(), user)
	assert.NotNil(t, positions)
	assert.Empty(t, positions)
}
