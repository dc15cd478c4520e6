package service

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"swapDesk/internal/model"
)

func TestListPoolsTailWindow(t *testing.T) {
	fx := newFixture(t)
	f := fx.chain.AddFactory(factoryAdr)
	f.Register(fx.pairAB)
	f.Register(fx.pairAW)
	f.Register(fx.chain.AddPair(pairBWAddr, tokenBAddr, wethAddr, ether(300), ether(3)))
	fx.env.Options.Window = ScanWindow{Size: 2}
	svc := NewPoolsService(fx.env)

	pools := svc.ListPools(context.Background())
	require.Len(t, pools, 2)
	assert.Equal(t, []common.Address{pairAWAddr, pairBWAddr}, []common.Address{pools[0].Pair, pools[1].Pair})

	aw := pools[0]
	assert.Equal(t, "AAA", aw.Token0.Symbol)
	assert.Equal(t, "ETH", aw.Token1.Symbol)
	assert.Equal(t, wethAddr, aw.Token1.Address)
	assert.Equal(t, "1000", aw.Reserve0)
	assert.Equal(t, "10", aw.Reserve1)
	assert.Equal(t, "1010", aw.TVL)
	assert.Equal(t, "101", aw.Volume24h)
	assert.Equal(t, "10.95", aw.APR)

	assert.Equal(t, "BBB", pools[1].Token0.Symbol)
}

func TestListPoolsOffsetPage(t *testing.T) {
	fx := newFixture(t)
	fx.env.Options.Window = ScanWindow{Size: 1, Offset: 1}
	svc := NewPoolsService(fx.env)

	pools := svc.ListPools(context.Background())
	require.Len(t, pools, 1)
	assert.Equal(t, pairABAddr, pools[0].Pair)
}

func TestListPoolsResolvesUnlistedToken(t *testing.T) {
	fx := newFixture(t)
	unlisted := common.HexToAddress("0x00000000000000000000000000000000000000c3")
	fx.chain.AddToken(model.Token{Address: unlisted, Symbol: "CCC", Name: "Token C", Decimals: 6})
	f := fx.chain.AddFactory(factoryAdr)
	f.Register(fx.chain.AddPair(common.HexToAddress("0x0000000000000000000000000000000000000ac0"), tokenAAddr, unlisted, ether(1), ether(0)))
	svc := NewPoolsService(fx.env)

	pools := svc.ListPools(context.Background())
	require.Len(t, pools, 1)
	assert.Equal(t, "CCC", pools[0].Token1.Symbol)
	assert.Equal(t, uint8(6), pools[0].Token1.Decimals)
}

func TestListPoolsFailSoft(t *testing.T) {
	fx := newFixture(t)
	fx.chain.FailCalls(context.DeadlineExceeded)
	svc := NewPoolsService(fx.env)

	pools := svc.ListPools(context.Background())
	assert.NotNil(t, pools)
	assert.Empty(t, pools)
}
