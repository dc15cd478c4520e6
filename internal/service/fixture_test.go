package service

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/chaintest"
	"swapDesk/internal/model"
	"swapDesk/internal/txn"
)

var (
	user       = common.HexToAddress("0x00000000000000000000000000000000000000f1")
	other      = common.HexToAddress("0x00000000000000000000000000000000000000f2")
	tokenAAddr = common.HexToAddress("0x00000000000000000000000000000000000000a1")
	tokenBAddr = common.HexToAddress("0x00000000000000000000000000000000000000b2")
	wethAddr   = common.HexToAddress("0x0000000000000000000000000000000000000eee")
	pairABAddr = common.HexToAddress("0x0000000000000000000000000000000000000ab0")
	pairAWAddr = common.HexToAddress("0x0000000000000000000000000000000000000ae0")
	pairBWAddr = common.HexToAddress("0x0000000000000000000000000000000000000be0")
	factoryAdr = common.HexToAddress("0x0000000000000000000000000000000000000fac")
	routerAddr = common.HexToAddress("0x0000000000000000000000000000000000000e01")
	chefAddr   = common.HexToAddress("0x0000000000000000000000000000000000000c4e")
	badgeAddr  = common.HexToAddress("0x0000000000000000000000000000000000000bad")

	ethToken = model.Token{Address: model.NativeAddress, Symbol: "ETH", Name: "Ether", Decimals: 18}
	tokenA   = model.Token{Address: tokenAAddr, Symbol: "AAA", Name: "Token A", Decimals: 18}
	tokenB   = model.Token{Address: tokenBAddr, Symbol: "BBB", Name: "Token B", Decimals: 18}
)

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

type fixture struct {
	chain  *chaintest.FakeChain
	tx     *chaintest.FakeTransactor
	a      *chaintest.Token
	b      *chaintest.Token
	pairAB *chaintest.Pair
	pairAW *chaintest.Pair
	chef   *chaintest.MasterChef
	badge  *chaintest.Badge
	env    *Env
}

// newFixture deploys two tokens, the wrapped native token, pairs AB (1000:2000)
// and A/WETH (1000:10), a router, a staking contract and a badge.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	c := chaintest.NewFakeChain()
	a := c.AddToken(tokenA)
	b := c.AddToken(tokenB)
	c.AddToken(model.Token{Address: wethAddr, Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18})

	f := c.AddFactory(factoryAdr)
	pairAB := c.AddPair(pairABAddr, tokenAAddr, tokenBAddr, ether(1000), ether(2000))
	pairAW := c.AddPair(pairAWAddr, tokenAAddr, wethAddr, ether(1000), ether(10))
	f.Register(pairAB)
	f.Register(pairAW)
	c.AddRouter(routerAddr, f, wethAddr)

	a.SetBalance(user, ether(10_000))
	b.SetBalance(user, ether(10_000))
	c.SetNative(user, ether(100))

	tx := chaintest.NewFakeTransactor(c, user)
	seq := txn.NewSequencer(tx, c, txn.Config{ReceiptTimeout: 50 * time.Millisecond, PollInterval: time.Millisecond}, nil)

	env := &Env{
		Caller: c,
		Seq:    seq,
		Contracts: Contracts{
			Router:        routerAddr,
			Factory:       factoryAdr,
			WrappedNative: wethAddr,
			MasterChef:    chefAddr,
			Badge:         badgeAddr,
			RewardToken:   tokenAAddr,
		},
		Tokens:  NewTokenList([]model.Token{ethToken, tokenA, tokenB}, wethAddr),
		Options: DefaultOptions(),
	}
	return &fixture{
		chain:  c,
		tx:     tx,
		a:      a,
		b:      b,
		pairAB: pairAB,
		pairAW: pairAW,
		chef:   c.AddMasterChef(chefAddr, ether(1)),
		badge:  c.AddBadge(badgeAddr, true),
		env:    env,
	}
}

func methods(sent []chaintest.SentTx) []string {
	out := make([]string, 0, len(sent))
	for _, s := range sent {
		out = append(out, s.Method)
	}
	return out
}
