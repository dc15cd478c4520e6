package service

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swapDesk/internal/dex"
	"swapDesk/internal/model"
	"swapDesk/internal/units"
)

// maxFanOut bounds concurrent reads issued by one listing.
const maxFanOut = 8

// balanceOf returns owner's balance of t in base units; native uses eth_getBalance.
func (e *Env) balanceOf(ctx context.Context, t model.Token, owner common.Address) (*big.Int, error) {
	if t.IsNative() {
		return e.Caller.BalanceAt(ctx, owner, nil)
	}
	return dex.NewERC20(e.Caller, t.Address).BalanceOf(ctx, owner)
}

// BalanceService loads wallet balances for display.
type BalanceService struct {
	env *Env
}

func NewBalanceService(env *Env) *BalanceService {
	env.init()
	return &BalanceService{env: env}
}

// Load returns account's balance of each token as a decimal string keyed by
// token address. A token whose read fails reads as "0".
func (s *BalanceService) Load(ctx context.Context, account common.Address, tokens []model.Token) map[common.Address]string {
	out := make(map[common.Address]string, len(tokens))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)
	for _, t := range tokens {
		t := t
		g.Go(func() error {
			value := "0"
			bal, err := s.env.balanceOf(gctx, t, account)
			if err != nil {
				s.env.Logger.Warn("balance read failed",
					zap.String("token", t.Address.Hex()),
					zap.String("account", account.Hex()),
					zap.Error(err))
			} else {
				value = units.FormatUnits(bal, t.Decimals)
			}
			mu.Lock()
			out[t.Address] = value
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// WithBalances returns a copy of tokens with Balance filled from Load.
func (s *BalanceService) WithBalances(ctx context.Context, account common.Address, tokens []model.Token) []model.Token {
	balances := s.Load(ctx, account, tokens)
	out := make([]model.Token, len(tokens))
	for i, t := range tokens {
		t.Balance = balances[t.Address]
		out[i] = t
	}
	return out
}

// checkBalance rejects amount when the token's last known balance is lower.
// Tokens without a cached balance are not checked.
func checkBalance(t model.Token, amount *big.Int) error {
	if t.Balance == "" {
		return nil
	}
	have, err := units.ParseUnitsTrunc(t.Balance, t.Decimals)
	if err != nil {
		return nil
	}
	if have.Cmp(amount) < 0 {
		return insufficientBalance(t, have, amount)
	}
	return nil
}
