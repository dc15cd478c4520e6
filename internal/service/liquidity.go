package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapDesk/internal/amm"
	"swapDesk/internal/apperrors"
	"swapDesk/internal/dex"
	"swapDesk/internal/model"
	"swapDesk/internal/txn"
	"swapDesk/internal/units"
)

// Side names the liquidity input the user edited.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// LiquidityService quotes, adds and removes pair liquidity and lists positions.
type LiquidityService struct {
	env     *Env
	router  *dex.Router
	factory *dex.Factory
}

func NewLiquidityService(env *Env) *LiquidityService {
	env.init()
	return &LiquidityService{
		env:     env,
		router:  dex.NewRouter(env.Caller, env.Contracts.Router),
		factory: dex.NewFactory(env.Caller, env.Contracts.Factory),
	}
}

// QuoteLiquidity returns the amount of the other token that keeps the pool
// price when amount of the edited side is deposited. It returns "0" when the
// pair does not exist, a reserve is empty, the input is not positive, or the
// chain cannot be read.
func (s *LiquidityService) QuoteLiquidity(ctx context.Context, tokenA, tokenB model.Token, amount string, side Side) (string, error) {
	if side != SideA && side != SideB {
		return "0", apperrors.New("quote liquidity", apperrors.ErrInvalidAmount, fmt.Errorf("unknown side %q", side))
	}
	if !units.IsPositive(amount) {
		return "0", nil
	}

	a, b := s.env.chainAddress(tokenA), s.env.chainAddress(tokenB)
	pairAddr, err := s.factory.GetPair(ctx, a, b)
	if err != nil {
		s.env.Logger.Warn("liquidity quote pair lookup failed", zap.String("token_a", a.Hex()), zap.String("token_b", b.Hex()), zap.Error(err))
		return "0", nil
	}
	if pairAddr == (common.Address{}) {
		return "0", nil
	}
	reserve0, reserve1, err := dex.NewPair(s.env.Caller, pairAddr).GetReserves(ctx)
	if err != nil {
		s.env.Logger.Warn("liquidity quote reserves failed", zap.String("pair", pairAddr.Hex()), zap.Error(err))
		return "0", nil
	}

	reserveA, reserveB := reserve0, reserve1
	if !amm.SortsBefore(a, b) {
		reserveA, reserveB = reserve1, reserve0
	}
	if reserveA.Sign() == 0 || reserveB.Sign() == 0 {
		return "0", nil
	}

	if side == SideA {
		in, err := units.ParseUnitsTrunc(amount, tokenA.Decimals)
		if err != nil {
			return "0", nil
		}
		return units.FormatUnits(amm.PairedAmount(in, reserveA, reserveB), tokenB.Decimals), nil
	}
	in, err := units.ParseUnitsTrunc(amount, tokenB.Decimals)
	if err != nil {
		return "0", nil
	}
	return units.FormatUnits(amm.PairedAmount(in, reserveB, reserveA), tokenA.Decimals), nil
}

// AddLiquidityRequest deposits both sides of a pair.
type AddLiquidityRequest struct {
	TokenA    model.Token
	TokenB    model.Token
	AmountA   string
	AmountB   string
	Slippage  *amm.Tolerance
	Recipient common.Address
}

// AddLiquidity approves the ERC20 legs and deposits with minimum amounts
// bounded per side by the slippage tolerance. A native leg is sent as value
// through addLiquidityETH.
func (s *LiquidityService) AddLiquidity(ctx context.Context, req AddLiquidityRequest) ([]txn.Result, error) {
	const op = "add liquidity"
	seq, err := s.env.signer()
	if err != nil {
		return nil, err
	}
	amountA, err := parseAmount(req.AmountA, req.TokenA.Decimals)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	amountB, err := parseAmount(req.AmountB, req.TokenB.Decimals)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	a, b := s.env.chainAddress(req.TokenA), s.env.chainAddress(req.TokenB)
	if a == b {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, errors.New("both sides are the same token"))
	}
	if err := checkBalance(req.TokenA, amountA); err != nil {
		return nil, apperrors.Classify(op, err)
	}
	if err := checkBalance(req.TokenB, amountB); err != nil {
		return nil, apperrors.Classify(op, err)
	}

	tol := s.env.tolerance(req.Slippage)
	minA, minB := amm.MinAmount(amountA, tol), amm.MinAmount(amountB, tol)
	recipient := req.Recipient
	if recipient == (common.Address{}) {
		recipient = seq.From()
	}

	lpBefore := new(big.Int)
	pairAddr, err := s.factory.GetPair(ctx, a, b)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	if pairAddr != (common.Address{}) {
		if lpBefore, err = dex.NewPair(s.env.Caller, pairAddr).BalanceOf(ctx, recipient); err != nil {
			return nil, apperrors.Classify(op, err)
		}
	}

	deadline := s.env.deadline()
	action := txn.Action{
		Name: op,
		To:   s.router.Address,
		Verify: func(ctx context.Context) (bool, error) {
			pair, err := s.factory.GetPair(ctx, a, b)
			if err != nil || pair == (common.Address{}) {
				return false, err
			}
			after, err := dex.NewPair(s.env.Caller, pair).BalanceOf(ctx, recipient)
			if err != nil {
				return false, err
			}
			return after.Cmp(lpBefore) > 0, nil
		},
	}

	var approvals []txn.Approval
	switch {
	case req.TokenA.IsNative() || req.TokenB.IsNative():
		token, amountToken, minToken, amountETH, minETH := b, amountB, minB, amountA, minA
		if req.TokenB.IsNative() {
			token, amountToken, minToken, amountETH, minETH = a, amountA, minA, amountB, minB
		}
		action.Data, err = dex.PackAddLiquidityETH(token, amountToken, minToken, minETH, recipient, deadline)
		action.Value = amountETH
		approvals = append(approvals, txn.Approval{Token: token, Spender: s.router.Address, Amount: amountToken})
	default:
		action.Data, err = dex.PackAddLiquidity(a, b, amountA, amountB, minA, minB, recipient, deadline)
		approvals = append(approvals,
			txn.Approval{Token: a, Spender: s.router.Address, Amount: amountA},
			txn.Approval{Token: b, Spender: s.router.Address, Amount: amountB},
		)
	}
	if err != nil {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, err)
	}

	s.env.Logger.Info("submitting add liquidity",
		zap.String("token_a", req.TokenA.Symbol),
		zap.String("token_b", req.TokenB.Symbol),
		zap.String("amount_a", amountA.String()),
		zap.String("amount_b", amountB.String()),
		zap.String("min_a", minA.String()),
		zap.String("min_b", minB.String()),
	)
	return seq.Run(ctx, approvals, action)
}

// RemoveLiquidityRequest withdraws a percentage of the signer's position.
type RemoveLiquidityRequest struct {
	Pair common.Address
	// Percent is in (0, 100]; 100 removes the exact LP balance.
	Percent   uint64
	Slippage  *amm.Tolerance
	Recipient common.Address
}

// RemoveLiquidity burns Percent of the signer's LP balance. Minimum amounts
// are the pro-rata share of freshly read reserves bounded by the slippage
// tolerance. Pairs with the wrapped-native token go through removeLiquidityETH.
func (s *LiquidityService) RemoveLiquidity(ctx context.Context, req RemoveLiquidityRequest) ([]txn.Result, error) {
	const op = "remove liquidity"
	seq, err := s.env.signer()
	if err != nil {
		return nil, err
	}
	if req.Percent == 0 || req.Percent > 100 {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, fmt.Errorf("remove percentage %d outside (0, 100]", req.Percent))
	}
	owner := seq.From()
	pair := dex.NewPair(s.env.Caller, req.Pair)

	snap, err := pair.Snapshot(ctx)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	balance, err := pair.BalanceOf(ctx, owner)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	liquidity, err := amm.LiquidityForPercent(balance, req.Percent)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}

	tol := s.env.tolerance(req.Slippage)
	min0 := amm.MinAmount(amm.Deposited(liquidity, snap.Reserve0, snap.TotalSupply), tol)
	min1 := amm.MinAmount(amm.Deposited(liquidity, snap.Reserve1, snap.TotalSupply), tol)
	recipient := req.Recipient
	if recipient == (common.Address{}) {
		recipient = owner
	}
	deadline := s.env.deadline()

	action := txn.Action{
		Name: op,
		To:   s.router.Address,
		Verify: func(ctx context.Context) (bool, error) {
			after, err := pair.BalanceOf(ctx, owner)
			if err != nil {
				return false, err
			}
			return after.Cmp(balance) < 0, nil
		},
	}
	weth := s.env.Contracts.WrappedNative
	switch {
	case snap.Token0 == weth || snap.Token1 == weth:
		token := snap.Token0
		if token == weth {
			token = snap.Token1
		}
		reserveToken, reserveETH := snap.ReservesFor(token)
		minToken := amm.MinAmount(amm.Deposited(liquidity, reserveToken, snap.TotalSupply), tol)
		minETH := amm.MinAmount(amm.Deposited(liquidity, reserveETH, snap.TotalSupply), tol)
		action.Data, err = dex.PackRemoveLiquidityETH(token, liquidity, minToken, minETH, recipient, deadline)
	default:
		action.Data, err = dex.PackRemoveLiquidity(snap.Token0, snap.Token1, liquidity, min0, min1, recipient, deadline)
	}
	if err != nil {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, err)
	}

	s.env.Logger.Info("submitting remove liquidity",
		zap.String("pair", req.Pair.Hex()),
		zap.Uint64("percent", req.Percent),
		zap.String("liquidity", liquidity.String()),
		zap.String("min0", min0.String()),
		zap.String("min1", min1.String()),
	)
	approvals := []txn.Approval{{Token: req.Pair, Spender: s.router.Address, Amount: liquidity}}
	return seq.Run(ctx, approvals, action)
}

// Positions lists the pairs in the scan window where account holds LP
// tokens. Pairs that cannot be read are skipped; a failed scan returns an
// empty list.
func (s *LiquidityService) Positions(ctx context.Context, account common.Address) []model.LiquidityPosition {
	out, err := scanPairs(ctx, s.env, func(ctx context.Context, pairAddr common.Address) (model.LiquidityPosition, bool, error) {
		return s.position(ctx, pairAddr, account)
	})
	if err != nil {
		s.env.Logger.Warn("position scan failed", zap.String("account", account.Hex()), zap.Error(err))
		return []model.LiquidityPosition{}
	}
	return out
}

func (s *LiquidityService) position(ctx context.Context, pairAddr, account common.Address) (model.LiquidityPosition, bool, error) {
	pair := dex.NewPair(s.env.Caller, pairAddr)
	balance, err := pair.BalanceOf(ctx, account)
	if err != nil {
		return model.LiquidityPosition{}, false, err
	}
	if balance.Sign() <= 0 {
		return model.LiquidityPosition{}, false, nil
	}
	snap, err := pair.Snapshot(ctx)
	if err != nil {
		return model.LiquidityPosition{}, false, err
	}
	token0, err := s.env.Tokens.Resolve(ctx, s.env.Caller, snap.Token0, s.env.Logger)
	if err != nil {
		return model.LiquidityPosition{}, false, err
	}
	token1, err := s.env.Tokens.Resolve(ctx, s.env.Caller, snap.Token1, s.env.Logger)
	if err != nil {
		return model.LiquidityPosition{}, false, err
	}

	return model.LiquidityPosition{
		Pair:            pairAddr,
		Token0:          token0,
		Token1:          token1,
		Balance:         balance.String(),
		TotalSupply:     snap.TotalSupply.String(),
		Reserve0:        snap.Reserve0.String(),
		Reserve1:        snap.Reserve1.String(),
		PoolShare:       amm.PoolShare(balance, snap.TotalSupply),
		Token0Deposited: units.FormatUnits(amm.Deposited(balance, snap.Reserve0, snap.TotalSupply), token0.Decimals),
		Token1Deposited: units.FormatUnits(amm.Deposited(balance, snap.Reserve1, snap.TotalSupply), token1.Decimals),
	}, true, nil
}
