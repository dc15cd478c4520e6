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

// SwapService quotes and executes single-hop swaps through the router.
type SwapService struct {
	env    *Env
	router *dex.Router
}

func NewSwapService(env *Env) *SwapService {
	env.init()
	return &SwapService{env: env, router: dex.NewRouter(env.Caller, env.Contracts.Router)}
}

// path is always [from, to]; native endpoints become the wrapped token.
func (s *SwapService) path(from, to model.Token) []common.Address {
	return []common.Address{s.env.chainAddress(from), s.env.chainAddress(to)}
}

// QuoteSwap previews the output of swapping amountIn of from into to. Empty,
// non-numeric or non-positive input returns "0" without touching the chain.
// Input with more fractional digits than from.Decimals returns "0" and
// ErrInvalidAmount. Chain failures are logged and return "0".
func (s *SwapService) QuoteSwap(ctx context.Context, from, to model.Token, amountIn string) (string, error) {
	if !units.IsPositive(amountIn) {
		return "0", nil
	}
	amount, err := units.ParseUnits(amountIn, from.Decimals)
	if err != nil {
		return "0", apperrors.New("quote swap", apperrors.ErrInvalidAmount, err)
	}

	path := s.path(from, to)
	amounts, err := s.router.GetAmountsOut(ctx, amount, path)
	if err != nil {
		s.env.Logger.Warn("swap quote failed",
			zap.String("from", path[0].Hex()),
			zap.String("to", path[1].Hex()),
			zap.String("amount_in", amountIn),
			zap.Error(err))
		return "0", nil
	}
	return units.FormatUnits(amounts[len(amounts)-1], to.Decimals), nil
}

// SwapRequest describes a swap of an exact input amount.
type SwapRequest struct {
	From     model.Token
	To       model.Token
	AmountIn string
	// ExpectedOut is the previewed output. When empty the router is queried
	// again at submission.
	ExpectedOut string
	Slippage    *amm.Tolerance
	// Recipient defaults to the signer.
	Recipient common.Address
}

// ExecuteSwap approves the input token if needed and submits the swap with a
// minimum output derived from the expected output and the slippage tolerance.
func (s *SwapService) ExecuteSwap(ctx context.Context, req SwapRequest) ([]txn.Result, error) {
	const op = "swap"
	seq, err := s.env.signer()
	if err != nil {
		return nil, err
	}
	amountIn, err := parseAmount(req.AmountIn, req.From.Decimals)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	if req.From.IsNative() && req.To.IsNative() {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, errors.New("cannot swap the native asset into itself"))
	}
	path := s.path(req.From, req.To)
	if path[0] == path[1] {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, errors.New("input and output token are the same"))
	}
	if err := checkBalance(req.From, amountIn); err != nil {
		return nil, apperrors.Classify(op, err)
	}

	expected, err := s.expectedOut(ctx, req, amountIn, path)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	if expected.Sign() <= 0 {
		if req.ExpectedOut != "" {
			return nil, apperrors.New(op, apperrors.ErrInvalidAmount, errors.New("expected output must be greater than zero"))
		}
		return nil, apperrors.New(op, apperrors.ErrInsufficientLiquidity,
			fmt.Errorf("router quotes 0 %s for %s %s", req.To.Symbol, req.AmountIn, req.From.Symbol))
	}
	minOut := amm.MinAmount(expected, s.env.tolerance(req.Slippage))

	recipient := req.Recipient
	if recipient == (common.Address{}) {
		recipient = seq.From()
	}
	before, err := s.env.balanceOf(ctx, req.To, recipient)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	deadline := s.env.deadline()

	action := txn.Action{
		Name: op,
		To:   s.router.Address,
		Verify: func(ctx context.Context) (bool, error) {
			after, err := s.env.balanceOf(ctx, req.To, recipient)
			if err != nil {
				return false, err
			}
			return after.Cmp(before) > 0, nil
		},
	}
	var approvals []txn.Approval
	switch {
	case req.From.IsNative():
		action.Data, err = dex.PackSwapExactETHForTokens(minOut, path, recipient, deadline)
		action.Value = amountIn
	case req.To.IsNative():
		action.Data, err = dex.PackSwapExactTokensForETH(amountIn, minOut, path, recipient, deadline)
		approvals = append(approvals, txn.Approval{Token: path[0], Spender: s.router.Address, Amount: amountIn})
	default:
		action.Data, err = dex.PackSwapExactTokensForTokens(amountIn, minOut, path, recipient, deadline)
		approvals = append(approvals, txn.Approval{Token: path[0], Spender: s.router.Address, Amount: amountIn})
	}
	if err != nil {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, err)
	}

	s.env.Logger.Info("submitting swap",
		zap.String("from", req.From.Symbol),
		zap.String("to", req.To.Symbol),
		zap.String("amount_in", amountIn.String()),
		zap.String("expected_out", expected.String()),
		zap.String("min_out", minOut.String()),
		zap.String("slippage", s.env.tolerance(req.Slippage).String()),
	)
	return seq.Run(ctx, approvals, action)
}

func (s *SwapService) expectedOut(ctx context.Context, req SwapRequest, amountIn *big.Int, path []common.Address) (*big.Int, error) {
	if req.ExpectedOut != "" {
		expected, err := units.ParseUnitsTrunc(req.ExpectedOut, req.To.Decimals)
		if err != nil {
			return nil, err
		}
		return expected, nil
	}
	amounts, err := s.router.GetAmountsOut(ctx, amountIn, path)
	if err != nil {
		return nil, err
	}
	return amounts[len(amounts)-1], nil
}

// PairInfo returns the pair for tokenA/tokenB with fresh reserves, or nil when
// the pair does not exist or cannot be read.
func (s *SwapService) PairInfo(ctx context.Context, tokenA, tokenB model.Token) *model.ReservePair {
	a, b := s.env.chainAddress(tokenA), s.env.chainAddress(tokenB)
	pairAddr, err := dex.NewFactory(s.env.Caller, s.env.Contracts.Factory).GetPair(ctx, a, b)
	if err != nil {
		s.env.Logger.Warn("pair lookup failed", zap.String("token_a", a.Hex()), zap.String("token_b", b.Hex()), zap.Error(err))
		return nil
	}
	if pairAddr == (common.Address{}) {
		return nil
	}
	snap, err := dex.NewPair(s.env.Caller, pairAddr).Snapshot(ctx)
	if err != nil {
		s.env.Logger.Warn("pair read failed", zap.String("pair", pairAddr.Hex()), zap.Error(err))
		return nil
	}
	return &snap
}
