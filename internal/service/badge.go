package service

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swapDesk/internal/apperrors"
	"swapDesk/internal/dex"
	"swapDesk/internal/model"
	"swapDesk/internal/txn"
)

var errNoBadge = errors.New("badge contract not configured")

// BadgeService reads claim eligibility and claims the one-per-account badge.
type BadgeService struct {
	env   *Env
	badge *dex.Badge
}

func NewBadgeService(env *Env) *BadgeService {
	env.init()
	return &BadgeService{env: env, badge: dex.NewBadge(env.Caller, env.Contracts.Badge)}
}

// Status reads whether claiming is open and whether account already holds a badge.
func (s *BadgeService) Status(ctx context.Context, account common.Address) (model.BadgeStatus, error) {
	if s.env.Contracts.Badge == (common.Address{}) {
		return model.BadgeStatus{}, errNoBadge
	}
	var status model.BadgeStatus
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		open, err := s.badge.ClaimOpen(gctx)
		if err != nil {
			return err
		}
		status.ClaimOpen = open
		return nil
	})
	g.Go(func() error {
		held, err := s.badge.BalanceOf(gctx, account)
		if err != nil {
			return err
		}
		status.HasClaimed = held.Sign() > 0
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.BadgeStatus{}, apperrors.Classify("badge status", err)
	}
	return status, nil
}

// Claim mints the signer's badge. A closed claim or an existing badge is
// reported before anything is submitted.
func (s *BadgeService) Claim(ctx context.Context) (*txn.Result, error) {
	const op = "claim badge"
	seq, err := s.env.signer()
	if err != nil {
		return nil, err
	}
	owner := seq.From()
	status, err := s.Status(ctx, owner)
	if err != nil {
		return nil, err
	}
	if !status.ClaimOpen {
		return nil, apperrors.New(op, apperrors.ErrClaimClosed, nil)
	}
	if status.HasClaimed {
		return nil, apperrors.New(op, apperrors.ErrAlreadyClaimed, nil)
	}

	data, err := dex.PackClaim()
	if err != nil {
		return nil, apperrors.New(op, apperrors.ErrReverted, err)
	}
	s.env.Logger.Info("claiming badge", zap.String("account", owner.Hex()))
	return seq.Execute(ctx, txn.Action{
		Name: op,
		To:   s.badge.Address,
		Data: data,
		Verify: func(ctx context.Context) (bool, error) {
			held, err := s.badge.BalanceOf(ctx, owner)
			if err != nil {
				return false, err
			}
			return held.Sign() > 0, nil
		},
	})
}
