package service

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swapDesk/internal/apperrors"
	"swapDesk/internal/dex"
	"swapDesk/internal/model"
	"swapDesk/internal/txn"
	"swapDesk/internal/units"
)

var errNoStaking = errors.New("staking contract not configured")

// FarmingService reads staking pools and stakes, unstakes and harvests LP tokens.
type FarmingService struct {
	env  *Env
	chef *dex.MasterChef
}

func NewFarmingService(env *Env) *FarmingService {
	env.init()
	return &FarmingService{env: env, chef: dex.NewMasterChef(env.Caller, env.Contracts.MasterChef)}
}

func (s *FarmingService) configured() error {
	if s.env.Contracts.MasterChef == (common.Address{}) {
		return errNoStaking
	}
	return nil
}

// rewardToken is the configured reward token when it is in the token list,
// otherwise the first configured token.
func (s *FarmingService) rewardToken() model.Token {
	if t, ok := s.env.Tokens.Known(s.env.Contracts.RewardToken); ok {
		return t
	}
	if all := s.env.Tokens.All(); len(all) > 0 {
		return all[0]
	}
	return model.Token{Address: s.env.Contracts.RewardToken, Symbol: "Unknown", Name: "Unknown", Decimals: 18}
}

// Farms lists every staking pool. A pool that cannot be read is skipped; a
// failed listing returns an empty list.
func (s *FarmingService) Farms(ctx context.Context) []model.FarmPool {
	pools, err := s.farms(ctx)
	if err != nil {
		s.env.Logger.Warn("farm listing failed", zap.Error(err))
		return []model.FarmPool{}
	}
	return pools
}

func (s *FarmingService) farms(ctx context.Context) ([]model.FarmPool, error) {
	if err := s.configured(); err != nil {
		return nil, err
	}
	length, err := s.chef.PoolLength(ctx)
	if err != nil {
		return nil, err
	}
	rewardPerBlock, err := s.chef.RewardPerBlock(ctx)
	if err != nil {
		return nil, err
	}
	totalAlloc, err := s.chef.TotalAllocPoint(ctx)
	if err != nil {
		return nil, err
	}
	reward := s.rewardToken()

	slots := make([]*model.FarmPool, length)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)
	for pid := uint64(0); pid < length; pid++ {
		pid := pid
		g.Go(func() error {
			pool, err := s.farm(gctx, pid, rewardPerBlock, totalAlloc, reward)
			if err != nil {
				s.env.Logger.Warn("farm pool read failed", zap.Uint64("pool_id", pid), zap.Error(err))
				return nil
			}
			slots[pid] = &pool
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]model.FarmPool, 0, len(slots))
	for _, p := range slots {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *FarmingService) farm(ctx context.Context, pid uint64, rewardPerBlock, totalAlloc *big.Int, reward model.Token) (model.FarmPool, error) {
	info, err := s.chef.PoolInfo(ctx, pid)
	if err != nil {
		return model.FarmPool{}, err
	}
	lp := dex.NewPair(s.env.Caller, info.LPToken)
	token0Addr, err := lp.Token0(ctx)
	if err != nil {
		return model.FarmPool{}, err
	}
	token1Addr, err := lp.Token1(ctx)
	if err != nil {
		return model.FarmPool{}, err
	}
	staked, err := lp.BalanceOf(ctx, s.chef.Address)
	if err != nil {
		return model.FarmPool{}, err
	}

	perDay := new(big.Int).Mul(rewardPerBlock, new(big.Int).SetUint64(s.env.Options.BlocksPerDay))
	if totalAlloc.Sign() > 0 {
		perDay.Mul(perDay, info.AllocPoint)
		perDay.Quo(perDay, totalAlloc)
	}
	perDayDec := decimal.NewFromBigInt(perDay, -int32(reward.Decimals))
	stakedDec := decimal.NewFromBigInt(staked, -LPDecimals)

	return model.FarmPool{
		PoolID:        pid,
		LPToken:       info.LPToken,
		Token0:        s.displayToken(ctx, token0Addr),
		Token1:        s.displayToken(ctx, token1Addr),
		RewardToken:   reward,
		TotalStaked:   stakedDec.String(),
		RewardsPerDay: perDayDec.String(),
		APR:           s.env.Estimator.FarmAPR(perDayDec, stakedDec),
		DepositFee:    decimal.NewFromBigInt(info.DepositFee, -2).String(),
	}, nil
}

// displayToken resolves a token for display, falling back to an "Unknown"
// 18-decimals entry.
func (s *FarmingService) displayToken(ctx context.Context, address common.Address) model.Token {
	t, err := s.env.Tokens.Resolve(ctx, s.env.Caller, address, s.env.Logger)
	if err != nil {
		s.env.Logger.Debug("farm token lookup failed", zap.String("token", address.Hex()), zap.Error(err))
		return model.Token{Address: address, Symbol: "Unknown", Name: "Unknown", Decimals: 18}
	}
	return t
}

// UserStakeInfo returns account's staked amount and reward debt in pool pid,
// or zeros when the read fails.
func (s *FarmingService) UserStakeInfo(ctx context.Context, pid uint64, account common.Address) model.UserStakeInfo {
	zero := model.UserStakeInfo{Amount: "0", RewardDebt: "0"}
	if err := s.configured(); err != nil {
		return zero
	}
	amount, debt, err := s.chef.UserInfo(ctx, pid, account)
	if err != nil {
		s.env.Logger.Warn("user stake read failed", zap.Uint64("pool_id", pid), zap.String("account", account.Hex()), zap.Error(err))
		return zero
	}
	return model.UserStakeInfo{
		Amount:     units.FormatUnits(amount, LPDecimals),
		RewardDebt: units.FormatUnits(debt, LPDecimals),
	}
}

// PendingRewards returns account's unclaimed rewards in pool pid, or "0" when
// the read fails.
func (s *FarmingService) PendingRewards(ctx context.Context, pid uint64, account common.Address) string {
	if err := s.configured(); err != nil {
		return "0"
	}
	pending, err := s.chef.PendingReward(ctx, pid, account)
	if err != nil {
		s.env.Logger.Warn("pending reward read failed", zap.Uint64("pool_id", pid), zap.String("account", account.Hex()), zap.Error(err))
		return "0"
	}
	return units.FormatUnits(pending, s.rewardToken().Decimals)
}

// Stake approves the pool's LP token if needed and deposits amount.
func (s *FarmingService) Stake(ctx context.Context, pid uint64, amount string) ([]txn.Result, error) {
	const op = "stake"
	seq, value, err := s.prepare(op, amount)
	if err != nil {
		return nil, err
	}
	owner := seq.From()
	info, err := s.chef.PoolInfo(ctx, pid)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	held, err := dex.NewERC20(s.env.Caller, info.LPToken).BalanceOf(ctx, owner)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	if held.Cmp(value) < 0 {
		return nil, apperrors.New(op, apperrors.ErrInsufficientBalance,
			fmt.Errorf("hold %s LP, staking %s", units.FormatUnits(held, LPDecimals), amount))
	}
	before, _, err := s.chef.UserInfo(ctx, pid, owner)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}

	data, err := dex.PackDeposit(pid, value)
	if err != nil {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, err)
	}
	action := txn.Action{Name: op, To: s.chef.Address, Data: data, Verify: s.stakedChanged(pid, owner, before, 1)}
	approvals := []txn.Approval{{Token: info.LPToken, Spender: s.chef.Address, Amount: value}}
	return seq.Run(ctx, approvals, action)
}

// Unstake withdraws amount from pool pid. Pending rewards are paid out too.
func (s *FarmingService) Unstake(ctx context.Context, pid uint64, amount string) ([]txn.Result, error) {
	const op = "unstake"
	seq, value, err := s.prepare(op, amount)
	if err != nil {
		return nil, err
	}
	owner := seq.From()
	staked, _, err := s.chef.UserInfo(ctx, pid, owner)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}
	if staked.Cmp(value) < 0 {
		return nil, apperrors.New(op, apperrors.ErrInsufficientBalance,
			fmt.Errorf("staked %s LP, unstaking %s", units.FormatUnits(staked, LPDecimals), amount))
	}

	data, err := dex.PackWithdraw(pid, value)
	if err != nil {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, err)
	}
	action := txn.Action{Name: op, To: s.chef.Address, Data: data, Verify: s.stakedChanged(pid, owner, staked, -1)}
	return seq.Run(ctx, nil, action)
}

// Harvest claims pending rewards of pool pid with deposit(pid, 0).
func (s *FarmingService) Harvest(ctx context.Context, pid uint64) ([]txn.Result, error) {
	const op = "harvest"
	if err := s.configured(); err != nil {
		return nil, err
	}
	seq, err := s.env.signer()
	if err != nil {
		return nil, err
	}
	owner := seq.From()
	before, err := s.chef.PendingReward(ctx, pid, owner)
	if err != nil {
		return nil, apperrors.Classify(op, err)
	}

	data, err := dex.PackDeposit(pid, new(big.Int))
	if err != nil {
		return nil, apperrors.New(op, apperrors.ErrInvalidAmount, err)
	}
	action := txn.Action{
		Name: op,
		To:   s.chef.Address,
		Data: data,
		Verify: func(ctx context.Context) (bool, error) {
			if before.Sign() == 0 {
				return true, nil
			}
			after, err := s.chef.PendingReward(ctx, pid, owner)
			if err != nil {
				return false, err
			}
			return after.Cmp(before) < 0, nil
		},
	}
	return seq.Run(ctx, nil, action)
}

func (s *FarmingService) prepare(op, amount string) (*txn.Sequencer, *big.Int, error) {
	if err := s.configured(); err != nil {
		return nil, nil, err
	}
	seq, err := s.env.signer()
	if err != nil {
		return nil, nil, err
	}
	value, err := parseAmount(amount, LPDecimals)
	if err != nil {
		return nil, nil, apperrors.Classify(op, err)
	}
	return seq, value, nil
}

// stakedChanged verifies that the staked amount moved in direction (+1 or -1) from before.
func (s *FarmingService) stakedChanged(pid uint64, owner common.Address, before *big.Int, direction int) txn.Verify {
	return func(ctx context.Context) (bool, error) {
		after, _, err := s.chef.UserInfo(ctx, pid, owner)
		if err != nil {
			return false, err
		}
		return after.Cmp(before) == direction, nil
	}
}
