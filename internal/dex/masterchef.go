package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/chain"
)

// ChefPool is one entry of the staking contract's pool array.
type ChefPool struct {
	LPToken           common.Address
	AllocPoint        *big.Int
	LastRewardBlock   *big.Int
	AccRewardPerShare *big.Int
	// DepositFee is in basis points.
	DepositFee *big.Int
}

// MasterChef binds the LP staking contract.
type MasterChef struct {
	caller  chain.Caller
	Address common.Address
}

func NewMasterChef(caller chain.Caller, address common.Address) *MasterChef {
	return &MasterChef{caller: caller, Address: address}
}

func (m *MasterChef) PoolLength(ctx context.Context) (uint64, error) {
	parsed, err := MasterChefABI()
	if err != nil {
		return 0, fmt.Errorf("parse masterchef abi: %w", err)
	}
	n, err := callBigInt(ctx, m.caller, m.Address, parsed, "poolLength")
	if err != nil {
		return 0, err
	}
	if !n.IsUint64() {
		return 0, fmt.Errorf("poolLength out of range: %s", n)
	}
	return n.Uint64(), nil
}

func (m *MasterChef) PoolInfo(ctx context.Context, pid uint64) (ChefPool, error) {
	parsed, err := MasterChefABI()
	if err != nil {
		return ChefPool{}, fmt.Errorf("parse masterchef abi: %w", err)
	}
	values, err := callMethod(ctx, m.caller, m.Address, parsed, "poolInfo", new(big.Int).SetUint64(pid))
	if err != nil {
		return ChefPool{}, err
	}
	if len(values) < 5 {
		return ChefPool{}, fmt.Errorf("poolInfo: expected 5 values, got %d", len(values))
	}
	var pool ChefPool
	if pool.LPToken, err = asAddress(values[0]); err != nil {
		return ChefPool{}, fmt.Errorf("lpToken: %w", err)
	}
	nums := []**big.Int{&pool.AllocPoint, &pool.LastRewardBlock, &pool.AccRewardPerShare, &pool.DepositFee}
	for i, dst := range nums {
		if *dst, err = asBigInt(values[i+1]); err != nil {
			return ChefPool{}, fmt.Errorf("poolInfo field %d: %w", i+1, err)
		}
	}
	return pool, nil
}

// UserInfo returns the staked amount and reward debt of user in pool pid.
func (m *MasterChef) UserInfo(ctx context.Context, pid uint64, user common.Address) (*big.Int, *big.Int, error) {
	parsed, err := MasterChefABI()
	if err != nil {
		return nil, nil, fmt.Errorf("parse masterchef abi: %w", err)
	}
	values, err := callMethod(ctx, m.caller, m.Address, parsed, "userInfo", new(big.Int).SetUint64(pid), user)
	if err != nil {
		return nil, nil, err
	}
	if len(values) < 2 {
		return nil, nil, fmt.Errorf("userInfo: expected 2 values, got %d", len(values))
	}
	amount, err := asBigInt(values[0])
	if err != nil {
		return nil, nil, fmt.Errorf("amount: %w", err)
	}
	debt, err := asBigInt(values[1])
	if err != nil {
		return nil, nil, fmt.Errorf("rewardDebt: %w", err)
	}
	return amount, debt, nil
}

func (m *MasterChef) PendingReward(ctx context.Context, pid uint64, user common.Address) (*big.Int, error) {
	parsed, err := MasterChefABI()
	if err != nil {
		return nil, fmt.Errorf("parse masterchef abi: %w", err)
	}
	return callBigInt(ctx, m.caller, m.Address, parsed, "pendingReward", new(big.Int).SetUint64(pid), user)
}

func (m *MasterChef) RewardPerBlock(ctx context.Context) (*big.Int, error) {
	parsed, err := MasterChefABI()
	if err != nil {
		return nil, fmt.Errorf("parse masterchef abi: %w", err)
	}
	return callBigInt(ctx, m.caller, m.Address, parsed, "rewardPerBlock")
}

func (m *MasterChef) TotalAllocPoint(ctx context.Context) (*big.Int, error) {
	parsed, err := MasterChefABI()
	if err != nil {
		return nil, fmt.Errorf("parse masterchef abi: %w", err)
	}
	return callBigInt(ctx, m.caller, m.Address, parsed, "totalAllocPoint")
}

// PackDeposit encodes deposit(pid, amount). A zero amount harvests pending rewards.
func PackDeposit(pid uint64, amount *big.Int) ([]byte, error) {
	return pack(MasterChefABI, "deposit", new(big.Int).SetUint64(pid), amount)
}

func PackWithdraw(pid uint64, amount *big.Int) ([]byte, error) {
	return pack(MasterChefABI, "withdraw", new(big.Int).SetUint64(pid), amount)
}
