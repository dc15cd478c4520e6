package model

import "github.com/ethereum/go-ethereum/common"

// FarmPool is a staking pool registered in the staking contract. PoolID is
// the only stable identity; the rest is derived at read time.
type FarmPool struct {
	PoolID        uint64         `json:"pool_id"`
	LPToken       common.Address `json:"lp_token"`
	Token0        Token          `json:"token0"`
	Token1        Token          `json:"token1"`
	RewardToken   Token          `json:"reward_token"`
	TotalStaked   string         `json:"total_staked"`
	RewardsPerDay string         `json:"rewards_per_day"`
	APR           string         `json:"apr"`
	DepositFee    string         `json:"deposit_fee"`
}

// UserStakeInfo mirrors the staking contract's per-user accounting.
type UserStakeInfo struct {
	Amount     string `json:"amount"`
	RewardDebt string `json:"reward_debt"`
}
