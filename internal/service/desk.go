package service

// Desk bundles every service over one Env.
type Desk struct {
	Env       *Env
	Swap      *SwapService
	Liquidity *LiquidityService
	Pools     *PoolsService
	Farming   *FarmingService
	Badge     *BadgeService
	Balances  *BalanceService
}

func NewDesk(env *Env) *Desk {
	return &Desk{
		Env:       env,
		Swap:      NewSwapService(env),
		Liquidity: NewLiquidityService(env),
		Pools:     NewPoolsService(env),
		Farming:   NewFarmingService(env),
		Badge:     NewBadgeService(env),
		Balances:  NewBalanceService(env),
	}
}
