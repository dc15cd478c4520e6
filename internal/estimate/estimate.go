// Package estimate derives display metrics that would need a price oracle to
// be exact. The Placeholder implementation works on raw token quantities and
// is not USD-denominated.
package estimate

import "github.com/shopspring/decimal"

const daysPerYear = 365

// PoolMetrics are best-effort display estimates for a pool.
type PoolMetrics struct {
	TVL       string
	Volume24h string
	APR       string
}

// Estimator computes pool and farm display estimates from human-unit amounts.
type Estimator interface {
	Pool(reserve0, reserve1 decimal.Decimal) PoolMetrics
	FarmAPR(rewardsPerDay, totalStaked decimal.Decimal) string
}

// Placeholder sums reserves as TVL and assumes a fixed share of TVL trades daily.
type Placeholder struct {
	VolumeShare decimal.Decimal
	FeeRate     decimal.Decimal
}

var _ Estimator = (*Placeholder)(nil)

// NewPlaceholder assumes 10% of TVL trades daily at a 0.3% fee.
func NewPlaceholder() *Placeholder {
	return &Placeholder{
		VolumeShare: decimal.RequireFromString("0.1"),
		FeeRate:     decimal.RequireFromString("0.003"),
	}
}

func (p *Placeholder) Pool(reserve0, reserve1 decimal.Decimal) PoolMetrics {
	tvl := reserve0.Add(reserve1)
	volume := tvl.Mul(p.VolumeShare)
	apr := decimal.Zero
	if tvl.IsPositive() {
		apr = volume.Mul(decimal.NewFromInt(daysPerYear)).Mul(p.FeeRate).Div(tvl).Mul(decimal.NewFromInt(100))
	}
	return PoolMetrics{
		TVL:       tvl.String(),
		Volume24h: volume.String(),
		APR:       apr.StringFixed(2),
	}
}

// FarmAPR annualizes daily rewards against the staked amount, both in raw units.
func (p *Placeholder) FarmAPR(rewardsPerDay, totalStaked decimal.Decimal) string {
	if !totalStaked.IsPositive() {
		return decimal.Zero.StringFixed(2)
	}
	return rewardsPerDay.Mul(decimal.NewFromInt(daysPerYear)).Div(totalStaked).Mul(decimal.NewFromInt(100)).StringFixed(2)
}
