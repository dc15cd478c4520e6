package service

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"swapDesk/internal/dex"
	"swapDesk/internal/model"
	"swapDesk/internal/units"
)

// scanPairs visits the pairs in env's scan window concurrently and returns
// the kept results in factory order. A pair whose read fails is logged and
// skipped; only a failure to size the window is returned.
func scanPairs[T any](ctx context.Context, env *Env, visit func(ctx context.Context, pair common.Address) (T, bool, error)) ([]T, error) {
	factory := dex.NewFactory(env.Caller, env.Contracts.Factory)
	total, err := factory.AllPairsLength(ctx)
	if err != nil {
		return nil, err
	}
	window, err := env.Options.Window.Range(total)
	if err != nil {
		return nil, err
	}

	slots := make([]T, window.Len())
	kept := make([]bool, window.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxFanOut)
	for i := window.From; i < window.To; i++ {
		i := i
		slot := i - window.From
		g.Go(func() error {
			pair, err := factory.AllPairs(gctx, i)
			if err != nil {
				env.Logger.Warn("pair index read failed", zap.Uint64("index", i), zap.Error(err))
				return nil
			}
			value, ok, err := visit(gctx, pair)
			if err != nil {
				env.Logger.Warn("pair read failed", zap.String("pair", pair.Hex()), zap.Error(err))
				return nil
			}
			slots[slot], kept[slot] = value, ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]T, 0, len(slots))
	for i, v := range slots {
		if kept[i] {
			out = append(out, v)
		}
	}
	return out, nil
}

// PoolsService lists registered pairs with display estimates.
type PoolsService struct {
	env *Env
}

func NewPoolsService(env *Env) *PoolsService {
	env.init()
	return &PoolsService{env: env}
}

// ListPools returns the pairs in the scan window. TVL, volume and APR come
// from the Estimator and are not USD values. A failed scan returns an empty list.
func (s *PoolsService) ListPools(ctx context.Context) []model.PoolInfo {
	out, err := scanPairs(ctx, s.env, s.pool)
	if err != nil {
		s.env.Logger.Warn("pool scan failed", zap.Error(err))
		return []model.PoolInfo{}
	}
	return out
}

func (s *PoolsService) pool(ctx context.Context, pairAddr common.Address) (model.PoolInfo, bool, error) {
	snap, err := dex.NewPair(s.env.Caller, pairAddr).Snapshot(ctx)
	if err != nil {
		return model.PoolInfo{}, false, err
	}
	token0, err := s.env.Tokens.Resolve(ctx, s.env.Caller, snap.Token0, s.env.Logger)
	if err != nil {
		return model.PoolInfo{}, false, err
	}
	token1, err := s.env.Tokens.Resolve(ctx, s.env.Caller, snap.Token1, s.env.Logger)
	if err != nil {
		return model.PoolInfo{}, false, err
	}

	metrics := s.env.Estimator.Pool(
		decimal.NewFromBigInt(snap.Reserve0, -int32(token0.Decimals)),
		decimal.NewFromBigInt(snap.Reserve1, -int32(token1.Decimals)),
	)
	return model.PoolInfo{
		Pair:        pairAddr,
		Token0:      token0,
		Token1:      token1,
		Reserve0:    units.FormatUnits(snap.Reserve0, token0.Decimals),
		Reserve1:    units.FormatUnits(snap.Reserve1, token1.Decimals),
		TotalSupply: units.FormatUnits(snap.TotalSupply, LPDecimals),
		TVL:         metrics.TVL,
		Volume24h:   metrics.Volume24h,
		APR:         metrics.APR,
	}, true, nil
}
