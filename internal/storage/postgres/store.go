package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"swapDesk/internal/model"
	"swapDesk/internal/storage"
)

// Store provides Postgres persistence for pool snapshots.
type Store struct {
	pool *pgxpool.Pool
}

var _ storage.Storage = (*Store)(nil)

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS pools (
	chain_id BIGINT NOT NULL,
	pair_address TEXT NOT NULL,
	token0 TEXT NOT NULL,
	token0_symbol TEXT NOT NULL,
	token1 TEXT NOT NULL,
	token1_symbol TEXT NOT NULL,
	first_seen_at TIMESTAMPTZ NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, pair_address)
);
CREATE TABLE IF NOT EXISTS pool_snapshots (
	chain_id BIGINT NOT NULL,
	pair_address TEXT NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL,
	block_number BIGINT NOT NULL,
	reserve0 NUMERIC NOT NULL,
	reserve1 NUMERIC NOT NULL,
	total_supply NUMERIC NOT NULL,
	tvl NUMERIC NOT NULL,
	volume_24h NUMERIC NOT NULL,
	apr NUMERIC NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (chain_id, pair_address, observed_at)
);`

// EnsureSchema creates the pools and pool_snapshots tables when missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}

// PutPoolSnapshots upserts the pool rows and their snapshots in one batch.
func (s *Store) PutPoolSnapshots(ctx context.Context, snapshots []model.PoolSnapshot) error {
	if len(snapshots) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, snap := range snapshots {
		pair := snap.Pair.Hex()
		batch.Queue(`
			INSERT INTO pools (
				chain_id, pair_address, token0, token0_symbol, token1, token1_symbol, first_seen_at, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
			ON CONFLICT (chain_id, pair_address)
			DO UPDATE SET
				token0_symbol = EXCLUDED.token0_symbol,
				token1_symbol = EXCLUDED.token1_symbol,
				first_seen_at = LEAST(pools.first_seen_at, EXCLUDED.first_seen_at),
				updated_at = now()
		`,
			int64(snap.ChainID),
			pair,
			snap.Token0.Address.Hex(),
			snap.Token0.Symbol,
			snap.Token1.Address.Hex(),
			snap.Token1.Symbol,
			snap.ObservedAt,
		)
		batch.Queue(`
			INSERT INTO pool_snapshots (
				chain_id, pair_address, observed_at, block_number, reserve0, reserve1, total_supply, tvl, volume_24h, apr, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
			ON CONFLICT (chain_id, pair_address, observed_at)
			DO UPDATE SET
				block_number = EXCLUDED.block_number,
				reserve0 = EXCLUDED.reserve0,
				reserve1 = EXCLUDED.reserve1,
				total_supply = EXCLUDED.total_supply,
				tvl = EXCLUDED.tvl,
				volume_24h = EXCLUDED.volume_24h,
				apr = EXCLUDED.apr,
				updated_at = now()
		`,
			int64(snap.ChainID),
			pair,
			snap.ObservedAt,
			int64(snap.Block),
			snap.Reserve0,
			snap.Reserve1,
			snap.TotalSupply,
			snap.TVL,
			snap.Volume24h,
			snap.APR,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert pool snapshot: %w", err)
		}
	}
	return nil
}
