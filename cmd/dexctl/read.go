package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"swapDesk/internal/model"
	"swapDesk/internal/service"
	"swapDesk/internal/storage"
	"swapDesk/internal/storage/postgres"
	"swapDesk/internal/units"
)

// token resolves a configured symbol, "native", or an address. Unknown
// addresses are read from chain.
func (a *app) token(ctx context.Context, ref string) (model.Token, error) {
	tokens := a.desk.Env.Tokens
	if strings.EqualFold(strings.TrimSpace(ref), "native") {
		if t, ok := tokens.Native(); ok {
			return t, nil
		}
		return model.Token{}, fmt.Errorf("no native token configured")
	}
	if t, ok := tokens.Lookup(ref); ok {
		return t, nil
	}
	if !common.IsHexAddress(ref) {
		return model.Token{}, fmt.Errorf("unknown token %q", ref)
	}
	return tokens.Resolve(ctx, a.desk.Env.Caller, common.HexToAddress(ref), a.logger)
}

func (a *app) tokenPair(ctx context.Context, refA, refB string) (model.Token, model.Token, error) {
	tokenA, err := a.token(ctx, refA)
	if err != nil {
		return model.Token{}, model.Token{}, err
	}
	tokenB, err := a.token(ctx, refB)
	if err != nil {
		return model.Token{}, model.Token{}, err
	}
	return tokenA, tokenB, nil
}

func parseAddress(kind, ref string) (common.Address, error) {
	if !common.IsHexAddress(ref) {
		return common.Address{}, fmt.Errorf("invalid %s address %q", kind, ref)
	}
	return common.HexToAddress(ref), nil
}

func newQuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote <from> <to> <amount>",
		Short: "Preview the output of a swap",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				from, to, err := a.tokenPair(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				out, err := a.desk.Swap.QuoteSwap(ctx, from, to, args[2])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"from":       from.Symbol,
					"to":         to.Symbol,
					"amount_in":  args[2],
					"amount_out": out,
				})
			})
		},
	}
}

func newPairQuoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pair-quote <tokenA> <tokenB> <amount>",
		Short: "Compute the paired deposit that keeps the pool price",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			side, _ := cmd.Flags().GetString("side")
			return run(cmd, false, func(ctx context.Context, a *app) error {
				tokenA, tokenB, err := a.tokenPair(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				out, err := a.desk.Liquidity.QuoteLiquidity(ctx, tokenA, tokenB, args[2], service.Side(strings.ToUpper(side)))
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"token_a": tokenA.Symbol,
					"token_b": tokenB.Symbol,
					"side":    strings.ToUpper(side),
					"amount":  args[2],
					"paired":  out,
				})
			})
		},
	}
	cmd.Flags().String("side", "A", "which side the amount is for (A or B)")
	return cmd
}

func newPairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pair <tokenA> <tokenB>",
		Short: "Show the pair and its reserves",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				tokenA, tokenB, err := a.tokenPair(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				info := a.desk.Swap.PairInfo(ctx, tokenA, tokenB)
				if info == nil {
					return fmt.Errorf("no pair for %s/%s", tokenA.Symbol, tokenB.Symbol)
				}
				return printJSON(cmd.OutOrStdout(), info)
			})
		},
	}
}

func newPoolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "List the most recently registered pools",
		RunE: func(cmd *cobra.Command, _ []string) error {
			offset, _ := cmd.Flags().GetUint64("offset")
			return run(cmd, false, func(ctx context.Context, a *app) error {
				a.desk.Env.Options.Window.Offset = offset
				pools := a.desk.Pools.ListPools(ctx)
				if err := a.export(ctx, pools); err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), pools)
			})
		},
	}
	cmd.Flags().Uint64("offset", 0, "skip this many of the newest pairs")
	cmd.Flags().String("out", "", "append pool snapshots to this JSONL file")
	cmd.Flags().String("pg-dsn", "", "upsert pool snapshots into this Postgres database")
	return cmd
}

// export writes the listed pools to the configured sinks.
func (a *app) export(ctx context.Context, pools []model.PoolInfo) error {
	if a.cfg.Out == "" && a.cfg.PGDSN == "" {
		return nil
	}
	chainID, err := a.client.GetChainID(ctx)
	if err != nil {
		return fmt.Errorf("get chain id: %w", err)
	}
	block, err := a.client.LatestBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("get block number: %w", err)
	}
	observed := time.Now().UTC()
	snapshots := make([]model.PoolSnapshot, 0, len(pools))
	for _, p := range pools {
		snapshots = append(snapshots, model.PoolSnapshot{PoolInfo: p, ChainID: chainID.Uint64(), Block: block, ObservedAt: observed})
	}

	var sinks []storage.Storage
	if a.cfg.Out != "" {
		sinks = append(sinks, storage.NewJsonlStorage(a.cfg.Out))
	}
	if a.cfg.PGDSN != "" {
		store, err := postgres.NewStore(ctx, a.cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
		if err := store.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
		sinks = append(sinks, store)
	}
	for _, sink := range sinks {
		if err := sink.PutPoolSnapshots(ctx, snapshots); err != nil {
			return err
		}
	}
	a.logger.Info("pool snapshots exported",
		zap.Int("pools", len(snapshots)),
		zap.Uint64("block", block),
		zap.String("out", a.cfg.Out),
		zap.Bool("postgres", a.cfg.PGDSN != ""),
	)
	return nil
}

func newPositionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "positions <account>",
		Short: "List the account's liquidity positions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			offset, _ := cmd.Flags().GetUint64("offset")
			return run(cmd, false, func(ctx context.Context, a *app) error {
				account, err := parseAddress("account", args[0])
				if err != nil {
					return err
				}
				a.desk.Env.Options.Window.Offset = offset
				return printJSON(cmd.OutOrStdout(), a.desk.Liquidity.Positions(ctx, account))
			})
		},
	}
	cmd.Flags().Uint64("offset", 0, "skip this many of the newest pairs")
	return cmd
}

func newFarmsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "farms",
		Short: "List staking pools, optionally with an account's stake",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref, _ := cmd.Flags().GetString("account")
			return run(cmd, false, func(ctx context.Context, a *app) error {
				farms := a.desk.Farming.Farms(ctx)
				if ref == "" {
					return printJSON(cmd.OutOrStdout(), farms)
				}
				account, err := parseAddress("account", ref)
				if err != nil {
					return err
				}
				type farmView struct {
					model.FarmPool
					Staked  model.UserStakeInfo `json:"staked"`
					Pending string              `json:"pending"`
				}
				out := make([]farmView, 0, len(farms))
				for _, f := range farms {
					out = append(out, farmView{
						FarmPool: f,
						Staked:   a.desk.Farming.UserStakeInfo(ctx, f.PoolID, account),
						Pending:  a.desk.Farming.PendingRewards(ctx, f.PoolID, account),
					})
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().String("account", "", "include this account's stake and pending rewards")
	return cmd
}

func newBalancesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "balances <account>",
		Short: "Show the account's balances of the configured tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, false, func(ctx context.Context, a *app) error {
				account, err := parseAddress("account", args[0])
				if err != nil {
					return err
				}
				type balanceView struct {
					model.Token
					Display string `json:"display"`
				}
				tokens := a.desk.Balances.WithBalances(ctx, account, a.desk.Env.Tokens.All())
				out := make([]balanceView, 0, len(tokens))
				for _, t := range tokens {
					out = append(out, balanceView{Token: t, Display: units.Display(t.Balance, 4)})
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
}
