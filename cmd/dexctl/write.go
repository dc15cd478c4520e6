package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"swapDesk/internal/amm"
	"swapDesk/internal/service"
	"swapDesk/internal/txn"
)

type txView struct {
	Action   string `json:"action"`
	Hash     string `json:"hash"`
	Block    string `json:"block,omitempty"`
	Verified bool   `json:"verified,omitempty"`
}

func printResults(cmd *cobra.Command, results []txn.Result) error {
	out := make([]txView, 0, len(results))
	for _, r := range results {
		v := txView{Action: r.Name, Hash: r.Hash.Hex(), Verified: r.Verified}
		if r.Receipt != nil && r.Receipt.BlockNumber != nil {
			v.Block = r.Receipt.BlockNumber.String()
		}
		out = append(out, v)
	}
	return printJSON(cmd.OutOrStdout(), out)
}

// slippageOverride returns the --max-slippage value when it was given.
func slippageOverride(cmd *cobra.Command) (*amm.Tolerance, error) {
	if !cmd.Flags().Changed("max-slippage") {
		return nil, nil
	}
	raw, _ := cmd.Flags().GetString("max-slippage")
	tol, err := amm.ParseTolerance(raw)
	if err != nil {
		return nil, err
	}
	return &tol, nil
}

func parsePoolID(raw string) (uint64, error) {
	pid, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid pool id %q", raw)
	}
	return pid, nil
}

func newSwapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "swap <from> <to> <amount>",
		Short: "Swap an exact input amount",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			expected, _ := cmd.Flags().GetString("expected-out")
			tol, err := slippageOverride(cmd)
			if err != nil {
				return err
			}
			return run(cmd, true, func(ctx context.Context, a *app) error {
				from, to, err := a.tokenPair(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				results, err := a.desk.Swap.ExecuteSwap(ctx, service.SwapRequest{
					From:        from,
					To:          to,
					AmountIn:    args[2],
					ExpectedOut: expected,
					Slippage:    tol,
				})
				if err != nil {
					return err
				}
				return printResults(cmd, results)
			})
		},
	}
	cmd.Flags().String("expected-out", "", "previewed output; re-quoted when empty")
	cmd.Flags().String("max-slippage", "", "slippage tolerance for this swap, in percent")
	return cmd
}

func newAddLiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add-liquidity <tokenA> <tokenB> <amountA> <amountB>",
		Short: "Deposit both sides of a pair",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			tol, err := slippageOverride(cmd)
			if err != nil {
				return err
			}
			return run(cmd, true, func(ctx context.Context, a *app) error {
				tokenA, tokenB, err := a.tokenPair(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				results, err := a.desk.Liquidity.AddLiquidity(ctx, service.AddLiquidityRequest{
					TokenA:   tokenA,
					TokenB:   tokenB,
					AmountA:  args[2],
					AmountB:  args[3],
					Slippage: tol,
				})
				if err != nil {
					return err
				}
				return printResults(cmd, results)
			})
		},
	}
	cmd.Flags().String("max-slippage", "", "slippage tolerance for this deposit, in percent")
	return cmd
}

func newRemoveLiquidityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove-liquidity <pair> <percent>",
		Short: "Withdraw a percentage of a liquidity position",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tol, err := slippageOverride(cmd)
			if err != nil {
				return err
			}
			pair, err := parseAddress("pair", args[0])
			if err != nil {
				return err
			}
			percent, err := strconv.ParseUint(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid percentage %q", args[1])
			}
			return run(cmd, true, func(ctx context.Context, a *app) error {
				results, err := a.desk.Liquidity.RemoveLiquidity(ctx, service.RemoveLiquidityRequest{
					Pair:     pair,
					Percent:  percent,
					Slippage: tol,
				})
				if err != nil {
					return err
				}
				return printResults(cmd, results)
			})
		},
	}
	cmd.Flags().String("max-slippage", "", "slippage tolerance for this withdrawal, in percent")
	return cmd
}

func newStakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stake <pool-id> <amount>",
		Short: "Stake LP tokens in a farm",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, true, func(ctx context.Context, a *app) error {
				results, err := a.desk.Farming.Stake(ctx, pid, args[1])
				if err != nil {
					return err
				}
				return printResults(cmd, results)
			})
		},
	}
}

func newUnstakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unstake <pool-id> <amount>",
		Short: "Withdraw staked LP tokens from a farm",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, true, func(ctx context.Context, a *app) error {
				results, err := a.desk.Farming.Unstake(ctx, pid, args[1])
				if err != nil {
					return err
				}
				return printResults(cmd, results)
			})
		},
	}
}

func newHarvestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "harvest <pool-id>",
		Short: "Claim pending farm rewards",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pid, err := parsePoolID(args[0])
			if err != nil {
				return err
			}
			return run(cmd, true, func(ctx context.Context, a *app) error {
				results, err := a.desk.Farming.Harvest(ctx, pid)
				if err != nil {
					return err
				}
				return printResults(cmd, results)
			})
		},
	}
}

func newBadgeCmd() *cobra.Command {
	badge := &cobra.Command{
		Use:   "badge",
		Short: "Badge claim status and claiming",
	}
	badge.AddCommand(&cobra.Command{
		Use:   "status <account>",
		Short: "Show whether claiming is open and the account holds a badge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			account, err := parseAddress("account", args[0])
			if err != nil {
				return err
			}
			return run(cmd, false, func(ctx context.Context, a *app) error {
				status, err := a.desk.Badge.Status(ctx, account)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), status)
			})
		},
	})
	badge.AddCommand(&cobra.Command{
		Use:   "claim",
		Short: "Claim the signer's badge",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, true, func(ctx context.Context, a *app) error {
				res, err := a.desk.Badge.Claim(ctx)
				if err != nil {
					return err
				}
				return printResults(cmd, []txn.Result{*res})
			})
		},
	})
	return badge
}
