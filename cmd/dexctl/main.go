package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"swapDesk/internal/apperrors"
	"swapDesk/internal/chain"
	"swapDesk/internal/config"
	"swapDesk/internal/service"
	"swapDesk/internal/txn"
)

func main() {
	root := &cobra.Command{
		Use:          "dexctl",
		Short:        "Quote, trade and farm against a constant-product exchange",
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file path")
	flags.String("rpc", "", "JSON-RPC URL")
	flags.String("private-key", "", "hex private key of the signing account")
	flags.String("router", "", "router address")
	flags.String("factory", "", "factory address")
	flags.String("wrapped-native", "", "wrapped native token address")
	flags.String("masterchef", "", "staking contract address")
	flags.String("badge", "", "badge contract address")
	flags.String("reward-token", "", "farm reward token address")
	flags.String("slippage", "0.5", "slippage tolerance in percent")
	flags.Duration("deadline", 20*time.Minute, "transaction deadline window")
	flags.Duration("receipt-timeout", 2*time.Minute, "how long to wait for a receipt")
	flags.Duration("poll-interval", 2*time.Second, "receipt polling interval")
	flags.Duration("settle-delay", 5*time.Second, "wait before checking state after a lost receipt")
	flags.Uint64("scan-window", service.DefaultScanSize, "number of most recent pairs to scan")
	flags.Uint64("blocks-per-day", 28800, "blocks per day used for farm rewards")
	flags.Int("max-retries", 3, "maximum retry attempts for reads")
	flags.Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(
		newQuoteCmd(),
		newPairQuoteCmd(),
		newPairCmd(),
		newPoolsCmd(),
		newPositionsCmd(),
		newFarmsCmd(),
		newBalancesCmd(),
		newSwapCmd(),
		newAddLiquidityCmd(),
		newRemoveLiquidityCmd(),
		newStakeCmd(),
		newUnstakeCmd(),
		newHarvestCmd(),
		newBadgeCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// app is the per-invocation wiring shared by all subcommands.
type app struct {
	cfg    config.Config
	logger *zap.Logger
	client *chain.Client
	desk   *service.Desk
}

// run loads configuration, connects, builds the services and calls fn. A
// signer is only set up when signer is true.
func run(cmd *cobra.Command, signer bool, fn func(ctx context.Context, a *app) error) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	addrs, err := cfg.Contracts()
	if err != nil {
		return err
	}
	tokens, err := cfg.TokenList()
	if err != nil {
		return err
	}
	tolerance, err := cfg.Tolerance()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := chain.NewClient(ctx, cfg.RPCURL)
	if err != nil {
		return fmt.Errorf("connect rpc: %w", err)
	}
	defer client.Close()

	caller := chain.NewRetryCaller(client, chain.RetryPolicy{MaxRetries: cfg.MaxRetries, BaseDelay: cfg.RetryBackoff})

	var seq *txn.Sequencer
	if signer {
		if cfg.PrivateKey == "" {
			return fmt.Errorf("private key is required")
		}
		tx, err := client.NewKeyedTransactor(ctx, cfg.PrivateKey)
		if err != nil {
			return err
		}
		seq = txn.NewSequencer(tx, caller, txn.Config{
			ReceiptTimeout: cfg.ReceiptTimeout,
			PollInterval:   cfg.PollInterval,
			SettleDelay:    cfg.SettleDelay,
		}, logger)
	}

	env := &service.Env{
		Caller: caller,
		Seq:    seq,
		Contracts: service.Contracts{
			Router:        addrs.Router,
			Factory:       addrs.Factory,
			WrappedNative: addrs.WrappedNative,
			MasterChef:    addrs.MasterChef,
			Badge:         addrs.Badge,
			RewardToken:   addrs.RewardToken,
		},
		Tokens: service.NewTokenList(tokens, addrs.WrappedNative),
		Options: service.Options{
			Slippage:     tolerance,
			Deadline:     cfg.Deadline,
			Window:       service.ScanWindow{Size: cfg.ScanWindow},
			BlocksPerDay: cfg.BlocksPerDay,
		},
		Logger: logger,
	}

	logger.Debug("dexctl start",
		zap.String("command", cmd.Name()),
		zap.String("rpc", cfg.RPCURL),
		zap.String("router", addrs.Router.Hex()),
		zap.String("factory", addrs.Factory.Hex()),
		zap.Int("tokens", len(tokens)),
		zap.Bool("signer", signer),
	)

	a := &app{cfg: cfg, logger: logger, client: client, desk: service.NewDesk(env)}
	return report(cmd, fn(ctx, a))
}

// report turns a cancellation into a notice instead of a failure.
func report(cmd *cobra.Command, err error) error {
	if err != nil && apperrors.IsCancellation(err) {
		fmt.Fprintf(cmd.ErrOrStderr(), "cancelled: %v\n", err)
		return nil
	}
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}
