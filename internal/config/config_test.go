package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"

	"swapDesk/internal/model"
)

const sampleConfig = `
rpc: http://localhost:8545
router: "0x0000000000000000000000000000000000000e01"
factory: "0x0000000000000000000000000000000000000fac"
wrapped-native: "0x0000000000000000000000000000000000000eee"
masterchef: "0x0000000000000000000000000000000000000c4e"
slippage: "1"
scan-window: 40
tokens:
  - address: native
    symbol: ETH
    name: Ether
    decimals: 18
  - address: "0x00000000000000000000000000000000000000a1"
    symbol: AAA
    decimals: 6
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "rpc: http://localhost:8545\n"), nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Slippage != "0.5" || cfg.Deadline != 20*time.Minute || cfg.ReceiptTimeout != 2*time.Minute {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PollInterval != 2*time.Second || cfg.SettleDelay != 5*time.Second {
		t.Fatalf("unexpected wait defaults: %+v", cfg)
	}
	if cfg.ScanWindow != 20 || cfg.BlocksPerDay != 28800 || cfg.MaxRetries != 3 || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileEnvAndFlags(t *testing.T) {
	t.Setenv("DEX_SETTLE_DELAY", "1s")
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("log-level", "info", "")
	if err := flags.Parse([]string{"--log-level", "debug"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(writeConfig(t, sampleConfig), flags)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Slippage != "1" || cfg.ScanWindow != 40 {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.SettleDelay != time.Second {
		t.Fatalf("env override not applied: %s", cfg.SettleDelay)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("flag override not applied: %s", cfg.LogLevel)
	}

	tokens, err := cfg.TokenList()
	if err != nil {
		t.Fatalf("token list: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if !tokens[0].IsNative() || tokens[0].Symbol != "ETH" {
		t.Fatalf("unexpected native entry: %+v", tokens[0])
	}
	if tokens[1].Decimals != 6 || tokens[1].Name != "AAA" {
		t.Fatalf("unexpected token: %+v", tokens[1])
	}

	addrs, err := cfg.Contracts()
	if err != nil {
		t.Fatalf("contracts: %v", err)
	}
	if addrs.Router != common.HexToAddress("0x0000000000000000000000000000000000000e01") {
		t.Fatalf("unexpected router %s", addrs.Router.Hex())
	}
	if addrs.Badge != (common.Address{}) {
		t.Fatalf("badge should be unset")
	}

	tol, err := cfg.Tolerance()
	if err != nil || tol.String() != "1" {
		t.Fatalf("tolerance = %v, %v", tol, err)
	}
}

func TestContractsValidation(t *testing.T) {
	base := Config{
		Router:        "0x0000000000000000000000000000000000000e01",
		Factory:       "0x0000000000000000000000000000000000000fac",
		WrappedNative: "0x0000000000000000000000000000000000000eee",
	}
	if _, err := base.Contracts(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	missing := base
	missing.Factory = ""
	if _, err := missing.Contracts(); err == nil {
		t.Fatalf("expected error for missing factory")
	}

	bad := base
	bad.MasterChef = "0x1234"
	if _, err := bad.Contracts(); !errors.Is(err, errBadAddress) {
		t.Fatalf("expected errBadAddress, got %v", err)
	}
}

func TestTokenListRejectsDuplicates(t *testing.T) {
	cfg := Config{Tokens: []TokenConfig{
		{Address: "native", Symbol: "ETH", Decimals: 18},
		{Address: model.NativeAddress.Hex(), Symbol: "ETH2", Decimals: 18},
	}}
	if _, err := cfg.TokenList(); err == nil {
		t.Fatalf("expected duplicate address error")
	}
}
