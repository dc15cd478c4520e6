package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"swapDesk/internal/amm"
	"swapDesk/internal/model"
)

// TokenConfig is one entry of the configured token list. Address "native"
// (or the zero address) denotes the chain's native asset.
type TokenConfig struct {
	Address  string `mapstructure:"address"`
	Symbol   string `mapstructure:"symbol"`
	Name     string `mapstructure:"name"`
	Decimals uint8  `mapstructure:"decimals"`
	Logo     string `mapstructure:"logo"`
}

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	RPCURL         string
	PrivateKey     string
	Router         string
	Factory        string
	WrappedNative  string
	MasterChef     string
	Badge          string
	RewardToken    string
	Tokens         []TokenConfig
	Slippage       string
	Deadline       time.Duration
	ReceiptTimeout time.Duration
	PollInterval   time.Duration
	SettleDelay    time.Duration
	ScanWindow     uint64
	BlocksPerDay   uint64
	MaxRetries     int
	RetryBackoff   time.Duration
	Out            string
	PGDSN          string
	LogLevel       string
}

// Addresses are the parsed contract addresses. Optional contracts are zero
// when unset.
type Addresses struct {
	Router        common.Address
	Factory       common.Address
	WrappedNative common.Address
	MasterChef    common.Address
	Badge         common.Address
	RewardToken   common.Address
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DEX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("slippage", "0.5")
	v.SetDefault("deadline", 20*time.Minute)
	v.SetDefault("receipt-timeout", 2*time.Minute)
	v.SetDefault("poll-interval", 2*time.Second)
	v.SetDefault("settle-delay", 5*time.Second)
	v.SetDefault("scan-window", uint64(20))
	v.SetDefault("blocks-per-day", uint64(28800))
	v.SetDefault("max-retries", 3)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var tokens []TokenConfig
	if err := v.UnmarshalKey("tokens", &tokens); err != nil {
		return Config{}, fmt.Errorf("decode tokens: %w", err)
	}

	cfg := Config{
		RPCURL:         v.GetString("rpc"),
		PrivateKey:     v.GetString("private-key"),
		Router:         v.GetString("router"),
		Factory:        v.GetString("factory"),
		WrappedNative:  v.GetString("wrapped-native"),
		MasterChef:     v.GetString("masterchef"),
		Badge:          v.GetString("badge"),
		RewardToken:    v.GetString("reward-token"),
		Tokens:         tokens,
		Slippage:       v.GetString("slippage"),
		Deadline:       v.GetDuration("deadline"),
		ReceiptTimeout: v.GetDuration("receipt-timeout"),
		PollInterval:   v.GetDuration("poll-interval"),
		SettleDelay:    v.GetDuration("settle-delay"),
		ScanWindow:     v.GetUint64("scan-window"),
		BlocksPerDay:   v.GetUint64("blocks-per-day"),
		MaxRetries:     v.GetInt("max-retries"),
		RetryBackoff:   v.GetDuration("retry-backoff"),
		Out:            v.GetString("out"),
		PGDSN:          v.GetString("pg-dsn"),
		LogLevel:       v.GetString("log-level"),
	}

	return cfg, nil
}

// Contracts parses the configured contract addresses. Router, factory and
// wrapped-native are required.
func (c Config) Contracts() (Addresses, error) {
	var out Addresses
	required := []struct {
		key   string
		value string
		dst   *common.Address
	}{
		{"router", c.Router, &out.Router},
		{"factory", c.Factory, &out.Factory},
		{"wrapped-native", c.WrappedNative, &out.WrappedNative},
	}
	for _, r := range required {
		addr, err := parseAddress(r.key, r.value)
		if err != nil {
			return Addresses{}, err
		}
		if addr == (common.Address{}) {
			return Addresses{}, fmt.Errorf("%s address is required", r.key)
		}
		*r.dst = addr
	}

	optional := []struct {
		key   string
		value string
		dst   *common.Address
	}{
		{"masterchef", c.MasterChef, &out.MasterChef},
		{"badge", c.Badge, &out.Badge},
		{"reward-token", c.RewardToken, &out.RewardToken},
	}
	for _, o := range optional {
		addr, err := parseAddress(o.key, o.value)
		if err != nil {
			return Addresses{}, err
		}
		*o.dst = addr
	}
	return out, nil
}

// TokenList converts the configured tokens, keeping configuration order.
func (c Config) TokenList() ([]model.Token, error) {
	out := make([]model.Token, 0, len(c.Tokens))
	seen := make(map[common.Address]bool, len(c.Tokens))
	for i, t := range c.Tokens {
		if strings.TrimSpace(t.Symbol) == "" {
			return nil, fmt.Errorf("token %d: symbol is required", i)
		}
		addr := model.NativeAddress
		if !strings.EqualFold(strings.TrimSpace(t.Address), "native") {
			parsed, err := parseAddress("token "+t.Symbol, t.Address)
			if err != nil {
				return nil, err
			}
			addr = parsed
		}
		if seen[addr] {
			return nil, fmt.Errorf("token %s: duplicate address %s", t.Symbol, addr.Hex())
		}
		seen[addr] = true
		name := t.Name
		if name == "" {
			name = t.Symbol
		}
		out = append(out, model.Token{
			Address:  addr,
			Symbol:   t.Symbol,
			Name:     name,
			Decimals: t.Decimals,
			LogoURI:  t.Logo,
		})
	}
	return out, nil
}

// Tolerance parses the configured slippage percentage.
func (c Config) Tolerance() (amm.Tolerance, error) {
	return amm.ParseTolerance(c.Slippage)
}

var errBadAddress = errors.New("invalid address")

func parseAddress(key, value string) (common.Address, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return common.Address{}, nil
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("%s: %w %q", key, errBadAddress, value)
	}
	return common.HexToAddress(value), nil
}
