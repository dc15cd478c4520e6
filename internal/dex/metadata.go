package dex

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapDesk/internal/chain"
	"swapDesk/internal/model"
)

// TokenMetaCache caches token metadata by address for the life of the process.
type TokenMetaCache struct {
	mu   sync.RWMutex
	data map[common.Address]model.TokenMeta
}

func NewTokenMetaCache() *TokenMetaCache {
	return &TokenMetaCache{data: make(map[common.Address]model.TokenMeta)}
}

func (c *TokenMetaCache) Get(address common.Address) (model.TokenMeta, bool) {
	c.mu.RLock()
	meta, ok := c.data[address]
	c.mu.RUnlock()
	return meta, ok
}

func (c *TokenMetaCache) Set(address common.Address, meta model.TokenMeta) {
	c.mu.Lock()
	c.data[address] = meta
	c.mu.Unlock()
}

// Resolve returns cached metadata for token, fetching it from chain on a miss.
// Failed lookups are not cached.
func (c *TokenMetaCache) Resolve(ctx context.Context, caller chain.Caller, token common.Address, logger *zap.Logger) (model.TokenMeta, error) {
	if meta, ok := c.Get(token); ok {
		return meta, nil
	}
	meta, err := FetchTokenMeta(ctx, caller, token, logger)
	if err != nil {
		return meta, err
	}
	c.Set(token, meta)
	return meta, nil
}

// FetchTokenMeta loads token metadata via ERC20 calls. decimals is required;
// symbol and name fall back to bytes32 encodings and are otherwise left empty.
func FetchTokenMeta(ctx context.Context, caller chain.Caller, token common.Address, logger *zap.Logger) (model.TokenMeta, error) {
	meta := model.TokenMeta{Address: token.Hex()}
	if logger == nil {
		logger = zap.NewNop()
	}

	stringABI, err := ERC20ABI()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 string abi: %w", err)
	}
	bytes32ABI, err := erc20ABIBytes32Instance()
	if err != nil {
		return meta, fmt.Errorf("parse erc20 bytes32 abi: %w", err)
	}

	values, err := callMethod(ctx, caller, token, stringABI, "decimals")
	if err != nil {
		return meta, err
	}
	decimals, err := asUint8(values[0])
	if err != nil {
		return meta, err
	}
	meta.Decimals = decimals

	meta.Symbol = fetchText(ctx, caller, token, "symbol", stringABI, bytes32ABI, logger)
	meta.Name = fetchText(ctx, caller, token, "name", stringABI, bytes32ABI, logger)
	return meta, nil
}

func fetchText(ctx context.Context, caller chain.Caller, token common.Address, method string, stringABI, bytes32ABI abi.ABI, logger *zap.Logger) string {
	if values, err := callMethod(ctx, caller, token, stringABI, method); err == nil {
		if text, ok := values[0].(string); ok {
			return text
		}
	}
	values, err := callMethod(ctx, caller, token, bytes32ABI, method)
	if err != nil {
		logger.Debug(method+" call failed", zap.String("token", token.Hex()), zap.Error(err))
		return ""
	}
	text, _ := bytes32ToString(values[0])
	return text
}

func bytes32ToString(value interface{}) (string, bool) {
	switch v := value.(type) {
	case [32]byte:
		return string(bytes.TrimRight(v[:], "\x00")), true
	case []byte:
		return string(bytes.TrimRight(v, "\x00")), true
	default:
		return "", false
	}
}

func asAddress(value interface{}) (common.Address, error) {
	switch v := value.(type) {
	case common.Address:
		return v, nil
	case *common.Address:
		return *v, nil
	default:
		return common.Address{}, fmt.Errorf("unsupported address type %T", value)
	}
}

func asBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case *big.Int:
		return new(big.Int).Set(v), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint16:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	default:
		return nil, fmt.Errorf("unsupported int type %T", value)
	}
}

func asUint8(value interface{}) (uint8, error) {
	switch v := value.(type) {
	case uint8:
		return v, nil
	case *big.Int:
		if !v.IsUint64() || v.Uint64() > 255 {
			return 0, fmt.Errorf("decimals out of range: %s", v)
		}
		return uint8(v.Uint64()), nil
	default:
		return 0, fmt.Errorf("unsupported uint8 type %T", value)
	}
}

func asBool(value interface{}) (bool, error) {
	v, ok := value.(bool)
	if !ok {
		return false, fmt.Errorf("unsupported bool type %T", value)
	}
	return v, nil
}
