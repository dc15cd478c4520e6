package service

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"

	"swapDesk/internal/chain"
	"swapDesk/internal/dex"
	"swapDesk/internal/model"
)

// TokenList is the configured token list plus a cache of tokens discovered on chain.
type TokenList struct {
	known   []model.Token
	wrapped common.Address
	cache   *dex.TokenMetaCache
}

func NewTokenList(tokens []model.Token, wrappedNative common.Address) *TokenList {
	return &TokenList{
		known:   append([]model.Token(nil), tokens...),
		wrapped: wrappedNative,
		cache:   dex.NewTokenMetaCache(),
	}
}

// All returns the configured tokens in configuration order.
func (l *TokenList) All() []model.Token {
	return append([]model.Token(nil), l.known...)
}

// Native returns the configured native-asset entry.
func (l *TokenList) Native() (model.Token, bool) {
	for _, t := range l.known {
		if t.IsNative() {
			return t, true
		}
	}
	return model.Token{}, false
}

// Known returns the configured token at address.
func (l *TokenList) Known(address common.Address) (model.Token, bool) {
	for _, t := range l.known {
		if t.Address == address {
			return t, true
		}
	}
	return model.Token{}, false
}

// Lookup finds a configured token by symbol (case-insensitive) or address.
func (l *TokenList) Lookup(ref string) (model.Token, bool) {
	ref = strings.TrimSpace(ref)
	if common.IsHexAddress(ref) {
		return l.Known(common.HexToAddress(ref))
	}
	for _, t := range l.known {
		if strings.EqualFold(t.Symbol, ref) {
			return t, true
		}
	}
	return model.Token{}, false
}

// Resolve returns display metadata for an on-chain token address. Configured
// tokens win; the wrapped-native token borrows the native entry's metadata
// unless it is configured itself; anything else is read from chain and cached.
func (l *TokenList) Resolve(ctx context.Context, caller chain.Caller, address common.Address, logger *zap.Logger) (model.Token, error) {
	if t, ok := l.Known(address); ok {
		return t, nil
	}
	if address == l.wrapped {
		if native, ok := l.Native(); ok {
			native.Address = address
			native.Balance = ""
			return native, nil
		}
	}
	meta, err := l.cache.Resolve(ctx, caller, address, logger)
	if err != nil {
		return model.Token{}, err
	}
	return meta.Token(), nil
}
