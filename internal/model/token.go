package model

import "github.com/ethereum/go-ethereum/common"

// NativeAddress is the sentinel address that denotes the chain's native asset.
var NativeAddress = common.Address{}

// AssetKind distinguishes the native asset from ERC20-style tokens.
type AssetKind int

const (
	AssetERC20 AssetKind = iota
	AssetNative
)

// Token is reference data for a tradable asset.
type Token struct {
	Address  common.Address `json:"address"`
	Symbol   string         `json:"symbol"`
	Name     string         `json:"name"`
	Decimals uint8          `json:"decimals"`
	LogoURI  string         `json:"logo_uri,omitempty"`
	Balance  string         `json:"balance,omitempty"`
}

// Kind reports whether the token is the native asset or an ERC20 contract.
func (t Token) Kind() AssetKind {
	if t.Address == NativeAddress {
		return AssetNative
	}
	return AssetERC20
}

// IsNative is shorthand for Kind() == AssetNative.
func (t Token) IsNative() bool {
	return t.Kind() == AssetNative
}

// TokenMeta is ERC20 metadata as read from the token contract.
type TokenMeta struct {
	Address  string `json:"address"`
	Decimals uint8  `json:"decimals"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
}

// Token converts metadata to a Token record.
func (m TokenMeta) Token() Token {
	return Token{
		Address:  common.HexToAddress(m.Address),
		Symbol:   m.Symbol,
		Name:     m.Name,
		Decimals: m.Decimals,
	}
}
