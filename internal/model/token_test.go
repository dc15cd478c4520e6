package model

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestTokenKind(t *testing.T) {
	native := Token{Symbol: "ETH", Decimals: 18}
	if !native.IsNative() || native.Kind() != AssetNative {
		t.Fatalf("zero address should be native")
	}

	usdc := Token{Address: common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238"), Decimals: 6}
	if usdc.IsNative() || usdc.Kind() != AssetERC20 {
		t.Fatalf("contract address should be erc20")
	}
}

func TestReservesFor(t *testing.T) {
	pair := ReservePair{
		Token0:   common.HexToAddress("0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"),
		Token1:   common.HexToAddress("0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"),
		Reserve0: big.NewInt(1000),
		Reserve1: big.NewInt(2000),
	}

	same, other := pair.ReservesFor(pair.Token1)
	if same.Int64() != 2000 || other.Int64() != 1000 {
		t.Fatalf("token1 reserves mismatch: %s %s", same, other)
	}
	same, other = pair.ReservesFor(pair.Token0)
	if same.Int64() != 1000 || other.Int64() != 2000 {
		t.Fatalf("token0 reserves mismatch: %s %s", same, other)
	}
}

func TestPoolInfoJSONStringAmounts(t *testing.T) {
	info := PoolInfo{Reserve0: "1000.5", Reserve1: "2", TVL: "1002.5", APR: "10.95"}

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	for _, key := range []string{"reserve0", "reserve1", "tvl", "apr"} {
		if _, ok := decoded[key].(string); !ok {
			t.Fatalf("%s should be string", key)
		}
	}
}
