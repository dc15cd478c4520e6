package dex

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/chain"
)

// callMethod packs method with args, performs an eth_call at the latest block
// and unpacks the outputs.
func callMethod(ctx context.Context, caller chain.Caller, to common.Address, parsed abi.ABI, method string, args ...interface{}) ([]interface{}, error) {
	if caller == nil {
		return nil, fmt.Errorf("chain caller is nil")
	}
	data, err := parsed.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	msg := ethereum.CallMsg{To: &to, Data: data}
	resp, err := caller.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s: %w", method, err)
	}
	values, err := parsed.Unpack(method, resp)
	if err != nil {
		return nil, fmt.Errorf("unpack %s: %w", method, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("unpack %s: empty result", method)
	}
	return values, nil
}

func callBigInt(ctx context.Context, caller chain.Caller, to common.Address, parsed abi.ABI, method string, args ...interface{}) (*big.Int, error) {
	values, err := callMethod(ctx, caller, to, parsed, method, args...)
	if err != nil {
		return nil, err
	}
	v, err := asBigInt(values[0])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", method, err)
	}
	return v, nil
}

func callAddress(ctx context.Context, caller chain.Caller, to common.Address, parsed abi.ABI, method string, args ...interface{}) (common.Address, error) {
	values, err := callMethod(ctx, caller, to, parsed, method, args...)
	if err != nil {
		return common.Address{}, err
	}
	v, err := asAddress(values[0])
	if err != nil {
		return common.Address{}, fmt.Errorf("%s: %w", method, err)
	}
	return v, nil
}

func pack(parsed func() (abi.ABI, error), method string, args ...interface{}) ([]byte, error) {
	a, err := parsed()
	if err != nil {
		return nil, fmt.Errorf("parse abi: %w", err)
	}
	data, err := a.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	return data, nil
}
