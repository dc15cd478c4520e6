package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// KeyedTransactor signs with a local private key and submits through the client.
type KeyedTransactor struct {
	client *Client
	opts   *bind.TransactOpts
}

// NewKeyedTransactor builds a signer for hexKey on the client's chain.
func (c *Client) NewKeyedTransactor(ctx context.Context, hexKey string) (*KeyedTransactor, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(hexKey), "0x"))
	if err != nil {
		return nil, fmt.Errorf("parse private key: %w", err)
	}
	chainID, err := c.GetChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("get chain id: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("build transactor: %w", err)
	}
	return &KeyedTransactor{client: c, opts: opts}, nil
}

// From returns the signing account.
func (t *KeyedTransactor) From() common.Address {
	return t.opts.From
}

// Transact signs and sends a call with calldata and attached value. Gas and
// nonce are filled in by the backend; a call that would revert fails here at
// gas estimation with the revert reason.
func (t *KeyedTransactor) Transact(ctx context.Context, to common.Address, data []byte, value *big.Int) (common.Hash, error) {
	opts := *t.opts
	opts.Context = ctx
	opts.Value = value

	contract := bind.NewBoundContract(to, abi.ABI{}, t.client.ethClient, t.client.ethClient, t.client.ethClient)
	tx, err := contract.RawTransact(&opts, data)
	if err != nil {
		return common.Hash{}, err
	}
	return tx.Hash(), nil
}

// TransactionReceipt returns the receipt for hash.
func (t *KeyedTransactor) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	return t.client.TransactionReceipt(ctx, hash)
}
