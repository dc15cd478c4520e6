package chain

import (
	"context"
	"errors"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// ErrReceiptTimeout means no receipt was observed within the wait window. It
// does not prove the transaction failed.
var ErrReceiptTimeout = errors.New("receipt not observed before timeout")

// ReceiptSource is the subset of Transactor needed to poll for receipts.
type ReceiptSource interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// WaitReceipt polls for the receipt of hash every interval until timeout.
// Lookup errors, including ethereum.NotFound for a pending transaction, are
// tolerated until the timeout.
func WaitReceipt(ctx context.Context, src ReceiptSource, hash common.Hash, timeout, interval time.Duration) (*types.Receipt, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		receipt, err := src.TransactionReceipt(ctx, hash)
		if err == nil && receipt != nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrReceiptTimeout
		case <-ticker.C:
		}
	}
}
