package chain

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/apperrors"
)

// RetryPolicy bounds retries of read calls. Writes are never retried.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
	// Retryable filters errors worth another attempt; nil retries everything.
	Retryable func(error) bool
}

// WithRetry runs fn until it succeeds, doubling the delay between attempts.
func WithRetry(ctx context.Context, policy RetryPolicy, fn func(context.Context) error) error {
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delay := policy.BaseDelay
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}

	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= maxRetries || (policy.Retryable != nil && !policy.Retryable(err)) {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}

// RetryCaller retries read calls that fail with a network-class error.
// Reverts and cancellations are returned immediately.
type RetryCaller struct {
	Caller
	Policy RetryPolicy
}

// NewRetryCaller wraps caller with policy; policy.Retryable defaults to network errors only.
func NewRetryCaller(caller Caller, policy RetryPolicy) *RetryCaller {
	if policy.Retryable == nil {
		policy.Retryable = IsTransient
	}
	return &RetryCaller{Caller: caller, Policy: policy}
}

// CallContract performs an eth_call with retries.
func (r *RetryCaller) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out []byte
	err := WithRetry(ctx, r.Policy, func(ctx context.Context) error {
		var err error
		out, err = r.Caller.CallContract(ctx, msg, blockNumber)
		return err
	})
	return out, err
}

// BalanceAt reads a native balance with retries.
func (r *RetryCaller) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	var out *big.Int
	err := WithRetry(ctx, r.Policy, func(ctx context.Context) error {
		var err error
		out, err = r.Caller.BalanceAt(ctx, account, blockNumber)
		return err
	})
	return out, err
}

// IsTransient reports whether err looks like a transport failure worth retrying.
func IsTransient(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	return errors.Is(apperrors.Classify("", err), apperrors.ErrNetwork)
}
