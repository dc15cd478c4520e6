package apperrors

import (
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"
)

type rule struct {
	kind     error
	patterns []string
}

// Order matters: slippage reverts also contain "insufficient".
var rules = []rule{
	{ErrUserRejected, []string{"user rejected", "user denied", "rejected by user", "action_rejected", "request rejected"}},
	{ErrDeadlineExpired, []string{": expired", "deadline expired"}},
	{ErrSlippageExceeded, []string{"insufficient_output_amount", "insufficient_a_amount", "insufficient_b_amount", "excessive_input_amount"}},
	{ErrInsufficientLiquidity, []string{"insufficient_liquidity"}},
	{ErrInsufficientBalance, []string{"insufficient funds", "exceeds balance", "transfer_from_failed", "insufficient balance", "withdraw: not good"}},
	{ErrInvalidAmount, []string{"insufficient_input_amount", "insufficient_amount", "invalid amount"}},
	{ErrAlreadyClaimed, []string{"alreadyclaimed"}},
	{ErrClaimClosed, []string{"claimclosed"}},
	{ErrReverted, []string{"execution reverted", "revert"}},
	{ErrNetwork, []string{"timeout", "connection refused", "connection reset", "eof", "too many requests", "429", "no such host"}},
}

var customErrorSelectors = map[string]error{
	selector("AlreadyClaimed()"): ErrAlreadyClaimed,
	selector("ClaimClosed()"):    ErrClaimClosed,
}

func selector(signature string) string {
	return hexutil.Encode(crypto.Keccak256([]byte(signature))[:4])
}

// Classify maps a provider or contract error onto the failure taxonomy.
// Already classified errors are returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var classified *Error
	if errors.As(err, &classified) {
		return err
	}
	return &Error{Op: op, Kind: kindOf(err), Err: err}
}

func kindOf(err error) error {
	for _, kind := range []error{
		ErrUserRejected, ErrInsufficientBalance, ErrInsufficientLiquidity, ErrSlippageExceeded,
		ErrNetwork, ErrInvalidAmount, ErrDeadlineExpired, ErrConfirmationPending,
		ErrClaimClosed, ErrAlreadyClaimed, ErrReverted,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}

	var dataErr rpc.DataError
	if errors.As(err, &dataErr) {
		if data, ok := dataErr.ErrorData().(string); ok && len(data) >= 10 {
			if kind, ok := customErrorSelectors[strings.ToLower(data[:10])]; ok {
				return kind
			}
		}
	}

	msg := strings.ToLower(err.Error())
	for _, r := range rules {
		for _, pattern := range r.patterns {
			if strings.Contains(msg, pattern) {
				return r.kind
			}
		}
	}

	// Anything unrecognised (transport failures, cancelled contexts) is
	// reported as retryable by the user.
	return ErrNetwork
}
