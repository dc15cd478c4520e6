package apperrors

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type dataError struct {
	msg  string
	data interface{}
}

func (e dataError) Error() string          { return e.msg }
func (e dataError) ErrorData() interface{} { return e.data }

func TestClassifyMessages(t *testing.T) {
	cases := []struct {
		msg  string
		want error
	}{
		{"MetaMask Tx Signature: User denied transaction signature.", ErrUserRejected},
		{"execution reverted: UniswapV2Router: EXPIRED", ErrDeadlineExpired},
		{"execution reverted: UniswapV2Router: INSUFFICIENT_OUTPUT_AMOUNT", ErrSlippageExceeded},
		{"execution reverted: UniswapV2Router: INSUFFICIENT_B_AMOUNT", ErrSlippageExceeded},
		{"execution reverted: UniswapV2Library: INSUFFICIENT_LIQUIDITY", ErrInsufficientLiquidity},
		{"execution reverted: UniswapV2: INSUFFICIENT_LIQUIDITY_BURNED", ErrInsufficientLiquidity},
		{"insufficient funds for gas * price + value", ErrInsufficientBalance},
		{"execution reverted: TransferHelper: TRANSFER_FROM_FAILED", ErrInsufficientBalance},
		{"execution reverted: withdraw: not good", ErrInsufficientBalance},
		{"execution reverted: UniswapV2Library: INSUFFICIENT_INPUT_AMOUNT", ErrInvalidAmount},
		{"execution reverted", ErrReverted},
		{"Post \"http://node\": dial tcp: connection refused", ErrNetwork},
		{"something odd happened", ErrNetwork},
	}

	for _, tc := range cases {
		err := Classify("swap", errors.New(tc.msg))
		if !errors.Is(err, tc.want) {
			t.Fatalf("%q classified as %v, want %v", tc.msg, KindOf(err), tc.want)
		}
	}
}

func TestClassifyKeepsCause(t *testing.T) {
	cause := errors.New("execution reverted: UniswapV2Router: EXPIRED")
	err := Classify("add liquidity", fmt.Errorf("send: %w", cause))

	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
	if !IsCancellation(err) {
		t.Fatalf("expired deadline should be a cancellation")
	}
	if again := Classify("other", err); again != err {
		t.Fatalf("classified error should pass through unchanged")
	}
}

func TestClassifyContextErrors(t *testing.T) {
	err := Classify("quote", fmt.Errorf("call: %w", context.DeadlineExceeded))
	if !errors.Is(err, ErrNetwork) {
		t.Fatalf("deadline exceeded should be a network error, got %v", KindOf(err))
	}
}

func TestClassifyCustomErrorSelector(t *testing.T) {
	err := Classify("claim", dataError{msg: "execution reverted", data: selector("AlreadyClaimed()")})
	if !errors.Is(err, ErrAlreadyClaimed) {
		t.Fatalf("selector not decoded: %v", err)
	}
}

func TestNewAndNil(t *testing.T) {
	if Classify("noop", nil) != nil {
		t.Fatalf("nil should stay nil")
	}
	err := New("remove liquidity", ErrInvalidAmount, nil)
	if !errors.Is(err, ErrInvalidAmount) || err.Error() != "remove liquidity: invalid amount" {
		t.Fatalf("unexpected error: %v", err)
	}
}
