package amm

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"swapDesk/internal/apperrors"
)

func mustTolerance(t *testing.T, value string) Tolerance {
	t.Helper()
	tol, err := ParseTolerance(value)
	if err != nil {
		t.Fatalf("parse tolerance %q: %v", value, err)
	}
	return tol
}

func TestMinAmount(t *testing.T) {
	tol := mustTolerance(t, "0.5")
	if tol.Numerator().Int64() != 9950 {
		t.Fatalf("numerator = %s, want 9950", tol.Numerator())
	}
	if got := MinAmount(big.NewInt(1_000_000), tol); got.Int64() != 995000 {
		t.Fatalf("bound = %s, want 995000", got)
	}
}

func TestMinAmountMatchesFormula(t *testing.T) {
	quoted, _ := new(big.Int).SetString("123456789012345678901234567", 10)
	cases := map[string]int64{"0": 10000, "0.01": 9999, "1": 9900, "2.55": 9745, "0.333": 9966, "50": 5000}

	for value, numerator := range cases {
		tol := mustTolerance(t, value)
		if tol.Numerator().Int64() != numerator {
			t.Fatalf("tolerance %s numerator = %s, want %d", value, tol.Numerator(), numerator)
		}
		want := new(big.Int).Mul(quoted, big.NewInt(numerator))
		want.Quo(want, big.NewInt(10000))
		if got := MinAmount(quoted, tol); got.Cmp(want) != 0 {
			t.Fatalf("tolerance %s bound = %s, want %s", value, got, want)
		}
	}
}

func TestParseToleranceBounds(t *testing.T) {
	for _, value := range []string{"-0.1", "50.01", "abc"} {
		if _, err := ParseTolerance(value); !errors.Is(err, apperrors.ErrInvalidAmount) {
			t.Fatalf("tolerance %q should be rejected, got %v", value, err)
		}
	}
	if tol := mustTolerance(t, ""); tol.String() != "0.5" {
		t.Fatalf("empty tolerance should default to 0.5, got %s", tol)
	}
}

func TestPairedAmountPreservesRatio(t *testing.T) {
	got := PairedAmount(big.NewInt(100), big.NewInt(1000), big.NewInt(2000))
	if got.Int64() != 200 {
		t.Fatalf("paired = %s, want 200", got)
	}

	x := big.NewInt(777)
	r0 := big.NewInt(3000)
	r1 := big.NewInt(9000)
	y := PairedAmount(x, r0, r1)
	lhs := new(big.Int).Mul(x, r1)
	rhs := new(big.Int).Mul(y, r0)
	if lhs.Cmp(rhs) != 0 {
		t.Fatalf("ratio broken: %s != %s", lhs, rhs)
	}

	if PairedAmount(x, big.NewInt(0), r1).Sign() != 0 {
		t.Fatalf("empty reserve should yield zero")
	}
}

func TestSortsBefore(t *testing.T) {
	a := common.HexToAddress("0x1000000000000000000000000000000000000000")
	b := common.HexToAddress("0xA000000000000000000000000000000000000000")
	if !SortsBefore(a, b) || SortsBefore(b, a) {
		t.Fatalf("ordering mismatch")
	}
}

func TestPoolShareAndDeposited(t *testing.T) {
	if got := PoolShare(big.NewInt(50), big.NewInt(200)); got != "25.00" {
		t.Fatalf("share = %q, want 25.00", got)
	}
	if got := PoolShare(big.NewInt(1), big.NewInt(3)); got != "33.33" {
		t.Fatalf("share = %q, want 33.33", got)
	}
	if got := PoolShare(big.NewInt(1), big.NewInt(0)); got != "0.00" {
		t.Fatalf("share with empty supply = %q", got)
	}
	if got := Deposited(big.NewInt(50), big.NewInt(1000), big.NewInt(200)); got.Int64() != 250 {
		t.Fatalf("deposited = %s, want 250", got)
	}
}

func TestLiquidityForPercent(t *testing.T) {
	balance, _ := new(big.Int).SetString("999999999999999999999", 10)

	full, err := LiquidityForPercent(balance, 100)
	if err != nil || full.Cmp(balance) != 0 {
		t.Fatalf("100%% should remove the exact balance, got %v %v", full, err)
	}

	half, err := LiquidityForPercent(big.NewInt(101), 50)
	if err != nil || half.Int64() != 50 {
		t.Fatalf("50%% of 101 = %v %v", half, err)
	}

	if _, err := LiquidityForPercent(balance, 0); !errors.Is(err, apperrors.ErrInvalidAmount) {
		t.Fatalf("0%% should be rejected, got %v", err)
	}
	if _, err := LiquidityForPercent(balance, 101); !errors.Is(err, apperrors.ErrInvalidAmount) {
		t.Fatalf("101%% should be rejected, got %v", err)
	}
	if _, err := LiquidityForPercent(big.NewInt(0), 50); !errors.Is(err, apperrors.ErrInsufficientBalance) {
		t.Fatalf("empty position should be rejected, got %v", err)
	}
}

func TestDeadline(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	if got := Deadline(now, DefaultDeadlineWindow); got.Int64() != 1_700_001_200 {
		t.Fatalf("deadline = %s", got)
	}
	if got := Deadline(now, 0); got.Int64() != 1_700_001_200 {
		t.Fatalf("zero window should default to 20m, got %s", got)
	}
}
