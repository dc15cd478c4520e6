package units

import (
	"errors"
	"math/big"
	"testing"

	"swapDesk/internal/apperrors"
)

func TestParseUnits(t *testing.T) {
	cases := []struct {
		in       string
		decimals uint8
		want     string
	}{
		{"1", 18, "1000000000000000000"},
		{"1.5", 6, "1500000"},
		{"0.000001", 6, "1"},
		{" 42 ", 0, "42"},
		{"1.500", 2, "150"},
		{"0", 18, "0"},
	}

	for _, tc := range cases {
		got, err := ParseUnits(tc.in, tc.decimals)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.in, err)
		}
		if got.String() != tc.want {
			t.Fatalf("parse %q = %s, want %s", tc.in, got, tc.want)
		}
	}
}

func TestParseUnitsRejects(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "1.2345678", "1,5"} {
		if _, err := ParseUnits(in, 6); !errors.Is(err, apperrors.ErrInvalidAmount) {
			t.Fatalf("parse %q: expected invalid amount, got %v", in, err)
		}
	}
}

func TestParseUnitsTruncRoundsTowardZero(t *testing.T) {
	got, err := ParseUnitsTrunc("1.2345679", 6)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.String() != "1234567" {
		t.Fatalf("expected truncation to 1234567, got %s", got)
	}
	if _, err := ParseUnitsTrunc("x", 6); !errors.Is(err, apperrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount")
	}
}

func TestFormatUnits(t *testing.T) {
	cases := []struct {
		value    *big.Int
		decimals uint8
		want     string
	}{
		{big.NewInt(1500000), 6, "1.5"},
		{big.NewInt(1), 18, "0.000000000000000001"},
		{big.NewInt(250), 0, "250"},
		{big.NewInt(0), 18, "0"},
		{nil, 18, "0"},
	}

	for _, tc := range cases {
		if got := FormatUnits(tc.value, tc.decimals); got != tc.want {
			t.Fatalf("format %v/%d = %q, want %q", tc.value, tc.decimals, got, tc.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, in := range []string{"1", "0.5", "123.456", "0.000000000000000001", "99999999999.999999"} {
		parsed, err := ParseUnits(in, 18)
		if err != nil {
			t.Fatalf("parse %q: %v", in, err)
		}
		if out := FormatUnits(parsed, 18); out != in {
			t.Fatalf("round trip %q -> %q", in, out)
		}
	}
}

func TestIsPositive(t *testing.T) {
	if !IsPositive("0.01") || IsPositive("0") || IsPositive("") || IsPositive("-3") || IsPositive("abc") {
		t.Fatalf("IsPositive mismatch")
	}
}

func TestDisplay(t *testing.T) {
	if got := Display("1.23456", 4); got != "1.2346" {
		t.Fatalf("display = %q", got)
	}
	if got := Display("0.00001", 4); got != "<0.0001" {
		t.Fatalf("dust display = %q", got)
	}
	if got := Display("", 4); got != "0.0" {
		t.Fatalf("empty display = %q", got)
	}
}
