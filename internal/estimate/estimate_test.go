package estimate

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestPlaceholderPool(t *testing.T) {
	p := NewPlaceholder()
	got := p.Pool(decimal.RequireFromString("1000"), decimal.RequireFromString("500.5"))
	if got.TVL != "1500.5" {
		t.Fatalf("tvl: got %s", got.TVL)
	}
	if got.Volume24h != "150.05" {
		t.Fatalf("volume: got %s", got.Volume24h)
	}
	// 10% daily volume * 365 * 0.3% = 10.95%
	if got.APR != "10.95" {
		t.Fatalf("apr: got %s", got.APR)
	}
}

func TestPlaceholderEmptyPool(t *testing.T) {
	got := NewPlaceholder().Pool(decimal.Zero, decimal.Zero)
	if got.TVL != "0" || got.APR != "0.00" {
		t.Fatalf("unexpected metrics for empty pool: %+v", got)
	}
}

func TestPlaceholderFarmAPR(t *testing.T) {
	p := NewPlaceholder()
	if got := p.FarmAPR(decimal.NewFromInt(10), decimal.NewFromInt(3650)); got != "100.00" {
		t.Fatalf("farm apr: got %s", got)
	}
	if got := p.FarmAPR(decimal.NewFromInt(10), decimal.Zero); got != "0.00" {
		t.Fatalf("farm apr with nothing staked: got %s", got)
	}
}
