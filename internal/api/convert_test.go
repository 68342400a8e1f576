package api

import (
	"testing"
	"time"

	"github.com/rickgao/market-risk-monitor/internal/model"
)

func mustAmount(t *testing.T, literal string) model.Amount {
	t.Helper()
	a, err := model.NewAmount(literal)
	if err != nil {
		t.Fatalf("NewAmount(%q): %v", literal, err)
	}
	return a
}

func TestCoinMarketToRecord(t *testing.T) {
	capturedAt := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	m := CoinMarket{
		ID:           "bitcoin",
		CurrentPrice: mustAmount(t, "50000"),
		TotalVolume:  mustAmount(t, "1e9"),
		MarketCap:    mustAmount(t, "1e12"),
	}

	r := m.ToRecord(capturedAt)

	if r.AssetID != "bitcoin" {
		t.Errorf("AssetID = %q, want bitcoin", r.AssetID)
	}
	if !r.CapturedAt.Equal(capturedAt) {
		t.Errorf("CapturedAt = %v, want %v", r.CapturedAt, capturedAt)
	}
	if r.PriceUSD.Float64() != 50000 {
		t.Errorf("PriceUSD = %v, want 50000", r.PriceUSD.Float64())
	}
	if r.VolumeUSD.Float64() != 1e9 {
		t.Errorf("VolumeUSD = %v, want 1e9", r.VolumeUSD.Float64())
	}
	if r.MarketCapUSD.Float64() != 1e12 {
		t.Errorf("MarketCapUSD = %v, want 1e12", r.MarketCapUSD.Float64())
	}
}

func TestToRecords(t *testing.T) {
	capturedAt := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	coins := []CoinMarket{
		{ID: "bitcoin", CurrentPrice: mustAmount(t, "1")},
		{ID: "ethereum", CurrentPrice: mustAmount(t, "2")},
		{ID: "solana", CurrentPrice: mustAmount(t, "3")},
	}

	records := ToRecords(coins, capturedAt)

	if len(records) != len(coins) {
		t.Fatalf("len(records) = %d, want %d", len(records), len(coins))
	}
	for i, r := range records {
		if r.AssetID != coins[i].ID {
			t.Errorf("records[%d].AssetID = %q, want %q", i, r.AssetID, coins[i].ID)
		}
		if !r.CapturedAt.Equal(capturedAt) {
			t.Errorf("records[%d].CapturedAt = %v, want %v", i, r.CapturedAt, capturedAt)
		}
	}

	if got := ToRecords(nil, capturedAt); len(got) != 0 {
		t.Errorf("ToRecords(nil) = %v, want empty", got)
	}
}
