package api

import (
	"time"

	"github.com/rickgao/market-risk-monitor/internal/model"
)

// ToRecord converts a CoinMarket to model.MarketRecord stamped with capturedAt.
func (m CoinMarket) ToRecord(capturedAt time.Time) model.MarketRecord {
	return model.MarketRecord{
		AssetID:      m.ID,
		CapturedAt:   capturedAt,
		PriceUSD:     m.CurrentPrice,
		VolumeUSD:    m.TotalVolume,
		MarketCapUSD: m.MarketCap,
	}
}

// ToRecords converts a page of markets, preserving response order.
// Every record gets the same capturedAt.
func ToRecords(coins []CoinMarket, capturedAt time.Time) []model.MarketRecord {
	records := make([]model.MarketRecord, len(coins))
	for i, c := range coins {
		records[i] = c.ToRecord(capturedAt)
	}
	return records
}
