package api

import (
	"encoding/json"
	"fmt"

	"github.com/rickgao/market-risk-monitor/internal/model"
)

// CoinMarketsQuery is the query for GET /coins/markets.
type CoinMarketsQuery struct {
	VsCurrency string   // Target currency (e.g., "usd")
	IDs        []string // Asset ids, sent comma-joined
	Order      string   // e.g., "market_cap_desc"
	PerPage    int      // 1-250
	Page       int      // 1-based
	Sparkline  bool
}

// CoinMarket is one element of the /coins/markets response, reduced to the
// fields the ingester stores.
type CoinMarket struct {
	ID           string
	CurrentPrice model.Amount
	TotalVolume  model.Amount
	MarketCap    model.Amount
}

// ParseError reports a malformed /coins/markets response.
// Index is -1 when the body as a whole could not be decoded.
type ParseError struct {
	Index  int
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return "parse coins/markets response: " + e.Reason
	}
	return fmt.Sprintf("parse coins/markets element %d: field %q: %s", e.Index, e.Field, e.Reason)
}

// decodeCoinMarkets decodes a JSON array of market objects. Every element must
// carry id, current_price, total_volume and market_cap.
func decodeCoinMarkets(body []byte) ([]CoinMarket, error) {
	var raw []map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &ParseError{Index: -1, Reason: err.Error()}
	}
	if raw == nil {
		return nil, &ParseError{Index: -1, Reason: "expected array, got null"}
	}

	coins := make([]CoinMarket, 0, len(raw))
	for i, obj := range raw {
		var coin CoinMarket

		idRaw, ok := obj["id"]
		if !ok {
			return nil, &ParseError{Index: i, Field: "id", Reason: "missing"}
		}
		if err := json.Unmarshal(idRaw, &coin.ID); err != nil || string(idRaw) == "null" {
			return nil, &ParseError{Index: i, Field: "id", Reason: "expected string, got " + string(idRaw)}
		}

		for _, f := range []struct {
			name string
			dst  *model.Amount
		}{
			{"current_price", &coin.CurrentPrice},
			{"total_volume", &coin.TotalVolume},
			{"market_cap", &coin.MarketCap},
		} {
			v, ok := obj[f.name]
			if !ok {
				return nil, &ParseError{Index: i, Field: f.name, Reason: "missing"}
			}
			if err := json.Unmarshal(v, f.dst); err != nil {
				return nil, &ParseError{Index: i, Field: f.name, Reason: err.Error()}
			}
		}

		coins = append(coins, coin)
	}

	return coins, nil
}
