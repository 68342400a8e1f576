package model

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Amount is a USD-denominated quantity taken verbatim from a JSON number.
type Amount struct {
	Value decimal.Decimal
	Valid bool // false when the API sent null
	Int   bool // literal had no fraction or exponent (e.g. 50000, not 5e4 or 50000.0)
	Inf   int  // +1 or -1 when the literal overflows float64; Value is zero then
}

// NewAmount parses a JSON number literal. Exponents too large for a decimal
// fall back to float64 parsing, so 1e100000000000 becomes +Inf and
// 1e-100000000000 becomes 0.
func NewAmount(literal string) (Amount, error) {
	d, err := decimal.NewFromString(literal)
	if err != nil {
		return parseOutOfRange(literal, err)
	}
	return Amount{
		Value: d,
		Valid: true,
		Int:   !strings.ContainsAny(literal, ".eE"),
	}, nil
}

func parseOutOfRange(literal string, decErr error) (Amount, error) {
	f, err := strconv.ParseFloat(literal, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return Amount{}, decErr
	}

	a := Amount{Valid: true}
	switch {
	case math.IsInf(f, 1):
		a.Inf = 1
	case math.IsInf(f, -1):
		a.Inf = -1
	default:
		a.Value = decimal.NewFromFloat(f)
	}
	return a, nil
}

// UnmarshalJSON accepts a number or null. Strings, bools and objects are rejected.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = Amount{}
		return nil
	}
	if len(data) == 0 || !(data[0] == '-' || (data[0] >= '0' && data[0] <= '9')) {
		return fmt.Errorf("expected number, got %s", data)
	}
	parsed, err := NewAmount(string(data))
	if err != nil {
		return fmt.Errorf("parse number %s: %w", data, err)
	}
	*a = parsed
	return nil
}

// Float64 returns the nearest float64. Null amounts return 0.
func (a Amount) Float64() float64 {
	if a.Inf != 0 {
		return math.Inf(a.Inf)
	}
	f, _ := a.Value.Float64()
	return f
}

// MarketRecord is one row of output: a single asset at the snapshot time.
type MarketRecord struct {
	AssetID      string    // CoinGecko id (e.g., "bitcoin")
	CapturedAt   time.Time // Snapshot time (UTC), shared by the whole batch
	PriceUSD     Amount    // current_price
	VolumeUSD    Amount    // total_volume (24h)
	MarketCapUSD Amount    // market_cap
}

// Snapshot is the record set produced by one run.
type Snapshot struct {
	RunID      uuid.UUID
	CapturedAt time.Time
	VsCurrency string
	Records    []MarketRecord
}

// Len returns the number of records.
func (s Snapshot) Len() int {
	return len(s.Records)
}

// Empty reports whether the API returned no assets.
func (s Snapshot) Empty() bool {
	return len(s.Records) == 0
}
