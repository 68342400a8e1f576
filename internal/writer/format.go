package writer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/market-risk-monitor/internal/model"
)

// csvHeader is the column order of the output file.
var csvHeader = []string{"asset_id", "timestamp", "price_usd", "volume_usd", "market_cap_usd"}

// formatTimestamp renders t as "2006-01-02 15:04:05.000000+00:00".
// The fraction is dropped when t has no sub-second microseconds.
func formatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format("2006-01-02 15:04:05-07:00")
	}
	return t.Format("2006-01-02 15:04:05.000000-07:00")
}

// formatColumn renders one numeric column of a snapshot. A column whose values
// were all integer literals stays integral ("50000"); anything else switches
// the whole column to float notation ("50000.0") with nulls left empty.
func formatColumn(col []model.Amount) []string {
	integral := true
	for _, a := range col {
		if !a.Valid || !a.Int {
			integral = false
			break
		}
	}

	out := make([]string, len(col))
	for i, a := range col {
		switch {
		case integral:
			out[i] = a.Value.String()
		case !a.Valid:
			out[i] = ""
		default:
			out[i] = formatFloat(a.Float64())
		}
	}
	return out
}

// formatFloat returns the shortest round-trip representation of f, keeping a
// trailing ".0" on integral values and switching to exponent notation outside
// [1e-4, 1e16).
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return ""
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	if i := strings.IndexByte(sci, 'e'); i >= 0 {
		if exp, err := strconv.Atoi(sci[i+1:]); err == nil && (exp < -4 || exp >= 16) {
			return sci
		}
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// csvRows converts a snapshot into CSV rows in fetch order.
func csvRows(records []model.MarketRecord) [][]string {
	prices := make([]model.Amount, len(records))
	volumes := make([]model.Amount, len(records))
	caps := make([]model.Amount, len(records))
	for i, r := range records {
		prices[i] = r.PriceUSD
		volumes[i] = r.VolumeUSD
		caps[i] = r.MarketCapUSD
	}

	priceCol := formatColumn(prices)
	volumeCol := formatColumn(volumes)
	capCol := formatColumn(caps)

	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.AssetID,
			formatTimestamp(r.CapturedAt),
			priceCol[i],
			volumeCol[i],
			capCol[i],
		}
	}
	return rows
}
