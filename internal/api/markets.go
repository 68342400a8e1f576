package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// GetCoinMarkets fetches one page of /coins/markets.
func (c *Client) GetCoinMarkets(ctx context.Context, q CoinMarketsQuery) ([]CoinMarket, error) {
	query := url.Values{}

	query.Set("vs_currency", q.VsCurrency)
	if len(q.IDs) > 0 {
		query.Set("ids", strings.Join(q.IDs, ","))
	}
	if q.Order != "" {
		query.Set("order", q.Order)
	}
	if q.PerPage > 0 {
		query.Set("per_page", strconv.Itoa(q.PerPage))
	}
	if q.Page > 0 {
		query.Set("page", strconv.Itoa(q.Page))
	}
	query.Set("sparkline", strconv.FormatBool(q.Sparkline))

	body, err := c.get(ctx, "/coins/markets", query)
	if err != nil {
		return nil, fmt.Errorf("get coin markets: %w", err)
	}

	coins, err := decodeCoinMarkets(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("decoded coin markets", "count", len(coins))
	return coins, nil
}
