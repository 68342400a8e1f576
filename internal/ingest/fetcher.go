package ingest

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-risk-monitor/internal/api"
	"github.com/rickgao/market-risk-monitor/internal/model"
)

// MarketsClient fetches a page of market data.
type MarketsClient interface {
	GetCoinMarkets(ctx context.Context, q api.CoinMarketsQuery) ([]api.CoinMarket, error)
}

// Fetcher turns one /coins/markets call into a Snapshot.
type Fetcher struct {
	client MarketsClient
	query  api.CoinMarketsQuery
	logger *slog.Logger

	now   func() time.Time
	newID func() uuid.UUID
}

// FetcherOption configures a Fetcher.
type FetcherOption func(*Fetcher)

// WithClock sets the time source used for the capture timestamp.
func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) {
		f.now = now
	}
}

// NewFetcher creates a new Fetcher.
func NewFetcher(client MarketsClient, query api.CoinMarketsQuery, logger *slog.Logger, opts ...FetcherOption) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	f := &Fetcher{
		client: client,
		query:  query,
		logger: logger,
		now:    time.Now,
		newID:  uuid.New,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch performs the request and builds the snapshot. The clock is read once,
// after the response is decoded, so every record shares the same timestamp.
func (f *Fetcher) Fetch(ctx context.Context) (model.Snapshot, error) {
	start := time.Now()

	coins, err := f.client.GetCoinMarkets(ctx, f.query)
	if err != nil {
		return model.Snapshot{}, err
	}

	capturedAt := f.now().UTC().Truncate(time.Microsecond)
	snap := model.Snapshot{
		RunID:      f.newID(),
		CapturedAt: capturedAt,
		VsCurrency: f.query.VsCurrency,
		Records:    api.ToRecords(coins, capturedAt),
	}

	f.logger.Debug("snapshot fetched",
		"run_id", snap.RunID,
		"records", snap.Len(),
		"duration", time.Since(start),
	)
	return snap, nil
}
