// Package cache publishes the latest snapshot values to Redis so that
// dashboards can read current prices without parsing the CSV history.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/rickgao/market-risk-monitor/internal/config"
	"github.com/rickgao/market-risk-monitor/internal/model"
)

// LatestCache stores the most recent record per asset.
type LatestCache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// latestValue is the JSON payload stored under each key.
// Amounts are exact decimal strings; null amounts stay null.
type latestValue struct {
	AssetID    string              `json:"asset_id"`
	VsCurrency string              `json:"vs_currency"`
	Price      decimal.NullDecimal `json:"price"`
	Volume     decimal.NullDecimal `json:"volume"`
	MarketCap  decimal.NullDecimal `json:"market_cap"`
	CapturedAt time.Time           `json:"captured_at"`
	RunID      string              `json:"run_id"`
}

// NewLatestCache connects to Redis and pings it.
func NewLatestCache(ctx context.Context, cfg config.RedisConfig, logger *slog.Logger) (*LatestCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return newLatestCache(rdb, cfg.KeyPrefix, cfg.TTL, logger), nil
}

func newLatestCache(rdb *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *LatestCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &LatestCache{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

// Name identifies the sink in logs.
func (c *LatestCache) Name() string {
	return "redis"
}

// Append overwrites the latest value of every asset in the snapshot in one
// transaction.
func (c *LatestCache) Append(ctx context.Context, snap model.Snapshot) error {
	if snap.Empty() {
		return nil
	}

	pipe := c.rdb.TxPipeline()
	for _, r := range snap.Records {
		b, err := encodeLatest(snap, r)
		if err != nil {
			return fmt.Errorf("encode %s: %w", r.AssetID, err)
		}
		pipe.Set(ctx, latestKey(c.prefix, snap.VsCurrency, r.AssetID), b, c.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis pipeline: %w", err)
	}

	c.logger.Debug("published latest prices", "count", snap.Len(), "ttl", c.ttl)
	return nil
}

// Close closes the Redis client.
func (c *LatestCache) Close() error {
	return c.rdb.Close()
}

// latestKey returns "<prefix>:<vs>:<asset>", e.g. "latest:usd:bitcoin".
func latestKey(prefix, vsCurrency, assetID string) string {
	return fmt.Sprintf("%s:%s:%s", prefix, vsCurrency, assetID)
}

func encodeLatest(snap model.Snapshot, r model.MarketRecord) ([]byte, error) {
	return json.Marshal(latestValue{
		AssetID:    r.AssetID,
		VsCurrency: snap.VsCurrency,
		Price:      nullDecimal(r.PriceUSD),
		Volume:     nullDecimal(r.VolumeUSD),
		MarketCap:  nullDecimal(r.MarketCapUSD),
		CapturedAt: r.CapturedAt.UTC(),
		RunID:      snap.RunID.String(),
	})
}

// nullDecimal maps null and non-finite amounts to JSON null.
func nullDecimal(a model.Amount) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: a.Value, Valid: a.Valid && a.Inf == 0}
}
