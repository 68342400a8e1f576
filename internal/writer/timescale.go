package writer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rickgao/market-risk-monitor/internal/model"
)

// DB is the subset of *pgxpool.Pool used by TimescaleWriter.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// TimescaleWriter mirrors snapshots into a time-series table.
type TimescaleWriter struct {
	db     DB
	table  string
	logger *slog.Logger
}

// priceRow is one market_prices row. Nil amounts are stored as NULL.
type priceRow struct {
	AssetID      string
	CapturedAt   time.Time
	PriceUSD     *float64
	VolumeUSD    *float64
	MarketCapUSD *float64
	RunID        uuid.UUID
}

// NewTimescaleWriter creates a new TimescaleWriter.
func NewTimescaleWriter(db DB, table string, logger *slog.Logger) *TimescaleWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TimescaleWriter{
		db:     db,
		table:  table,
		logger: logger,
	}
}

// Name identifies the sink in logs.
func (w *TimescaleWriter) Name() string {
	return "timescale"
}

// EnsureSchema creates the table if it does not exist.
func (w *TimescaleWriter) EnsureSchema(ctx context.Context) error {
	stmt := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			asset_id       TEXT             NOT NULL,
			captured_at    TIMESTAMPTZ      NOT NULL,
			price_usd      DOUBLE PRECISION,
			volume_usd     DOUBLE PRECISION,
			market_cap_usd DOUBLE PRECISION,
			run_id         UUID             NOT NULL,
			PRIMARY KEY (asset_id, captured_at)
		)`, pgx.Identifier{w.table}.Sanitize())

	if _, err := w.db.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create table %s: %w", w.table, err)
	}
	return nil
}

// Append inserts the snapshot rows. Rows already present for the same
// (asset_id, captured_at) are left untouched.
func (w *TimescaleWriter) Append(ctx context.Context, snap model.Snapshot) error {
	if snap.Empty() {
		return nil
	}

	rows := make([]priceRow, len(snap.Records))
	for i, r := range snap.Records {
		rows[i] = w.transform(snap.RunID, r)
	}

	start := time.Now()
	conflicts, err := w.batchInsert(ctx, rows)
	if err != nil {
		w.logger.Error("batch insert failed", "error", err, "count", len(rows))
		return fmt.Errorf("insert %s: %w", w.table, err)
	}

	w.logger.Debug("flushed market prices",
		"count", len(rows),
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// transform converts a MarketRecord to a priceRow.
func (w *TimescaleWriter) transform(runID uuid.UUID, r model.MarketRecord) priceRow {
	return priceRow{
		AssetID:      r.AssetID,
		CapturedAt:   r.CapturedAt.UTC(),
		PriceUSD:     nullableFloat(r.PriceUSD),
		VolumeUSD:    nullableFloat(r.VolumeUSD),
		MarketCapUSD: nullableFloat(r.MarketCapUSD),
		RunID:        runID,
	}
}

func nullableFloat(a model.Amount) *float64 {
	if !a.Valid {
		return nil
	}
	f := a.Float64()
	return &f
}

// batchInsert inserts rows using pgx.Batch with ON CONFLICT DO NOTHING.
func (w *TimescaleWriter) batchInsert(ctx context.Context, rows []priceRow) (conflicts int, err error) {
	stmt := fmt.Sprintf(`
		INSERT INTO %s (asset_id, captured_at, price_usd, volume_usd, market_cap_usd, run_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (asset_id, captured_at) DO NOTHING
	`, pgx.Identifier{w.table}.Sanitize())

	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(stmt, r.AssetID, r.CapturedAt, r.PriceUSD, r.VolumeUSD, r.MarketCapUSD, r.RunID)
	}

	results := w.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}
