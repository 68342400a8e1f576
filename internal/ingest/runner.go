package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-risk-monitor/internal/model"
)

// Source provides the snapshot for a run.
type Source interface {
	Fetch(ctx context.Context) (model.Snapshot, error)
}

// Sink receives a non-empty snapshot.
type Sink interface {
	Name() string
	Append(ctx context.Context, snap model.Snapshot) error
}

// SinkFunc is a function adapter for Sink.
type SinkFunc struct {
	SinkName string
	Fn       func(context.Context, model.Snapshot) error
}

func (s SinkFunc) Name() string { return s.SinkName }

func (s SinkFunc) Append(ctx context.Context, snap model.Snapshot) error {
	return s.Fn(ctx, snap)
}

// Result summarizes a completed run.
type Result struct {
	RunID      uuid.UUID
	Records    int
	CapturedAt time.Time
	Written    bool // false when the API returned no data
}

// Runner sequences one fetch and the sink appends.
type Runner struct {
	source Source
	sinks  []Sink
	logger *slog.Logger
	now    func() time.Time
}

// NewRunner creates a new Runner. Sinks are called in the given order.
func NewRunner(source Source, sinks []Sink, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		source: source,
		sinks:  sinks,
		logger: logger,
		now:    time.Now,
	}
}

// Run executes a single ingestion. An empty snapshot is not an error.
func (r *Runner) Run(ctx context.Context) (Result, error) {
	r.logger.Info("Starting single-run ingestion...")

	snap, err := r.source.Fetch(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch snapshot: %w", err)
	}

	res := Result{
		RunID:      snap.RunID,
		Records:    snap.Len(),
		CapturedAt: snap.CapturedAt,
	}

	if snap.Empty() {
		r.logger.Info("No data returned from API.", "run_id", snap.RunID)
		return res, nil
	}

	for _, sink := range r.sinks {
		if err := sink.Append(ctx, snap); err != nil {
			return res, fmt.Errorf("append %s: %w", sink.Name(), err)
		}
		r.logger.Debug("sink appended", "sink", sink.Name(), "records", snap.Len())
	}
	res.Written = true

	r.logger.Info(
		fmt.Sprintf("[%s UTC] Fetched %d records successfully.", r.now().UTC().Format(time.DateTime), snap.Len()),
		"run_id", snap.RunID,
		"captured_at", snap.CapturedAt,
		"sinks", len(r.sinks),
	)
	return res, nil
}
