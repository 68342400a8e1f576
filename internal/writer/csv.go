package writer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/rickgao/market-risk-monitor/internal/model"
)

// CSVWriter appends snapshots to a local CSV file.
type CSVWriter struct {
	path   string
	logger *slog.Logger
}

// NewCSVWriter creates a new CSVWriter for path.
func NewCSVWriter(path string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{
		path:   path,
		logger: logger,
	}
}

// Name identifies the sink in logs.
func (w *CSVWriter) Name() string {
	return "csv"
}

// Append writes the snapshot rows to the end of the file. The header is written
// only when this call creates the file. An empty snapshot writes nothing.
func (w *CSVWriter) Append(ctx context.Context, snap model.Snapshot) error {
	if snap.Empty() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := w.append(snap); err != nil {
		w.logger.Error("ERROR writing to CSV", "path", w.path, "error", err)
		return fmt.Errorf("append csv %s: %w", w.path, err)
	}
	return nil
}

func (w *CSVWriter) append(snap model.Snapshot) (err error) {
	f, created, err := openAppend(w.path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close: %w", cerr)
		}
	}()

	cw := csv.NewWriter(f)
	if created {
		if err := cw.Write(csvHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}
	if err := cw.WriteAll(csvRows(snap.Records)); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	w.logger.Debug("appended csv rows",
		"path", w.path,
		"rows", snap.Len(),
		"header", created,
	)
	return nil
}

// openAppend opens path for appending. Creation uses O_EXCL so that exactly one
// caller observes created == true for a given file.
func openAppend(path string) (f *os.File, created bool, err error) {
	f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE|os.O_EXCL, 0o644)
	if err == nil {
		return f, true, nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return nil, false, fmt.Errorf("create: %w", err)
	}

	f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return nil, false, fmt.Errorf("open: %w", err)
	}
	return f, false, nil
}
