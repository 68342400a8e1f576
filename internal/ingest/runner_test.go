package ingest

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rickgao/market-risk-monitor/internal/api"
	"github.com/rickgao/market-risk-monitor/internal/model"
	"github.com/rickgao/market-risk-monitor/internal/writer"
)

type fakeSource struct {
	snap model.Snapshot
	err  error
}

func (s fakeSource) Fetch(ctx context.Context) (model.Snapshot, error) {
	return s.snap, s.err
}

// recordingSink records the order of Append calls in a shared log.
func recordingSink(name string, calls *[]string, err error) Sink {
	return SinkFunc{
		SinkName: name,
		Fn: func(ctx context.Context, snap model.Snapshot) error {
			*calls = append(*calls, name)
			return err
		},
	}
}

func snapshotWith(n int) model.Snapshot {
	ts := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)
	snap := model.Snapshot{RunID: uuid.New(), CapturedAt: ts, VsCurrency: "usd"}
	for i := 0; i < n; i++ {
		snap.Records = append(snap.Records, model.MarketRecord{AssetID: "asset", CapturedAt: ts})
	}
	return snap
}

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, nil))
}

func TestRunner_Run(t *testing.T) {
	var logs bytes.Buffer
	var calls []string
	snap := snapshotWith(3)

	r := NewRunner(fakeSource{snap: snap}, []Sink{
		recordingSink("csv", &calls, nil),
		recordingSink("timescale", &calls, nil),
	}, newTestLogger(&logs))
	r.now = func() time.Time { return time.Date(2024, 1, 15, 12, 0, 1, 0, time.UTC) }

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !res.Written {
		t.Error("Written = false, want true")
	}
	if res.Records != 3 {
		t.Errorf("Records = %d, want 3", res.Records)
	}
	if res.RunID != snap.RunID {
		t.Errorf("RunID = %s, want %s", res.RunID, snap.RunID)
	}
	if strings.Join(calls, ",") != "csv,timescale" {
		t.Errorf("sink calls = %v, want [csv timescale]", calls)
	}
	if !strings.Contains(logs.String(), "Starting single-run ingestion...") {
		t.Errorf("missing start log: %s", logs.String())
	}
	if !strings.Contains(logs.String(), "[2024-01-15 12:00:01 UTC] Fetched 3 records successfully.") {
		t.Errorf("missing completion log: %s", logs.String())
	}
}

func TestRunner_RunEmptySkipsSinks(t *testing.T) {
	var logs bytes.Buffer
	var calls []string

	r := NewRunner(fakeSource{snap: snapshotWith(0)}, []Sink{recordingSink("csv", &calls, nil)}, newTestLogger(&logs))

	res, err := r.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if res.Written {
		t.Error("Written = true, want false")
	}
	if len(calls) != 0 {
		t.Errorf("sinks called for empty snapshot: %v", calls)
	}
	if !strings.Contains(logs.String(), "No data returned from API.") {
		t.Errorf("missing empty-result log: %s", logs.String())
	}
}

func TestRunner_RunFetchErrorSkipsSinks(t *testing.T) {
	var calls []string
	fetchErr := &api.APIError{StatusCode: http.StatusBadGateway, Message: "Bad Gateway"}

	r := NewRunner(fakeSource{err: fetchErr}, []Sink{recordingSink("csv", &calls, nil)}, nil)

	_, err := r.Run(context.Background())
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Run error = %v, want wrapped %v", err, fetchErr)
	}
	if len(calls) != 0 {
		t.Errorf("sinks called after fetch failure: %v", calls)
	}
}

func TestRunner_RunSinkErrorStops(t *testing.T) {
	var calls []string
	diskFull := errors.New("no space left on device")

	r := NewRunner(fakeSource{snap: snapshotWith(1)}, []Sink{
		recordingSink("csv", &calls, diskFull),
		recordingSink("timescale", &calls, nil),
	}, nil)

	res, err := r.Run(context.Background())
	if !errors.Is(err, diskFull) {
		t.Fatalf("Run error = %v, want wrapped %v", err, diskFull)
	}
	if !strings.Contains(err.Error(), "append csv") {
		t.Errorf("error should name the sink, got %v", err)
	}
	if res.Written {
		t.Error("Written = true, want false")
	}
	if strings.Join(calls, ",") != "csv" {
		t.Errorf("sink calls = %v, want [csv]", calls)
	}
}

// End to end: a failed fetch leaves an existing CSV byte-for-byte unchanged.
func TestRunner_HTTPErrorLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw_prices.csv")
	prior := []byte("asset_id,timestamp,price_usd,volume_usd,market_cap_usd\nbitcoin,2024-01-01 00:00:00+00:00,1,2,3\n")
	if err := os.WriteFile(path, prior, 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	server := marketsServer(t, http.StatusServiceUnavailable, `down`)
	fetcher := NewFetcher(api.NewClient(server.URL), defaultQuery(), nil)
	r := NewRunner(fetcher, []Sink{writer.NewCSVWriter(path, nil)}, nil)

	if _, err := r.Run(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !bytes.Equal(got, prior) {
		t.Errorf("file changed after failed fetch:\n%s", got)
	}
}

// End to end: two runs against a fresh path give one header and both batches.
func TestRunner_TwoRunsAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw_prices.csv")

	for _, ids := range [][]string{{"bitcoin", "ethereum"}, {"solana"}} {
		server := marketsServer(t, http.StatusOK, marketsBody(ids...))
		fetcher := NewFetcher(api.NewClient(server.URL), defaultQuery(), nil)
		r := NewRunner(fetcher, []Sink{writer.NewCSVWriter(path, nil)}, nil)
		if _, err := r.Run(context.Background()); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want 4:\n%s", len(lines), data)
	}
	if strings.Count(string(data), "asset_id,timestamp") != 1 {
		t.Errorf("want exactly one header:\n%s", data)
	}
	for i, id := range []string{"bitcoin", "ethereum", "solana"} {
		if !strings.HasPrefix(lines[i+1], id+",") {
			t.Errorf("lines[%d] = %q, want %s row", i+1, lines[i+1], id)
		}
	}
}

// End to end: an empty API response does not create the file.
func TestRunner_EmptyResponseCreatesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw_prices.csv")
	server := marketsServer(t, http.StatusOK, `[]`)

	fetcher := NewFetcher(api.NewClient(server.URL), defaultQuery(), nil)
	r := NewRunner(fetcher, []Sink{writer.NewCSVWriter(path, nil)}, nil)

	if _, err := r.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should not exist, stat err = %v", err)
	}
}
