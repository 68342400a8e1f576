// Package writer implements the sinks a snapshot is appended to.
//
// Writers:
//   - CSV writer (local file, primary)
//   - Timescale writer (market_prices table, optional mirror)
//
// All writers use append-only semantics (never update, only insert).
// Historical rows are never rewritten.
package writer
