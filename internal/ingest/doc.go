// Package ingest runs one snapshot ingestion.
//
// A run:
//   - Fetches one page of /coins/markets
//   - Stamps every record with a single UTC capture time
//   - Stops early, without touching any sink, when the page is empty
//   - Appends the snapshot to each sink in order, stopping at the first error
package ingest
