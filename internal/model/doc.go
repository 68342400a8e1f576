// Package model defines the data types shared by the fetcher and the sinks.
//
// Conventions:
//   - Amounts: exact decimals as sent by the API, see Amount
//   - Timestamps: time.Time in UTC, one per snapshot
//   - IDs: CoinGecko asset ids ("bitcoin"), uuid.UUID for run ids
package model
