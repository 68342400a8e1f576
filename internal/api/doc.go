// Package api provides a CoinGecko REST client for market snapshots.
//
// Endpoints:
//   - Public: https://api.coingecko.com/api/v3
//   - Pro: https://pro-api.coingecko.com/api/v3 (x-cg-pro-api-key header)
//
// Only GET /coins/markets is used. Requests are made once; failures are
// returned to the caller without retry.
package api
