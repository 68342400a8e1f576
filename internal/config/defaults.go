package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL      = "https://api.coingecko.com/api/v3"
	DefaultAPIKeyHeader = "x-cg-demo-api-key"
	DefaultAPITimeout   = 15 * time.Second
	DefaultVsCurrency   = "usd"
	DefaultOrder        = "market_cap_desc"
	DefaultPerPage      = 100
	DefaultPage         = 1
	DefaultOutputPath   = "raw_prices.csv"
	DefaultDBPort       = 5432
	DefaultDBSSLMode    = "prefer"
	DefaultMaxConns     = 4
	DefaultTable        = "market_prices"
	DefaultKeyPrefix    = "latest"
	DefaultRedisTTL     = 24 * time.Hour
)

// DefaultIDs are the assets tracked when no list is configured.
var DefaultIDs = []string{"bitcoin", "ethereum", "binancecoin", "solana"}

// Default returns the built-in configuration.
func Default() *IngestConfig {
	cfg := &IngestConfig{}
	cfg.applyDefaults()
	return cfg
}

func (c *IngestConfig) applyDefaults() {
	// API defaults. An empty UserAgent is filled by the client from the build version.
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.APIKeyHeader == "" {
		c.API.APIKeyHeader = DefaultAPIKeyHeader
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}

	// Query defaults
	if c.Query.VsCurrency == "" {
		c.Query.VsCurrency = DefaultVsCurrency
	}
	if len(c.Query.IDs) == 0 {
		c.Query.IDs = append([]string(nil), DefaultIDs...)
	}
	if c.Query.Order == "" {
		c.Query.Order = DefaultOrder
	}
	if c.Query.PerPage == 0 {
		c.Query.PerPage = DefaultPerPage
	}
	if c.Query.Page == 0 {
		c.Query.Page = DefaultPage
	}

	if c.Output.Path == "" {
		c.Output.Path = DefaultOutputPath
	}

	// Mirror defaults only matter when the mirror is enabled.
	if c.Database.Timescale.Enabled() {
		applyDBDefaults(&c.Database.Timescale)
	}
	if c.Database.Table == "" {
		c.Database.Table = DefaultTable
	}

	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = DefaultKeyPrefix
	}
	if c.Redis.TTL == 0 {
		c.Redis.TTL = DefaultRedisTTL
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
}
