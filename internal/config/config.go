package config

import "time"

// IngestConfig is the root configuration for a single ingestion run.
type IngestConfig struct {
	API      APIConfig      `yaml:"api"`
	Query    QueryConfig    `yaml:"query"`
	Output   OutputConfig   `yaml:"output"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
}

// APIConfig holds CoinGecko API settings.
type APIConfig struct {
	BaseURL      string        `yaml:"base_url"`
	APIKey       string        `yaml:"api_key"`        // Optional demo/pro key
	APIKeyHeader string        `yaml:"api_key_header"` // x-cg-demo-api-key or x-cg-pro-api-key
	UserAgent    string        `yaml:"user_agent"`
	Timeout      time.Duration `yaml:"timeout"`
}

// QueryConfig holds the fixed /coins/markets query.
type QueryConfig struct {
	VsCurrency string   `yaml:"vs_currency"`
	IDs        []string `yaml:"ids"`
	Order      string   `yaml:"order"`
	PerPage    int      `yaml:"per_page"`
	Page       int      `yaml:"page"`
	Sparkline  bool     `yaml:"sparkline"`
}

// OutputConfig holds the CSV sink settings.
type OutputConfig struct {
	Path string `yaml:"path"`
}

// DatabaseConfig holds the optional TimescaleDB mirror.
// The mirror is disabled when Timescale.Host is empty.
type DatabaseConfig struct {
	Timescale DBConfig `yaml:"timescale"`
	Table     string   `yaml:"table"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}

// Enabled reports whether a database host is configured.
func (db DBConfig) Enabled() bool {
	return db.Host != ""
}

// RedisConfig holds the optional latest-price cache.
// The cache is disabled when Addr is empty.
type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// Enabled reports whether a Redis address is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}
