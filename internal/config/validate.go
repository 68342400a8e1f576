package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// MaxPerPage is the largest page size /coins/markets accepts.
const MaxPerPage = 250

var tableName = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Validate checks that all required fields are set and values are valid.
func (c *IngestConfig) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("api.timeout must be positive, got %v", c.API.Timeout)
	}

	if c.Query.VsCurrency == "" {
		return errors.New("query.vs_currency is required")
	}
	if len(c.Query.IDs) == 0 {
		return errors.New("query.ids must not be empty")
	}
	for i, id := range c.Query.IDs {
		if strings.TrimSpace(id) == "" || strings.Contains(id, ",") {
			return fmt.Errorf("query.ids[%d] is invalid: %q", i, id)
		}
	}
	if c.Query.PerPage < 1 || c.Query.PerPage > MaxPerPage {
		return fmt.Errorf("query.per_page must be between 1 and %d, got %d", MaxPerPage, c.Query.PerPage)
	}
	if c.Query.Page < 1 {
		return errors.New("query.page must be >= 1")
	}

	if c.Output.Path == "" {
		return errors.New("output.path is required")
	}

	if c.Database.Timescale.Enabled() {
		if err := c.Database.Timescale.validate("database.timescale"); err != nil {
			return err
		}
		if !tableName.MatchString(c.Database.Table) {
			return fmt.Errorf("database.table is invalid: %q", c.Database.Table)
		}
	}

	if c.Redis.Enabled() {
		if c.Redis.DB < 0 {
			return errors.New("redis.db must be >= 0")
		}
		if c.Redis.TTL < 0 {
			return errors.New("redis.ttl must be >= 0")
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
