// Package config handles YAML configuration loading with environment variable substitution.
//
// Configuration files support ${VAR} syntax for environment variable interpolation.
// Every field is optional: Default returns the built-in configuration used when
// the ingester runs without a config file.
package config
