// Package database provides the connection pool for the TimescaleDB price mirror.
package database
