// Package db opens the SQLite store that holds all tenant data and applies
// its schema migrations. The server runs on a single database file: one
// serialized write pool and a small read pool over the same file.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"time"
)

type poolMode string

const (
	poolWrite poolMode = "write"
	poolRead  poolMode = "read"
)

// DSN parameters shared by both pools. Foreign keys must stay on: the schema
// relies on them for tenant scoping and the deal -> ledger cascade.
const (
	busyTimeoutMillis = "5000"
	synchronousLevel  = "NORMAL"
	journalMode       = "WAL"
)

// openPool opens one side of the pool pair. The write pool is pinned to a
// single connection with _txlock=immediate so writes serialize in Go instead
// of failing with SQLITE_BUSY; the read pool fans out to maxOpen connections.
func openPool(path string, mode poolMode, maxOpen int) (*sql.DB, error) {
	pool, err := sql.Open("sqlite3", buildDSN(path, mode))
	if err != nil {
		return nil, fmt.Errorf("open sqlite (%s): %w", mode, err)
	}

	switch mode {
	case poolWrite:
		pool.SetMaxOpenConns(1)
		pool.SetMaxIdleConns(1)
	case poolRead:
		if maxOpen <= 0 {
			maxOpen = 4
		}
		pool.SetMaxOpenConns(maxOpen)
		pool.SetMaxIdleConns(maxOpen)
	}
	pool.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("ping sqlite (%s): %w", mode, err)
	}

	return pool, nil
}

// OpenSQLitePair opens the write pool and the read pool for the same SQLite
// file. Mutating repositories take the write pool; the read-only services
// (commissions, KPIs, audit log) take the read pool. readMaxOpen sizes the
// read pool, 0 defaults to 4.
func OpenSQLitePair(path string, readMaxOpen int) (writeDB, readDB *sql.DB, err error) {
	writeDB, err = openPool(path, poolWrite, 0)
	if err != nil {
		return nil, nil, err
	}

	readDB, err = openPool(path, poolRead, readMaxOpen)
	if err != nil {
		_ = writeDB.Close()
		return nil, nil, err
	}

	return writeDB, readDB, nil
}

func buildDSN(path string, mode poolMode) string {
	params := url.Values{}
	params.Set("_journal_mode", journalMode)
	params.Set("_busy_timeout", busyTimeoutMillis)
	params.Set("_synchronous", synchronousLevel)
	params.Set("_foreign_keys", "on")

	if mode == poolWrite {
		params.Set("_txlock", "immediate")
	}

	return path + "?" + params.Encode()
}
