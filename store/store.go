// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/trackclash/models"
)

// maxTxRetries bounds transparent retries of transient (BUSY/LOCKED)
// failures before the error surfaces to the request.
const maxTxRetries = 4

// Store is the persistence engine. Every mutating operation runs inside
// WithTx; reads go straight to the pool. The maintenance mutex serializes
// vacuum and snapshot against each other (migrations run before the store is
// handed out, so they never overlap either).
type Store struct {
	db      *sql.DB
	maintMu sync.Mutex
}

// Open opens (creating if needed) the SQLite database at path. The DSN turns
// on WAL, foreign keys, a busy timeout, and immediate write transactions so
// that count checks inside a transaction cannot race a concurrent writer.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf(
		"file:%s?_txlock=immediate&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)",
		path,
	)
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	return &Store{db: conn}, nil
}

// DB exposes the underlying pool for migrations and tests.
func (s *Store) DB() *sql.DB { return s.db }

func (s *Store) Close() error { return s.db.Close() }

// Tx is a transaction scope handed to WithTx callbacks. All typed CRUD
// mutations hang off it so a mutation and its audit entry commit atomically.
type Tx struct {
	ctx context.Context
	tx  *sql.Tx
}

// WithTx runs fn inside a transaction, rolling back on any error raised in
// fn. Transient storage errors (lock contention) retry the whole transaction
// a bounded number of times with exponential backoff; everything else is
// permanent and surfaces as-is.
func (s *Store) WithTx(ctx context.Context, fn func(*Tx) error) error {
	attempt := func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return classify(err)
		}
		if err := fn(&Tx{ctx: ctx, tx: tx}); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return classify(err)
		}
		return nil
	}

	op := func() error {
		err := attempt()
		var te *models.TransientError
		if err != nil && !errors.As(err, &te) {
			return backoff.Permanent(err)
		}
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 10 * time.Millisecond
	bo.MaxInterval = 250 * time.Millisecond
	return backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(bo, maxTxRetries), ctx))
}

// querier is satisfied by both *sql.DB and *sql.Tx so reads can be shared
// between transactional and plain paths.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// classify maps driver errors onto the engine's error taxonomy.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
			return &models.TransientError{Cause: err}
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return &models.ConflictError{Reason: "already exists"}
		case sqlite3.SQLITE_CONSTRAINT_TRIGGER:
			if strings.Contains(se.Error(), "submission limit reached") {
				return &models.ConflictError{Reason: "submission limit reached"}
			}
			return &models.ConflictError{Reason: "rejected by constraint"}
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return &models.IntegrityError{Cause: err}
		}
		if se.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return &models.IntegrityError{Cause: err}
		}
		return err
	}
	// Fallback for errors the driver reports as plain strings.
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return &models.ConflictError{Reason: "already exists"}
	case strings.Contains(msg, "submission limit reached"):
		return &models.ConflictError{Reason: "submission limit reached"}
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return &models.IntegrityError{Cause: err}
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "database table is locked"):
		return &models.TransientError{Cause: err}
	}
	return err
}
