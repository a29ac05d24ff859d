// Package database persists loaded directory records into Postgres.
package database

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateEmail reports a uniqueness conflict on the email column.
// The load pipeline relies on this instead of a pre-insert existence
// check; the constraint in the store is the dedup mechanism.
var ErrDuplicateEmail = errors.New("duplicate email")

const uniqueViolationCode = "23505"

var validTableName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// StaffRow is one cleaned record ready for insertion. Nil pointers map
// to SQL NULL.
type StaffRow struct {
	Name             string
	Title            *string
	PhotoURL         *string
	Position         string
	Department       string
	OfficeLocation   *string
	Phone            *string
	Email            string
	TimeslotsPerHour int
}

// StaffStoreConfig controls the Postgres connection pool.
type StaffStoreConfig struct {
	DSN             string
	Table           string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// StaffStore inserts staff rows into Postgres, one transaction per row.
type StaffStore struct {
	pool  txBeginner
	table string
}

// NewStaffStore connects a pool using the provided config.
func NewStaffStore(ctx context.Context, cfg StaffStoreConfig) (*StaffStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	table := cfg.Table
	if table == "" {
		table = "staff"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &StaffStore{pool: pool, table: table}, nil
}

// NewStaffStoreWithPool constructs a store from an existing pool
// (primarily for testing).
func NewStaffStoreWithPool(pool txBeginner, table string) (*StaffStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is required")
	}
	if table == "" {
		table = "staff"
	}
	if !validTableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	return &StaffStore{pool: pool, table: table}, nil
}

// Close releases the underlying pool resources.
func (s *StaffStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

// Insert writes one row inside its own transaction. A uniqueness
// conflict on email rolls back and returns ErrDuplicateEmail; any other
// failure rolls back and returns the wrapped cause. Either way no
// partial state survives for this row.
func (s *StaffStore) Insert(ctx context.Context, row StaffRow) error {
	if s == nil || s.pool == nil {
		return fmt.Errorf("staff store is not configured")
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	query := fmt.Sprintf(`
INSERT INTO %s (
	name,
	title,
	photo_url,
	position,
	department,
	office_location,
	phone,
	email,
	timeslots_per_hour
) VALUES (
	$1,$2,$3,$4,$5,$6,$7,$8,$9
)`, s.table)

	args := []any{
		row.Name,
		row.Title,
		row.PhotoURL,
		row.Position,
		row.Department,
		row.OfficeLocation,
		row.Phone,
		row.Email,
		row.TimeslotsPerHour,
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		_ = tx.Rollback(ctx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return ErrDuplicateEmail
		}
		return fmt.Errorf("insert staff row: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
