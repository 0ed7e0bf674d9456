package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"slices"
)

// DefaultTable is the table a SQL backend uses when none is given.
const DefaultTable = "cashbook_store"

// Dialect holds the statements a SQL backend needs, for one database engine.
type Dialect struct {
	Name   string // driver name for sql.Open
	create string
	upsert string
	get    string
	keys   string
	remove string
}

// MySQL is the dialect for github.com/go-sql-driver/mysql.
func MySQL(table string) Dialect {
	return Dialect{
		Name:   "mysql",
		create: fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (name VARCHAR(255) NOT NULL PRIMARY KEY, value LONGTEXT NOT NULL)", table),
		upsert: fmt.Sprintf("INSERT INTO %s (name, value) VALUES (?, ?) ON DUPLICATE KEY UPDATE value = VALUES(value)", table),
		get:    fmt.Sprintf("SELECT value FROM %s WHERE name = ?", table),
		keys:   fmt.Sprintf("SELECT name FROM %s ORDER BY name", table),
		remove: fmt.Sprintf("DELETE FROM %s WHERE name = ?", table),
	}
}

// Postgres is the dialect for github.com/lib/pq.
func Postgres(table string) Dialect {
	return Dialect{
		Name:   "postgres",
		create: fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (name VARCHAR(255) NOT NULL PRIMARY KEY, value TEXT NOT NULL)", table),
		upsert: fmt.Sprintf("INSERT INTO %s (name, value) VALUES ($1, $2) ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value", table),
		get:    fmt.Sprintf("SELECT value FROM %s WHERE name = $1", table),
		keys:   fmt.Sprintf("SELECT name FROM %s ORDER BY name", table),
		remove: fmt.Sprintf("DELETE FROM %s WHERE name = $1", table),
	}
}

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ParseDialect returns the dialect for a driver name ("mysql" or "postgres").
func ParseDialect(driver, table string) (Dialect, error) {
	if table == "" {
		table = DefaultTable
	}
	if !identifier.MatchString(table) {
		return Dialect{}, fmt.Errorf("invalid table name %q", table)
	}
	switch driver {
	case "mysql":
		return MySQL(table), nil
	case "postgres":
		return Postgres(table), nil
	default:
		return Dialect{}, fmt.Errorf("unsupported sql driver %q (want mysql or postgres)", driver)
	}
}

// SQL is a flat Backend stored in a two columns table (name, value).
type SQL struct {
	db      *sql.DB
	dialect Dialect
}

// NewSQL returns a backend using db. The table must exist, see CreateTable.
func NewSQL(db *sql.DB, dialect Dialect) *SQL {
	return &SQL{db: db, dialect: dialect}
}

// CreateTable creates the backing table if it does not exist yet.
func (s *SQL) CreateTable(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, s.dialect.create); err != nil {
		return wrap("create", "", err)
	}
	return nil
}

func (s *SQL) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.upsert, key, value)
	return wrap("set", key, err)
}

func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, s.dialect.get, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", wrap("get", key, err)
	}
	return v, nil
}

func (s *SQL) Keys(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.keys)
	if err != nil {
		return nil, wrap("keys", "", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, wrap("keys", "", err)
		}
		keys = append(keys, k)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("keys", "", err)
	}
	// Collations differ between engines, keep the Go order.
	slices.Sort(keys)
	return keys, nil
}

func (s *SQL) Remove(ctx context.Context, key string) error {
	_, err := s.db.ExecContext(ctx, s.dialect.remove, key)
	return wrap("remove", key, err)
}
