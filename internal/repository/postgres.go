package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// ErrNotFound is returned when a lookup or targeted write matches no row.
var ErrNotFound = errors.New("record not found")

// NewPool opens and pings a pgx pool for the platform database.
func NewPool(ctx context.Context, dsn string, maxConns int32, logger *logrus.Logger) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.WithField("max_conns", cfg.MaxConns).Info("Database pool initialized")
	return pool, nil
}

// whereBuilder accumulates AND-ed conditions with positional pgx arguments.
type whereBuilder struct {
	conds []string
	args  []any
}

func (b *whereBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *whereBuilder) eq(column string, v any) {
	b.conds = append(b.conds, column+" = "+b.arg(v))
}

// ilikeAny matches term as a literal, case-insensitive substring of any column.
func (b *whereBuilder) ilikeAny(term string, columns ...string) {
	p := b.arg("%" + escapeLike(term) + "%")
	ors := make([]string, len(columns))
	for i, c := range columns {
		ors[i] = c + " ILIKE " + p
	}
	b.conds = append(b.conds, "("+strings.Join(ors, " OR ")+")")
}

func (b *whereBuilder) sql() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
