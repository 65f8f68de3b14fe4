// Package places reads and writes history, visits, favicons and bookmarks in
// a prepared browser store.
package places

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/browserdb/pkg/db"
)

// Querier is the subset of *sqlx.DB and *sqlx.Tx used here.
type Querier interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

// Places wraps a connection to a prepared store.
type Places struct {
	q Querier
}

// New returns Places over q, usually a *sqlx.DB or a *sqlx.Tx.
func New(q Querier) *Places {
	return &Places{q: q}
}

// NewGUID returns a 12 character URL-safe identifier.
func NewGUID() string {
	u := uuid.New()
	return base64.RawURLEncoding.EncodeToString(u[:9])
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// NowMicros returns the current time in microseconds, the unit of visit
// dates.
func NowMicros() float64 {
	return float64(time.Now().UnixMicro())
}

// mustAffect reports ErrRecordNotFound when res touched no rows.
func mustAffect(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if n == 0 {
		return fmt.Errorf("%w: id %d", db.ErrRecordNotFound, id)
	}

	return nil
}
