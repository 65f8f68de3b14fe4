// Package ddl runs schema statements and reports failures with the offending
// statement attached.
package ddl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/browserdb/pkg/db"
)

// Kind classifies a failed statement.
type Kind int

const (
	KindNone       Kind = iota
	KindExec            // engine rejected the statement
	KindConstraint      // constraint violation
	KindPartial         // batch failed after some statements were applied
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindExec:
		return "exec"
	case KindConstraint:
		return "constraint"
	case KindPartial:
		return "partial"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Stmt is a statement with positional arguments bound to its ? placeholders.
type Stmt struct {
	SQL  string
	Args []any
}

// Strings wraps plain statements.
func Strings(sqls ...string) []Stmt {
	stmts := make([]Stmt, 0, len(sqls))
	for _, s := range sqls {
		stmts = append(stmts, Stmt{SQL: s})
	}

	return stmts
}

// Error describes a failed statement.
type Error struct {
	Kind    Kind
	Stmt    string // statement text
	Index   int    // position in the batch
	Applied int    // statements that succeeded before this one
	Err     error  // engine error
}

func (e *Error) Error() string {
	return fmt.Sprintf("ddl %s error at statement %d: %v: %s", e.Kind, e.Index, e.Err, compact(e.Stmt))
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of the outermost *Error in err's chain, or
// KindNone.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindNone
}

// RunOne executes a single statement. It does not retry.
func RunOne(ctx context.Context, ex sqlx.ExecerContext, s Stmt) error {
	if _, err := ex.ExecContext(ctx, s.SQL, s.Args...); err != nil {
		k, level := KindExec, slog.LevelError
		if db.IsConstraint(err) {
			// rejected rows are reported to the caller, the schema is fine.
			k, level = KindConstraint, slog.LevelWarn
		}

		slog.Log(ctx, level, "executing statement", "kind", k, "error", err, "statement", compact(s.SQL))

		return &Error{Kind: k, Stmt: s.SQL, Err: err}
	}

	return nil
}

// RunAll executes stmts in order and stops at the first failure. Statements
// applied before the failure are not undone; pass a transaction to get
// all-or-nothing behavior.
func RunAll(ctx context.Context, ex sqlx.ExecerContext, stmts ...Stmt) error {
	for i, s := range stmts {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := RunOne(ctx, ex, s); err != nil {
			var e *Error
			if !errors.As(err, &e) {
				return err
			}

			e.Index = i
			e.Applied = i
			if i == 0 {
				return e
			}

			slog.Warn("batch partially applied", "applied", i, "total", len(stmts))

			return &Error{Kind: KindPartial, Stmt: e.Stmt, Index: i, Applied: i, Err: e}
		}
	}

	return nil
}

// compact collapses whitespace so statements log on one line.
func compact(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
