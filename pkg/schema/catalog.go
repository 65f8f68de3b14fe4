// Package schema holds the catalog of tables and views that make up the
// browser store.
package schema

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/mateconpizza/browserdb/pkg/db"
)

var ErrInvalidCatalog = errors.New("invalid catalog")

// Kind of object an entry creates.
type Kind int

const (
	KindTable Kind = iota + 1
	KindView
)

func (k Kind) String() string {
	switch k {
	case KindTable:
		return "TABLE"
	case KindView:
		return "VIEW"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

var (
	identRe  = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	createRe = regexp.MustCompile(`(?is)^\s*CREATE\s+(TABLE|VIEW)\s+IF\s+NOT\s+EXISTS\s+([A-Za-z_][A-Za-z0-9_]*)\b`)
)

// ValidName reports whether t can be used as a bare SQL identifier.
func ValidName(t db.Table) bool {
	return identRe.MatchString(string(t))
}

// Entry is a named DDL statement.
type Entry struct {
	Name db.Table
	Kind Kind
	SQL  string
}

// Table returns a table entry.
func Table(name db.Table, sql string) Entry {
	return Entry{Name: name, Kind: KindTable, SQL: sql}
}

// View returns a view entry.
func View(name db.Table, sql string) Entry {
	return Entry{Name: name, Kind: KindView, SQL: sql}
}

// Catalog is an ordered set of tables and views. Tables are listed in
// dependency order, views after the tables they select from.
type Catalog struct {
	tables []Entry
	views  []Entry
	legacy []db.Table
}

// New returns a catalog. It is not validated; call Validate before use.
func New(tables, views []Entry, legacy ...db.Table) *Catalog {
	return &Catalog{
		tables: slices.Clone(tables),
		views:  slices.Clone(views),
		legacy: slices.Clone(legacy),
	}
}

// Tables returns the table names in creation order.
func (c *Catalog) Tables() []db.Table {
	return names(c.tables)
}

// Views returns the view names in creation order.
func (c *Catalog) Views() []db.Table {
	return names(c.views)
}

// Legacy returns table names dropped for older installations.
func (c *Catalog) Legacy() []db.Table {
	return slices.Clone(c.legacy)
}

// Entry returns the entry with the given name.
func (c *Catalog) Entry(name db.Table) (Entry, bool) {
	for _, e := range c.entries() {
		if e.Name == name {
			return e, true
		}
	}

	return Entry{}, false
}

// CreateStatements returns the DDL for every table followed by every view.
func (c *Catalog) CreateStatements() []string {
	all := c.entries()
	stmts := make([]string, 0, len(all))
	for _, e := range all {
		stmts = append(stmts, strings.TrimSpace(e.SQL))
	}

	return stmts
}

// DropStatements returns DROP statements for views and tables in reverse
// creation order, followed by the legacy drops.
func (c *Catalog) DropStatements() []string {
	stmts := make([]string, 0, len(c.views)+len(c.tables)+len(c.legacy))
	for i := len(c.views) - 1; i >= 0; i-- {
		stmts = append(stmts, dropStmt(KindView, c.views[i].Name))
	}

	for i := len(c.tables) - 1; i >= 0; i-- {
		stmts = append(stmts, dropStmt(KindTable, c.tables[i].Name))
	}

	for _, t := range c.legacy {
		stmts = append(stmts, dropStmt(KindTable, t))
	}

	return stmts
}

// Validate checks that every entry is well formed and that the listings
// account for every create statement.
func (c *Catalog) Validate() error {
	if len(c.tables) == 0 {
		return fmt.Errorf("%w: no tables", ErrInvalidCatalog)
	}

	seen := make(map[db.Table]bool, len(c.tables)+len(c.views))
	check := func(e Entry, want Kind) error {
		if !ValidName(e.Name) {
			return fmt.Errorf("%w: bad name %q", ErrInvalidCatalog, e.Name)
		}

		if seen[e.Name] {
			return fmt.Errorf("%w: %q listed twice", ErrInvalidCatalog, e.Name)
		}
		seen[e.Name] = true

		if e.Kind != want {
			return fmt.Errorf("%w: %q is a %s, listed as %s", ErrInvalidCatalog, e.Name, e.Kind, want)
		}

		m := createRe.FindStringSubmatch(e.SQL)
		if m == nil {
			return fmt.Errorf("%w: %q: want CREATE %s IF NOT EXISTS", ErrInvalidCatalog, e.Name, want)
		}

		if !strings.EqualFold(m[1], want.String()) || db.Table(m[2]) != e.Name {
			return fmt.Errorf("%w: %q: statement creates %s %s", ErrInvalidCatalog, e.Name, strings.ToUpper(m[1]), m[2])
		}

		if strings.Contains(strings.TrimRight(strings.TrimSpace(e.SQL), ";"), ";") {
			return fmt.Errorf("%w: %q: more than one statement", ErrInvalidCatalog, e.Name)
		}

		return nil
	}

	for _, e := range c.tables {
		if err := check(e, KindTable); err != nil {
			return err
		}
	}

	for _, e := range c.views {
		if err := check(e, KindView); err != nil {
			return err
		}
	}

	for _, t := range c.legacy {
		if !ValidName(t) {
			return fmt.Errorf("%w: bad legacy name %q", ErrInvalidCatalog, t)
		}
		if seen[t] {
			return fmt.Errorf("%w: legacy name %q is in use", ErrInvalidCatalog, t)
		}
	}

	if n, want := len(c.CreateStatements()), len(c.Tables())+len(c.Views()); n != want {
		return fmt.Errorf("%w: %d statements for %d listed objects", ErrInvalidCatalog, n, want)
	}

	return nil
}

func (c *Catalog) entries() []Entry {
	return slices.Concat(c.tables, c.views)
}

func names(es []Entry) []db.Table {
	out := make([]db.Table, 0, len(es))
	for _, e := range es {
		out = append(out, e.Name)
	}

	return out
}

// dropStmt builds a DROP statement. Names are checked by Validate, the quote
// keeps an unchecked name from escaping the identifier.
func dropStmt(k Kind, t db.Table) string {
	return fmt.Sprintf(`DROP %s IF EXISTS "%s"`, k, strings.ReplaceAll(string(t), `"`, `""`))
}
