package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateconpizza/browserdb/pkg/db"
)

func TestBrowserCatalogIsValid(t *testing.T) {
	t.Parallel()
	c := Browser()
	require.NoError(t, c.Validate())

	assert.Equal(t, []db.Table{
		TableFavicons, TableHistory, TableRemoteVisits,
		TableLocalVisits, TableFaviconSites, TableBookmarks,
	}, c.Tables())
	assert.Equal(t, []db.Table{
		ViewAllVisits, ViewFaviconsWidest, ViewHistoryIDFavicon, ViewIconForURL,
	}, c.Views())
	assert.Len(t, c.CreateStatements(), len(c.Tables())+len(c.Views()))
	assert.Equal(t, []db.Table{"visits", "faviconSites"}, c.Legacy())
}

func TestDropStatementsOrder(t *testing.T) {
	t.Parallel()
	got := Browser().DropStatements()
	want := []string{
		`DROP VIEW IF EXISTS "view_icon_for_url"`,
		`DROP VIEW IF EXISTS "view_history_id_favicon"`,
		`DROP VIEW IF EXISTS "view_favicons_widest"`,
		`DROP VIEW IF EXISTS "all_visits"`,
		`DROP TABLE IF EXISTS "bookmarks"`,
		`DROP TABLE IF EXISTS "favicon_sites"`,
		`DROP TABLE IF EXISTS "local_visits"`,
		`DROP TABLE IF EXISTS "remote_visits"`,
		`DROP TABLE IF EXISTS "history"`,
		`DROP TABLE IF EXISTS "favicons"`,
		`DROP TABLE IF EXISTS "visits"`,
		`DROP TABLE IF EXISTS "faviconSites"`,
	}
	assert.Equal(t, want, got)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	good := Table("a", "CREATE TABLE IF NOT EXISTS a (id INTEGER)")
	tests := []struct {
		name string
		c    *Catalog
	}{
		{"no tables", New(nil, nil)},
		{"duplicate", New([]Entry{good, good}, nil)},
		{"bad identifier", New([]Entry{Table("a;b", "CREATE TABLE IF NOT EXISTS a (id INTEGER)")}, nil)},
		{"missing if not exists", New([]Entry{Table("a", "CREATE TABLE a (id INTEGER)")}, nil)},
		{"statement creates another table", New([]Entry{Table("a", "CREATE TABLE IF NOT EXISTS b (id INTEGER)")}, nil)},
		{"view listed as table", New([]Entry{Table("v", "CREATE VIEW IF NOT EXISTS v AS SELECT 1")}, nil)},
		{"table listed as view", New([]Entry{good}, []Entry{View("b", "CREATE TABLE IF NOT EXISTS b (id INTEGER)")})},
		{"two statements", New([]Entry{Table("a", "CREATE TABLE IF NOT EXISTS a (id INTEGER); CREATE TABLE IF NOT EXISTS z (id INTEGER)")}, nil)},
		{"view name clashes with table", New([]Entry{good}, []Entry{View("a", "CREATE VIEW IF NOT EXISTS a AS SELECT 1")})},
		{"legacy name in use", New([]Entry{good}, nil, "a")},
		{"bad legacy name", New([]Entry{good}, nil, "x y")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tt.c.Validate(), ErrInvalidCatalog)
		})
	}

	t.Run("trailing semicolon is fine", func(t *testing.T) {
		t.Parallel()
		c := New([]Entry{Table("a", "CREATE TABLE IF NOT EXISTS a (id INTEGER);")}, nil)
		assert.NoError(t, c.Validate())
	})
}

func TestCatalogIsACopy(t *testing.T) {
	t.Parallel()
	tables := []Entry{Table("a", "CREATE TABLE IF NOT EXISTS a (id INTEGER)")}
	c := New(tables, nil)
	tables[0].Name = "changed"
	assert.Equal(t, []db.Table{"a"}, c.Tables())

	e, ok := c.Entry("a")
	assert.True(t, ok)
	assert.Equal(t, KindTable, e.Kind)
	_, ok = c.Entry("missing")
	assert.False(t, ok)
}
