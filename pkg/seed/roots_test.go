package seed

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/mateconpizza/browserdb/pkg/db"
	"github.com/mateconpizza/browserdb/pkg/ddl"
)

const bookmarksTable = `
    CREATE TABLE bookmarks (
        id        INTEGER  PRIMARY KEY AUTOINCREMENT,
        guid      TEXT     NOT NULL UNIQUE,
        type      SMALLINT NOT NULL,
        url       TEXT,
        parent    INTEGER  NOT NULL REFERENCES bookmarks(id),
        faviconID INTEGER,
        title     TEXT
    )`

func setupTestDB(t *testing.T) *db.SQLite {
	t.Helper()
	r, err := db.NewMemory(db.DriverModernc, fmt.Sprintf("testdb_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(r.Close)
	_, err = r.DB.ExecContext(t.Context(), bookmarksTable)
	require.NoError(t, err)

	return r
}

func TestReservedValues(t *testing.T) {
	t.Parallel()
	assert.Equal(t, []string{
		"root________", "mobile______", "menu________", "toolbar_____", "unfiled_____",
	}, GUIDs())

	for _, g := range GUIDs() {
		assert.Len(t, g, 12)
	}
}

func TestRootsTitles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		tag    language.Tag
		mobile string
	}{
		{language.English, "Mobile Bookmarks"},
		{language.Spanish, "Marcadores del móvil"},
		{language.MustParse("es-AR"), "Marcadores del móvil"},
		{language.French, "Marque-pages mobiles"},
		{language.German, "Mobile Lesezeichen"},
		{language.Japanese, "Mobile Bookmarks"},
	}

	for _, tt := range tests {
		t.Run(tt.tag.String(), func(t *testing.T) {
			t.Parallel()
			roots := New(tt.tag).Roots()
			require.Len(t, roots, 5)
			assert.Equal(t, MobileID, roots[1].ID)
			assert.Equal(t, tt.mobile, roots[1].Title)
		})
	}
}

func TestParseLocale(t *testing.T) {
	t.Parallel()
	assert.Equal(t, language.English, ParseLocale(""))
	assert.Equal(t, language.English, ParseLocale("!!"))
	assert.Equal(t, language.Spanish, ParseLocale("es-MX"))
	assert.Equal(t, language.German, ParseLocale("de"))
}

func TestPrepopulate(t *testing.T) {
	t.Parallel()
	r := setupTestDB(t)
	ctx := t.Context()
	l := New(language.English)

	require.NoError(t, l.Prepopulate(ctx, r.DB))

	var got []Folder
	require.NoError(t, r.DB.SelectContext(ctx, &got, "SELECT id, guid, parent, title FROM bookmarks ORDER BY id"))
	assert.Equal(t, l.Roots(), got)

	var folders int
	require.NoError(t, r.DB.GetContext(ctx, &folders,
		"SELECT COUNT(*) FROM bookmarks WHERE type = ? AND url IS NULL", TypeFolder))
	assert.Equal(t, 5, folders)

	t.Run("second run reports already seeded", func(t *testing.T) {
		err := l.Prepopulate(ctx, r.DB)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrAlreadySeeded)
		assert.Equal(t, ddl.KindConstraint, ddl.KindOf(err))

		n, err := r.Count(ctx, "bookmarks")
		require.NoError(t, err)
		assert.Equal(t, 5, n)
	})
}
