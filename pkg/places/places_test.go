package places

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mateconpizza/browserdb/pkg/db"
	"github.com/mateconpizza/browserdb/pkg/schema"
	"github.com/mateconpizza/browserdb/pkg/seed"
	"github.com/mateconpizza/browserdb/pkg/store"
)

func setupTestDB(t *testing.T) (*db.SQLite, *Places) {
	t.Helper()
	r, err := db.NewMemory(db.DriverModernc, fmt.Sprintf("testdb_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(r.Close)

	_, err = store.Open(t.Context(), r, store.Options{})
	require.NoError(t, err)

	return r, New(r.DB)
}

func count(t *testing.T, r *db.SQLite, tb db.Table) int {
	t.Helper()
	n, err := r.Count(t.Context(), tb)
	require.NoError(t, err)

	return n
}

func favicon(url string, width int64) Favicon {
	return Favicon{
		URL:   url,
		Width: sql.NullInt64{Int64: width, Valid: true},
		Type:  IconFavicon,
		Date:  float64(time.Now().Unix()),
	}
}

func TestNewGUID(t *testing.T) {
	t.Parallel()
	a, b := NewGUID(), NewGUID()
	assert.Len(t, a, 12)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "+")
	assert.NotContains(t, a, "/")
}

func TestSites(t *testing.T) {
	t.Parallel()
	_, p := setupTestDB(t)
	ctx := t.Context()

	s, err := p.AddSite(ctx, "https://example.com", "Example")
	require.NoError(t, err)
	assert.Positive(t, s.ID)
	assert.True(t, s.ShouldUpload)

	got, err := p.SiteByURL(ctx, "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, s.GUID, got.GUID)
	assert.True(t, got.LocalModified.Valid)
	assert.False(t, got.ServerModified.Valid)
	assert.False(t, got.IsDeleted)

	_, err = p.AddSite(ctx, "https://example.com", "Again")
	require.Error(t, err)
	assert.True(t, db.IsConstraint(err), "url is unique")

	_, err = p.SiteByURL(ctx, "https://missing.org")
	require.ErrorIs(t, err, db.ErrRecordNotFound)

	require.ErrorIs(t, p.DeleteSite(ctx, 999), db.ErrRecordNotFound)
}

func TestAllVisits(t *testing.T) {
	t.Parallel()
	_, p := setupTestDB(t)
	ctx := t.Context()

	s, err := p.AddSite(ctx, "https://example.com", "Example")
	require.NoError(t, err)

	const t1, t2 = 1_700_000_000_000_000.0, 1_600_000_000_000_000.0
	_, err = p.AddRemoteVisit(ctx, Visit{SiteID: s.ID, Date: t2, Type: VisitTyped})
	require.NoError(t, err)
	_, err = p.AddLocalVisit(ctx, Visit{SiteID: s.ID, Date: t1, Type: VisitLink})
	require.NoError(t, err)

	vs, err := p.Visits(ctx, s.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Visit{
		{SiteID: s.ID, Date: t1, Type: VisitLink},
		{SiteID: s.ID, Date: t2, Type: VisitTyped},
	}, vs)

	t.Run("pending local visits", func(t *testing.T) {
		pending, err := p.PendingVisits(ctx)
		require.NoError(t, err)
		assert.Len(t, pending, 1)

		n, err := p.MarkUploaded(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		pending, err = p.PendingVisits(ctx)
		require.NoError(t, err)
		assert.Empty(t, pending)
	})
}

func TestVisitForMissingSite(t *testing.T) {
	t.Parallel()
	_, p := setupTestDB(t)

	_, err := p.AddLocalVisit(t.Context(), Visit{SiteID: 42, Date: NowMicros(), Type: VisitLink})
	require.Error(t, err)
	assert.True(t, db.IsConstraint(err))
}

func TestDeleteSiteCascades(t *testing.T) {
	t.Parallel()
	r, p := setupTestDB(t)
	ctx := t.Context()

	s, err := p.AddSite(ctx, "https://example.com", "Example")
	require.NoError(t, err)
	other, err := p.AddSite(ctx, "https://other.org", "Other")
	require.NoError(t, err)

	for _, id := range []int64{s.ID, other.ID} {
		_, err = p.AddLocalVisit(ctx, Visit{SiteID: id, Date: NowMicros(), Type: VisitLink})
		require.NoError(t, err)
		_, err = p.AddRemoteVisit(ctx, Visit{SiteID: id, Date: NowMicros(), Type: VisitTyped})
		require.NoError(t, err)
	}

	fid, err := p.AddFavicon(ctx, favicon("https://example.com/favicon.ico", 16))
	require.NoError(t, err)
	require.NoError(t, p.LinkFavicon(ctx, s.ID, fid))
	require.NoError(t, p.LinkFavicon(ctx, other.ID, fid))

	require.NoError(t, p.DeleteSite(ctx, s.ID))

	assert.Equal(t, 1, count(t, r, schema.TableLocalVisits))
	assert.Equal(t, 1, count(t, r, schema.TableRemoteVisits))
	assert.Equal(t, 1, count(t, r, schema.TableFaviconSites))
	assert.Equal(t, 1, count(t, r, schema.TableFavicons), "the favicon itself is kept")

	vs, err := p.Visits(ctx, s.ID)
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestDeleteFavicon(t *testing.T) {
	t.Parallel()
	r, p := setupTestDB(t)
	ctx := t.Context()

	s, err := p.AddSite(ctx, "https://example.com", "Example")
	require.NoError(t, err)
	fid, err := p.AddFavicon(ctx, favicon("https://example.com/favicon.ico", 16))
	require.NoError(t, err)
	require.NoError(t, p.LinkFavicon(ctx, s.ID, fid))

	bid, err := p.AddBookmark(ctx, Bookmark{
		URL:       sql.NullString{String: s.URL, Valid: true},
		Parent:    seed.ToolbarID,
		FaviconID: sql.NullInt64{Int64: fid, Valid: true},
		Title:     "Example",
	})
	require.NoError(t, err)

	require.NoError(t, p.DeleteFavicon(ctx, fid))

	var b Bookmark
	require.NoError(t, r.DB.GetContext(ctx, &b, "SELECT * FROM bookmarks WHERE id = ?", bid))
	assert.False(t, b.FaviconID.Valid, "bookmark keeps no icon")
	assert.Equal(t, "Example", b.Title)
	assert.Zero(t, count(t, r, schema.TableFaviconSites))

	require.ErrorIs(t, p.DeleteFavicon(ctx, fid), db.ErrRecordNotFound)
}

func TestWidestFavicon(t *testing.T) {
	t.Parallel()
	_, p := setupTestDB(t)
	ctx := t.Context()

	s, err := p.AddSite(ctx, "https://example.com", "Example")
	require.NoError(t, err)
	bare, err := p.AddSite(ctx, "https://bare.org", "No icon")
	require.NoError(t, err)

	small, err := p.AddFavicon(ctx, favicon("https://example.com/16.png", 16))
	require.NoError(t, err)
	large, err := p.AddFavicon(ctx, favicon("https://example.com/32.png", 32))
	require.NoError(t, err)
	require.NoError(t, p.LinkFavicon(ctx, s.ID, large))
	require.NoError(t, p.LinkFavicon(ctx, s.ID, small))
	require.NoError(t, p.LinkFavicon(ctx, s.ID, small))

	ic, err := p.WidestFavicon(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, large, ic.ID.Int64)
	assert.Equal(t, "https://example.com/32.png", ic.URL.String)
	assert.Equal(t, int64(32), ic.Width.Int64)

	id, err := p.IconForURL(ctx, s.URL)
	require.NoError(t, err)
	assert.Equal(t, large, id)

	hi, err := p.HistoryIcon(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, large, hi.ID.Int64)

	t.Run("site without favicon", func(t *testing.T) {
		hi, err := p.HistoryIcon(ctx, bare.ID)
		require.NoError(t, err)
		assert.False(t, hi.ID.Valid)

		_, err = p.WidestFavicon(ctx, bare.ID)
		require.ErrorIs(t, err, db.ErrRecordNotFound)

		_, err = p.IconForURL(ctx, bare.URL)
		require.ErrorIs(t, err, db.ErrRecordNotFound)
	})

	t.Run("re-adding a favicon keeps its id", func(t *testing.T) {
		id, err := p.AddFavicon(ctx, favicon("https://example.com/16.png", 64))
		require.NoError(t, err)
		assert.Equal(t, small, id)

		ic, err := p.WidestFavicon(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, small, ic.ID.Int64)
	})
}

func TestBookmarks(t *testing.T) {
	t.Parallel()
	_, p := setupTestDB(t)
	ctx := t.Context()

	roots, err := p.Roots(ctx)
	require.NoError(t, err)
	require.Len(t, roots, 5)
	for i, b := range roots {
		assert.True(t, b.IsFolder())
		assert.Equal(t, seed.GUIDs()[i], b.GUID)
	}

	ok, err := p.IsBookmarked(ctx, "https://go.dev")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = p.AddBookmark(ctx, Bookmark{
		URL:    sql.NullString{String: "https://go.dev", Valid: true},
		Parent: seed.MenuID,
		Title:  "Go",
	})
	require.NoError(t, err)

	ok, err = p.IsBookmarked(ctx, "https://go.dev")
	require.NoError(t, err)
	assert.True(t, ok)

	children, err := p.Children(ctx, seed.MenuID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, "Go", children[0].Title)
	assert.Equal(t, seed.TypeBookmark, children[0].Type)

	top, err := p.Children(ctx, seed.RootID)
	require.NoError(t, err)
	assert.Len(t, top, 4, "root is not listed under itself")

	menu, err := p.BookmarkByGUID(ctx, seed.MenuGUID)
	require.NoError(t, err)
	assert.Equal(t, int64(seed.MenuID), menu.ID)

	_, err = p.BookmarkByGUID(ctx, "nope________")
	require.ErrorIs(t, err, db.ErrRecordNotFound)

	_, err = p.AddBookmark(ctx, Bookmark{Parent: 999, Title: "orphan"})
	require.Error(t, err)
	assert.True(t, db.IsConstraint(err), "parent must exist")
}
