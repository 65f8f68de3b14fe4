package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/browserdb/pkg/db"
	"github.com/mateconpizza/browserdb/pkg/seed"
)

// Bookmark is a node of the bookmark tree. URL is invalid for folders and
// separators.
type Bookmark struct {
	ID        int64          `db:"id"        json:"id"`
	GUID      string         `db:"guid"      json:"guid"`
	Type      int            `db:"type"      json:"type"`
	URL       sql.NullString `db:"url"       json:"-"`
	Parent    int64          `db:"parent"    json:"parent"`
	FaviconID sql.NullInt64  `db:"faviconID" json:"-"`
	Title     string         `db:"title"     json:"title"`
}

// IsFolder reports whether b is a folder.
func (b *Bookmark) IsFolder() bool {
	return b.Type == seed.TypeFolder
}

// AddBookmark inserts b and returns its id. An empty guid is generated.
func (p *Places) AddBookmark(ctx context.Context, b Bookmark) (int64, error) {
	if b.GUID == "" {
		b.GUID = NewGUID()
	}

	if b.Type == 0 {
		b.Type = seed.TypeBookmark
	}

	res, err := sqlx.NamedExecContext(ctx, p.q, `
    INSERT INTO bookmarks (guid, type, url, parent, faviconID, title)
    VALUES (:guid, :type, :url, :parent, :faviconID, :title)`, &b)
	if err != nil {
		return 0, fmt.Errorf("add bookmark %q: %w", b.GUID, err)
	}

	return res.LastInsertId()
}

// IsBookmarked reports whether any bookmark points at url.
func (p *Places) IsBookmarked(ctx context.Context, url string) (bool, error) {
	var n int
	if err := p.q.GetContext(ctx, &n, "SELECT COUNT(*) FROM bookmarks WHERE url = ?", url); err != nil {
		return false, fmt.Errorf("is bookmarked: %w", err)
	}

	return n > 0, nil
}

// BookmarkByGUID returns the node with the given guid.
func (p *Places) BookmarkByGUID(ctx context.Context, guid string) (Bookmark, error) {
	var b Bookmark
	err := p.q.GetContext(ctx, &b, "SELECT * FROM bookmarks WHERE guid = ?", guid)
	if errors.Is(err, sql.ErrNoRows) {
		return Bookmark{}, fmt.Errorf("%w: %q", db.ErrRecordNotFound, guid)
	}

	if err != nil {
		return Bookmark{}, fmt.Errorf("bookmark by guid: %w", err)
	}

	return b, nil
}

// Children returns the nodes under parentID. The root folder is not its own
// child.
func (p *Places) Children(ctx context.Context, parentID int64) ([]Bookmark, error) {
	var bs []Bookmark
	err := p.q.SelectContext(ctx, &bs,
		"SELECT * FROM bookmarks WHERE parent = ? AND id != parent ORDER BY id", parentID)
	if err != nil {
		return nil, fmt.Errorf("children of %d: %w", parentID, err)
	}

	return bs, nil
}

// Roots returns the reserved root folders in id order.
func (p *Places) Roots(ctx context.Context) ([]Bookmark, error) {
	q, args, err := sqlx.In("SELECT * FROM bookmarks WHERE guid IN (?) ORDER BY id", seed.GUIDs())
	if err != nil {
		return nil, fmt.Errorf("roots: %w", err)
	}

	var bs []Bookmark
	if err := p.q.SelectContext(ctx, &bs, p.q.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("roots: %w", err)
	}

	return bs, nil
}
