package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/browserdb/pkg/db"
)

// Icon types.
const (
	IconLocal        = 0
	IconFavicon      = 1
	IconAppleIcon    = 2
	IconAppleIconPre = 3
	IconGuess        = 4
)

// Favicon is a row of the favicons table. Date is in seconds.
type Favicon struct {
	ID     int64         `db:"id"     json:"id"`
	URL    string        `db:"url"    json:"url"`
	Width  sql.NullInt64 `db:"width"  json:"-"`
	Height sql.NullInt64 `db:"height" json:"-"`
	Type   int           `db:"type"   json:"type"`
	Date   float64       `db:"date"   json:"date"`
}

// Icon is the widest favicon of a site as exposed by the favicon views.
type Icon struct {
	SiteID int64           `db:"siteID"    json:"site_id"`
	ID     sql.NullInt64   `db:"iconID"    json:"-"`
	URL    sql.NullString  `db:"iconURL"   json:"-"`
	Date   sql.NullFloat64 `db:"iconDate"  json:"-"`
	Type   sql.NullInt64   `db:"iconType"  json:"-"`
	Width  sql.NullInt64   `db:"iconWidth" json:"-"`
}

// AddFavicon stores a favicon and returns its id. A favicon with the same
// url is replaced in place.
func (p *Places) AddFavicon(ctx context.Context, f Favicon) (int64, error) {
	_, err := sqlx.NamedExecContext(ctx, p.q, `
    INSERT INTO favicons (url, width, height, type, date)
    VALUES (:url, :width, :height, :type, :date)
    ON CONFLICT (url) DO UPDATE SET
        width = excluded.width, height = excluded.height,
        type = excluded.type, date = excluded.date`, &f)
	if err != nil {
		return 0, fmt.Errorf("add favicon %q: %w", f.URL, err)
	}

	var id int64
	if err := p.q.GetContext(ctx, &id, "SELECT id FROM favicons WHERE url = ?", f.URL); err != nil {
		return 0, fmt.Errorf("add favicon %q: %w", f.URL, err)
	}

	return id, nil
}

// LinkFavicon associates a favicon with a site. Linking twice is a no-op.
func (p *Places) LinkFavicon(ctx context.Context, siteID, faviconID int64) error {
	_, err := p.q.ExecContext(ctx,
		"INSERT OR IGNORE INTO favicon_sites (siteID, faviconID) VALUES (?, ?)", siteID, faviconID)
	if err != nil {
		return fmt.Errorf("link favicon %d to site %d: %w", faviconID, siteID, err)
	}

	return nil
}

// DeleteFavicon removes a favicon. Site links are removed and bookmarks
// using it keep no icon.
func (p *Places) DeleteFavicon(ctx context.Context, id int64) error {
	res, err := p.q.ExecContext(ctx, "DELETE FROM favicons WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete favicon %d: %w", id, err)
	}

	return mustAffect(res, id)
}

// WidestFavicon returns the widest favicon linked to a site.
func (p *Places) WidestFavicon(ctx context.Context, siteID int64) (Icon, error) {
	var ic Icon
	err := p.q.GetContext(ctx, &ic, `
    SELECT siteID, iconID, iconURL, iconDate, iconType, iconWidth
    FROM view_favicons_widest WHERE siteID = ?`, siteID)
	if errors.Is(err, sql.ErrNoRows) {
		return Icon{}, fmt.Errorf("%w: favicon for site %d", db.ErrRecordNotFound, siteID)
	}

	if err != nil {
		return Icon{}, fmt.Errorf("widest favicon: %w", err)
	}

	return ic, nil
}

// HistoryIcon returns the widest favicon of a history row. ID is invalid
// when the site has no favicon.
func (p *Places) HistoryIcon(ctx context.Context, siteID int64) (Icon, error) {
	var ic Icon
	err := p.q.GetContext(ctx, &ic, `
    SELECT id AS siteID, iconID, iconURL, iconDate, iconType, iconWidth
    FROM view_history_id_favicon WHERE id = ?`, siteID)
	if errors.Is(err, sql.ErrNoRows) {
		return Icon{}, fmt.Errorf("%w: site %d", db.ErrRecordNotFound, siteID)
	}

	if err != nil {
		return Icon{}, fmt.Errorf("history icon: %w", err)
	}

	return ic, nil
}

// IconForURL returns the id of the widest favicon for a page url.
func (p *Places) IconForURL(ctx context.Context, url string) (int64, error) {
	var id int64
	err := p.q.GetContext(ctx, &id, "SELECT iconID FROM view_icon_for_url WHERE url = ?", url)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("%w: icon for %q", db.ErrRecordNotFound, url)
	}

	if err != nil {
		return 0, fmt.Errorf("icon for url: %w", err)
	}

	return id, nil
}
