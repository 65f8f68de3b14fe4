package places

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/mateconpizza/browserdb/pkg/db"
)

// Site is a row of the history table.
type Site struct {
	ID             int64         `db:"id"              json:"id"`
	GUID           string        `db:"guid"            json:"guid"`
	URL            string        `db:"url"             json:"url"`
	Title          string        `db:"title"           json:"title"`
	ServerModified sql.NullInt64 `db:"server_modified" json:"-"`
	LocalModified  sql.NullInt64 `db:"local_modified"  json:"-"`
	IsDeleted      bool          `db:"is_deleted"      json:"is_deleted"`
	ShouldUpload   bool          `db:"should_upload"   json:"should_upload"`
}

// AddSite inserts a history row marked for upload.
func (p *Places) AddSite(ctx context.Context, url, title string) (Site, error) {
	s := Site{
		GUID:          NewGUID(),
		URL:           url,
		Title:         title,
		LocalModified: sql.NullInt64{Int64: nowMillis(), Valid: true},
		ShouldUpload:  true,
	}

	res, err := sqlx.NamedExecContext(ctx, p.q, `
    INSERT INTO history (guid, url, title, local_modified, is_deleted, should_upload)
    VALUES (:guid, :url, :title, :local_modified, :is_deleted, :should_upload)`, &s)
	if err != nil {
		return Site{}, fmt.Errorf("add site %q: %w", url, err)
	}

	s.ID, err = res.LastInsertId()
	if err != nil {
		return Site{}, fmt.Errorf("add site %q: %w", url, err)
	}

	slog.Debug("site added", "id", s.ID, "url", url)

	return s, nil
}

// SiteByURL returns the history row for url.
func (p *Places) SiteByURL(ctx context.Context, url string) (Site, error) {
	var s Site
	err := p.q.GetContext(ctx, &s, "SELECT * FROM history WHERE url = ?", url)
	if errors.Is(err, sql.ErrNoRows) {
		return Site{}, fmt.Errorf("%w: %q", db.ErrRecordNotFound, url)
	}

	if err != nil {
		return Site{}, fmt.Errorf("site by url: %w", err)
	}

	return s, nil
}

// DeleteSite removes a history row. Its visits and favicon links go with it.
func (p *Places) DeleteSite(ctx context.Context, id int64) error {
	res, err := p.q.ExecContext(ctx, "DELETE FROM history WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete site %d: %w", id, err)
	}

	return mustAffect(res, id)
}
