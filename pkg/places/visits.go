package places

import (
	"context"
	"fmt"
)

// VisitType is how the user reached a page.
type VisitType int

const (
	VisitUnknown VisitType = iota
	VisitLink
	VisitTyped
	VisitBookmark
	VisitEmbed
	VisitPermanentRedirect
	VisitTemporaryRedirect
	VisitDownload
	VisitFramedLink
)

func (v VisitType) String() string {
	switch v {
	case VisitLink:
		return "link"
	case VisitTyped:
		return "typed"
	case VisitBookmark:
		return "bookmark"
	case VisitEmbed:
		return "embed"
	case VisitPermanentRedirect:
		return "permanent-redirect"
	case VisitTemporaryRedirect:
		return "temporary-redirect"
	case VisitDownload:
		return "download"
	case VisitFramedLink:
		return "framed-link"
	default:
		return "unknown"
	}
}

// Visit is a single visit to a site. Date is in microseconds.
type Visit struct {
	SiteID int64     `db:"siteID" json:"site_id"`
	Date   float64   `db:"date"   json:"date"`
	Type   VisitType `db:"type"   json:"type"`
}

// AddLocalVisit records a visit made on this device, pending upload.
func (p *Places) AddLocalVisit(ctx context.Context, v Visit) (int64, error) {
	return p.addVisit(ctx, "INSERT INTO local_visits (siteID, date, type) VALUES (?, ?, ?)", v)
}

// AddRemoteVisit records a visit received from another device.
func (p *Places) AddRemoteVisit(ctx context.Context, v Visit) (int64, error) {
	return p.addVisit(ctx, "INSERT INTO remote_visits (siteID, date, type) VALUES (?, ?, ?)", v)
}

func (p *Places) addVisit(ctx context.Context, q string, v Visit) (int64, error) {
	res, err := p.q.ExecContext(ctx, q, v.SiteID, v.Date, v.Type)
	if err != nil {
		return 0, fmt.Errorf("add visit for site %d: %w", v.SiteID, err)
	}

	return res.LastInsertId()
}

// Visits returns local and remote visits for a site, oldest first.
func (p *Places) Visits(ctx context.Context, siteID int64) ([]Visit, error) {
	var vs []Visit
	err := p.q.SelectContext(ctx, &vs,
		"SELECT siteID, date, type FROM all_visits WHERE siteID = ? ORDER BY date", siteID)
	if err != nil {
		return nil, fmt.Errorf("visits for site %d: %w", siteID, err)
	}

	return vs, nil
}

// PendingVisits returns the local visits not yet uploaded.
func (p *Places) PendingVisits(ctx context.Context) ([]Visit, error) {
	var vs []Visit
	err := p.q.SelectContext(ctx, &vs,
		"SELECT siteID, date, type FROM local_visits WHERE is_new = 1 ORDER BY date")
	if err != nil {
		return nil, fmt.Errorf("pending visits: %w", err)
	}

	return vs, nil
}

// MarkUploaded clears the pending flag of every local visit of a site and
// returns the number of visits updated.
func (p *Places) MarkUploaded(ctx context.Context, siteID int64) (int64, error) {
	res, err := p.q.ExecContext(ctx, "UPDATE local_visits SET is_new = 0 WHERE siteID = ? AND is_new = 1", siteID)
	if err != nil {
		return 0, fmt.Errorf("mark uploaded %d: %w", siteID, err)
	}

	return res.RowsAffected()
}
