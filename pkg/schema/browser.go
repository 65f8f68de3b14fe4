package schema

import "github.com/mateconpizza/browserdb/pkg/db"

// tables.
const (
	TableFavicons     db.Table = "favicons"
	TableHistory      db.Table = "history"
	TableRemoteVisits db.Table = "remote_visits"
	TableLocalVisits  db.Table = "local_visits"
	TableFaviconSites db.Table = "favicon_sites"
	TableBookmarks    db.Table = "bookmarks"
)

// views.
const (
	ViewAllVisits        db.Table = "all_visits"
	ViewFaviconsWidest   db.Table = "view_favicons_widest"
	ViewHistoryIDFavicon db.Table = "view_history_id_favicon"
	ViewIconForURL       db.Table = "view_icon_for_url"
)

// names used before the visits split and the favicon_sites rename.
const (
	legacyVisits       db.Table = "visits"
	legacyFaviconSites db.Table = "faviconSites"
)

// Browser returns the catalog of the browser store.
func Browser() *Catalog {
	return New(
		[]Entry{
			Table(TableFavicons, tableFaviconsSchema),
			Table(TableHistory, tableHistorySchema),
			Table(TableRemoteVisits, tableRemoteVisitsSchema),
			Table(TableLocalVisits, tableLocalVisitsSchema),
			Table(TableFaviconSites, tableFaviconSitesSchema),
			Table(TableBookmarks, tableBookmarksSchema),
		},
		[]Entry{
			View(ViewAllVisits, viewAllVisitsSchema),
			View(ViewFaviconsWidest, viewFaviconsWidestSchema),
			View(ViewHistoryIDFavicon, viewHistoryIDFaviconSchema),
			View(ViewIconForURL, viewIconForURLSchema),
		},
		legacyVisits, legacyFaviconSites,
	)
}

// favicons table.
const tableFaviconsSchema = `
    CREATE TABLE IF NOT EXISTS favicons (
        id      INTEGER PRIMARY KEY AUTOINCREMENT,
        url     TEXT    NOT NULL UNIQUE,
        width   INTEGER,
        height  INTEGER,
        type    INTEGER NOT NULL,
        date    REAL    NOT NULL
    )`

// history table.
//
// server_modified and local_modified are epoch milliseconds.
const tableHistorySchema = `
    CREATE TABLE IF NOT EXISTS history (
        id              INTEGER PRIMARY KEY AUTOINCREMENT,
        guid            TEXT    NOT NULL UNIQUE,
        url             TEXT    NOT NULL UNIQUE,
        title           TEXT    NOT NULL,
        server_modified INTEGER,
        local_modified  INTEGER,
        is_deleted      BOOLEAN NOT NULL DEFAULT 0,
        should_upload   BOOLEAN NOT NULL DEFAULT 0
    )`

// visits tables. date is in microseconds.
const (
	tableRemoteVisitsSchema = `
    CREATE TABLE IF NOT EXISTS remote_visits (
        id      INTEGER PRIMARY KEY AUTOINCREMENT,
        siteID  INTEGER NOT NULL REFERENCES history(id) ON DELETE CASCADE,
        date    REAL    NOT NULL,
        type    INTEGER NOT NULL
    )`

	tableLocalVisitsSchema = `
    CREATE TABLE IF NOT EXISTS local_visits (
        id      INTEGER PRIMARY KEY AUTOINCREMENT,
        siteID  INTEGER NOT NULL REFERENCES history(id) ON DELETE CASCADE,
        date    REAL    NOT NULL,
        type    INTEGER NOT NULL,
        is_new  BOOLEAN NOT NULL DEFAULT 1
    )`
)

// favicon <-> site relation table.
const tableFaviconSitesSchema = `
    CREATE TABLE IF NOT EXISTS favicon_sites (
        id        INTEGER PRIMARY KEY AUTOINCREMENT,
        siteID    INTEGER NOT NULL REFERENCES history(id) ON DELETE CASCADE,
        faviconID INTEGER NOT NULL REFERENCES favicons(id) ON DELETE CASCADE,
        UNIQUE (siteID, faviconID)
    )`

// bookmarks table. url is NULL for folders; the root folder is its own
// parent.
const tableBookmarksSchema = `
    CREATE TABLE IF NOT EXISTS bookmarks (
        id        INTEGER  PRIMARY KEY AUTOINCREMENT,
        guid      TEXT     NOT NULL UNIQUE,
        type      SMALLINT NOT NULL,
        url       TEXT,
        parent    INTEGER  NOT NULL REFERENCES bookmarks(id),
        faviconID INTEGER  REFERENCES favicons(id) ON DELETE SET NULL,
        title     TEXT
    )`

// views.
const (
	viewAllVisitsSchema = `
    CREATE VIEW IF NOT EXISTS all_visits AS
        SELECT siteID, date, type FROM local_visits
        UNION ALL
        SELECT siteID, date, type FROM remote_visits`

	// Bare columns next to MAX() come from the widest row; equal widths
	// resolve to whichever row the engine visits first.
	viewFaviconsWidestSchema = `
    CREATE VIEW IF NOT EXISTS view_favicons_widest AS
        SELECT
            favicon_sites.siteID AS siteID,
            favicons.id          AS iconID,
            favicons.url         AS iconURL,
            favicons.date        AS iconDate,
            favicons.type        AS iconType,
            MAX(favicons.width)  AS iconWidth
        FROM favicon_sites, favicons
        WHERE favicon_sites.faviconID = favicons.id
        GROUP BY favicon_sites.siteID`

	viewHistoryIDFaviconSchema = `
    CREATE VIEW IF NOT EXISTS view_history_id_favicon AS
        SELECT
            history.id AS id,
            iconID, iconURL, iconDate, iconType, iconWidth
        FROM history
        LEFT OUTER JOIN view_favicons_widest ON history.id = view_favicons_widest.siteID`

	viewIconForURLSchema = `
    CREATE VIEW IF NOT EXISTS view_icon_for_url AS
        SELECT history.url AS url, icons.iconID AS iconID
        FROM history, view_favicons_widest AS icons
        WHERE history.id = icons.siteID`
)
