// Package seed inserts the baseline rows every fresh browser store needs.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mateconpizza/browserdb/pkg/ddl"
)

// ErrAlreadySeeded is returned when the root folders are already present.
var ErrAlreadySeeded = errors.New("root folders already seeded")

// Bookmark node types.
const (
	TypeBookmark  = 1
	TypeFolder    = 2
	TypeSeparator = 3
)

// Reserved root ids. These values are shared with every client reading the
// same store format and must never change.
const (
	RootID    = 0
	MobileID  = 1
	MenuID    = 2
	ToolbarID = 3
	UnfiledID = 4
)

// Reserved root guids.
const (
	RootGUID    = "root________"
	MobileGUID  = "mobile______"
	MenuGUID    = "menu________"
	ToolbarGUID = "toolbar_____"
	UnfiledGUID = "unfiled_____"
)

// Folder is a root bookmark folder.
type Folder struct {
	ID     int    `db:"id"     json:"id"`
	GUID   string `db:"guid"   json:"guid"`
	Parent int    `db:"parent" json:"parent"`
	Title  string `db:"title"  json:"title"`
}

var rootFolders = []struct {
	id   int
	guid string
	key  string
}{
	{RootID, RootGUID, msgRoot},
	{MobileID, MobileGUID, msgMobile},
	{MenuID, MenuGUID, msgMenu},
	{ToolbarID, ToolbarGUID, msgToolbar},
	{UnfiledID, UnfiledGUID, msgUnfiled},
}

// GUIDs returns the reserved guids in insertion order.
func GUIDs() []string {
	out := make([]string, 0, len(rootFolders))
	for _, f := range rootFolders {
		out = append(out, f.guid)
	}

	return out
}

// Loader inserts the root folders with titles in its language.
type Loader struct {
	tag language.Tag
	p   *message.Printer
}

// New returns a loader for the closest supported language to tag.
func New(tag language.Tag) *Loader {
	t := Match(tag)
	return &Loader{tag: t, p: message.NewPrinter(t)}
}

// Language returns the language used for titles.
func (l *Loader) Language() language.Tag {
	return l.tag
}

// Roots returns the five root folders. Root is its own parent.
func (l *Loader) Roots() []Folder {
	out := make([]Folder, 0, len(rootFolders))
	for _, f := range rootFolders {
		out = append(out, Folder{
			ID:     f.id,
			GUID:   f.guid,
			Parent: RootID,
			Title:  l.p.Sprintf(f.key),
		})
	}

	return out
}

// Statement returns the single INSERT used to seed the root folders.
func (l *Loader) Statement() ddl.Stmt {
	roots := l.Roots()
	rows := make([]string, 0, len(roots))
	args := make([]any, 0, len(roots)*5)
	for _, f := range roots {
		rows = append(rows, "(?, ?, ?, NULL, ?, ?)")
		args = append(args, f.ID, f.GUID, TypeFolder, f.Parent, f.Title)
	}

	q := "INSERT INTO bookmarks (id, guid, type, url, parent, title) VALUES " + strings.Join(rows, ", ")

	return ddl.Stmt{SQL: q, Args: args}
}

// Prepopulate inserts the root folders in one statement. Running it against
// a seeded store fails with ErrAlreadySeeded.
func (l *Loader) Prepopulate(ctx context.Context, ex sqlx.ExecerContext) error {
	slog.Debug("inserting root folders", "lang", l.tag)

	err := ddl.RunOne(ctx, ex, l.Statement())
	if err == nil {
		return nil
	}

	if ddl.KindOf(err) == ddl.KindConstraint {
		return fmt.Errorf("%w: %w", ErrAlreadySeeded, err)
	}

	return fmt.Errorf("inserting root folders: %w", err)
}
