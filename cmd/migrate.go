package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/mateconpizza/rotato"
	"github.com/spf13/cobra"

	"github.com/mateconpizza/browserdb/pkg/store"
)

var (
	migrateTo       int
	migrateNoBackup bool
)

var ErrVersionUnset = errors.New("target version must be positive")

// migrateCmd moves the store to another schema version. Any change of
// version resets the tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Move the store to another schema version",
	Long: `Move the store to another schema version.

Changing the version drops every table and view and creates them again:
stored history, visits, favicons and bookmarks are discarded. A backup is
taken first unless --no-backup is given or backups are disabled.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		to := migrateTo
		if to == 0 {
			to = expectedVersion()
		}

		if to < 0 {
			return fmt.Errorf("%w: %d", ErrVersionUnset, to)
		}

		r, err := openExisting()
		if err != nil {
			return err
		}
		defer closeStore(r)

		opts := storeOptions()
		opts.Version = to
		if migrateNoBackup {
			opts.BackupDir = ""
		}

		sp := rotato.New(
			rotato.WithMesg(fmt.Sprintf("migrating %s to version %d...", r.Name(), to)),
			rotato.WithMesgColor(rotato.ColorBrightGreen),
			rotato.WithSpinnerColor(rotato.ColorGray),
			rotato.WithDoneColorMesg(rotato.ColorBrightGreen, rotato.ColorStyleItalic),
			rotato.WithFailColorMesg(rotato.ColorBrightRed),
		)
		sp.Start()

		// a migration runs to completion once started.
		s, err := store.Open(context.WithoutCancel(cmd.Context()), r, opts)
		if err != nil {
			sp.Fail("failed")
			return err
		}
		sp.Done("done")

		printReport(cmd.OutOrStdout(), r.Name(), s.Report)

		return nil
	},
}

func init() {
	f := migrateCmd.Flags()
	f.IntVar(&migrateTo, "to", 0, "target schema version (default: configured version)")
	f.BoolVar(&migrateNoBackup, "no-backup", false, "do not back up before a reset")
}
