package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/browserdb/internal/sys/files"
)

var (
	backupList bool
	backupKeep int
)

// backupCmd copies the store into the backup directory.
var backupCmd = &cobra.Command{
	Use:     "backup",
	Aliases: []string{"bk"},
	Short:   "Back up the store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		dir := cfg.BackupPath(dataDir)

		if backupList {
			found, err := files.List(dir, ".db")
			if err != nil {
				return err
			}

			for _, f := range found {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}

			return nil
		}

		r, err := openExisting()
		if err != nil {
			return err
		}
		defer closeStore(r)

		p, err := r.Backup(cmd.Context(), dir)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: backup saved to %s\n", r.Name(), p)

		if backupKeep > 0 {
			return pruneBackups(cmd.OutOrStdout(), dir, backupKeep)
		}

		return nil
	},
}

func init() {
	f := backupCmd.Flags()
	f.BoolVarP(&backupList, "list", "l", false, "list backups")
	f.IntVarP(&backupKeep, "keep", "k", 0, "remove all but the newest n backups")
}

// pruneBackups removes the oldest backups in dir, keeping the newest n.
// Backup names start with their timestamp, so name order is age order.
func pruneBackups(w io.Writer, dir string, n int) error {
	found, err := files.List(dir, ".db")
	if err != nil {
		return err
	}

	if len(found) <= n {
		return nil
	}

	for _, f := range found[:len(found)-n] {
		if err := files.Remove(f); err != nil {
			return err
		}
		fmt.Fprintf(w, "removed %s\n", f)
	}

	return nil
}
