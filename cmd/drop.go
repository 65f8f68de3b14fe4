package cmd

import (
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/mateconpizza/browserdb/internal/sys/terminal"
	"github.com/mateconpizza/browserdb/pkg/db"
	"github.com/mateconpizza/browserdb/pkg/schema"
	"github.com/mateconpizza/browserdb/pkg/tables"
)

var dropForce bool

var ErrForceRequired = errors.New("not a terminal, use --force")

var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Drop every table and view",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := openExisting()
		if err != nil {
			return err
		}
		defer closeStore(r)

		if !dropForce {
			t := terminal.New()
			if !t.IsInteractive() {
				return ErrForceRequired
			}

			q := fmt.Sprintf("drop all tables in %q? stored data will be lost", r.Name())
			if err := t.ConfirmErr(q, "n"); err != nil {
				return err
			}
		}

		m, err := tables.New(r, schema.Browser())
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if err := m.Drop(ctx); err != nil {
			return err
		}

		// the store is absent again; forget its version.
		if err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
			return db.SetUserVersion(ctx, tx, 0)
		}); err != nil {
			return err
		}

		if err := r.Vacuum(ctx); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s: tables dropped\n", r.Name())

		return nil
	},
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "do not ask for confirmation")
}
