package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mateconpizza/browserdb/pkg/store"
)

// initCmd creates the store, or brings an existing one to the configured
// version.
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the tables and seed the root folders",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := openOrCreate()
		if err != nil {
			return err
		}
		defer closeStore(r)

		s, err := store.Open(cmd.Context(), r, storeOptions())
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), s.Report)
		}

		printReport(cmd.OutOrStdout(), r.Name(), s.Report)

		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "output in JSON format")
}
