package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/browserdb/pkg/places"
)

// rootsCmd prints the reserved root folders of the store.
var rootsCmd = &cobra.Command{
	Use:   "roots",
	Short: "List the root bookmark folders",
	RunE: func(cmd *cobra.Command, _ []string) error {
		r, err := openExisting()
		if err != nil {
			return err
		}
		defer closeStore(r)

		roots, err := places.New(r.DB).Roots(cmd.Context())
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), roots)
		}

		for _, b := range roots {
			fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d\t%s\n", b.ID, b.GUID, b.Parent, b.Title)
		}

		return nil
	},
}

func init() {
	rootsCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "output in JSON format")
}
