package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/browserdb/internal/config"
	"github.com/mateconpizza/browserdb/pkg/store"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s v%s (schema %d)\n", config.Command(), config.Version(), store.SchemaVersion)
	},
}
