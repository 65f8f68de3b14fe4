// Package cmd holds the browserdb command tree.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mateconpizza/browserdb/internal/config"
	"github.com/mateconpizza/browserdb/pkg/readcache"
)

var (
	verbose     int
	cfgFile     string
	dbPath      string
	profileName string
	driverName  string
	jsonOutput  bool
)

var (
	// cfg is the loaded configuration.
	cfg *config.Config

	// dataDir is the application data directory.
	dataDir string
)

// Root is the top level command.
var Root = &cobra.Command{
	Use:               config.Command(),
	Short:             "Create, check and migrate the tables of a browser store",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Usage()
	},
}

// Execute runs the root command. SIGINT and SIGTERM cancel its context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %s\n", config.Command(), err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() {
		config.SetVerbosity(verbose)
	})

	f := Root.PersistentFlags()
	f.CountVarP(&verbose, "verbose", "v", "verbosity level (-v, -vv, -vvv)")
	f.StringVarP(&cfgFile, "config", "c", "", "config file")
	f.StringVarP(&dbPath, "db", "d", "", "store path")
	f.StringVarP(&profileName, "profile", "P", "", "profile name in profiles.ini")
	f.StringVar(&driverName, "driver", "", "sqlite driver [sqlite|sqlite3]")

	Root.CompletionOptions.HiddenDefaultCmd = true
	Root.AddCommand(initCmd, statusCmd, migrateCmd, dropCmd, backupCmd, rootsCmd, configCmd, versionCmd)
}

// loadConfig reads config.yml and applies the global flags.
func loadConfig(_ *cobra.Command, _ []string) error {
	p := cfgFile
	if p == "" {
		var err error
		if p, err = config.ConfigFile(); err != nil {
			return err
		}
	}

	c, err := config.Load(p)
	if err != nil {
		return err
	}

	if driverName != "" {
		c.Driver = driverName
		if err := c.Validate(); err != nil {
			return err
		}
	}

	dir, err := config.DataPath()
	if err != nil {
		return err
	}

	cfg, dataDir = c, dir
	readcache.SetSharedSize(cfg.Cache.Size)

	slog.Debug("config", "file", p, "data", dataDir, "driver", cfg.Driver)

	return nil
}
