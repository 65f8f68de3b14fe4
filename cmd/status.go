package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mateconpizza/browserdb/internal/sys/files"
	"github.com/mateconpizza/browserdb/pkg/db"
	"github.com/mateconpizza/browserdb/pkg/schema"
	"github.com/mateconpizza/browserdb/pkg/store"
)

var statusAll bool

// storeStatus is the state of one store.
type storeStatus struct {
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	Found    bool           `json:"found"`
	Version  int            `json:"version"`
	Expected int            `json:"expected"`
	Exists   bool           `json:"tables_exist"`
	Rows     map[string]int `json:"rows,omitempty"`
	Err      string         `json:"error,omitempty"`
}

func (s *storeStatus) state() string {
	switch {
	case s.Err != "":
		return "error: " + s.Err
	case !s.Found:
		return "missing"
	case !s.Exists:
		return "absent"
	case s.Version != s.Expected:
		return fmt.Sprintf("needs reset (%d -> %d)", s.Version, s.Expected)
	default:
		return "ok"
	}
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the schema version and table state",
	RunE: func(cmd *cobra.Command, _ []string) error {
		var (
			out []*storeStatus
			err error
		)

		if statusAll {
			out, err = statusProfiles(cmd.Context())
		} else {
			var p string
			if p, err = storePath(); err == nil {
				out = []*storeStatus{checkStore(cmd.Context(), cfg.Driver, "", p)}
			}
		}

		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), out)
		}

		printStatus(cmd.OutOrStdout(), out)

		return nil
	},
}

func init() {
	statusCmd.Flags().BoolVarP(&statusAll, "all", "a", false, "check every profile in profiles.ini")
	statusCmd.Flags().BoolVarP(&jsonOutput, "json", "j", false, "output in JSON format")
}

// statusProfiles checks every profile concurrently, each with its own
// connection.
func statusProfiles(ctx context.Context) ([]*storeStatus, error) {
	reg, err := loadProfiles()
	if err != nil {
		return nil, err
	}

	out := make([]*storeStatus, len(reg.Profiles))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, p := range reg.Profiles {
		g.Go(func() error {
			out[i] = checkStore(ctx, cfg.Driver, p.Name, p.StorePath(reg.Dir))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

// checkStore reads the state of the store at path without modifying it.
func checkStore(ctx context.Context, driver, name, path string) *storeStatus {
	s := &storeStatus{Name: name, Path: path, Expected: expectedVersion()}
	if !files.Exists(path) {
		return s
	}
	s.Found = true

	r, err := db.New(driver, path)
	if err != nil {
		s.Err = err.Error()
		return s
	}
	defer r.Close()

	if s.Name == "" {
		s.Name = r.Name()
	}

	s.Version, s.Exists, err = store.Status(ctx, r, nil)
	if err != nil {
		s.Err = err.Error()
		if db.IsBusy(err) {
			s.Err = "locked by another process"
		}

		return s
	}

	if !s.Exists {
		return s
	}

	s.Rows = make(map[string]int)
	for _, t := range schema.Browser().Tables() {
		ok, err := r.TableExists(ctx, t)
		if err != nil || !ok {
			continue
		}

		n, err := r.Count(ctx, t)
		if err != nil {
			slog.Warn("counting rows", "table", t, "error", err)
			continue
		}
		s.Rows[string(t)] = n
	}

	return s
}

func printStatus(w io.Writer, ss []*storeStatus) {
	for _, s := range ss {
		fmt.Fprintf(w, "%-20s %-8s v%-3d %s\n", s.Name, s.state(), s.Version, s.Path)
		for _, t := range schema.Browser().Tables() {
			if n, ok := s.Rows[string(t)]; ok {
				fmt.Fprintf(w, "  %-16s %d\n", t, n)
			}
		}
	}
}
