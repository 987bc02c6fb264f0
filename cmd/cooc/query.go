package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cognicore/cooc/pkg/cooc/query"
	"github.com/cognicore/cooc/pkg/cooc/store"
	"github.com/cognicore/cooc/pkg/cooc/store/sqlite"
)

type queryFlags struct {
	dbPath     string
	runID      string
	threshold  float64
	associates bool
}

func newQueryCmd() *cobra.Command {
	var f queryFlags
	cmd := &cobra.Command{
		Use:   "query <word>...",
		Short: "Look up synonyms or associates in a saved run",
		Example: `  cooc query --db runs.db hot cold
  cooc query --db runs.db --associates --run 01HX... railway`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			st, err := sqlite.OpenSQLite(ctx, f.dbPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer st.Close()
			return queryRun(ctx, cmd, st, f, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.dbPath, "db", "", "SQLite file holding saved runs (required)")
	flags.StringVar(&f.runID, "run", "", "Run ID (default: latest run)")
	flags.Float64VarP(&f.threshold, "threshold", "t", query.DefaultThreshold, "Shared associates a synonym must exceed")
	flags.BoolVarP(&f.associates, "associates", "a", false, "List associates with their scores instead of synonyms")
	_ = cmd.MarkFlagRequired("db")
	return cmd
}

func queryRun(ctx context.Context, cmd *cobra.Command, st store.Store, f queryFlags, words []string) error {
	runID := f.runID
	if runID == "" {
		latest, err := st.LatestRun(ctx)
		if err != nil {
			return err
		}
		runID = latest.ID
	}

	out := cmd.OutOrStdout()
	for _, w := range words {
		var (
			ns  []store.Neighbor
			err error
		)
		if f.associates {
			ns, err = st.Associates(ctx, runID, w)
		} else {
			ns, err = st.Synonyms(ctx, runID, w, f.threshold)
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", w, err)
			continue
		}
		fmt.Fprintf(out, "%s:", w)
		for _, n := range ns {
			if f.associates {
				fmt.Fprintf(out, " %s(%.1f)", n.Token, n.Weight)
			} else {
				fmt.Fprintf(out, " %s", n.Token)
			}
		}
		fmt.Fprintln(out)
	}
	return nil
}
