package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cognicore/cooc/pkg/cooc"
	"github.com/cognicore/cooc/pkg/cooc/config"
	"github.com/cognicore/cooc/pkg/cooc/store/sqlite"
)

type runFlags struct {
	configPath   string
	input        string
	stoplistPath string
	maxDocs      int
	seed         uint64
	words        []string
	threshold    float64
	dbPath       string
	progress     bool
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute associates and synonyms for a corpus",
		Example: `  cooc run --input wiki.tsv --word railway --word hot
  cooc run --config cooc.yaml --db runs.db`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd.Context(), cmd, f)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&f.configPath, "config", "c", "", "YAML config file")
	flags.StringVarP(&f.input, "input", "i", "", "Corpus file (overrides corpus.path)")
	flags.StringVar(&f.stoplistPath, "stoplist", "", "Stoplist file (overrides corpus.stoplist)")
	flags.IntVarP(&f.maxDocs, "max-docs", "n", 0, "Maximum documents to read (overrides pipeline.max_docs)")
	flags.Uint64Var(&f.seed, "seed", 0, "Downsampling seed (overrides pipeline.seed)")
	flags.StringSliceVarP(&f.words, "word", "w", nil, "Print synonyms of this word (repeatable)")
	flags.Float64VarP(&f.threshold, "threshold", "t", 0, "Shared associates a synonym must exceed (overrides query.threshold)")
	flags.StringVar(&f.dbPath, "db", "", "SQLite file to save the run in (overrides store.path)")
	flags.BoolVar(&f.progress, "progress", false, "Report reading throughput")
	return cmd
}

func runPipeline(ctx context.Context, cmd *cobra.Command, f runFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	loader := config.Loader{
		ConfigPath:   f.configPath,
		CorpusPath:   f.input,
		StoplistPath: f.stoplistPath,
	}
	comp, err := loader.Load()
	if err != nil {
		return err
	}
	cfg := comp.Config
	if cmd.Flags().Changed("max-docs") {
		cfg.Pipeline.MaxDocs = f.maxDocs
	}
	if cmd.Flags().Changed("seed") {
		cfg.Pipeline.Seed = f.seed
	}
	if cmd.Flags().Changed("threshold") {
		cfg.Query.Threshold = f.threshold
	}
	if f.dbPath != "" {
		cfg.Store.Path = f.dbPath
	}
	if comp.Source == nil {
		return fmt.Errorf("no corpus: set --input or corpus.path")
	}

	p, err := cooc.New(cooc.Options{
		Source:             comp.Source,
		MaxDocs:            cfg.Pipeline.MaxDocs,
		MinCount:           cfg.Pipeline.MinCount,
		MinScore:           cfg.Pipeline.MinScore,
		MaxAssociates:      cfg.Pipeline.MaxAssociates,
		TargetMaxFrequency: cfg.Pipeline.TargetMaxFrequency,
		Seed:               cfg.Pipeline.Seed,
		Stoplist:           comp.Stoplist,
		StripHTML:          cfg.Corpus.StripHTML,
		Progress:           f.progress,
		CacheSize:          cfg.Query.CacheSize,
	})
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}
	log.Printf("run complete: %s", res.Summary())

	out := cmd.OutOrStdout()
	for _, w := range f.words {
		printSimilar(out, res, w, cfg.Query.Threshold)
	}

	if cfg.Store.Path == "" {
		return nil
	}
	st, err := sqlite.OpenSQLite(ctx, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	id, err := cooc.Save(ctx, st, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "saved run %s to %s\n", id, cfg.Store.Path)
	return nil
}

func printSimilar(out io.Writer, res *cooc.Result, word string, threshold float64) {
	similar, err := res.Query.Similar(word, threshold)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", word, err)
		return
	}
	tokens := make([]string, len(similar))
	for i, n := range similar {
		tokens[i] = n.Token
	}
	fmt.Fprintf(out, "%s: %s\n", word, strings.Join(tokens, " "))
}
