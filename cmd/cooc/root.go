package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "cooc",
		Short: "Find associated words in a text corpus",
		Long: `cooc counts which words share documents in a tab separated corpus
(id<TAB>title<TAB>text per line), scores every pair with a log-likelihood
ratio test and keeps the strongest associates of each word. Words sharing
many associates are reported as synonyms.`,
		SilenceUsage: true,
	}
	root.AddCommand(newRunCmd(), newQueryCmd())
	return root
}
