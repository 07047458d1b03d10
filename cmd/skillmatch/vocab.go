package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/skill-matcher/internal/observability"
	"github.com/jonathan/skill-matcher/internal/types"
	"github.com/jonathan/skill-matcher/internal/vocabulary"
)

func newVocabCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Inspect and validate skill vocabularies",
	}
	cmd.AddCommand(newVocabShowCmd(a), newVocabValidateCmd(a))
	return cmd
}

func newVocabShowCmd(a *app) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the active vocabulary",
		Long:  "Show the version and term counts of the active vocabulary, or list the terms of one category.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			vocab, err := a.vocabulary()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if category != "" {
				c, err := types.ParseCategory(category)
				if err != nil {
					return err
				}
				terms := vocab.Terms(c)
				if a.output == outputJSON {
					return writeJSON(out, terms)
				}
				for _, term := range terms {
					fmt.Fprintln(out, term)
				}
				return nil
			}

			counts := make(map[types.Category]int, len(types.AllCategories))
			for _, c := range types.AllCategories {
				counts[c] = len(vocab.Terms(c))
			}
			if a.output == outputJSON {
				return writeJSON(out, map[string]any{
					"version": vocab.Version(),
					"entries": vocab.Entries(),
				})
			}
			observability.NewPrinter(out).PrintVocabularySummary(vocab.Version(), counts)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "List the terms of one category (technical, soft, experience, education)")
	return cmd
}

func newVocabValidateCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a vocabulary file against the vocabulary schema",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read vocabulary file: %w", err)
			}
			store, err := vocabulary.Parse(data)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (version %s, %d terms)\n",
				args[0], store.Version(), len(store.Entries()))
			return nil
		},
	}
}
