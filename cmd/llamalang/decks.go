package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/reconcile"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/storage"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

func decksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decks",
		Short: "Inspect and manage stored decks",
	}
	cmd.AddCommand(decksListCmd(a))
	cmd.AddCommand(decksWordsCmd(a))
	cmd.AddCommand(decksImportCmd(a))
	cmd.AddCommand(decksDeleteCmd(a))
	return cmd
}

func store(a *app) *storage.Store {
	return a.pipe.Store
}

func decksListCmd(a *app) *cobra.Command {
	var langName string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored decks, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter vocab.Language
			if langName != "" {
				var ok bool
				if filter, ok = vocab.ParseLanguage(langName); !ok {
					return fmt.Errorf("unknown language %q", langName)
				}
			}
			decks, err := store(a).List(filter)
			if err != nil {
				return err
			}
			if len(decks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No stored decks.")
				return nil
			}
			for _, d := range decks {
				// Selector form, accepted back by process --extra-deck.
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", d.DisplayName, d.Path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&langName, "language", "l", "", "Only decks of this language")
	return cmd
}

func decksWordsCmd(a *app) *cobra.Command {
	var langName string

	cmd := &cobra.Command{
		Use:   "words [deck-selector]",
		Short: "Show a deck's words, or the aggregate known set",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 1 {
				return printDeckWords(a, out, args[0])
			}

			lang := a.cfg.Language()
			if langName != "" {
				var ok bool
				if lang, ok = vocab.ParseLanguage(langName); !ok {
					return fmt.Errorf("unknown language %q", langName)
				}
			}
			known, err := store(a).KnownWords(lang)
			if err != nil {
				return err
			}
			words := make([]string, 0, len(known))
			for w := range known {
				words = append(words, w)
			}
			sort.Strings(words)
			fmt.Fprintf(out, "%d known %s words\n", len(words), lang)
			for _, w := range words {
				fmt.Fprintln(out, w)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&langName, "language", "l", "", "Language for the aggregate set")
	return cmd
}

func printDeckWords(a *app, out io.Writer, selector string) error {
	path := reconcile.UnwrapSelector(selector)
	deck, err := findDeck(a, path)
	if err != nil {
		return err
	}
	bundle, err := store(a).Words(deck)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %d words\n", deck.DisplayName, bundle.Total())
	printBundle(out, bundle)
	return nil
}

func decksImportCmd(a *app) *cobra.Command {
	var langName string

	cmd := &cobra.Command{
		Use:   "import <archive.apkg>",
		Short: "Copy an existing Anki package into deck storage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lang := vocab.LanguageFromFilename(args[0])
			if langName != "" {
				var ok bool
				if lang, ok = vocab.ParseLanguage(langName); !ok {
					return fmt.Errorf("unknown language %q", langName)
				}
			}
			stored, err := store(a).Save(args[0], "", lang)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported as %s\n", stored)
			return nil
		},
	}

	cmd.Flags().StringVarP(&langName, "language", "l", "", "Deck language (default inferred from filename)")
	return cmd
}

func decksDeleteCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <deck-selector>",
		Short: "Remove a stored deck and its metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := reconcile.UnwrapSelector(args[0])
			deck, err := findDeck(a, path)
			if err != nil {
				return err
			}
			if !store(a).Delete(deck.Path) {
				return fmt.Errorf("deck %s was not removed", deck.Path)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", deck.Path)
			return nil
		},
	}
	return cmd
}

// findDeck resolves a path or display name against the stored decks.
func findDeck(a *app, ref string) (storage.Deck, error) {
	decks, err := store(a).List("")
	if err != nil {
		return storage.Deck{}, err
	}
	for _, d := range decks {
		if d.Path == ref || d.OriginalFilename == ref || strings.EqualFold(d.DisplayName, ref) {
			return d, nil
		}
	}
	return storage.Deck{}, fmt.Errorf("no stored deck matches %q", ref)
}
