// Package main provides the llamalang binary entry point.
// Llamalang turns PDFs and web articles into Anki flashcard decks,
// keeping track of which words the learner has already studied.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/LLamaEmpire/LlamaLanguage/pkg/config"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/pipeline"
	"github.com/LLamaEmpire/LlamaLanguage/pkg/vocab"
)

const (
	Version = "0.1.0"
	appName = "llamalang"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries the loaded configuration and pipeline into subcommands.
type app struct {
	cfg  *config.Config
	pipe *pipeline.Pipeline
}

func rootCmd() *cobra.Command {
	var (
		configPath string
		logLevel   string
		a          app
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Vocabulary deck builder for language learners",
		Long: `Llamalang extracts vocabulary from PDFs and web articles,
drops the words you already study, and packages the rest as an Anki
deck with pronunciation audio plus a CSV study sheet.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if configPath != "" {
				os.Setenv("CONFIG_PATH", configPath)
			}
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			log := config.NewLogger(cfg.Log)
			a.cfg = cfg
			a.pipe = pipeline.New(cfg, log)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(processCmd(&a))
	cmd.AddCommand(decksCmd(&a))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})

	return cmd
}

func processCmd(a *app) *cobra.Command {
	var (
		deckName   string
		langName   string
		pages      string
		extraDecks []string
		minLength  int
		categories []string
		noAudio    bool
	)

	cmd := &cobra.Command{
		Use:   "process <pdf-or-url>",
		Short: "Extract vocabulary from a source and build a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			lang := a.cfg.Language()
			if langName != "" {
				var ok bool
				if lang, ok = vocab.ParseLanguage(langName); !ok {
					return fmt.Errorf("unknown language %q", langName)
				}
			}
			start, end, err := parsePageRange(pages)
			if err != nil {
				return err
			}

			// Flag overrides on top of the loaded config.
			if minLength > 0 {
				a.cfg.Extract.MinWordLength = minLength
			}
			if len(categories) > 0 {
				for _, name := range categories {
					if vocab.ParseCategory(name) == vocab.Other && !strings.EqualFold(name, string(vocab.Other)) {
						return fmt.Errorf("unknown category %q", name)
					}
				}
				a.cfg.Extract.Categories = categories
			}
			if noAudio {
				a.cfg.Audio.Enabled = false
			}

			a.pipe.OnProgress = func(stage string) {
				fmt.Fprintf(cmd.OutOrStdout(), "==> %s\n", stage)
			}
			res, err := a.pipe.Run(ctx, pipeline.Request{
				Source:     args[0],
				StartPage:  start,
				EndPage:    end,
				DeckName:   deckName,
				Language:   lang,
				ExtraDecks: extraDecks,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nNew words: %d, already known: %d\n",
				res.NewWords.Total(), res.ExistingWords.Total())
			printBundle(out, res.NewWords)
			if res.DeckPath == "" {
				fmt.Fprintln(out, "Nothing new to study, no deck written.")
				return nil
			}
			fmt.Fprintf(out, "Deck: %s\n", res.DeckPath)
			for _, p := range res.CSVPaths {
				fmt.Fprintf(out, "CSV:  %s\n", p)
			}
			if len(res.AudioFailed) > 0 {
				fmt.Fprintf(out, "Audio failed for: %s\n", strings.Join(res.AudioFailed, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&deckName, "deck-name", "n", "", "Base name for the generated deck")
	cmd.Flags().StringVarP(&langName, "language", "l", "", "Source language (default from config)")
	cmd.Flags().StringVarP(&pages, "pages", "p", "", "PDF page range, e.g. 5-20")
	cmd.Flags().StringArrayVar(&extraDecks, "extra-deck", nil, "Additional .apkg whose words count as known (repeatable)")
	cmd.Flags().IntVar(&minLength, "min-length", 0, "Minimum word length in characters (default from config)")
	cmd.Flags().StringSliceVar(&categories, "categories", nil, "Restrict output to these categories, e.g. nouns,verbs")
	cmd.Flags().BoolVar(&noAudio, "no-audio", false, "Skip pronunciation audio synthesis")

	return cmd
}

// parsePageRange parses "5-20", "5-" or "7" into start/end pages.
func parsePageRange(s string) (int, int, error) {
	if s == "" {
		return 0, 0, nil
	}
	parse := func(tok string) (int, error) {
		if tok == "" {
			return 0, nil
		}
		n, err := strconv.Atoi(tok)
		if err != nil || n < 1 {
			return 0, fmt.Errorf("invalid page %q", tok)
		}
		return n, nil
	}
	start, end := s, ""
	if i := strings.IndexByte(s, '-'); i >= 0 {
		start, end = s[:i], s[i+1:]
	} else {
		end = s
	}
	from, err := parse(start)
	if err != nil {
		return 0, 0, err
	}
	to, err := parse(end)
	if err != nil {
		return 0, 0, err
	}
	if from > 0 && to > 0 && from > to {
		return 0, 0, fmt.Errorf("page range %q is backwards", s)
	}
	return from, to, nil
}

func printBundle(out io.Writer, b vocab.Bundle) {
	for _, cat := range b.Keys() {
		if len(b[cat]) == 0 {
			continue
		}
		fmt.Fprintf(out, "  %-13s %s\n", string(cat)+":", strings.Join(b[cat], ", "))
	}
}
