package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/config"
	"github.com/youruser/cahdeck/internal/deck"
	"github.com/youruser/cahdeck/internal/logging"
	"github.com/youruser/cahdeck/internal/storage"
	"github.com/youruser/cahdeck/internal/store"
)

var (
	// Global flags
	verbose    bool
	configPath string

	logger *zap.Logger
	cfg    config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "cahdeck",
	Short: "Build and print decks of prompt and answer cards",
	Long: `cahdeck manages decks of prompt cards (with blanks) and answer cards and
renders them to a print-ready PDF, nine cards per A4 page.

A deck argument is either a path to a deck JSON file or the id of a deck in
the configured store. Leave it out to use the store's default deck.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configPath != "" {
			os.Setenv("CAHDECK_CONFIG_PATH", configPath)
		}
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}

		// The CLI stays quiet unless asked.
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(level)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (overrides CAHDECK_CONFIG_PATH)")

	rootCmd.AddCommand(exportCmd, textCmd, previewCmd, qrCmd, comboCmd)
	rootCmd.AddCommand(listCmd, newCmd, addCmd, importCmd, mergeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// deckRef is a deck loaded from a JSON file or from the store. Save writes
// it back to wherever it came from.
type deckRef struct {
	Deck  *deck.Deck
	path  string
	store store.Store
}

func isDeckFile(ref string) bool {
	if strings.EqualFold(filepath.Ext(ref), ".json") {
		return true
	}
	info, err := os.Stat(ref)
	return err == nil && !info.IsDir()
}

func openStore() (store.Store, error) {
	return storage.Open(cfg.Store, logger)
}

// loadDeck resolves a deck argument. The caller must call Close.
func loadDeck(ctx context.Context, ref string) (*deckRef, error) {
	if ref != "" && isDeckFile(ref) {
		fp, err := os.Open(ref)
		if err != nil {
			return nil, err
		}
		defer fp.Close()
		d, err := deck.Read(fp)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ref, err)
		}
		return &deckRef{Deck: d, path: ref}, nil
	}

	s, err := openStore()
	if err != nil {
		return nil, err
	}
	id := ref
	if id == "" {
		if id, err = s.DefaultDeckID(ctx); err != nil {
			s.Close()
			return nil, fmt.Errorf("no deck given and no default deck: %w", err)
		}
	}
	d, err := s.Get(ctx, id)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("deck %s: %w", id, err)
	}
	return &deckRef{Deck: d, store: s}, nil
}

func (r *deckRef) Save(ctx context.Context) error {
	if r.store == nil {
		return writeDeckFile(r.path, r.Deck)
	}
	saved, err := r.store.Save(ctx, r.Deck)
	if err != nil {
		return err
	}
	r.Deck = saved
	return nil
}

func (r *deckRef) Close() error {
	if r.store != nil {
		return r.store.Close()
	}
	return nil
}

func writeDeckFile(path string, d *deck.Deck) error {
	data, err := deck.Marshal(d)
	if err != nil {
		return err
	}
	return writeOutput(path, data)
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
