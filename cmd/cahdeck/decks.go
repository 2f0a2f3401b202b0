package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
)

var (
	shortName   string
	fromCatalog bool
	saveToStore bool
	cardKind    string
	cardPick    int
	csvPath     string
	promptsPath string
	answersPath string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the decks in the store",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var newCmd = &cobra.Command{
	Use:   "new [name]",
	Short: "Create an empty deck",
	Long: `Creates a deck in the store, or writes a deck file with -o.

Example:
  cahdeck new "Office Party" --short OP --from-catalog -o office.json`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNew,
}

var addCmd = &cobra.Command{
	Use:   "add [deck] [text]",
	Short: "Add one card to a deck",
	Long: `Adds a card. Prompt cards mark blanks with _____; without --pick the pick
count is the number of blanks.

Example:
  cahdeck add office.json "What's in the fridge? _____." --kind prompt`,
	Args: cobra.ExactArgs(2),
	RunE: runAdd,
}

var importCmd = &cobra.Command{
	Use:   "import [deck]",
	Short: "Import cards from a CSV or from one-card-per-line text files",
	Long: `Imports cards into a deck. A CSV needs a header row with text and kind
columns and may have a pick column. Text files hold one card per line; blank
lines are skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var mergeCmd = &cobra.Command{
	Use:   "merge [base] [deck...]",
	Short: "Merge decks into a new deck under the base deck's branding",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runMerge,
}

func init() {
	newCmd.Flags().StringVar(&shortName, "short", "", "short name printed on cards (max 5 characters)")
	newCmd.Flags().BoolVar(&fromCatalog, "from-catalog", false, "start with the cards of the default catalog")
	newCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write a deck file instead of saving to the store")

	addCmd.Flags().StringVarP(&cardKind, "kind", "k", "answer", "prompt or answer")
	addCmd.Flags().IntVarP(&cardPick, "pick", "p", 0, "answers a prompt takes")

	importCmd.Flags().StringVar(&csvPath, "csv", "", "CSV file with text,kind,pick columns")
	importCmd.Flags().StringVar(&promptsPath, "prompts", "", "text file of prompt cards")
	importCmd.Flags().StringVar(&answersPath, "answers", "", "text file of answer cards")

	mergeCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the merged deck to a file")
	mergeCmd.Flags().BoolVar(&saveToStore, "save", false, "save the merged deck to the store")
}

func runList(cmd *cobra.Command, args []string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	decks, err := s.List(cmd.Context())
	if err != nil {
		return err
	}
	defaultID, _ := s.DefaultDeckID(cmd.Context())

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSHORT\tPROMPTS\tANSWERS\t")
	for _, d := range decks {
		id := d.ID
		if id == defaultID {
			id += " *"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t\n", id, d.Name, d.ShortName, d.PromptCount, d.AnswerCount)
	}
	return w.Flush()
}

func runNew(cmd *cobra.Command, args []string) error {
	d := deck.New(deck.NewBranding(argOrEmpty(args), shortName))
	if fromCatalog {
		cat, err := cards.LoadCatalogFromDataDir(cfg.Catalog.Dir)
		if err != nil {
			return err
		}
		d = deck.FromCatalog(d.Branding, cat)
	}

	if outputPath != "" {
		if err := writeDeckFile(outputPath, d); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d cards)\n", outputPath, d.TotalCards())
		return nil
	}

	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	saved, err := s.Save(cmd.Context(), d)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created deck %s (%d cards)\n", saved.ID, saved.TotalCards())
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	kind, err := cards.ParseKind(cardKind)
	if err != nil {
		return err
	}
	text := strings.TrimSpace(args[1])
	if text == "" {
		return fmt.Errorf("card text is empty")
	}
	pick := cardPick
	if pick == 0 {
		pick = cards.CountBlanks(text)
	}

	ref, err := loadDeck(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer ref.Close()

	ref.Deck.AddCard(text, kind, pick)
	if err := ref.Save(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added %s card; deck now has %d prompts and %d answers\n",
		kind, len(ref.Deck.Prompts), len(ref.Deck.Answers))
	return nil
}

func readLines(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	fp, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fp.Close()

	var lines []string
	sc := bufio.NewScanner(fp)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func readCSV(path string) ([]cards.Card, error) {
	if path == "" {
		return nil, nil
	}
	var r io.Reader = os.Stdin
	if path != "-" {
		fp, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer fp.Close()
		r = fp
	}
	return cards.LoadCSV(r)
}

func runImport(cmd *cobra.Command, args []string) error {
	if csvPath == "" && promptsPath == "" && answersPath == "" {
		return fmt.Errorf("nothing to import: pass --csv, --prompts or --answers")
	}
	imported, err := readCSV(csvPath)
	if err != nil {
		return err
	}
	prompts, err := readLines(promptsPath)
	if err != nil {
		return err
	}
	answers, err := readLines(answersPath)
	if err != nil {
		return err
	}
	imported = append(imported, cards.ParseBatch(prompts, answers)...)

	ref, err := loadDeck(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	defer ref.Close()

	for _, c := range imported {
		ref.Deck.Add(c)
	}
	if err := ref.Save(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Imported %d cards\n", len(imported))
	return nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	if outputPath == "" && !saveToStore {
		return fmt.Errorf("pass -o FILE or --save")
	}
	var decks []*deck.Deck
	for _, arg := range args {
		ref, err := loadDeck(cmd.Context(), arg)
		if err != nil {
			return err
		}
		decks = append(decks, ref.Deck)
		ref.Close()
	}
	merged := deck.Merge(decks[0], decks[1:]...)

	if outputPath != "" {
		if err := writeDeckFile(outputPath, merged); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d cards)\n", outputPath, merged.TotalCards())
	}
	if saveToStore {
		s, err := openStore()
		if err != nil {
			return err
		}
		defer s.Close()
		saved, err := s.Save(cmd.Context(), merged)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created deck %s (%d cards)\n", saved.ID, saved.TotalCards())
	}
	return nil
}
