package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/api"
	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
	imagepkg "github.com/youruser/cahdeck/internal/image"
	"github.com/youruser/cahdeck/internal/layout"
	"github.com/youruser/cahdeck/internal/pdf"
	"github.com/youruser/cahdeck/internal/util"
)

var (
	outputPath   string
	selection    string
	includeBacks bool
	previewPage  int
	previewScale float64
	qrSize       int
	comboCount   int
)

var exportCmd = &cobra.Command{
	Use:   "export [deck]",
	Short: "Render a deck to a printable PDF",
	Long: `Lays the selected cards out nine per A4 page and writes a PDF.

Example:
  cahdeck export my-deck.json -o my-deck.pdf --selection prompts --backs`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var textCmd = &cobra.Command{
	Use:   "text [deck]",
	Short: "Write a deck as a plain-text card list",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runText,
}

var previewCmd = &cobra.Command{
	Use:   "preview [deck]",
	Short: "Render one PDF page as a PNG (backgrounds and logos only)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPreview,
}

var qrCmd = &cobra.Command{
	Use:   "qr [deck-id]",
	Short: "Write a QR code PNG linking to a stored deck",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runQR,
}

var comboCmd = &cobra.Command{
	Use:   "combo [deck]",
	Short: "Draw random prompt and answer combinations",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runCombo,
}

func init() {
	for _, cmd := range []*cobra.Command{exportCmd, textCmd, previewCmd, qrCmd} {
		cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file (- for stdout)")
	}
	for _, cmd := range []*cobra.Command{exportCmd, textCmd, previewCmd} {
		cmd.Flags().StringVarP(&selection, "selection", "s", "all", "cards to include: all, prompts or answers")
	}
	for _, cmd := range []*cobra.Command{exportCmd, previewCmd} {
		cmd.Flags().BoolVar(&includeBacks, "backs", false, "add a mirrored page of card backs after each page")
	}
	previewCmd.Flags().IntVar(&previewPage, "page", 1, "page to render, counting back pages")
	previewCmd.Flags().Float64Var(&previewScale, "scale", 2, "pixels per PDF point")
	qrCmd.Flags().IntVar(&qrSize, "size", 400, "image size in pixels")
	comboCmd.Flags().IntVarP(&comboCount, "count", "n", 1, "number of combos to draw")
}

// writeOutput writes data to path, or to stdout for "-".
func writeOutput(path string, data []byte) error {
	if path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return util.WriteFileAtomic(path, data)
}

func defaultOutput(d *deck.Deck, ext string) string {
	if outputPath != "" {
		return outputPath
	}
	return api.DeckFileName(d, ext)
}

func runExport(cmd *cobra.Command, args []string) error {
	sel, err := cards.ParseSelection(selection)
	if err != nil {
		return err
	}
	ref, err := loadDeck(cmd.Context(), argOrEmpty(args))
	if err != nil {
		return err
	}
	defer ref.Close()

	backs := includeBacks || (!cmd.Flags().Changed("backs") && cfg.Export.IncludeBacks)
	opts := pdf.Options{
		Selection:    sel,
		IncludeBacks: backs,
		Logos:        imagepkg.NewResolver(cfg.Export.LogoDir, logger),
		Logger:       logger,
	}
	out := defaultOutput(ref.Deck, ".pdf")
	if out == "-" {
		stats, err := pdf.ExportDeck(cmd.OutOrStdout(), ref.Deck, opts)
		if err != nil {
			return err
		}
		logger.Debug("wrote pdf to stdout", zap.Int("cards", stats.Cards), zap.Int("pages", stats.Pages))
		return nil
	}
	stats, err := pdf.ExportDeckFile(out, ref.Deck, opts)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s: %d cards on %d pages\n", out, stats.Cards, stats.Pages)
	return nil
}

func runText(cmd *cobra.Command, args []string) error {
	sel, err := cards.ParseSelection(selection)
	if err != nil {
		return err
	}
	ref, err := loadDeck(cmd.Context(), argOrEmpty(args))
	if err != nil {
		return err
	}
	defer ref.Close()

	if len(ref.Deck.Select(sel)) == 0 {
		return pdf.ErrEmptySelection
	}
	text := deck.ExportText(ref.Deck, sel)
	if outputPath == "" || outputPath == "-" {
		_, err = fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	return writeOutput(outputPath, []byte(text))
}

func runPreview(cmd *cobra.Command, args []string) error {
	sel, err := cards.ParseSelection(selection)
	if err != nil {
		return err
	}
	ref, err := loadDeck(cmd.Context(), argOrEmpty(args))
	if err != nil {
		return err
	}
	defer ref.Close()

	selected := ref.Deck.Select(sel)
	if len(selected) == 0 {
		return pdf.ErrEmptySelection
	}
	g := layout.DefaultGrid()
	logos := imagepkg.NewResolver(cfg.Export.LogoDir, logger)
	sheets := layout.RenderSheets(layout.LayoutPages(selected, g), g, ref.Deck.Branding, logos, includeBacks)
	if previewPage < 1 || previewPage > len(sheets) {
		return fmt.Errorf("page %d out of range (1-%d)", previewPage, len(sheets))
	}
	png, err := imagepkg.PreviewPNG(sheets[previewPage-1], g, previewScale)
	if err != nil {
		return err
	}
	out := outputPath
	if out == "" {
		out = fmt.Sprintf("%s-page%d.png", api.DeckFileName(ref.Deck, ""), previewPage)
	}
	logger.Debug("rendered preview", zap.String("output", out), zap.Int("page", previewPage))
	return writeOutput(out, png)
}

func runQR(cmd *cobra.Command, args []string) error {
	ref, err := loadDeck(cmd.Context(), argOrEmpty(args))
	if err != nil {
		return err
	}
	defer ref.Close()
	if ref.Deck.ID == "" {
		return fmt.Errorf("deck has no id; save it to the store first")
	}

	png, err := imagepkg.GenerateQRPNG(api.DeckLink(ref.Deck.ID), qrSize)
	if err != nil {
		return err
	}
	return writeOutput(defaultOutput(ref.Deck, "-qr.png"), png)
}

func runCombo(cmd *cobra.Command, args []string) error {
	ref, err := loadDeck(cmd.Context(), argOrEmpty(args))
	if err != nil {
		return err
	}
	defer ref.Close()

	for i := 0; i < comboCount; i++ {
		combo, err := cards.RandomCombo(nil, ref.Deck.Prompts, ref.Deck.Answers)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), combo.Text)
	}
	return nil
}
