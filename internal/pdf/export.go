package pdf

import (
	"bytes"
	"errors"
	"io"

	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
	"github.com/youruser/cahdeck/internal/layout"
	"github.com/youruser/cahdeck/internal/util"
)

// ErrEmptySelection is returned when the selected cards of a deck are empty.
var ErrEmptySelection = errors.New("no cards to export")

type Options struct {
	Selection    cards.Selection
	IncludeBacks bool
	Grid         layout.Grid // layout.DefaultGrid when zero
	Logos        layout.LogoResolver
	Logger       *zap.Logger
}

// Stats summarizes a finished export.
type Stats struct {
	Cards int
	Pages int
}

// ExportDeck renders the selected cards of d as a paginated PDF written to w.
// Nothing is written when the selection is empty.
func ExportDeck(w io.Writer, d *deck.Deck, opts Options) (Stats, error) {
	if opts.Selection == "" {
		opts.Selection = cards.All
	}
	g := opts.Grid
	if g.PerPage() <= 0 {
		g = layout.DefaultGrid()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	selected := d.Select(opts.Selection)
	if len(selected) == 0 {
		return Stats{}, ErrEmptySelection
	}

	pages := layout.LayoutPages(selected, g)
	sheets := layout.RenderSheets(pages, g, d.Branding, opts.Logos, opts.IncludeBacks)

	s := NewSurface(g, logger)
	s.SetTitle(d.Branding.Name)
	for _, sh := range sheets {
		s.AddSheet(sh)
	}
	if err := s.Output(w); err != nil {
		return Stats{}, err
	}

	stats := Stats{Cards: len(selected), Pages: s.PageCount()}
	logger.Info("exported deck",
		zap.String("deck", d.Branding.Name),
		zap.String("selection", string(opts.Selection)),
		zap.Int("cards", stats.Cards),
		zap.Int("pages", stats.Pages))
	return stats, nil
}

// ExportDeckFile renders to memory first so that a failed export never leaves
// a partial file behind.
func ExportDeckFile(path string, d *deck.Deck, opts Options) (Stats, error) {
	var buf bytes.Buffer
	stats, err := ExportDeck(&buf, d, opts)
	if err != nil {
		return Stats{}, err
	}
	if err := util.WriteFileAtomic(path, buf.Bytes()); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
