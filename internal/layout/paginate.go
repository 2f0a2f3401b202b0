package layout

import (
	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
)

// Placement is a card positioned on a page. Index is the card's position in
// the input sequence.
type Placement struct {
	Card     cards.Card
	Index    int
	Row, Col int
	X, Y     float64
}

type Page struct {
	Number     int // 1-based
	Placements []Placement
}

// LayoutPages tiles cards onto pages in input order, left to right then top
// to bottom, starting a new page every g.PerPage() cards. No cards (or a
// grid without slots) yields no pages.
func LayoutPages(cs []cards.Card, g Grid) []Page {
	perPage := g.PerPage()
	if perPage <= 0 || len(cs) == 0 {
		return nil
	}

	var pages []Page
	for i, c := range cs {
		if i%perPage == 0 {
			pages = append(pages, Page{
				Number:     len(pages) + 1,
				Placements: make([]Placement, 0, min(perPage, len(cs)-i)),
			})
		}
		slot := i % perPage
		row, col := slot/g.Cols, slot%g.Cols
		x, y := g.Slot(row, col)
		p := &pages[len(pages)-1]
		p.Placements = append(p.Placements, Placement{
			Card:  c,
			Index: i,
			Row:   row,
			Col:   col,
			X:     x,
			Y:     y,
		})
	}
	return pages
}

// MirrorBacks returns the back side of a page: same rows, columns reversed,
// so that duplex printing puts each back behind its front.
func MirrorBacks(p Page, g Grid) Page {
	out := Page{Number: p.Number, Placements: make([]Placement, len(p.Placements))}
	for i, pl := range p.Placements {
		pl.Col = g.Cols - 1 - pl.Col
		pl.X, pl.Y = g.Slot(pl.Row, pl.Col)
		out.Placements[i] = pl
	}
	return out
}

// Sheet is one printed page worth of faces.
type Sheet struct {
	Number int
	Back   bool
	Faces  []Face
}

// RenderSheets renders each page's card fronts and, when backs is set, a
// mirrored sheet of card backs right after it.
func RenderSheets(pages []Page, g Grid, b deck.Branding, logos LogoResolver, backs bool) []Sheet {
	var sheets []Sheet
	for _, p := range pages {
		front := Sheet{Number: len(sheets) + 1, Faces: make([]Face, 0, len(p.Placements))}
		for _, pl := range p.Placements {
			front.Faces = append(front.Faces, RenderCard(pl.Card, b, pl.X, pl.Y, logos))
		}
		sheets = append(sheets, front)
		if !backs {
			continue
		}
		mirrored := MirrorBacks(p, g)
		back := Sheet{Number: len(sheets) + 1, Back: true, Faces: make([]Face, 0, len(p.Placements))}
		for _, pl := range mirrored.Placements {
			back.Faces = append(back.Faces, RenderBack(pl.Card.Kind, b, pl.X, pl.Y, logos))
		}
		sheets = append(sheets, back)
	}
	return sheets
}
