package layout

// All geometry is in PDF points with the origin at the lower-left corner of
// the page.

// MM is one millimetre in points.
const MM = 72.0 / 25.4

const (
	CardWidth    = 58 * MM
	CardHeight   = 88 * MM
	CardMargin   = 5 * MM
	CardPadding  = 4 * MM
	CornerRadius = 3 * MM
	PageMargin   = 10 * MM
	LogoSize     = 15 * MM

	A4Width  = 210 * MM
	A4Height = 297 * MM

	CardsPerRow = 3
	CardsPerCol = 3
)

// Grid describes how cards are tiled on a page.
type Grid struct {
	Cols, Rows int
	PageWidth  float64
	PageHeight float64
	CardWidth  float64
	CardHeight float64
	CardMargin float64
	PageMargin float64
}

// DefaultGrid is a 3x3 grid of 58x88mm cards on A4 portrait.
func DefaultGrid() Grid {
	return Grid{
		Cols:       CardsPerRow,
		Rows:       CardsPerCol,
		PageWidth:  A4Width,
		PageHeight: A4Height,
		CardWidth:  CardWidth,
		CardHeight: CardHeight,
		CardMargin: CardMargin,
		PageMargin: PageMargin,
	}
}

// PerPage is the number of cards a page holds.
func (g Grid) PerPage() int {
	return g.Cols * g.Rows
}

// Origin is the lower-left corner of the top-left card: the grid is centred
// horizontally and hangs from the top page margin.
func (g Grid) Origin() (x, y float64) {
	gridWidth := float64(g.Cols)*g.CardWidth + float64(g.Cols-1)*g.CardMargin
	x = (g.PageWidth - gridWidth) / 2
	y = g.PageHeight - g.PageMargin - g.CardHeight
	return x, y
}

// Slot returns the lower-left corner of the card at row, col.
func (g Grid) Slot(row, col int) (x, y float64) {
	x0, y0 := g.Origin()
	return x0 + float64(col)*(g.CardWidth+g.CardMargin),
		y0 - float64(row)*(g.CardHeight+g.CardMargin)
}
