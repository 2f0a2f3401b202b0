package layout

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
)

type mapResolver map[string]image.Image

func (m mapResolver) Resolve(ref string) (image.Image, error) {
	img, ok := m[ref]
	if !ok {
		return nil, errors.New("no such logo")
	}
	return img, nil
}

func testBranding() deck.Branding {
	return deck.NewBranding("Test Deck", "tst")
}

func numbered(n int) []cards.Card {
	out := make([]cards.Card, n)
	for i := range out {
		out[i] = cards.New(fmt.Sprintf("card %d", i), cards.Answer, 1)
	}
	return out
}

func TestWrap(t *testing.T) {
	text := "A judgmental cat that is surprisingly large"
	lines := Wrap(text, 22)
	require.Equal(t, []string{"A judgmental cat that", "is surprisingly large"}, lines)
	for _, l := range lines {
		require.LessOrEqual(t, len(l), 22)
	}
	require.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
}

func TestWrap_EdgeCases(t *testing.T) {
	require.Empty(t, Wrap("", 22))
	require.Empty(t, Wrap("  \n\t ", 22))
	require.Equal(t, []string{"short", "Pneumonoultramicroscopicsilicovolcanoconiosis", "end"},
		Wrap("short Pneumonoultramicroscopicsilicovolcanoconiosis end", 22))
	require.Equal(t, []string{"exactly ten"}, Wrap("exactly   ten", 11))
	require.Equal(t, []string{"exactly", "ten"}, Wrap("exactly ten", 10))
}

func TestWrap_Budget(t *testing.T) {
	texts := []string{
		"The quick brown fox jumps over the lazy dog while everyone watches in awe",
		"supercalifragilisticexpialidocious is a long word indeed",
		"Çà et là, des élèves étourdis répètent leurs leçons à voix haute",
		"a b c d e f g h i j k l m n o p q r s t u v w x y z",
	}
	for _, text := range texts {
		for _, limit := range []int{5, 10, 22, 40} {
			lines := Wrap(text, limit)
			for _, l := range lines {
				if utf8.RuneCountInString(l) > limit {
					require.NotContains(t, l, " ", "over-long line must be a single word")
				}
			}
			require.Equal(t, strings.Fields(text), strings.Fields(strings.Join(lines, " ")))
			// pure: same input, same output
			require.Equal(t, lines, Wrap(text, limit))
		}
	}
}

func TestBodyFontSize(t *testing.T) {
	require.Equal(t, LargeFontSize, BodyFontSize(0))
	require.Equal(t, LargeFontSize, BodyFontSize(4))
	require.Equal(t, SmallFontSize, BodyFontSize(5))
}

func TestLayoutPages_PageBreaks(t *testing.T) {
	g := DefaultGrid()
	pages := LayoutPages(numbered(20), g)
	require.Len(t, pages, 3)
	require.Len(t, pages[0].Placements, 9)
	require.Len(t, pages[1].Placements, 9)
	require.Len(t, pages[2].Placements, 2)

	first := pages[1].Placements[0]
	require.Equal(t, 9, first.Index)
	require.Equal(t, 0, first.Row)
	require.Equal(t, 0, first.Col)
	require.Equal(t, "card 9", first.Card.Text)
	require.Equal(t, 2, pages[1].Number)

	x0, y0 := g.Origin()
	require.Equal(t, x0, first.X)
	require.Equal(t, y0, first.Y)
}

func TestLayoutPages_Geometry(t *testing.T) {
	g := DefaultGrid()
	x0, y0 := g.Origin()
	require.InDelta(t, (A4Width-(3*CardWidth+2*CardMargin))/2, x0, 1e-9)
	require.InDelta(t, A4Height-PageMargin-CardHeight, y0, 1e-9)

	pages := LayoutPages(numbered(9), g)
	require.Len(t, pages, 1)
	for i, p := range pages[0].Placements {
		require.Equal(t, i/3, p.Row)
		require.Equal(t, i%3, p.Col)
		require.InDelta(t, x0+float64(p.Col)*(CardWidth+CardMargin), p.X, 1e-9)
		require.InDelta(t, y0-float64(p.Row)*(CardHeight+CardMargin), p.Y, 1e-9)
		// every card stays on the page
		require.GreaterOrEqual(t, p.X, 0.0)
		require.GreaterOrEqual(t, p.Y, 0.0)
		require.LessOrEqual(t, p.X+CardWidth, A4Width)
	}
}

func TestLayoutPages_ScenarioPromptsThenAnswers(t *testing.T) {
	d := deck.New(testBranding())
	d.AddCard("prompt1", cards.Prompt, 1)
	d.AddCard("prompt2 _____ _____", cards.Prompt, 2)
	d.AddCard("answer1", cards.Answer, 1)
	d.AddCard("answer2", cards.Answer, 1)
	d.AddCard("answer3", cards.Answer, 1)

	pages := LayoutPages(d.Select(cards.All), DefaultGrid())
	require.Len(t, pages, 1)
	pl := pages[0].Placements
	require.Len(t, pl, 5)

	var order []string
	var pos [][2]int
	for _, p := range pl {
		order = append(order, p.Card.Text)
		pos = append(pos, [2]int{p.Row, p.Col})
	}
	require.Equal(t, []string{"prompt1", "prompt2 _____ _____", "answer1", "answer2", "answer3"}, order)
	require.Equal(t, [][2]int{{0, 0}, {0, 1}, {0, 2}, {1, 0}, {1, 1}}, pos)
}

func TestLayoutPages_EmptyAndDeterministic(t *testing.T) {
	require.Empty(t, LayoutPages(nil, DefaultGrid()))
	require.Empty(t, LayoutPages(numbered(3), Grid{}))

	cs := numbered(31)
	g := Grid{Cols: 4, Rows: 2, PageWidth: 800, PageHeight: 600, CardWidth: 100, CardHeight: 150, CardMargin: 10, PageMargin: 20}
	a := LayoutPages(cs, g)
	b := LayoutPages(cs, g)
	require.Equal(t, a, b)
	require.Len(t, a, 4)
	require.Len(t, a[3].Placements, 7)
	require.Equal(t, 1, a[3].Placements[5].Row)
	require.Equal(t, 1, a[3].Placements[5].Col)
}

func TestMirrorBacks(t *testing.T) {
	g := DefaultGrid()
	pages := LayoutPages(numbered(4), g)
	back := MirrorBacks(pages[0], g)
	require.Len(t, back.Placements, 4)

	cols := []int{}
	for _, p := range back.Placements {
		cols = append(cols, p.Col)
	}
	require.Equal(t, []int{2, 1, 0, 2}, cols)

	x, y := g.Slot(1, 2)
	require.Equal(t, x, back.Placements[3].X)
	require.Equal(t, y, back.Placements[3].Y)
	// the front page is untouched
	require.Equal(t, 0, pages[0].Placements[0].Col)
}

func findText(f Face, s string) (Text, bool) {
	for _, t := range f.Texts {
		if t.Text == s {
			return t, true
		}
	}
	return Text{}, false
}

func TestRenderCard_Colors(t *testing.T) {
	b := testBranding()
	prompt := RenderCard(cards.New("Why?", cards.Prompt, 1), b, 10, 20, nil)
	require.Equal(t, Black, prompt.Fill)
	for _, tx := range prompt.Texts {
		require.Equal(t, White, tx.Color)
	}

	answer := RenderCard(cards.New("Because.", cards.Answer, 1), b, 10, 20, nil)
	require.Equal(t, White, answer.Fill)
	for _, tx := range answer.Texts {
		require.Equal(t, Black, tx.Color)
	}
	require.Equal(t, CardWidth, answer.W)
	require.Equal(t, CardHeight, answer.H)
	require.Equal(t, CornerRadius, answer.Radius)
}

func TestRenderCard_TextLayout(t *testing.T) {
	b := testBranding()
	x, y := 100.0, 200.0

	f := RenderCard(cards.New("A judgmental cat that is surprisingly large", cards.Answer, 1), b, x, y, nil)
	name, ok := findText(f, "Test Deck")
	require.True(t, ok)
	require.Equal(t, AlignCenter, name.Align)
	require.Equal(t, x+CardWidth/2, name.X)
	require.Equal(t, y+CardHeight-CardPadding-DeckNameSize, name.Y)

	l1, ok := findText(f, "A judgmental cat that")
	require.True(t, ok)
	l2, ok := findText(f, "is surprisingly large")
	require.True(t, ok)
	require.Equal(t, LargeFontSize, l1.Size)
	require.Equal(t, x+CardPadding, l1.X)
	require.Equal(t, y+CardHeight-TextTopOffset, l1.Y)
	require.InDelta(t, LargeFontSize+LineSpacing, l1.Y-l2.Y, 1e-9)

	long := strings.Repeat("word ", 25)
	f = RenderCard(cards.New(long, cards.Answer, 1), b, x, y, nil)
	l, ok := findText(f, "word word word word")
	require.True(t, ok)
	require.Equal(t, SmallFontSize, l.Size)
}

func TestRenderCard_PickBadge(t *testing.T) {
	b := testBranding()
	f := RenderCard(cards.New("_____ and _____", cards.Prompt, 2), b, 0, 0, nil)
	badge, ok := findText(f, "PICK 2")
	require.True(t, ok)
	require.Equal(t, CardPadding, badge.X)
	require.Equal(t, CardPadding, badge.Y)

	f = RenderCard(cards.New("Why?", cards.Prompt, 1), b, 0, 0, nil)
	_, ok = findText(f, "PICK 1")
	require.False(t, ok)

	// answers never get a badge, whatever their pick says
	f = RenderCard(cards.Card{Text: "x", Kind: cards.Answer, Pick: 3}, b, 0, 0, nil)
	_, ok = findText(f, "PICK 3")
	require.False(t, ok)
}

func TestRenderCard_LogoFallback(t *testing.T) {
	b := testBranding()
	b.DarkLogo = "missing.png"

	f := RenderCard(cards.New("Why?", cards.Prompt, 1), b, 0, 0, mapResolver{})
	require.Nil(t, f.Logo)
	short, ok := findText(f, "TST")
	require.True(t, ok)
	require.Equal(t, AlignRight, short.Align)
	require.Equal(t, CardWidth-CardPadding, short.X)

	// no reference at all
	f = RenderCard(cards.New("Because.", cards.Answer, 1), b, 0, 0, mapResolver{"missing.png": image.NewRGBA(image.Rect(0, 0, 4, 4))})
	require.Nil(t, f.Logo)
	_, ok = findText(f, "TST")
	require.True(t, ok)
}

func TestRenderCard_LogoFitsSquare(t *testing.T) {
	b := testBranding()
	b.LightLogo = "wide.png"
	logos := mapResolver{"wide.png": image.NewRGBA(image.Rect(0, 0, 200, 100))}

	f := RenderCard(cards.New("Because.", cards.Answer, 1), b, 0, 0, logos)
	require.NotNil(t, f.Logo)
	_, ok := findText(f, "TST")
	require.False(t, ok)

	require.InDelta(t, LogoSize, f.Logo.W, 1e-9)
	require.InDelta(t, LogoSize/2, f.Logo.H, 1e-9)
	require.InDelta(t, CardWidth-CardPadding-LogoSize, f.Logo.X, 1e-9)
	require.InDelta(t, CardPadding+LogoSize/4, f.Logo.Y, 1e-9)
	assert.Equal(t, "wide.png", f.Logo.Ref)
}

func TestRenderBack(t *testing.T) {
	b := testBranding()
	f := RenderBack(cards.Prompt, b, 0, 0, nil)
	require.Equal(t, Black, f.Fill)
	name, ok := findText(f, "TST")
	require.True(t, ok)
	require.Equal(t, BackNameSize, name.Size)
	require.Nil(t, f.Logo)

	b.LightLogo = "sq.png"
	f = RenderBack(cards.Answer, b, 0, 0, mapResolver{"sq.png": image.NewRGBA(image.Rect(0, 0, 10, 10))})
	require.NotNil(t, f.Logo)
	require.InDelta(t, BackLogoSize, f.Logo.W, 1e-9)
	name, ok = findText(f, "TST")
	require.True(t, ok)
	require.Equal(t, BackCaptionSize, name.Size)
	require.Less(t, name.Y, f.Logo.Y)
}

func TestRenderSheets(t *testing.T) {
	g := DefaultGrid()
	pages := LayoutPages(numbered(11), g)

	sheets := RenderSheets(pages, g, testBranding(), nil, false)
	require.Len(t, sheets, 2)
	require.Len(t, sheets[0].Faces, 9)
	require.Len(t, sheets[1].Faces, 2)

	sheets = RenderSheets(pages, g, testBranding(), nil, true)
	require.Len(t, sheets, 4)
	require.False(t, sheets[0].Back)
	require.True(t, sheets[1].Back)
	require.Equal(t, 4, sheets[3].Number)
	require.Len(t, sheets[3].Faces, 2)

	xFront, _ := g.Slot(0, 0)
	xBack, _ := g.Slot(0, 2)
	require.Equal(t, xFront, sheets[2].Faces[0].X)
	require.Equal(t, xBack, sheets[3].Faces[0].X)
}
