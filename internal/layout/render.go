package layout

import (
	"fmt"
	"image"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
)

const (
	WrapChars = 22

	LargeFontSize   = 11.0
	SmallFontSize   = 9.0
	MaxLargeLines   = 4
	LineSpacing     = 3.0
	DeckNameSize    = 7.0
	CornerTextSize  = 8.0
	TextTopOffset   = 20 * MM
	BackLogoSize    = 60.0
	BackNameSize    = 16.0
	BackCaptionSize = 10.0
)

// Color is an RGB triple with components in [0, 1].
type Color struct {
	R, G, B float64
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
	Grey  = Color{0.5, 0.5, 0.5}
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Text is a single line of text. X is the left edge, centre or right edge
// depending on Align; Y is the baseline.
type Text struct {
	Text  string
	X, Y  float64
	Size  float64
	Bold  bool
	Align Align
	Color Color
}

// Logo is a decoded image placed in the box X, Y, W, H.
type Logo struct {
	Ref        string
	Image      image.Image
	X, Y, W, H float64
}

// Face is everything drawn for one side of one card.
type Face struct {
	X, Y, W, H float64
	Radius     float64
	Fill       Color
	Stroke     Color
	Texts      []Text
	Logo       *Logo
}

// LogoResolver turns a logo reference into a decoded image.
type LogoResolver interface {
	Resolve(ref string) (image.Image, error)
}

func colors(kind cards.Kind) (bg, fg Color) {
	if kind == cards.Prompt {
		return Black, White
	}
	return White, Black
}

// BodyFontSize picks the body font size for a wrapped card text.
func BodyFontSize(lines int) float64 {
	if lines <= MaxLargeLines {
		return LargeFontSize
	}
	return SmallFontSize
}

// RenderCard lays out the front face of a card whose lower-left corner is at
// x, y. A logo that cannot be resolved is replaced by the short name.
func RenderCard(c cards.Card, b deck.Branding, x, y float64, logos LogoResolver) Face {
	bg, fg := colors(c.Kind)
	f := Face{
		X: x, Y: y, W: CardWidth, H: CardHeight,
		Radius: CornerRadius,
		Fill:   bg,
		Stroke: Grey,
	}

	f.Texts = append(f.Texts, Text{
		Text:  b.Name,
		X:     x + CardWidth/2,
		Y:     y + CardHeight - CardPadding - DeckNameSize,
		Size:  DeckNameSize,
		Bold:  true,
		Align: AlignCenter,
		Color: fg,
	})

	lines := Wrap(c.Text, WrapChars)
	size := BodyFontSize(len(lines))
	top := y + CardHeight - TextTopOffset
	for i, line := range lines {
		f.Texts = append(f.Texts, Text{
			Text:  line,
			X:     x + CardPadding,
			Y:     top - float64(i)*(size+LineSpacing),
			Size:  size,
			Bold:  true,
			Color: fg,
		})
	}

	boxX := x + CardWidth - CardPadding - LogoSize
	boxY := y + CardPadding
	if logo := resolveLogo(logos, b.LogoFor(c.Kind == cards.Prompt), boxX, boxY, LogoSize); logo != nil {
		f.Logo = logo
	} else {
		f.Texts = append(f.Texts, Text{
			Text:  b.ShortName,
			X:     x + CardWidth - CardPadding,
			Y:     y + CardPadding,
			Size:  CornerTextSize,
			Bold:  true,
			Align: AlignRight,
			Color: fg,
		})
	}

	if c.Kind == cards.Prompt && c.Pick > 1 {
		f.Texts = append(f.Texts, Text{
			Text:  fmt.Sprintf("PICK %d", c.Pick),
			X:     x + CardPadding,
			Y:     y + CardPadding,
			Size:  CornerTextSize,
			Bold:  true,
			Color: fg,
		})
	}
	return f
}

// RenderBack lays out the back face for cards of the given kind: the logo
// centred with the short name beneath, or the short name alone.
func RenderBack(kind cards.Kind, b deck.Branding, x, y float64, logos LogoResolver) Face {
	bg, fg := colors(kind)
	f := Face{
		X: x, Y: y, W: CardWidth, H: CardHeight,
		Radius: CornerRadius,
		Fill:   bg,
		Stroke: Grey,
	}

	cx := x + CardWidth/2
	cy := y + CardHeight/2
	boxX := cx - BackLogoSize/2
	boxY := cy - BackLogoSize/2 + 10
	if logo := resolveLogo(logos, b.LogoFor(kind == cards.Prompt), boxX, boxY, BackLogoSize); logo != nil {
		f.Logo = logo
		f.Texts = append(f.Texts, Text{
			Text:  b.ShortName,
			X:     cx,
			Y:     boxY - BackCaptionSize - 4,
			Size:  BackCaptionSize,
			Bold:  true,
			Align: AlignCenter,
			Color: fg,
		})
		return f
	}
	f.Texts = append(f.Texts, Text{
		Text:  b.ShortName,
		X:     cx,
		Y:     cy - BackNameSize/3,
		Size:  BackNameSize,
		Bold:  true,
		Align: AlignCenter,
		Color: fg,
	})
	return f
}

// resolveLogo fits the referenced image into a size x size box, centred,
// keeping its aspect ratio. It returns nil when there is nothing to draw.
func resolveLogo(logos LogoResolver, ref string, boxX, boxY, size float64) *Logo {
	if ref == "" || logos == nil {
		return nil
	}
	img, err := logos.Resolve(ref)
	if err != nil || img == nil {
		return nil
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil
	}
	w, h := float64(bounds.Dx()), float64(bounds.Dy())
	scale := min(size/w, size/h)
	w, h = w*scale, h*scale
	return &Logo{
		Ref:   ref,
		Image: img,
		X:     boxX + (size-w)/2,
		Y:     boxY + (size-h)/2,
		W:     w,
		H:     h,
	}
}
