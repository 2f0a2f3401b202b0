package imagepkg

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/disintegration/imaging"
	"github.com/youruser/cahdeck/internal/layout"
)

// ComposeSheetPreview rasterizes a sheet at scale pixels per point: card
// backgrounds, borders and logos. Text is left out; the PDF is the
// authoritative rendering.
func ComposeSheetPreview(sheet layout.Sheet, g layout.Grid, scale float64) image.Image {
	if scale <= 0 {
		scale = 1
	}
	W := px(g.PageWidth, scale)
	H := px(g.PageHeight, scale)
	canvas := imaging.New(W, H, color.NRGBA{R: 0xee, G: 0xee, B: 0xee, A: 0xff})

	for _, f := range sheet.Faces {
		r := flip(f.X, f.Y, f.W, f.H, g.PageHeight, scale)
		draw.Draw(canvas, r, image.NewUniform(nrgba(f.Stroke)), image.Point{}, draw.Src)
		draw.Draw(canvas, r.Inset(1), image.NewUniform(nrgba(f.Fill)), image.Point{}, draw.Src)

		if f.Logo != nil {
			lr := flip(f.Logo.X, f.Logo.Y, f.Logo.W, f.Logo.H, g.PageHeight, scale)
			if lr.Dx() > 0 && lr.Dy() > 0 {
				l := imaging.Resize(f.Logo.Image, lr.Dx(), lr.Dy(), imaging.Lanczos)
				canvas = imaging.Overlay(canvas, l, lr.Min, 1.0)
			}
		}
	}
	return canvas
}

// PreviewPNG encodes ComposeSheetPreview as PNG.
func PreviewPNG(sheet layout.Sheet, g layout.Grid, scale float64) ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := imaging.Encode(buf, ComposeSheetPreview(sheet, g, scale), imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// flip converts a lower-left origin box in points to a pixel rectangle.
func flip(x, y, w, h, pageH, scale float64) image.Rectangle {
	top := pageH - (y + h)
	return image.Rect(px(x, scale), px(top, scale), px(x+w, scale), px(top+h, scale))
}

func px(v, scale float64) int {
	return int(math.Round(v * scale))
}

func nrgba(c layout.Color) color.NRGBA {
	return color.NRGBA{
		R: uint8(math.Round(c.R * 255)),
		G: uint8(math.Round(c.G * 255)),
		B: uint8(math.Round(c.B * 255)),
		A: 0xff,
	}
}
