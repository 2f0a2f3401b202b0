package pdf

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/disintegration/imaging"
	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/layout"
)

const fontFamily = "Helvetica"

// Surface draws layout faces onto an fpdf document. Layout works with a
// lower-left origin; fpdf with an upper-left one, so every y is flipped here.
// A Surface belongs to a single export.
type Surface struct {
	doc    *fpdf.Fpdf
	pageH  float64
	tr     func(string) string
	images map[string]string
	logger *zap.Logger
}

func NewSurface(g layout.Grid, logger *zap.Logger) *Surface {
	if logger == nil {
		logger = zap.NewNop()
	}
	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: g.PageWidth, Ht: g.PageHeight},
	})
	doc.SetAutoPageBreak(false, 0)
	doc.SetMargins(0, 0, 0)
	doc.SetCreator("cahdeck", true)
	return &Surface{
		doc:    doc,
		pageH:  g.PageHeight,
		tr:     doc.UnicodeTranslatorFromDescriptor(""),
		images: map[string]string{},
		logger: logger,
	}
}

// SetTitle records the document title.
func (s *Surface) SetTitle(title string) {
	s.doc.SetTitle(title, true)
}

// AddSheet starts a new page and draws every face of the sheet on it.
func (s *Surface) AddSheet(sh layout.Sheet) {
	s.doc.AddPage()
	for _, f := range sh.Faces {
		s.DrawFace(f)
	}
}

func (s *Surface) DrawFace(f layout.Face) {
	s.doc.SetLineWidth(0.5)
	s.doc.SetFillColor(rgb(f.Fill))
	s.doc.SetDrawColor(rgb(f.Stroke))
	s.doc.RoundedRect(f.X, s.pageH-(f.Y+f.H), f.W, f.H, f.Radius, "1234", "FD")

	for _, t := range f.Texts {
		s.drawText(t)
	}
	if f.Logo != nil {
		s.drawLogo(f.Logo)
	}
}

func (s *Surface) drawText(t layout.Text) {
	style := ""
	if t.Bold {
		style = "B"
	}
	s.doc.SetFont(fontFamily, style, t.Size)
	s.doc.SetTextColor(rgb(t.Color))

	text := s.tr(t.Text)
	x := t.X
	switch t.Align {
	case layout.AlignCenter:
		x -= s.doc.GetStringWidth(text) / 2
	case layout.AlignRight:
		x -= s.doc.GetStringWidth(text)
	}
	s.doc.Text(x, s.pageH-t.Y, text)
}

func (s *Surface) drawLogo(l *layout.Logo) {
	name, ok := s.images[l.Ref]
	if !ok {
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, l.Image, imaging.PNG); err != nil {
			s.logger.Warn("skipping logo that cannot be encoded", zap.String("logo", l.Ref), zap.Error(err))
			return
		}
		name = fmt.Sprintf("logo%d", len(s.images))
		s.doc.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, &buf)
		s.images[l.Ref] = name
	}
	s.doc.ImageOptions(name, l.X, s.pageH-(l.Y+l.H), l.W, l.H, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
}

// Output finishes the document and writes it to w.
func (s *Surface) Output(w io.Writer) error {
	if err := s.doc.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	if err := s.doc.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

// PageCount returns the number of pages drawn so far.
func (s *Surface) PageCount() int {
	return s.doc.PageCount()
}

func rgb(c layout.Color) (int, int, int) {
	return channel(c.R), channel(c.G), channel(c.B)
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
