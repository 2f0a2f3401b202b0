package imagepkg

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/require"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
	"github.com/youruser/cahdeck/internal/layout"
)

func writeLogo(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	img := imaging.New(w, h, color.NRGBA{R: 200, A: 255})
	require.NoError(t, imaging.Save(img, path))
	return path
}

func TestResolver_File(t *testing.T) {
	dir := t.TempDir()
	writeLogo(t, dir, "logo.png", 30, 20)

	r := NewResolver(dir, nil)
	img, err := r.Resolve("logo.png")
	require.NoError(t, err)
	require.Equal(t, 30, img.Bounds().Dx())
	require.Equal(t, 20, img.Bounds().Dy())

	abs := filepath.Join(dir, "logo.png")
	img, err = r.Resolve(abs)
	require.NoError(t, err)
	require.NotNil(t, img)
}

func TestResolver_MissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.png"), []byte("not a png"), 0o644))

	r := NewResolver(dir, nil)
	_, err := r.Resolve("nope.png")
	require.Error(t, err)
	_, err = r.Resolve("broken.png")
	require.Error(t, err)
	_, err = r.Resolve("  ")
	require.Error(t, err)

	// failures are remembered
	writeLogo(t, dir, "nope.png", 4, 4)
	_, err = r.Resolve("nope.png")
	require.Error(t, err)
}

func TestResolver_URL(t *testing.T) {
	var png bytes.Buffer
	require.NoError(t, imaging.Encode(&png, imaging.New(8, 8, color.NRGBA{B: 255, A: 255}), imaging.PNG))

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		if req.URL.Path != "/logo.png" {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Write(png.Bytes())
	}))
	defer srv.Close()

	r := NewResolver("", nil)
	img, err := r.Resolve(srv.URL + "/logo.png")
	require.NoError(t, err)
	require.Equal(t, 8, img.Bounds().Dx())
	_, err = r.Resolve(srv.URL + "/logo.png")
	require.NoError(t, err)
	require.Equal(t, int32(1), hits.Load())

	_, err = r.Resolve(srv.URL + "/missing.png")
	require.Error(t, err)
}

func TestResolver_DownloadStub(t *testing.T) {
	r := NewResolver("", nil)
	r.download = func(string) (image.Image, error) { return nil, errors.New("offline") }
	_, err := r.Resolve("https://example.invalid/logo.png")
	require.EqualError(t, err, "offline")
}

func TestRenderCard_WithMissingLogoFile(t *testing.T) {
	b := deck.NewBranding("Deck", "dk")
	b.DarkLogo = "does/not/exist.png"
	f := layout.RenderCard(cards.New("Why?", cards.Prompt, 1), b, 0, 0, NewResolver(t.TempDir(), nil))
	require.Nil(t, f.Logo)

	found := false
	for _, tx := range f.Texts {
		if tx.Text == "DK" {
			found = true
		}
	}
	require.True(t, found)
}

func TestComposeSheetPreview(t *testing.T) {
	dir := t.TempDir()
	writeLogo(t, dir, "light.png", 40, 40)

	b := deck.NewBranding("Deck", "dk")
	b.LightLogo = "light.png"
	g := layout.DefaultGrid()
	cs := []cards.Card{cards.New("Why?", cards.Prompt, 1), cards.New("Because.", cards.Answer, 1)}
	sheets := layout.RenderSheets(layout.LayoutPages(cs, g), g, b, NewResolver(dir, nil), false)
	require.Len(t, sheets, 1)

	img := ComposeSheetPreview(sheets[0], g, 1)
	require.Equal(t, px(g.PageWidth, 1), img.Bounds().Dx())
	require.Equal(t, px(g.PageHeight, 1), img.Bounds().Dy())

	prompt := sheets[0].Faces[0]
	c := flip(prompt.X, prompt.Y, prompt.W, prompt.H, g.PageHeight, 1)
	mid := image.Pt((c.Min.X+c.Max.X)/2, (c.Min.Y+c.Max.Y)/2)
	require.Equal(t, color.NRGBAModel.Convert(color.Black), color.NRGBAModel.Convert(img.At(mid.X, mid.Y)))

	answer := sheets[0].Faces[1]
	require.NotNil(t, answer.Logo)
	lr := flip(answer.Logo.X, answer.Logo.Y, answer.Logo.W, answer.Logo.H, g.PageHeight, 1)
	r, _, _, _ := img.At((lr.Min.X+lr.Max.X)/2, (lr.Min.Y+lr.Max.Y)/2).RGBA()
	require.Greater(t, r>>8, uint32(150))

	data, err := PreviewPNG(sheets[0], g, 0.5)
	require.NoError(t, err)
	decoded, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, px(g.PageWidth, 0.5), decoded.Bounds().Dx())
}

func TestGenerateQRPNG(t *testing.T) {
	data, err := GenerateQRPNG("deck:42", 10)
	require.NoError(t, err)
	img, err := imaging.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Equal(t, MinQRSize, img.Bounds().Dx())

	_, err = GenerateQRPNG("", 100)
	require.Error(t, err)
}
