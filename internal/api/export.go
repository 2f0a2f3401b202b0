package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
	imagepkg "github.com/youruser/cahdeck/internal/image"
	"github.com/youruser/cahdeck/internal/layout"
	"github.com/youruser/cahdeck/internal/pdf"
)

const (
	defaultQRSize   = 400
	maxPreviewScale = 4.0
)

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

type exportRequest struct {
	DeckID       string `json:"deckId"`
	Selection    string `json:"selection"`
	IncludeBacks *bool  `json:"includeBacks"`
}

// deckOrDefault loads the deck with the given id, or the default deck when id
// is empty.
func (h *Handler) deckOrDefault(c *gin.Context, id string) (*deck.Deck, bool) {
	if id == "" {
		var err error
		id, err = h.store.DefaultDeckID(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return nil, false
		}
	}
	return h.loadDeck(c, id)
}

// logoResolver returns a fresh resolver so logos added or fixed on disk show
// up on the next request. One request still sees one outcome per logo.
func (h *Handler) logoResolver() layout.LogoResolver {
	return imagepkg.NewResolver(h.logoDir, h.logger)
}

// DeckFileName turns a deck name into a safe file name with the given
// extension.
func DeckFileName(d *deck.Deck, ext string) string {
	name := unsafeFileChars.ReplaceAllString(d.Branding.Name, "_")
	if name == "" || name == "_" {
		name = "deck"
	}
	return name + ext
}

func (h *Handler) exportPDF(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sel, err := cards.ParseSelection(req.Selection)
	if err != nil {
		badRequest(c, err)
		return
	}
	d, ok := h.deckOrDefault(c, req.DeckID)
	if !ok {
		return
	}
	backs := h.includeBacks
	if req.IncludeBacks != nil {
		backs = *req.IncludeBacks
	}

	var buf bytes.Buffer
	stats, err := pdf.ExportDeck(&buf, d, pdf.Options{
		Selection:    sel,
		IncludeBacks: backs,
		Logos:        h.logoResolver(),
		Logger:       h.logger,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, DeckFileName(d, ".pdf")))
	c.Header("X-Card-Count", strconv.Itoa(stats.Cards))
	c.Header("X-Page-Count", strconv.Itoa(stats.Pages))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

func (h *Handler) exportText(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sel, err := cards.ParseSelection(req.Selection)
	if err != nil {
		badRequest(c, err)
		return
	}
	d, ok := h.deckOrDefault(c, req.DeckID)
	if !ok {
		return
	}
	if len(d.Select(sel)) == 0 {
		h.fail(c, pdf.ErrEmptySelection)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, DeckFileName(d, ".txt")))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(deck.ExportText(d, sel)))
}

// previewPage renders one sheet of the PDF layout as a PNG. Pages are
// numbered from 1 and count back sheets when backs=true.
func (h *Handler) previewPage(c *gin.Context) {
	sel, err := cards.ParseSelection(c.Query("selection"))
	if err != nil {
		badRequest(c, err)
		return
	}
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		badRequest(c, errors.New("page must be a positive number"))
		return
	}
	scale, err := strconv.ParseFloat(c.DefaultQuery("scale", "1"), 64)
	if err != nil || scale <= 0 || scale > maxPreviewScale {
		badRequest(c, fmt.Errorf("scale must be in (0, %g]", maxPreviewScale))
		return
	}
	backs := c.Query("backs") == "true"

	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	selected := d.Select(sel)
	if len(selected) == 0 {
		h.fail(c, pdf.ErrEmptySelection)
		return
	}

	g := layout.DefaultGrid()
	sheets := layout.RenderSheets(layout.LayoutPages(selected, g), g, d.Branding, h.logoResolver(), backs)
	if page > len(sheets) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("page %d out of range (1-%d)", page, len(sheets))})
		return
	}
	png, err := imagepkg.PreviewPNG(sheets[page-1], g, scale)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("X-Page-Count", strconv.Itoa(len(sheets)))
	c.Data(http.StatusOK, "image/png", png)
}

// deckQR returns a PNG QR code that links to the deck.
func (h *Handler) deckQR(c *gin.Context) {
	size := defaultQRSize
	if s := c.Query("size"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			badRequest(c, errors.New("size must be a number"))
			return
		}
		size = v
	}
	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	b, err := imagepkg.GenerateQRPNG(DeckLink(d.ID), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Data(http.StatusOK, "image/png", b)
}

// DeckLink is the text encoded in a deck's QR code.
func DeckLink(id string) string {
	return "cahdeck://decks/" + id
}

func (h *Handler) randomCombo(c *gin.Context) {
	d, ok := h.deckOrDefault(c, c.Query("deckId"))
	if !ok {
		return
	}
	combo, err := cards.RandomCombo(h.newRand(), d.Prompts, d.Answers)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.logger.Debug("drew combo", zap.String("deck", d.ID), zap.Int("answers", len(combo.Answers)))
	c.JSON(http.StatusOK, combo)
}
