package api

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
	"github.com/youruser/cahdeck/internal/pdf"
	"github.com/youruser/cahdeck/internal/store"
)

// Handler serves the deck API on top of a store.
type Handler struct {
	store        store.Store
	logoDir      string
	logger       *zap.Logger
	includeBacks bool
	newRand      func() *rand.Rand
}

type Option func(*Handler)

// WithIncludeBacks sets the default for exports that don't say.
func WithIncludeBacks(v bool) Option {
	return func(h *Handler) { h.includeBacks = v }
}

// WithRand replaces the random source used for combos.
func WithRand(newRand func() *rand.Rand) Option {
	return func(h *Handler) { h.newRand = newRand }
}

// NewHandler serves decks from s. Relative logo paths resolve against
// logoDir.
func NewHandler(s store.Store, logoDir string, logger *zap.Logger, opts ...Option) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		store:   s,
		logoDir: logoDir,
		logger:  logger,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// health
func health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}

// fail maps domain errors to status codes.
func (h *Handler) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, deck.ErrInvalidIndex):
		status = http.StatusNotFound
	case errors.Is(err, pdf.ErrEmptySelection),
		errors.Is(err, cards.ErrNoPrompts),
		errors.Is(err, cards.ErrNoAnswers):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, deck.ErrMalformed):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		h.logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (h *Handler) loadDeck(c *gin.Context, id string) (*deck.Deck, bool) {
	d, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	return d, true
}

func (h *Handler) saveDeck(c *gin.Context, d *deck.Deck, status int) (*deck.Deck, bool) {
	saved, err := h.store.Save(c.Request.Context(), d)
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if status != 0 {
		c.JSON(status, saved)
	}
	return saved, true
}

type brandingRequest struct {
	Name           string `json:"name"`
	ShortName      string `json:"shortName"`
	DarkLogo       string `json:"darkLogoPath"`
	LightLogo      string `json:"lightLogoPath"`
	PrimaryColor   string `json:"primaryColor"`
	SecondaryColor string `json:"secondaryColor"`
	// FromDefault copies the cards of the default deck into the new one.
	FromDefault bool `json:"fromDefault"`
}

func (r brandingRequest) branding() deck.Branding {
	return deck.Branding{
		Name:           r.Name,
		ShortName:      r.ShortName,
		DarkLogo:       r.DarkLogo,
		LightLogo:      r.LightLogo,
		PrimaryColor:   r.PrimaryColor,
		SecondaryColor: r.SecondaryColor,
	}.Normalize()
}

func (h *Handler) listDecks(c *gin.Context) {
	decks, err := h.store.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	if decks == nil {
		decks = []store.Summary{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(decks), "decks": decks})
}

func (h *Handler) createDeck(c *gin.Context) {
	var req brandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d := deck.New(req.branding())
	if req.FromDefault {
		id, err := h.store.DefaultDeckID(c.Request.Context())
		if err != nil {
			h.fail(c, err)
			return
		}
		src, ok := h.loadDeck(c, id)
		if !ok {
			return
		}
		d = deck.Merge(d, src)
	}
	h.saveDeck(c, d, http.StatusCreated)
}

func (h *Handler) getDeck(c *gin.Context) {
	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *Handler) updateDeck(c *gin.Context) {
	var req brandingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	d.Branding = req.branding()
	h.saveDeck(c, d, http.StatusOK)
}

func (h *Handler) deleteDeck(c *gin.Context) {
	if err := h.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) duplicateDeck(c *gin.Context) {
	var req struct {
		Name string `json:"name"`
	}
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	h.saveDeck(c, d.Duplicate(req.Name), http.StatusCreated)
}

type cardRequest struct {
	Text string `json:"text"`
	Kind string `json:"kind"`
	Pick int    `json:"pick"`
}

func (h *Handler) addCard(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	kind, err := cards.ParseKind(req.Kind)
	if err != nil {
		badRequest(c, err)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		badRequest(c, errors.New("card text is required"))
		return
	}
	if req.Pick == 0 && kind == cards.Prompt {
		req.Pick = cards.CountBlanks(text)
	}

	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	d.AddCard(text, kind, req.Pick)
	saved, ok := h.saveDeck(c, d, 0)
	if !ok {
		return
	}
	list := saved.Answers
	if kind == cards.Prompt {
		list = saved.Prompts
	}
	c.JSON(http.StatusCreated, gin.H{"card": list[len(list)-1], "index": len(list) - 1})
}

func (h *Handler) addCardsBatch(c *gin.Context) {
	var req struct {
		Prompts []string `json:"prompts"`
		Answers []string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	batch := cards.ParseBatch(req.Prompts, req.Answers)
	if len(batch) == 0 {
		badRequest(c, errors.New("no cards in batch"))
		return
	}

	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	for _, card := range batch {
		d.Add(card)
	}
	saved, ok := h.saveDeck(c, d, 0)
	if !ok {
		return
	}
	c.JSON(http.StatusCreated, gin.H{"added": len(batch), "deck": saved})
}

func cardAddress(c *gin.Context) (cards.Kind, int, error) {
	kind, err := cards.ParseKind(c.Param("kind"))
	if err != nil {
		return 0, 0, err
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		return 0, 0, errors.New("card index must be a number")
	}
	return kind, index, nil
}

func (h *Handler) updateCard(c *gin.Context) {
	kind, index, err := cardAddress(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		badRequest(c, errors.New("card text is required"))
		return
	}

	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	if _, err := d.UpdateCard(kind, index, text, req.Pick); err != nil {
		h.fail(c, err)
		return
	}
	saved, ok := h.saveDeck(c, d, 0)
	if !ok {
		return
	}
	card, _ := saved.Card(kind, index)
	c.JSON(http.StatusOK, gin.H{"card": card, "index": index})
}

func (h *Handler) deleteCard(c *gin.Context) {
	kind, index, err := cardAddress(c)
	if err != nil {
		badRequest(c, err)
		return
	}
	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	if _, ok := d.RemoveCard(kind, index); !ok {
		h.fail(c, deck.ErrInvalidIndex)
		return
	}
	if _, ok := h.saveDeck(c, d, 0); !ok {
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) searchCards(c *gin.Context) {
	sel, err := cards.ParseSelection(c.Query("kind"))
	if err != nil {
		badRequest(c, err)
		return
	}
	d, ok := h.loadDeck(c, c.Param("id"))
	if !ok {
		return
	}
	out := cards.Filter(d.Select(sel), cards.FilterOptions{FreeWords: c.Query("q")})
	if out == nil {
		out = []cards.Card{}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "cards": out})
}

func (h *Handler) getDefaultDeck(c *gin.Context) {
	id, err := h.store.DefaultDeckID(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deckId": id})
}

func (h *Handler) setDefaultDeck(c *gin.Context) {
	var req struct {
		DeckID string `json:"deckId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.store.SetDefaultDeckID(c.Request.Context(), req.DeckID); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deckId": req.DeckID})
}
