package api

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/cahdeck/internal/cards"
	"github.com/youruser/cahdeck/internal/deck"
	"github.com/youruser/cahdeck/internal/sqlite"
	"github.com/youruser/cahdeck/internal/store"
)

type testServer struct {
	t       *testing.T
	router  *gin.Engine
	store   store.Store
	deckID  string
	logoDir string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	repo := sqlite.NewDeckRepository(db)
	t.Cleanup(func() { repo.Close() })

	cat := cards.Catalog{
		Prompts: []cards.Card{
			cards.New("Why am I sticky?", cards.Prompt, 1),
			cards.New("_____ + _____ = _____.", cards.Prompt, 3),
		},
		Answers: []cards.Card{
			cards.New("Bees?", cards.Answer, 1),
			cards.New("A micropenis.", cards.Answer, 1),
			cards.New("Grandma.", cards.Answer, 1),
		},
	}
	id, err := store.Seed(context.Background(), repo, deck.NewBranding("Party", "pty"), cat, nil)
	require.NoError(t, err)

	logoDir := t.TempDir()
	h := NewHandler(repo, logoDir, nil, WithRand(func() *rand.Rand {
		return rand.New(rand.NewPCG(1, 2))
	}))
	return &testServer{t: t, router: NewRouter(h), store: repo, deckID: id, logoDir: logoDir}
}

func (s *testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w := s.do(http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestDeckLifecycle(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/decks", gin.H{"name": "Work Safe", "shortName": "worksafe"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[deck.Deck](t, w)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, "WORKS", created.Branding.ShortName)
	assert.Empty(t, created.Prompts)

	w = s.do(http.MethodPut, "/api/decks/"+created.ID, gin.H{"name": "Not Work Safe", "primaryColor": "#ff0000"})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[deck.Deck](t, w)
	assert.Equal(t, "Not Work Safe", updated.Branding.Name)
	assert.Equal(t, "#FF0000", updated.Branding.PrimaryColor)
	assert.Equal(t, deck.DefaultShortName, updated.Branding.ShortName)

	w = s.do(http.MethodPost, "/api/decks/"+s.deckID+"/duplicate", nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	dup := decode[deck.Deck](t, w)
	assert.Equal(t, "Party (copy)", dup.Branding.Name)
	assert.Len(t, dup.Prompts, 2)
	assert.Len(t, dup.Answers, 3)
	assert.NotEqual(t, s.deckID, dup.ID)

	w = s.do(http.MethodGet, "/api/decks", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[struct {
		Count int             `json:"count"`
		Decks []store.Summary `json:"decks"`
	}](t, w)
	assert.Equal(t, 3, list.Count)

	w = s.do(http.MethodDelete, "/api/decks/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodGet, "/api/decks/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodDelete, "/api/decks/"+created.ID, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateDeckFromDefault(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/decks", gin.H{"name": "Copy", "fromDefault": true})
	require.Equal(t, http.StatusCreated, w.Code)
	d := decode[deck.Deck](t, w)
	assert.Equal(t, "Copy", d.Branding.Name)
	assert.Equal(t, 5, d.TotalCards())
}

func TestCardEditing(t *testing.T) {
	s := newTestServer(t)
	base := "/api/decks/" + s.deckID + "/cards"

	w := s.do(http.MethodPost, base, gin.H{"text": "_____ and _____ walk into a bar.", "kind": "prompt"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	added := decode[struct {
		Card  cards.Card `json:"card"`
		Index int        `json:"index"`
	}](t, w)
	assert.Equal(t, 2, added.Card.Pick)
	assert.Equal(t, 2, added.Index)
	assert.NotEmpty(t, added.Card.ID)

	w = s.do(http.MethodPost, base, gin.H{"text": "x", "kind": "purple"})
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = s.do(http.MethodPost, base, gin.H{"text": "  ", "kind": "answer"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, base+"/batch", gin.H{
		"prompts": []string{"Batch _____.", ""},
		"answers": []string{"One.", "Two."},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(3), decode[map[string]any](t, w)["added"])

	w = s.do(http.MethodPut, base+"/answer/0", gin.H{"text": "Killer bees.", "pick": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	edited := decode[struct {
		Card cards.Card `json:"card"`
	}](t, w)
	assert.Equal(t, "Killer bees.", edited.Card.Text)
	assert.Equal(t, 1, edited.Card.Pick)

	w = s.do(http.MethodPut, base+"/answer/99", gin.H{"text": "Nope."})
	require.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodPut, base+"/answer/first", gin.H{"text": "Nope."})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodDelete, base+"/prompt/0", nil)
	require.Equal(t, http.StatusNoContent, w.Code)
	w = s.do(http.MethodDelete, base+"/prompt/42", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	d, err := s.store.Get(context.Background(), s.deckID)
	require.NoError(t, err)
	assert.Len(t, d.Prompts, 3)
	assert.Len(t, d.Answers, 5)
	assert.Equal(t, "Killer bees.", d.Answers[0].Text)

	w = s.do(http.MethodGet, base+"?q=bees&kind=answers", nil)
	require.Equal(t, http.StatusOK, w.Code)
	found := decode[struct {
		Count int          `json:"count"`
		Cards []cards.Card `json:"cards"`
	}](t, w)
	require.Equal(t, 1, found.Count)
	assert.Equal(t, "Killer bees.", found.Cards[0].Text)

	w = s.do(http.MethodGet, base+"?kind=green", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportPDF(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/export/pdf", gin.H{"deckId": s.deckID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, "5", w.Header().Get("X-Card-Count"))
	assert.Equal(t, "1", w.Header().Get("X-Page-Count"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), `filename="Party.pdf"`)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF-")))

	w = s.do(http.MethodPost, "/api/export/pdf", gin.H{"selection": "prompts", "includeBacks": true})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-Page-Count"))

	empty := s.do(http.MethodPost, "/api/decks", gin.H{"name": "Empty"})
	require.Equal(t, http.StatusCreated, empty.Code)
	id := decode[deck.Deck](t, empty).ID

	w = s.do(http.MethodPost, "/api/export/pdf", gin.H{"deckId": id, "selection": "answers"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "error")

	w = s.do(http.MethodPost, "/api/export/pdf", gin.H{"deckId": "9999"})
	require.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(http.MethodPost, "/api/export/pdf", gin.H{"selection": "everything"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportText(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodPost, "/api/export/text", gin.H{"selection": "prompts"})
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.True(t, strings.HasPrefix(body, "# Party\n"))
	assert.Contains(t, body, "## Prompt cards (2)")
	assert.Contains(t, body, "[PICK 3]")
	assert.NotContains(t, body, "## Answer cards")
}

func TestPreviewAndQR(t *testing.T) {
	s := newTestServer(t)
	pngMagic := []byte("\x89PNG")

	w := s.do(http.MethodGet, "/api/decks/"+s.deckID+"/preview.png?scale=0.5&backs=true&page=2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "2", w.Header().Get("X-Page-Count"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), pngMagic))

	w = s.do(http.MethodGet, "/api/decks/"+s.deckID+"/preview.png?page=3", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	w = s.do(http.MethodGet, "/api/decks/"+s.deckID+"/preview.png?page=zero", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(http.MethodGet, "/api/decks/"+s.deckID+"/qr?size=128", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), pngMagic))

	w = s.do(http.MethodGet, "/api/decks/404/qr", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestPreviewPicksUpLogoAddedLater(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	d, err := s.store.Get(ctx, s.deckID)
	require.NoError(t, err)
	d.Branding.DarkLogo = "dark.png"
	_, err = s.store.Save(ctx, d)
	require.NoError(t, err)

	path := "/api/decks/" + s.deckID + "/preview.png?selection=prompts&scale=0.5"
	w := s.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	missing := w.Body.Bytes()

	logo := imaging.New(64, 64, color.NRGBA{R: 255, A: 255})
	require.NoError(t, imaging.Save(logo, filepath.Join(s.logoDir, "dark.png")))

	w = s.do(http.MethodGet, path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEqual(t, missing, w.Body.Bytes())
}

func TestRandomCombo(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/random/combo", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	combo := decode[cards.Combo](t, w)
	assert.NotEmpty(t, combo.Text)
	assert.NotEmpty(t, combo.Answers)
	assert.Equal(t, cards.FillBlanks(combo.Prompt.Text, combo.Answers), combo.Text)

	empty := s.do(http.MethodPost, "/api/decks", gin.H{"name": "Empty"})
	id := decode[deck.Deck](t, empty).ID
	w = s.do(http.MethodGet, "/api/random/combo?deckId="+id, nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDefaultDeckSettings(t *testing.T) {
	s := newTestServer(t)

	w := s.do(http.MethodGet, "/api/settings/default-deck", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, s.deckID, decode[map[string]string](t, w)["deckId"])

	created := s.do(http.MethodPost, "/api/decks", gin.H{"name": "Next"})
	id := decode[deck.Deck](t, created).ID

	w = s.do(http.MethodPut, "/api/settings/default-deck", gin.H{"deckId": id})
	require.Equal(t, http.StatusOK, w.Code)
	w = s.do(http.MethodGet, "/api/settings/default-deck", nil)
	assert.Equal(t, id, decode[map[string]string](t, w)["deckId"])

	w = s.do(http.MethodPut, "/api/settings/default-deck", gin.H{"deckId": "777"})
	require.Equal(t, http.StatusNotFound, w.Code)
}
