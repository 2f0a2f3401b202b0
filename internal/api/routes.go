package api

import "github.com/gin-gonic/gin"

func RegisterRoutes(r *gin.Engine, h *Handler) {
	api := r.Group("/api")
	{
		api.GET("/health", health)

		api.GET("/decks", h.listDecks)
		api.POST("/decks", h.createDeck)
		api.GET("/decks/:id", h.getDeck)
		api.PUT("/decks/:id", h.updateDeck)
		api.DELETE("/decks/:id", h.deleteDeck)
		api.POST("/decks/:id/duplicate", h.duplicateDeck)

		api.GET("/decks/:id/cards", h.searchCards)
		api.POST("/decks/:id/cards", h.addCard)
		api.POST("/decks/:id/cards/batch", h.addCardsBatch)
		api.PUT("/decks/:id/cards/:kind/:index", h.updateCard)
		api.DELETE("/decks/:id/cards/:kind/:index", h.deleteCard)

		api.GET("/decks/:id/preview.png", h.previewPage)
		api.GET("/decks/:id/qr", h.deckQR)

		api.POST("/export/pdf", h.exportPDF)
		api.POST("/export/text", h.exportText)

		api.GET("/random/combo", h.randomCombo)

		api.GET("/settings/default-deck", h.getDefaultDeck)
		api.PUT("/settings/default-deck", h.setDefaultDeck)
	}
}

// NewRouter returns a release-mode engine with zap request logging, recovery
// and the API routes.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(h.logger), gin.Recovery())
	RegisterRoutes(r, h)
	return r
}
