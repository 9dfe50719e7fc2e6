package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "configly/internal/errors"
	"configly/internal/middleware"
	"configly/internal/models"
	"configly/internal/selection"
	"configly/internal/services"
	"configly/internal/theming"
)

// EmbedHandler serves the unauthenticated embed surface. Every route is
// behind EmbedAuth, so a resolved client is always in the context.
type EmbedHandler struct {
	configuratorService services.ConfiguratorServicer
	quoteService        services.QuoteServicer
	themeService        services.ThemeServicer
}

// NewEmbedHandler creates a new EmbedHandler.
func NewEmbedHandler(configuratorService services.ConfiguratorServicer, quoteService services.QuoteServicer, themeService services.ThemeServicer) *EmbedHandler {
	return &EmbedHandler{
		configuratorService: configuratorService,
		quoteService:        quoteService,
		themeService:        themeService,
	}
}

// EmbedQuoteRequest represents a visitor's quote submission. No price
// field exists on this path; the total is always recomputed server-side.
type EmbedQuoteRequest struct {
	ConfiguratorPublicID string               `json:"configurator_public_id" binding:"required,max=100"`
	CustomerName         string               `json:"customer_name" binding:"max=200"`
	CustomerEmail        string               `json:"customer_email" binding:"required,email,max=255"`
	CustomerPhone        string               `json:"customer_phone" binding:"max=50"`
	CustomerCompany      string               `json:"customer_company" binding:"max=200"`
	Message              string               `json:"message" binding:"max=2000"`
	Selection            selection.Selection  `json:"selection"`
	Quantities           selection.Quantities `json:"quantities"`
	Configuration        string               `json:"configuration" binding:"max=10000"`
}

// GetConfigurator returns the published configurator graph plus the
// resolved theme and its derived CSS variables.
func (h *EmbedHandler) GetConfigurator(c *gin.Context) {
	client, ok := middleware.EmbedClient(c)
	if !ok {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	configurator, err := h.configuratorService.GetPublishedGraph(client.ID, c.Param("publicId"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	theme := h.resolveTheme(client.ID, configurator)
	respond(c, http.StatusOK, gin.H{
		"configurator":  configurator,
		"theme":         theme,
		"css_variables": theming.CSSVariables(theme),
	})
}

// CreateQuote accepts a visitor's configuration and creates a quote.
func (h *EmbedHandler) CreateQuote(c *gin.Context) {
	client, ok := middleware.EmbedClient(c)
	if !ok {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	var req EmbedQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	quote, err := h.quoteService.CreateFromEmbed(client, req.ConfiguratorPublicID, services.QuoteInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerCompany: req.CustomerCompany,
		Message:         req.Message,
		Selection:       req.Selection,
		Quantities:      req.Quantities,
		Configuration:   req.Configuration,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"quote_code":  quote.QuoteCode,
		"total_price": quote.TotalPrice,
		"currency":    quote.CurrencyCode,
	})
}

// resolveTheme walks the fallback chain: configurator-pinned theme,
// then the client's active theme, then the platform default.
func (h *EmbedHandler) resolveTheme(clientID uint, configurator *models.Configurator) models.Theme {
	if configurator.Theme != nil {
		return *configurator.Theme
	}
	if theme, err := h.themeService.GetActive(clientID); err == nil {
		return *theme
	}
	return theming.Default()
}
