package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "configly/internal/errors"
	"configly/internal/models"
	"configly/internal/pagination"
	"configly/internal/selection"
	"configly/internal/services"
)

// QuoteHandler handles dashboard quote management plus the public
// quote-code lookup.
type QuoteHandler struct {
	quoteService services.QuoteServicer
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(quoteService services.QuoteServicer) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// CreateQuoteRequest represents a dashboard quote creation payload.
// TotalPrice is honored only when configurator_id is absent.
type CreateQuoteRequest struct {
	ConfiguratorID  *uint                `json:"configurator_id"`
	CustomerName    string               `json:"customer_name" binding:"max=200"`
	CustomerEmail   string               `json:"customer_email" binding:"required,email,max=255"`
	CustomerPhone   string               `json:"customer_phone" binding:"max=50"`
	CustomerCompany string               `json:"customer_company" binding:"max=200"`
	Message         string               `json:"message" binding:"max=2000"`
	Selection       selection.Selection  `json:"selection"`
	Quantities      selection.Quantities `json:"quantities"`
	Configuration   string               `json:"configuration" binding:"max=10000"`
	TotalPrice      *decimal.Decimal     `json:"total_price"`
}

// UpdateQuoteContactRequest represents a contact-detail update payload.
type UpdateQuoteContactRequest struct {
	CustomerName    string `json:"customer_name" binding:"max=200"`
	CustomerEmail   string `json:"customer_email" binding:"omitempty,email,max=255"`
	CustomerPhone   string `json:"customer_phone" binding:"max=50"`
	CustomerCompany string `json:"customer_company" binding:"max=200"`
	Message         string `json:"message" binding:"max=2000"`
}

// UpdateQuoteStatusRequest represents a status transition payload.
type UpdateQuoteStatusRequest struct {
	Status string `json:"status" binding:"required,quote_status"`
}

// listQuotesQuery carries the list filters alongside pagination.
type listQuotesQuery struct {
	pagination.PageRequest
	Status string `form:"status" binding:"omitempty,quote_status"`
}

// Create creates a quote from the dashboard.
func (h *QuoteHandler) Create(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	quote, err := h.quoteService.Create(clientID, services.QuoteInput{
		ConfiguratorID:  req.ConfiguratorID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerCompany: req.CustomerCompany,
		Message:         req.Message,
		Selection:       req.Selection,
		Quantities:      req.Quantities,
		Configuration:   req.Configuration,
		TotalPrice:      req.TotalPrice,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"quote": quote})
}

// List returns the client's quotes, optionally filtered by status.
func (h *QuoteHandler) List(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query listQuotesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	var status *models.QuoteStatus
	if query.Status != "" {
		s := models.QuoteStatus(query.Status)
		status = &s
	}

	result, err := h.quoteService.List(clientID, query.PageRequest, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}

// Get returns one quote.
func (h *QuoteHandler) Get(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	quoteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	quote, err := h.quoteService.GetByID(clientID, quoteID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"quote": quote})
}

// GetByCode is the public, unauthenticated quote lookup. Holding the
// code is the credential; every hit counts as an open.
func (h *QuoteHandler) GetByCode(c *gin.Context) {
	code := c.Param("quoteCode")
	quote, err := h.quoteService.GetByCode(code)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"quote": quote})
}

// UpdateContact updates the customer contact fields on a quote.
func (h *QuoteHandler) UpdateContact(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	quoteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateQuoteContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	quote, err := h.quoteService.UpdateContact(clientID, quoteID,
		req.CustomerName, req.CustomerEmail, req.CustomerPhone, req.CustomerCompany, req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"quote": quote})
}

// UpdateStatus moves a quote to a new lifecycle status.
func (h *QuoteHandler) UpdateStatus(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	quoteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateQuoteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	quote, err := h.quoteService.UpdateStatus(clientID, quoteID, models.QuoteStatus(req.Status))
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"quote": quote})
}

// Delete deletes a quote.
func (h *QuoteHandler) Delete(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	quoteID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.quoteService.Delete(clientID, quoteID); err != nil {
		respondWithError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Quote deleted", nil)
}
