package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "configly/internal/errors"
	"configly/internal/services"
)

// OptionHandler handles option and compatibility-edge requests.
type OptionHandler struct {
	optionService services.OptionServicer
}

// NewOptionHandler creates a new OptionHandler.
func NewOptionHandler(optionService services.OptionServicer) *OptionHandler {
	return &OptionHandler{optionService: optionService}
}

// CreateOptionRequest represents the option creation payload. Edges can
// be declared inline; targets that cannot be resolved are skipped and
// reported, not rejected.
type CreateOptionRequest struct {
	Label            string          `json:"label" binding:"required,min=1,max=200"`
	Description      string          `json:"description" binding:"max=1000"`
	Price            decimal.Decimal `json:"price"`
	SKU              string          `json:"sku" binding:"max=100"`
	ImageURL         string          `json:"image_url" binding:"omitempty,url,max=2048"`
	IsDefault        bool            `json:"is_default"`
	IncompatibleWith []uint          `json:"incompatible_with"`
	Requires         []uint          `json:"requires"`
}

// UpdateOptionRequest represents the option update payload.
type UpdateOptionRequest struct {
	Label       string           `json:"label" binding:"omitempty,min=1,max=200"`
	Description string           `json:"description" binding:"max=1000"`
	Price       *decimal.Decimal `json:"price"`
	SKU         string           `json:"sku" binding:"max=100"`
	ImageURL    string           `json:"image_url" binding:"omitempty,url,max=2048"`
	IsDefault   *bool            `json:"is_default"`
}

// IncompatibilitiesRequest represents a bulk incompatibility payload.
type IncompatibilitiesRequest struct {
	OptionIDs []uint `json:"option_ids" binding:"required,min=1,max=100"`
}

// DependencyRequest represents a dependency edge payload.
type DependencyRequest struct {
	RequiresOptionID uint `json:"requires_option_id" binding:"required"`
}

// Create creates an option in a category, applying any inline edges.
func (h *OptionHandler) Create(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	categoryID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	option, skipped, err := h.optionService.Create(clientID, categoryID, services.OptionInput{
		Label:            req.Label,
		Description:      req.Description,
		Price:            req.Price,
		SKU:              req.SKU,
		ImageURL:         req.ImageURL,
		IsDefault:        req.IsDefault,
		IncompatibleWith: req.IncompatibleWith,
		Requires:         req.Requires,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	if len(skipped) > 0 {
		respondMessage(c, http.StatusCreated,
			fmt.Sprintf("Option created; %d incompatibility target(s) skipped", len(skipped)),
			gin.H{"option": option, "skipped_option_ids": skipped})
		return
	}
	respond(c, http.StatusCreated, gin.H{"option": option})
}

// Get returns one option with its rules.
func (h *OptionHandler) Get(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	option, err := h.optionService.GetByID(clientID, optionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"option": option})
}

// Update updates option fields.
func (h *OptionHandler) Update(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	option, err := h.optionService.Update(clientID, optionID, services.OptionUpdate{
		Label:       req.Label,
		Description: req.Description,
		Price:       req.Price,
		SKU:         req.SKU,
		ImageURL:    req.ImageURL,
		IsDefault:   req.IsDefault,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"option": option})
}

// Delete deletes an option and its edges.
func (h *OptionHandler) Delete(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.optionService.Delete(clientID, optionID); err != nil {
		respondWithError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Option deleted", nil)
}

// AddIncompatibilities marks the option incompatible with the given
// targets. Unresolvable targets are reported as skipped.
func (h *OptionHandler) AddIncompatibilities(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req IncompatibilitiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	rules, skipped, err := h.optionService.AddIncompatibilities(clientID, optionID, req.OptionIDs)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := gin.H{"rules": rules, "skipped_option_ids": skipped}
	if len(skipped) > 0 {
		respondMessage(c, http.StatusCreated,
			fmt.Sprintf("%d incompatibility target(s) skipped", len(skipped)), data)
		return
	}
	respond(c, http.StatusCreated, data)
}

// AddDependency creates a directed requires edge from the option.
func (h *OptionHandler) AddDependency(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	optionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req DependencyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	rule, err := h.optionService.AddDependency(clientID, optionID, req.RequiresOptionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"rule": rule})
}
