package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "configly/internal/errors"
	"configly/internal/models"
	"configly/internal/services"
)

// CategoryHandler handles category management requests.
type CategoryHandler struct {
	categoryService services.CategoryServicer
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler(categoryService services.CategoryServicer) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// CreateCategoryRequest represents the creation payload. IsPrimary left
// unset lets the first category of a configurator default to primary.
type CreateCategoryRequest struct {
	Name       string `json:"name" binding:"required,min=1,max=200"`
	Type       string `json:"type" binding:"omitempty,category_type"`
	IsPrimary  *bool  `json:"is_primary"`
	IsRequired bool   `json:"is_required"`
	SortOrder  int    `json:"sort_order" binding:"gte=0"`
}

// UpdateCategoryRequest represents the update payload.
type UpdateCategoryRequest struct {
	Name       string `json:"name" binding:"omitempty,min=1,max=200"`
	Type       string `json:"type" binding:"omitempty,category_type"`
	IsPrimary  *bool  `json:"is_primary"`
	IsRequired *bool  `json:"is_required"`
	SortOrder  *int   `json:"sort_order" binding:"omitempty,gte=0"`
}

// Create creates a category in a configurator.
func (h *CategoryHandler) Create(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	configuratorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	category, err := h.categoryService.Create(clientID, configuratorID,
		req.Name, models.CategoryType(req.Type), req.IsPrimary, req.IsRequired, req.SortOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"category": category})
}

// List returns a configurator's categories with options and rules.
func (h *CategoryHandler) List(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	configuratorID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	categories, err := h.categoryService.List(clientID, configuratorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"categories": categories})
}

// Get returns one category.
func (h *CategoryHandler) Get(c *gin.Context) {
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

	category, err := h.categoryService.GetByID(clientID, categoryID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"category": category})
}

// Update updates category fields.
func (h *CategoryHandler) Update(c *gin.Context) {
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

	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	category, err := h.categoryService.Update(clientID, categoryID,
		req.Name, models.CategoryType(req.Type), req.IsPrimary, req.IsRequired, req.SortOrder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"category": category})
}

// Delete deletes a category and its options.
func (h *CategoryHandler) Delete(c *gin.Context) {
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

	if err := h.categoryService.Delete(clientID, categoryID); err != nil {
		respondWithError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Category deleted", nil)
}
