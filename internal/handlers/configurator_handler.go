package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "configly/internal/errors"
	"configly/internal/pagination"
	"configly/internal/services"
)

// ConfiguratorHandler handles configurator management requests.
type ConfiguratorHandler struct {
	configuratorService services.ConfiguratorServicer
}

// NewConfiguratorHandler creates a new ConfiguratorHandler.
func NewConfiguratorHandler(configuratorService services.ConfiguratorServicer) *ConfiguratorHandler {
	return &ConfiguratorHandler{configuratorService: configuratorService}
}

// CreateConfiguratorRequest represents the creation payload.
type CreateConfiguratorRequest struct {
	Name           string `json:"name" binding:"required,min=1,max=200"`
	Description    string `json:"description" binding:"max=1000"`
	CurrencyCode   string `json:"currency_code" binding:"omitempty,iso4217"`
	CurrencySymbol string `json:"currency_symbol" binding:"max=8"`
}

// UpdateConfiguratorRequest represents the update payload.
type UpdateConfiguratorRequest struct {
	Name           string `json:"name" binding:"omitempty,min=1,max=200"`
	Description    string `json:"description" binding:"max=1000"`
	CurrencyCode   string `json:"currency_code" binding:"omitempty,iso4217"`
	CurrencySymbol string `json:"currency_symbol" binding:"max=8"`
	ThemeID        *uint  `json:"theme_id"`
}

// PublishRequest represents the publish toggle payload.
type PublishRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// Create creates a configurator.
func (h *ConfiguratorHandler) Create(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateConfiguratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	configurator, err := h.configuratorService.Create(clientID, req.Name, req.Description, req.CurrencyCode, req.CurrencySymbol)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{"configurator": configurator})
}

// List returns the client's configurators, paginated.
func (h *ConfiguratorHandler) List(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	result, err := h.configuratorService.GetClientConfigurators(clientID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, result)
}

// Get returns a configurator with its full category and option graph.
func (h *ConfiguratorHandler) Get(c *gin.Context) {
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

	configurator, err := h.configuratorService.GetByID(clientID, configuratorID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"configurator": configurator})
}

// Update updates configurator fields.
func (h *ConfiguratorHandler) Update(c *gin.Context) {
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

	var req UpdateConfiguratorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	configurator, err := h.configuratorService.Update(clientID, configuratorID,
		req.Name, req.Description, req.CurrencyCode, req.CurrencySymbol, req.ThemeID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"configurator": configurator})
}

// SetPublished toggles whether the configurator is reachable by embeds.
func (h *ConfiguratorHandler) SetPublished(c *gin.Context) {
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

	var req PublishRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	configurator, err := h.configuratorService.SetPublished(clientID, configuratorID, *req.Published)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"configurator": configurator})
}

// Delete deletes a configurator and its whole graph.
func (h *ConfiguratorHandler) Delete(c *gin.Context) {
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

	if err := h.configuratorService.Delete(clientID, configuratorID); err != nil {
		respondWithError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Configurator deleted", nil)
}
