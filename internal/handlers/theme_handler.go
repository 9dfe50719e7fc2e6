package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "configly/internal/errors"
	"configly/internal/models"
	"configly/internal/services"
	"configly/internal/theming"
)

// ThemeHandler handles theme management requests.
type ThemeHandler struct {
	themeService services.ThemeServicer
}

// NewThemeHandler creates a new ThemeHandler.
func NewThemeHandler(themeService services.ThemeServicer) *ThemeHandler {
	return &ThemeHandler{themeService: themeService}
}

// UpsertThemeRequest represents a partial theme update. Empty fields
// keep their stored values.
type UpsertThemeRequest struct {
	Name            string `json:"name" binding:"max=100"`
	PrimaryColor    string `json:"primary_color" binding:"omitempty,hex_color"`
	SecondaryColor  string `json:"secondary_color" binding:"omitempty,hex_color"`
	AccentColor     string `json:"accent_color" binding:"omitempty,hex_color"`
	BackgroundColor string `json:"background_color" binding:"omitempty,hex_color"`
	SurfaceColor    string `json:"surface_color" binding:"omitempty,hex_color"`
	TextColor       string `json:"text_color" binding:"omitempty,hex_color"`
	TextColorMode   string `json:"text_color_mode" binding:"omitempty,text_color_mode"`
	CustomTextColor string `json:"custom_text_color" binding:"omitempty,hex_color"`
	FontFamily      string `json:"font_family" binding:"max=200"`
	BorderRadius    string `json:"border_radius" binding:"max=20"`
	SpacingUnit     string `json:"spacing_unit" binding:"max=20"`
	MaxWidth        string `json:"max_width" binding:"max=20"`
}

// GetActive returns the client's active theme with its derived CSS
// variables.
func (h *ThemeHandler) GetActive(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	theme, err := h.themeService.GetActive(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"theme":         theme,
		"css_variables": theming.CSSVariables(*theme),
	})
}

// Upsert applies partial updates to the active theme.
func (h *ThemeHandler) Upsert(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpsertThemeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	theme, err := h.themeService.Upsert(clientID, services.ThemeInput{
		Name:            req.Name,
		PrimaryColor:    req.PrimaryColor,
		SecondaryColor:  req.SecondaryColor,
		AccentColor:     req.AccentColor,
		BackgroundColor: req.BackgroundColor,
		SurfaceColor:    req.SurfaceColor,
		TextColor:       req.TextColor,
		TextColorMode:   models.TextColorMode(req.TextColorMode),
		CustomTextColor: req.CustomTextColor,
		FontFamily:      req.FontFamily,
		BorderRadius:    req.BorderRadius,
		SpacingUnit:     req.SpacingUnit,
		MaxWidth:        req.MaxWidth,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"theme":         theme,
		"css_variables": theming.CSSVariables(*theme),
	})
}

// Reset restores the platform default theme.
func (h *ThemeHandler) Reset(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	theme, err := h.themeService.Reset(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, "Theme reset to default", gin.H{
		"theme":         theme,
		"css_variables": theming.CSSVariables(*theme),
	})
}
