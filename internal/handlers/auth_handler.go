package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "configly/internal/errors"
	"configly/internal/middleware"
	"configly/internal/models"
	"configly/internal/services"
)

// AuthHandler handles client registration, login, and profile requests.
type AuthHandler struct {
	clientService services.ClientServicer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(clientService services.ClientServicer) *AuthHandler {
	return &AuthHandler{clientService: clientService}
}

// RegisterRequest represents the registration request payload.
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email,max=255"`
	Password    string `json:"password" binding:"required,min=8,max=128"`
	CompanyName string `json:"company_name" binding:"max=200"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest represents the token refresh payload.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UpdateDomainsRequest represents the embed allow-list update payload.
type UpdateDomainsRequest struct {
	AllowedDomains []string `json:"allowed_domains" binding:"required,max=50,dive,min=1,max=255"`
}

func clientProfile(client *models.Client) gin.H {
	return gin.H{
		"id":               client.ID,
		"email":            client.Email,
		"company_name":     client.CompanyName,
		"public_key":       client.PublicKey,
		"allowed_domains":  client.AllowedDomains,
		"charged_blocks":   client.ChargedBlocks,
		"monthly_requests": client.MonthlyRequests,
		"request_limit":    client.RequestLimit,
	}
}

func (h *AuthHandler) issueTokens(c *gin.Context, status int, client *models.Client) {
	accessToken, err := middleware.GenerateAccessToken(client)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	refreshToken, err := middleware.GenerateRefreshToken(client)
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInternalServer, err))
		return
	}
	if err := h.clientService.StoreRefreshTokenHash(client.ID, middleware.HashToken(refreshToken)); err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, status, gin.H{
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"client":        clientProfile(client),
	})
}

// Register creates a new client account and returns a token pair.
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	client, err := h.clientService.Register(req.Email, req.Password, req.CompanyName)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.issueTokens(c, http.StatusCreated, client)
}

// Login authenticates a client and returns a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	client, err := h.clientService.AttemptLogin(req.Email, req.Password)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.issueTokens(c, http.StatusOK, client)
}

// Refresh rotates a valid refresh token into a new token pair. The
// presented token must hash-match the stored one, so a stolen token
// stops working after its first rotation.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	claims, err := middleware.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	storedHash, err := h.clientService.GetRefreshTokenHash(claims.ClientID)
	if err != nil || storedHash == "" || storedHash != middleware.HashToken(req.RefreshToken) {
		respondWithError(c, apperrors.ErrUnauthorized)
		return
	}

	client, err := h.clientService.GetByID(claims.ClientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.issueTokens(c, http.StatusOK, client)
}

// GetProfile returns the authenticated client's profile.
func (h *AuthHandler) GetProfile(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	client, err := h.clientService.GetByID(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"client": clientProfile(client)})
}

// UpdateDomains replaces the client's embed domain allow-list.
func (h *AuthHandler) UpdateDomains(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDomainsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	client, err := h.clientService.UpdateAllowedDomains(clientID, req.AllowedDomains)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"client": clientProfile(client)})
}
