package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "configly/internal/errors"
	"configly/internal/services"
)

// BillingHandler handles plan usage and capacity block purchases.
type BillingHandler struct {
	billingService services.BillingServicer
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingService services.BillingServicer) *BillingHandler {
	return &BillingHandler{billingService: billingService}
}

// VerifyBlockRequest represents a checkout verification payload.
type VerifyBlockRequest struct {
	SessionID string `json:"session_id" binding:"required,max=255"`
}

// Usage returns the client's primary-option consumption against the
// plan limit.
func (h *BillingHandler) Usage(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	usage, err := h.billingService.Usage(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"usage": usage})
}

// StartCheckout creates a hosted checkout session for one capacity
// block and returns its redirect URL.
func (h *BillingHandler) StartCheckout(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	session, err := h.billingService.StartBlockCheckout(clientID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"session_id":   session.ID,
		"checkout_url": session.URL,
	})
}

// VerifyCheckout credits a capacity block for a completed checkout
// session. Replaying the same session is a harmless no-op.
func (h *BillingHandler) VerifyCheckout(c *gin.Context) {
	clientID, err := getClientID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req VerifyBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrValidation, err.Error()))
		return
	}

	client, err := h.billingService.VerifyBlockPurchase(clientID, req.SessionID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"charged_blocks": client.ChargedBlocks,
	})
}
