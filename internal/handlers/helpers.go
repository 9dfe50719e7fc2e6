package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "configly/internal/errors"
	"configly/internal/logger"
)

// getClientID extracts the authenticated client ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getClientID(c *gin.Context) (uint, error) {
	clientID, exists := c.Get("clientID")
	if !exists {
		return 0, apperrors.ErrUnauthorized
	}
	return clientID.(uint), nil
}

// parsePathID parses a uint path parameter.
// Returns ErrValidation if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		return 0, apperrors.WithMessage(apperrors.ErrValidation, "Invalid "+param)
	}
	return uint(id), nil
}

// respond writes a success envelope.
func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

// respondMessage writes a success envelope carrying a message alongside
// the data.
func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

// respondWithError writes a consistent JSON error envelope. If the error
// is an *AppError it uses the error's status code, code, and message.
// Otherwise it logs the unexpected error and returns a generic internal
// server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		if appErr.Internal != nil {
			logger.Get().Errorw("app error",
				"code", appErr.Code,
				"internal", appErr.Internal.Error(),
				"path", c.Request.URL.Path,
			)
		}
		c.JSON(appErr.StatusCode, gin.H{
			"success": false,
			"error":   appErr.Message,
			"code":    appErr.Code,
		})
		return
	}

	logger.Get().Errorw("unexpected error",
		"error", err.Error(),
		"path", c.Request.URL.Path,
		"method", c.Request.Method,
	)
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error":   apperrors.ErrInternalServer.Message,
		"code":    apperrors.ErrInternalServer.Code,
	})
}
