package middleware

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"configly/internal/config"
	apperrors "configly/internal/errors"
	"configly/internal/logger"
	"configly/internal/models"
)

// clientContextKey is where EmbedAuth stores the resolved client.
const clientContextKey = "embedClient"

// EmbedAuth is the trust boundary for unauthenticated embed traffic.
// It resolves the caller's public key to a client, validates the
// declared origin against the client's domain allow-list, enforces the
// monthly request quota, and emits CORS headers scoped to the declared
// origin. Failures before a client is resolved respond with a wildcard
// CORS header since no client context exists yet.
func EmbedAuth(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Query("publicKey")
		if key == "" {
			key = c.GetHeader("X-Public-Key")
		}
		if key == "" {
			abortEmbed(c, apperrors.ErrMissingClientKey, "*")
			return
		}

		// Malformed and unknown keys take the same path and return the
		// same shape so lookups carry no enumeration signal.
		var client models.Client
		if err := db.Where("public_key = ?", key).First(&client).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Get().Errorw("embed client lookup failed", "error", err.Error())
			}
			abortEmbed(c, apperrors.ErrClientNotFound, "*")
			return
		}

		origin := c.GetHeader("X-Embed-Origin")
		if origin == "" {
			abortEmbed(c, apperrors.ErrMissingEmbedOrigin, "*")
			return
		}

		host, ok := originHost(origin)
		if !ok {
			abortEmbed(c, apperrors.ErrInvalidOrigin, "*")
			return
		}

		localhost := host == "localhost" || host == "127.0.0.1"
		if !localhost || !cfg.EmbedAllowLocalhost {
			if len(client.AllowedDomains) == 0 {
				abortEmbed(c, apperrors.ErrNoAllowedOrigins, "*")
				return
			}
			if !hostAllowed(host, client.AllowedDomains) {
				// Naming the offending origin helps the site owner fix
				// their allow-list.
				abortEmbed(c, apperrors.WithMessage(apperrors.ErrOriginMismatch,
					"Origin "+origin+" is not in the allowed domains list"), "*")
				return
			}
		}

		// Quota gate: past the limit, reject with an authorization-kind
		// error rather than silently passing through.
		if client.MonthlyRequests >= client.RequestLimit {
			abortEmbed(c, apperrors.ErrRequestLimit, origin)
			return
		}
		if err := db.Model(&models.Client{}).Where("id = ?", client.ID).
			UpdateColumn("monthly_requests", gorm.Expr("monthly_requests + 1")).Error; err != nil {
			logger.Get().Errorw("failed to count embed request", "error", err.Error(), "client_id", client.ID)
		}

		// Domain validation passed: scope CORS to the declared origin,
		// never a blanket wildcard.
		setEmbedCORS(c, origin)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Set(clientContextKey, &client)
		c.Set("clientID", client.ID)
		c.Next()
	}
}

// EmbedClient returns the client resolved by EmbedAuth.
func EmbedClient(c *gin.Context) (*models.Client, bool) {
	v, ok := c.Get(clientContextKey)
	if !ok {
		return nil, false
	}
	client, ok := v.(*models.Client)
	return client, ok
}

// originHost extracts the hostname from a declared origin. Bare hosts
// without a scheme are accepted.
func originHost(origin string) (string, bool) {
	s := origin
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}
	u, err := url.Parse(s)
	if err != nil || u.Hostname() == "" {
		return "", false
	}
	return strings.ToLower(u.Hostname()), true
}

// hostAllowed matches a host against the allow-list with exact or
// dot-suffix subdomain matching.
func hostAllowed(host string, domains []string) bool {
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

func setEmbedCORS(c *gin.Context, origin string) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
	c.Writer.Header().Set("Vary", "Origin")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Embed-Origin, X-Public-Key")
}

func abortEmbed(c *gin.Context, appErr *apperrors.AppError, corsOrigin string) {
	c.Writer.Header().Set("Access-Control-Allow-Origin", corsOrigin)
	c.AbortWithStatusJSON(appErr.StatusCode, gin.H{
		"success": false,
		"error":   appErr.Message,
		"code":    appErr.Code,
	})
}
