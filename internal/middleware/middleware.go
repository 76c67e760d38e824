package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joshua-takyi/gigbook/internal/helpers"
	"github.com/joshua-takyi/gigbook/internal/models"
)

const (
	RequestIDKey = "request_id"
	OwnerKey     = "owner_id"
	ClaimsKey    = "claims"
)

// RequestID middleware adds a unique request ID to each request
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// StructuredLogger provides structured logging middleware
func StructuredLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		if raw != "" {
			path = path + "?" + raw
		}

		attrs := []any{
			"request_id", c.GetString(RequestIDKey),
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
			"client_ip", c.ClientIP(),
		}
		if owner, ok := OwnerFromContext(c); ok {
			attrs = append(attrs, "band_id", owner.String())
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			logger.Error("HTTP Request", attrs...)
		case status >= http.StatusBadRequest:
			logger.Warn("HTTP Request", attrs...)
		default:
			logger.Info("HTTP Request", attrs...)
		}
	}
}

// ErrorHandler logs errors recorded with c.Error and answers a generic 500
// when the handler has not written a response of its own.
func ErrorHandler(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last()
		requestID := c.GetString(RequestIDKey)

		logger.Error("Request error",
			"request_id", requestID,
			"error", err.Error(),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)

		if c.Writer.Written() {
			return
		}
		// Don't return error details to clients
		resp := models.ErrorResponse("Internal server error")
		resp.RequestID = requestID
		c.JSON(http.StatusInternalServerError, resp)
	}
}

// AuthMiddleware resolves the calling band from the access_token cookie or an
// Authorization bearer header and stores its id under OwnerKey.
func AuthMiddleware(validator helpers.TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			abortUnauthorized(c, "missing access token")
			return
		}

		claims, err := validator.Validate(token)
		if err != nil {
			logger.Debug("Token rejected", "request_id", c.GetString(RequestIDKey), "error", err)
			abortUnauthorized(c, "invalid or expired token")
			return
		}

		owner, err := claims.BandID()
		if err != nil {
			logger.Warn("Token without band id", "request_id", c.GetString(RequestIDKey), "subject", claims.Subject)
			abortUnauthorized(c, "invalid token subject")
			return
		}

		c.Set(ClaimsKey, claims)
		c.Set(OwnerKey, owner)
		c.Next()
	}
}

// OwnerFromContext returns the band id set by AuthMiddleware.
func OwnerFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(OwnerKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(helpers.AccessTokenCookie); err == nil && token != "" {
		return token
	}
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

func abortUnauthorized(c *gin.Context, reason string) {
	resp := models.ErrorResponse(reason)
	resp.Message = "Unauthorized access"
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}
