// Package middleware contains the HTTP middleware chain: request ids,
// recovery, CORS, structured logging, rate limiting and metrics.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/altpay/wallet/internal/pkg/logger"
)

const (
	// RequestIDHeader carries the request id
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey stores the request id in the gin context
	RequestIDContextKey = "request_id"
)

// RequestID tags every request with a unique id. A client-supplied
// X-Request-ID is kept, otherwise a new UUID is generated. The id is
// echoed in the response header and injected into the request context
// so log lines carry it.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)

		c.Request = c.Request.WithContext(
			logger.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}

// GetRequestID extracts the request id from the gin context.
func GetRequestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDContextKey); exists {
		if strID, ok := id.(string); ok {
			return strID
		}
	}
	return ""
}
