package mockserver

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/chatroutes/chatroutes-go/logger"
)

const headerRequestID = "X-Request-ID"

// recovery recovers from handler panics and logs the stack.
func recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error("Panic recovered", logger.Fields(
					logger.FieldError, fmt.Sprintf("%v", err),
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
				))
				c.AbortWithStatusJSON(http.StatusInternalServerError, envelope{Message: "Internal server error"})
			}
		}()
		c.Next()
	}
}

// requestID echoes the caller's request id, generating one when absent.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(headerRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(logger.FieldRequestID, id)
		c.Header(headerRequestID, id)
		c.Next()
	}
}

// requestLogger logs every request at a level derived from its status.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := logger.Fields(
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			logger.FieldStatus, status,
			logger.FieldDuration, time.Since(start).Milliseconds(),
			logger.FieldRequestID, c.GetString(logger.FieldRequestID),
		)
		switch {
		case status >= 500:
			log.Error("Request completed", fields)
		case status >= 400:
			log.Warn("Request completed", fields)
		default:
			log.Debug("Request completed", fields)
		}
	}
}

// apiKeyAuth accepts "ApiKey <key>" and "Bearer <key>". An empty key disables the check.
func apiKeyAuth(key string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if key == "" {
			c.Next()
			return
		}
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Message: "Authorization header required"})
			return
		}
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || (scheme != "ApiKey" && scheme != "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Message: "Invalid authorization header format"})
			return
		}
		if token != key {
			c.AbortWithStatusJSON(http.StatusUnauthorized, envelope{Message: "Invalid API key"})
			return
		}
		c.Next()
	}
}
