// Package httpapi serves listpager endpoints over gin.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Alp4ka/listpager"
)

const (
	HeaderRequestID = "X-Request-ID"
	ctxRequestID    = "request_id"
)

// Options configure list handlers.
type Options struct {
	// BaseURL is the external origin prepended to the request path in
	// pagination links. When empty it is derived from the request.
	BaseURL string
	Logger  *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}

	return o.Logger
}

// ListHandler serves GET requests listing T through l.
func ListHandler[T any](l *listpager.Lister[T], db *gorm.DB, opts Options) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp, err := l.List(c.Request.Context(), db, c.Request.URL.Query(), LinkBase(c, opts.BaseURL))
		if err != nil {
			WriteError(c, err, opts.logger())
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// LinkBase is the URL pagination links are built on: the configured origin,
// or the request's own scheme and host, followed by the request path.
func LinkBase(c *gin.Context, baseURL string) string {
	if baseURL == "" {
		scheme := "http"
		if c.Request.TLS != nil {
			scheme = "https"
		}
		if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		baseURL = scheme + "://" + c.Request.Host
	}

	return baseURL + c.Request.URL.Path
}

// WriteError aborts the request with the JSON error body for err. Server
// errors are logged; their cause never reaches the client.
func WriteError(c *gin.Context, err error, logger *zap.Logger) {
	body := listpager.NewErrorResponse(err)
	if body.StatusCode >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(body.StatusCode, body)
}

// RequestID propagates X-Request-ID, generating one when the client sent
// none.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(ctxRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// AccessLog logs one entry per request.
func AccessLog(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("request_id", c.GetString(ctxRequestID)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.String("query", c.Request.URL.RawQuery),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request", fields...)
		default:
			logger.Info("request", fields...)
		}
	}
}
