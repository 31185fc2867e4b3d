package log

import (
	"time"

	"github.com/gin-gonic/gin"
)

// ContextKeyHijacked marks a gin context whose connection was taken over by a
// websocket upgrade.
const ContextKeyHijacked = "connection_hijacked"

// MarkHijacked flags c as hijacked. Call it before accepting a websocket so
// the request logger leaves the writer alone.
func MarkHijacked(c *gin.Context) {
	c.Set(ContextKeyHijacked, true)
}

// IsHijacked reports whether MarkHijacked was called on c.
func IsHijacked(c *gin.Context) bool {
	v, ok := c.Get(ContextKeyHijacked)
	hijacked, _ := v.(bool)
	return ok && hijacked
}

// GinLogger returns a gin middleware that logs each request.
func GinLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		if raw := c.Request.URL.RawQuery; raw != "" {
			path += "?" + raw
		}

		c.Next()

		if IsHijacked(c) {
			return
		}

		status := c.Writer.Status()
		event := Info()
		if status >= 500 {
			event = Error()
		} else if status >= 400 {
			event = Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP())
		if id := c.GetString(RequestIDKey); id != "" {
			event.Str("request_id", id)
		}
		if msg := c.Errors.ByType(gin.ErrorTypePrivate).String(); msg != "" {
			event.Str("error", msg)
		}
		event.Msg("request")
	}
}

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"
