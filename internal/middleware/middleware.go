package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aleqsd/github-codex-bot/pkg/response"
)

// RequestLogger logs one line per request with status and latency.
func (mw Middleware) RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ctx := c.Request.Context()
		status := c.Writer.Status()
		latency := time.Since(start)

		switch {
		case status >= 500:
			mw.l.Errorf(ctx, "%s %s -> %d (%s) from %s", c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
		case status >= 400:
			mw.l.Warnf(ctx, "%s %s -> %d (%s) from %s", c.Request.Method, c.Request.URL.Path, status, latency, c.ClientIP())
		default:
			mw.l.Infof(ctx, "%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, latency)
		}
	}
}

// Recovery turns a panic in a handler into a logged 500.
func (mw Middleware) Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				mw.l.Errorf(c.Request.Context(), "panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, rec)
				if !c.Writer.Written() {
					response.InternalError(c, fmt.Errorf("panic: %v", rec))
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}
