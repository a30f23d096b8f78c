// Package middleware provides the gin middleware chain: panic recovery,
// trace propagation, request logging, error rendering, JWT identity, role
// checks, and request metrics.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"sitestock/internal/core/apperror"
	"sitestock/pkg/logger"
)

// Recovery turns a handler panic into an INTERNAL error. The stack trace
// goes to the log only, never to the client.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Error(c.Request.Context(), "panic recovered",
				"error", r,
				"stack", string(debug.Stack()),
			)
			_ = c.Error(
				apperror.NewInternal(fmt.Errorf("panic: %v", r)).
					WithDetail("request_id", c.GetString("request_id")),
			)
			c.Abort()
		}()
		c.Next()
	}
}
