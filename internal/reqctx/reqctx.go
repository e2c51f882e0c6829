// Package reqctx derives the per-request context attached to every action:
// request id, client ip and user agent. It is pure glue with no side effects.
package reqctx

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context identifies one inbound action for audit and metrics.
type Context struct {
	RequestID string
	ClientIP  string
	UserAgent string
}

type ctxKey struct{}

// Middleware resolves the request context and stores it on the request. An
// inbound X-Request-Id is honored so ids correlate across services.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			id := req.Header.Get(echo.HeaderXRequestID)
			if id == "" {
				id = uuid.NewString()
			}
			rc := Context{
				RequestID: id,
				ClientIP:  c.RealIP(),
				UserAgent: req.UserAgent(),
			}
			c.Response().Header().Set(echo.HeaderXRequestID, id)
			c.SetRequest(req.WithContext(With(req.Context(), rc)))
			return next(c)
		}
	}
}

// With returns a context carrying rc.
func With(ctx context.Context, rc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, rc)
}

// From extracts the request context; a zero value is returned when absent so
// callers never branch on presence.
func From(ctx context.Context) Context {
	rc, _ := ctx.Value(ctxKey{}).(Context)
	return rc
}
