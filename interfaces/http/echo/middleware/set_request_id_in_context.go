package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	appcontext "github.com/octabyte/bm-queue-console/utils/context"
)

// SetRequestIDInContext reuses the caller's request id or creates one, and
// exposes it on the echo context, the request context and the response.
func SetRequestIDInContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}

			c.Set(RequestIDKey, id)
			c.Response().Header().Set(RequestIDHeader, id)
			c.SetRequest(c.Request().WithContext(appcontext.WithRequestID(c.Request().Context(), id)))
			return next(c)
		}
	}
}
