package middleware

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Ramsey-B/mint/pkg/context"
	"github.com/labstack/echo/v4"
)

// RequireWorkspace rejects requests that carry no destination workspace.
func RequireWorkspace() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if context.GetWorkspaceID(c.Request().Context()) == "" {
				return httperror.NewHTTPError(http.StatusUnauthorized, "missing "+HeaderTenantID+" header")
			}
			return next(c)
		}
	}
}
