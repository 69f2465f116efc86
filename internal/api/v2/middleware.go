// internal/api/v2/middleware.go - bearer token authentication middleware
package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lavosystem/lavo-go/internal/security"
)

// claimsContextKey is where RequireAuth stores the verified claims.
const claimsContextKey = "authClaims"

// RequireAuth verifies the Authorization bearer token and stores its
// claims in the request context.
func (c *Controller) RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			header := ctx.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return c.HandleError(ctx, nil, "Missing bearer token", http.StatusUnauthorized)
			}

			claims, err := c.Tokens.VerifyToken(token, security.PurposeLogin)
			if err != nil {
				return c.HandleError(ctx, err, "Invalid or expired token", http.StatusUnauthorized)
			}

			ctx.Set(claimsContextKey, claims)
			return next(ctx)
		}
	}
}
