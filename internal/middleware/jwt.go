package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"context"
	"errors"
	"net/http" // HTTP status codes for responses
	"strings"  // string utilities for prefix checking and trimming
	"time"

	"github.com/labstack/echo/v4" // Echo framework used for defining middleware and handlers

	"github.com/avezina/identity-service/internal/model"
	"github.com/avezina/identity-service/internal/repository"
	"github.com/avezina/identity-service/internal/token"
)

// UserGetter resolves a token subject to a user record. Satisfied by
// the user repository; kept narrow so tests can fake it.
type UserGetter interface {
	GetByID(ctx context.Context, id string) (model.User, error)
}

// JWTAuth returns an Echo middleware that validates a Bearer access
// token and attaches the authenticated user to the request context
// under "user".  Verification covers signature, expiry and token type;
// on top of that the subject must resolve to an existing, active user,
// so tokens minted for deleted or deactivated accounts stop working
// immediately.  Wrap protected routes with this middleware and read
// the user via `c.Get("user").(model.User)` in handlers.
func JWTAuth(tokens *token.Manager, users UserGetter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// A valid header is "Bearer <token>".  Anything else means the
			// caller is unauthenticated.
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "missing bearer token"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			subject, err := tokens.VerifyAccess(raw)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid or expired token"})
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := users.GetByID(ctx, subject)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "invalid or expired token"})
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{"detail": "authentication failed"})
			}
			if !u.IsActive {
				return c.JSON(http.StatusUnauthorized, echo.Map{"detail": "user account is disabled"})
			}

			c.Set("user", u)
			return next(c)
		}
	}
}
