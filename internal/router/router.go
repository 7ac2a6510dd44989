package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing

	"github.com/avezina/identity-service/internal/handler"    // import the handlers that implement business logic
	"github.com/avezina/identity-service/internal/middleware" // import middleware for JWT authentication
	"github.com/avezina/identity-service/internal/token"
)

// RegisterRoutes registers routes that do not require authentication on
// the provided Echo instance.  Currently it exposes only a health check
// for load balancers and monitoring systems.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers all authentication-related routes.  Token
// acquisition and revocation live under /auth and require no session;
// /auth/me is wrapped with the JWT middleware so only callers holding
// a valid access token reach it.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, tokens *token.Manager, users middleware.UserGetter) {
	g := e.Group("/auth")
	// Create an account and receive the first token pair.
	g.POST("/register", a.Register)
	// Exchange credentials for a token pair.
	g.POST("/login", a.Login)
	// Revoke a refresh token (blacklists its jti).
	g.POST("/logout", a.Logout)
	// Mint a new access token from a still-valid refresh token.
	g.POST("/token/refresh", a.Refresh)

	// Protected: requires a Bearer access token.
	g.GET("/me", a.Me, middleware.JWTAuth(tokens, users))
}
