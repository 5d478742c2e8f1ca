package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"parcelmama/internal/usecase"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/response"
)

// ContextKeyEmail holds the authenticated caller's email on the echo context.
const ContextKeyEmail = "email"

type AuthMiddleware struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthMiddleware(authUseCase *usecase.AuthUseCase) *AuthMiddleware {
	return &AuthMiddleware{
		authUseCase: authUseCase,
	}
}

// bearerToken reads "Authorization: Bearer <token>", falling back to ?token= for
// clients that cannot set headers (browser WebSocket).
func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
		return ""
	}
	return c.QueryParam("token")
}

func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token := bearerToken(c)
		if token == "" {
			return response.Error(c, errors.Unauthorized("unauthorized access", nil))
		}

		email, err := m.authUseCase.Authenticate(c.Request().Context(), token)
		if err != nil {
			return response.Error(c, err)
		}

		c.Set(ContextKeyEmail, email)
		return next(c)
	}
}

// CallerEmail returns the authenticated email, or "" on public routes.
func CallerEmail(c echo.Context) string {
	email, _ := c.Get(ContextKeyEmail).(string)
	return email
}
