package middleware

import (
	"github.com/labstack/echo/v4"

	"parcelmama/internal/usecase"
	"parcelmama/pkg/response"
)

type AdminMiddleware struct {
	authorizer usecase.Authorizer
}

func NewAdminMiddleware(authorizer usecase.Authorizer) *AdminMiddleware {
	return &AdminMiddleware{
		authorizer: authorizer,
	}
}

// AdminOnly must run after Authenticate.
func (m *AdminMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if err := m.authorizer.RequireAdmin(c.Request().Context(), CallerEmail(c)); err != nil {
			return response.Error(c, err)
		}
		return next(c)
	}
}
