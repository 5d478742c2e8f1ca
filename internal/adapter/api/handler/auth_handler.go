package handler

import (
	"github.com/labstack/echo/v4"

	"parcelmama/internal/usecase"
	"parcelmama/pkg/response"
)

type AuthHandler struct {
	authUseCase *usecase.AuthUseCase
}

func NewAuthHandler(authUseCase *usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{
		authUseCase: authUseCase,
	}
}

type issueTokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// IssueToken mints a one hour session token for the signed-in client.
func (h *AuthHandler) IssueToken(c echo.Context) error {
	var req issueTokenRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.authUseCase.IssueToken(req.Email)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}
