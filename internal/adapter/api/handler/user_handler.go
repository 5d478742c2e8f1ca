package handler

import (
	"github.com/labstack/echo/v4"

	"parcelmama/internal/adapter/api/middleware"
	"parcelmama/internal/domain/entity"
	"parcelmama/internal/usecase"
	"parcelmama/pkg/logger"
	"parcelmama/pkg/response"
)

type UserHandler struct {
	userUseCase       *usecase.UserUseCase
	settlementUseCase *usecase.SettlementUseCase
}

func NewUserHandler(userUseCase *usecase.UserUseCase, settlementUseCase *usecase.SettlementUseCase) *UserHandler {
	return &UserHandler{
		userUseCase:       userUseCase,
		settlementUseCase: settlementUseCase,
	}
}

type saveUserRequest struct {
	Name     string `json:"name"`
	PhotoURL string `json:"photoURL"`
	Role     string `json:"role" validate:"omitempty,oneof=user deliveryman"`
	Phone    string `json:"phone"`
}

// SaveUser registers the user on first login and returns the stored user otherwise.
func (h *UserHandler) SaveUser(c echo.Context) error {
	var req saveUserRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	user, created, err := h.userUseCase.EnsureUser(c.Request().Context(), usecase.EnsureUserInput{
		Email:    c.Param("email"),
		Name:     req.Name,
		PhotoURL: req.PhotoURL,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		return response.Error(c, err)
	}

	if created {
		return response.Created(c, user)
	}
	return response.Success(c, user)
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.userUseCase.ListWithSpending(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}

func (h *UserHandler) GetUser(c echo.Context) error {
	user, err := h.userUseCase.GetByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) CheckAdmin(c echo.Context) error {
	admin, err := h.userUseCase.IsAdmin(c.Request().Context(), middleware.CallerEmail(c), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]bool{"admin": admin})
}

func (h *UserHandler) MakeAdmin(c echo.Context) error {
	return h.changeRole(c, entity.RoleAdmin)
}

func (h *UserHandler) MakeDeliveryMan(c echo.Context) error {
	return h.changeRole(c, entity.RoleDeliveryMan)
}

func (h *UserHandler) changeRole(c echo.Context, role string) error {
	user, err := h.userUseCase.ChangeRole(c.Request().Context(), middleware.CallerEmail(c), c.Param("id"), role)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, user)
}

func (h *UserHandler) IncrementBookedParcel(c echo.Context) error {
	user, err := h.settlementUseCase.IncrementBookedCount(c.Request().Context(), c.Param("email"))
	if err != nil {
		logger.Warn("Booked counter not incremented for %s: %v", c.Param("email"), err)
		return response.Error(c, err)
	}
	return response.Success(c, user)
}
