package handler

import (
	"github.com/labstack/echo/v4"

	"parcelmama/internal/adapter/api/middleware"
	"parcelmama/internal/usecase"
	"parcelmama/pkg/response"
	"parcelmama/pkg/utils"
)

// CodeNoDeliveryMan marks a delivery that could not be credited to anyone.
const CodeNoDeliveryMan = "NO_DELIVERY_MAN"

type DeliveryManHandler struct {
	userUseCase       *usecase.UserUseCase
	assignmentUseCase *usecase.AssignmentUseCase
	settlementUseCase *usecase.SettlementUseCase
	rankingUseCase    *usecase.RankingUseCase
}

func NewDeliveryManHandler(
	userUseCase *usecase.UserUseCase,
	assignmentUseCase *usecase.AssignmentUseCase,
	settlementUseCase *usecase.SettlementUseCase,
	rankingUseCase *usecase.RankingUseCase,
) *DeliveryManHandler {
	return &DeliveryManHandler{
		userUseCase:       userUseCase,
		assignmentUseCase: assignmentUseCase,
		settlementUseCase: settlementUseCase,
		rankingUseCase:    rankingUseCase,
	}
}

func (h *DeliveryManHandler) ListDeliveryMen(c echo.Context) error {
	users, err := h.userUseCase.ListDeliveryMen(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}

func (h *DeliveryManHandler) DeliveryManIDByEmail(c echo.Context) error {
	id, err := h.userUseCase.DeliveryManIDByEmail(c.Request().Context(), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"deliveryManId": id})
}

// DeliveryManForParcel takes a parcel id.
func (h *DeliveryManHandler) DeliveryManForParcel(c echo.Context) error {
	id, err := h.assignmentUseCase.AgentForParcel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, map[string]string{"deliveryManId": id})
}

func (h *DeliveryManHandler) DeliveryList(c echo.Context) error {
	parcels, err := h.assignmentUseCase.ParcelsForAgent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, parcels)
}

type assignRequest struct {
	DeliveryMan string `json:"deliveryMan" validate:"required"`
	ApprDelDate string `json:"apprDelDate"`
}

func (h *DeliveryManHandler) AssignDeliveryMan(c echo.Context) error {
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	parcel, err := h.assignmentUseCase.Assign(
		c.Request().Context(),
		middleware.CallerEmail(c),
		c.Param("id"),
		req.DeliveryMan,
		req.ApprDelDate,
	)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, parcel)
}

func (h *DeliveryManHandler) MarkDelivered(c echo.Context) error {
	settlement, err := h.settlementUseCase.Complete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}

	if settlement.Partial() {
		return response.Partial(c, settlement, CodeNoDeliveryMan,
			"Parcel marked delivered but no delivery man is assigned; delivered count not updated")
	}
	return response.Success(c, settlement)
}

func (h *DeliveryManHandler) TopDeliveryMen(c echo.Context) error {
	users, err := h.rankingUseCase.TopAgents(c.Request().Context(), utils.GetLimit(c, usecase.DefaultTopAgents))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, users)
}
