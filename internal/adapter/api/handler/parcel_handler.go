package handler

import (
	"github.com/labstack/echo/v4"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/usecase"
	"parcelmama/pkg/response"
	"parcelmama/pkg/utils"
)

type ParcelHandler struct {
	parcelUseCase *usecase.ParcelUseCase
}

func NewParcelHandler(parcelUseCase *usecase.ParcelUseCase) *ParcelHandler {
	return &ParcelHandler{
		parcelUseCase: parcelUseCase,
	}
}

type customerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

type bookParcelRequest struct {
	Customer              customerRequest `json:"customer" validate:"required"`
	ParcelType            string          `json:"parcelType"`
	ParcelWeight          int             `json:"parcelWeight" validate:"required,gte=1"`
	ReceiverName          string          `json:"receiverName"`
	ReceiverPhone         string          `json:"receiverPhone"`
	DeliveryAddress       string          `json:"deliveryAddress"`
	RequestedDeliveryDate string          `json:"requestedDeliveryDate"`
	Latitude              float64         `json:"latitude"`
	Longitude             float64         `json:"longitude"`
}

func (h *ParcelHandler) BookParcel(c echo.Context) error {
	var req bookParcelRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	parcel, err := h.parcelUseCase.Book(c.Request().Context(), usecase.BookParcelInput{
		Customer: entity.Customer{
			Name:  req.Customer.Name,
			Email: req.Customer.Email,
			Phone: req.Customer.Phone,
		},
		ParcelType:            req.ParcelType,
		ParcelWeight:          req.ParcelWeight,
		ReceiverName:          req.ReceiverName,
		ReceiverPhone:         req.ReceiverPhone,
		DeliveryAddress:       req.DeliveryAddress,
		RequestedDeliveryDate: req.RequestedDeliveryDate,
		Latitude:              req.Latitude,
		Longitude:             req.Longitude,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, parcel)
}

func (h *ParcelHandler) ListParcels(c echo.Context) error {
	parcels, err := h.parcelUseCase.List(c.Request().Context(), utils.GetLimit(c, 0))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, parcels)
}

func (h *ParcelHandler) SearchParcels(c echo.Context) error {
	parcels, err := h.parcelUseCase.Search(c.Request().Context(), c.QueryParam("dateFrom"), c.QueryParam("dateTo"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, parcels)
}

func (h *ParcelHandler) MyParcels(c echo.Context) error {
	parcels, err := h.parcelUseCase.ForCustomer(c.Request().Context(), c.Param("email"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, parcels)
}

func (h *ParcelHandler) GetParcel(c echo.Context) error {
	parcel, err := h.parcelUseCase.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, parcel)
}

func (h *ParcelHandler) CancelParcel(c echo.Context) error {
	parcel, err := h.parcelUseCase.Cancel(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, parcel)
}

func (h *ParcelHandler) DeliveredParcels(c echo.Context) error {
	parcels, err := h.parcelUseCase.Delivered(c.Request().Context())
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, parcels)
}

func (h *ParcelHandler) UpdateParcel(c echo.Context) error {
	var patch entity.ParcelPatch
	if err := c.Bind(&patch); err != nil {
		return response.Error(c, err)
	}

	parcel, err := h.parcelUseCase.Update(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, parcel)
}
