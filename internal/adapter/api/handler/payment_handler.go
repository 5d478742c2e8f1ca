package handler

import (
	"strings"

	"github.com/labstack/echo/v4"

	"parcelmama/internal/adapter/api/middleware"
	"parcelmama/internal/usecase"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/response"
)

type PaymentHandler struct {
	paymentUseCase *usecase.PaymentUseCase
}

func NewPaymentHandler(paymentUseCase *usecase.PaymentUseCase) *PaymentHandler {
	return &PaymentHandler{
		paymentUseCase: paymentUseCase,
	}
}

type createIntentRequest struct {
	Price    float64 `json:"price"`
	Currency string  `json:"currency"`
	ParcelID string  `json:"parcelId"`
	Email    string  `json:"email" validate:"omitempty,email"`
	Name     string  `json:"name"`
}

func (h *PaymentHandler) CreatePaymentIntent(c echo.Context) error {
	var req createIntentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	intent, err := h.paymentUseCase.CreateIntent(c.Request().Context(), usecase.CreateIntentInput{
		Price:    req.Price,
		Currency: req.Currency,
		ParcelID: req.ParcelID,
		Email:    req.Email,
		Name:     req.Name,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, intent)
}

type recordPaymentRequest struct {
	ParcelID      string  `json:"parcelId"`
	Email         string  `json:"email" validate:"required,email"`
	Name          string  `json:"name"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	Currency      string  `json:"currency"`
	TransactionID string  `json:"transactionId" validate:"required"`
}

func (h *PaymentHandler) RecordPayment(c echo.Context) error {
	var req recordPaymentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	payment, err := h.paymentUseCase.RecordPayment(c.Request().Context(), usecase.RecordPaymentInput{
		ParcelID:      req.ParcelID,
		Email:         req.Email,
		Name:          req.Name,
		Amount:        req.Price,
		Currency:      req.Currency,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, payment)
}

// PaymentHistory lists the caller's own payments.
func (h *PaymentHandler) PaymentHistory(c echo.Context) error {
	email := c.Param("email")
	if caller := middleware.CallerEmail(c); !strings.EqualFold(caller, email) {
		return response.Error(c, errors.Forbidden("Cannot read another user's payments", nil))
	}

	payments, err := h.paymentUseCase.History(c.Request().Context(), email)
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, payments)
}
