package handler

import (
	"github.com/labstack/echo/v4"

	"parcelmama/internal/usecase"
	"parcelmama/pkg/response"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

// Rating bounds are enforced by the use case, which reads them from configuration.
type createReviewRequest struct {
	DeliveryMan   string `json:"deliveryMan"`
	ParcelID      string `json:"parcelId"`
	ReviewerName  string `json:"reviewerName"`
	ReviewerEmail string `json:"reviewerEmail" validate:"omitempty,email"`
	ReviewerImage string `json:"reviewerImage"`
	Rating        int    `json:"rating" validate:"required"`
	Feedback      string `json:"feedback"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.reviewUseCase.SubmitReview(c.Request().Context(), usecase.SubmitReviewInput{
		DeliveryManID: req.DeliveryMan,
		ParcelID:      req.ParcelID,
		ReviewerName:  req.ReviewerName,
		ReviewerEmail: req.ReviewerEmail,
		ReviewerImage: req.ReviewerImage,
		Rating:        req.Rating,
		Feedback:      req.Feedback,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, result)
}

type rateParcelRequest struct {
	Rating   int    `json:"rating" validate:"required"`
	Feedback string `json:"feedback"`
}

// RateParcelDeliveryMan rates whoever delivered the parcel in the path.
func (h *ReviewHandler) RateParcelDeliveryMan(c echo.Context) error {
	var req rateParcelRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	result, err := h.reviewUseCase.SubmitReview(c.Request().Context(), usecase.SubmitReviewInput{
		ParcelID: c.Param("id"),
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, result)
}

func (h *ReviewHandler) GetReviews(c echo.Context) error {
	reviews, err := h.reviewUseCase.RatingsForAgent(c.Request().Context(), c.Param("id"))
	if err != nil {
		return response.Error(c, err)
	}
	return response.Success(c, reviews)
}
