package api

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"parcelmama/pkg/response"
)

type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// ErrorHandler renders errors that escape handlers (unknown routes, panics
// recovered by middleware) in the same envelope as handler errors.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	_ = response.Error(c, err)
}
