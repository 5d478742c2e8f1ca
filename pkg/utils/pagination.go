package utils

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

const MaxLimit = 100

// GetLimit reads the "limit" query parameter. Zero means no limit; values
// above MaxLimit are clamped.
func GetLimit(c echo.Context, fallback int) int {
	raw := c.QueryParam("limit")
	if raw == "" {
		return fallback
	}

	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return fallback
	}
	if limit > MaxLimit {
		return MaxLimit
	}

	return limit
}
