package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

type HealthHandler struct {
	storageDriver string
	startedAt     time.Time
}

func NewHealthHandler(storageDriver string) *HealthHandler {
	return &HealthHandler{
		storageDriver: storageDriver,
		startedAt:     time.Now(),
	}
}

func (h *HealthHandler) Root(c echo.Context) error {
	return c.String(http.StatusOK, "Parcel Mama server is running")
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "Server is running",
		"storage": h.storageDriver,
		"uptime":  time.Since(h.startedAt).Round(time.Second).String(),
		"time":    time.Now().Format(time.RFC3339),
	})
}
