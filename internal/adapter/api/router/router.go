package router

import (
	"github.com/labstack/echo/v4"

	"parcelmama/internal/adapter/api/middleware"
	"parcelmama/internal/infrastructure/ratelimit"
)

// Middlewares are shared by the route groups.
type Middlewares struct {
	Auth         *middleware.AuthMiddleware
	Admin        *middleware.AdminMiddleware
	PaymentLimit *ratelimit.RateLimiter
}

func Setup(e *echo.Echo, m Middlewares) {
	SetupHealthRouter(e)
	SetupAuthRouter(e)
	SetupPaymentRouter(e, m)
	SetupUserRouter(e, m)
	SetupDeliveryManRouter(e, m)
	SetupParcelRouter(e)
	SetupReviewRouter(e)
	SetupWebSocketRouter(e, m)
}
