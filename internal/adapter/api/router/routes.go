package router

import (
	"github.com/labstack/echo/v4"

	"parcelmama/internal/adapter/api/handler"
	"parcelmama/internal/adapter/api/middleware"
)

func SetupHealthRouter(e *echo.Echo) {
	healthHandler := handler.GetHealthHandler()

	e.GET("/", healthHandler.Root)
	e.GET("/health", healthHandler.CheckHealth)
}

func SetupAuthRouter(e *echo.Echo) {
	authHandler := handler.GetAuthHandler()

	e.POST("/jwt", authHandler.IssueToken)
}

func SetupPaymentRouter(e *echo.Echo, m Middlewares) {
	paymentHandler := handler.GetPaymentHandler()
	limit := middleware.RateLimit(m.PaymentLimit)

	e.POST("/create-payment-intent", paymentHandler.CreatePaymentIntent, limit)
	e.POST("/payments", paymentHandler.RecordPayment, limit)
	e.GET("/payments/:email", paymentHandler.PaymentHistory, m.Auth.Authenticate)
}

func SetupUserRouter(e *echo.Echo, m Middlewares) {
	userHandler := handler.GetUserHandler()

	e.POST("/users/:email", userHandler.SaveUser)
	e.GET("/users", userHandler.ListUsers)
	e.GET("/user/:email", userHandler.GetUser)
	e.PATCH("/increment-booked-parcel/:email", userHandler.IncrementBookedParcel)

	e.GET("/users/admin/:email", userHandler.CheckAdmin, m.Auth.Authenticate)

	adminOnly := []echo.MiddlewareFunc{m.Auth.Authenticate, m.Admin.AdminOnly}
	e.PATCH("/make-admin/:id", userHandler.MakeAdmin, adminOnly...)
	e.PATCH("/make-deliveryman/:id", userHandler.MakeDeliveryMan, adminOnly...)
}

func SetupDeliveryManRouter(e *echo.Echo, m Middlewares) {
	deliveryManHandler := handler.GetDeliveryManHandler()

	e.GET("/deliverymens", deliveryManHandler.ListDeliveryMen)
	e.GET("/deliveryManId/:email", deliveryManHandler.DeliveryManIDByEmail)
	e.GET("/deliveryman/:id", deliveryManHandler.DeliveryManForParcel)
	e.GET("/deliverylist/:id", deliveryManHandler.DeliveryList)
	e.GET("/top-deliverymen", deliveryManHandler.TopDeliveryMen)
	e.PATCH("/delivered-parcel/:id", deliveryManHandler.MarkDelivered)

	e.PATCH("/setdeliveryman/:id", deliveryManHandler.AssignDeliveryMan, m.Auth.Authenticate, m.Admin.AdminOnly)
}

func SetupParcelRouter(e *echo.Echo) {
	parcelHandler := handler.GetParcelHandler()

	e.POST("/parcel", parcelHandler.BookParcel)
	e.GET("/parcels", parcelHandler.ListParcels)
	e.GET("/search-parcels", parcelHandler.SearchParcels)
	e.GET("/my-parcels/:email", parcelHandler.MyParcels)
	e.GET("/parcel/:id", parcelHandler.GetParcel)
	e.PUT("/parcel/:id", parcelHandler.UpdateParcel)
	e.GET("/delivered-parcels", parcelHandler.DeliveredParcels)

	// "cancle" is the path existing clients call.
	e.PATCH("/cancle-parcel/:id", parcelHandler.CancelParcel)
	e.PATCH("/cancel-parcel/:id", parcelHandler.CancelParcel)
}

func SetupReviewRouter(e *echo.Echo) {
	reviewHandler := handler.GetReviewHandler()

	e.POST("/reviews", reviewHandler.CreateReview)
	e.GET("/reviews/:id", reviewHandler.GetReviews)
	e.PATCH("/update-deliverman-rating/:id", reviewHandler.RateParcelDeliveryMan)
}

func SetupWebSocketRouter(e *echo.Echo, m Middlewares) {
	wsHandler := handler.GetWebSocketHandler()

	e.GET("/ws", wsHandler.HandleWebSocket, m.Auth.Authenticate)
}
