package handler

import (
	ws "parcelmama/internal/infrastructure/websocket"
	"parcelmama/internal/usecase"
)

var (
	authHandler        *AuthHandler
	userHandler        *UserHandler
	parcelHandler      *ParcelHandler
	deliveryManHandler *DeliveryManHandler
	reviewHandler      *ReviewHandler
	paymentHandler     *PaymentHandler
	healthHandler      *HealthHandler
	webSocketHandler   *WebSocketHandler
)

// UseCases bundles what the handlers are built from.
type UseCases struct {
	Auth       *usecase.AuthUseCase
	Users      *usecase.UserUseCase
	Parcels    *usecase.ParcelUseCase
	Assignment *usecase.AssignmentUseCase
	Settlement *usecase.SettlementUseCase
	Reviews    *usecase.ReviewUseCase
	Ranking    *usecase.RankingUseCase
	Payments   *usecase.PaymentUseCase
}

func Setup(uc UseCases, wsManager *ws.Manager, storageDriver string) {
	authHandler = NewAuthHandler(uc.Auth)
	userHandler = NewUserHandler(uc.Users, uc.Settlement)
	parcelHandler = NewParcelHandler(uc.Parcels)
	deliveryManHandler = NewDeliveryManHandler(uc.Users, uc.Assignment, uc.Settlement, uc.Ranking)
	reviewHandler = NewReviewHandler(uc.Reviews)
	paymentHandler = NewPaymentHandler(uc.Payments)
	healthHandler = NewHealthHandler(storageDriver)
	webSocketHandler = NewWebSocketHandler(wsManager)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetParcelHandler() *ParcelHandler {
	return parcelHandler
}

func GetDeliveryManHandler() *DeliveryManHandler {
	return deliveryManHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetPaymentHandler() *PaymentHandler {
	return paymentHandler
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func GetWebSocketHandler() *WebSocketHandler {
	return webSocketHandler
}
