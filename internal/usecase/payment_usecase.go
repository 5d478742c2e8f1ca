package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"parcelmama/internal/domain/entity"
	"parcelmama/internal/domain/repository"
	"parcelmama/internal/domain/service"
	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

const defaultCurrency = "usd"

type PaymentUseCase struct {
	paymentRepo repository.PaymentRepository
	parcelRepo  repository.ParcelRepository
	processor   service.PaymentProcessor
	opts        Options
}

func NewPaymentUseCase(
	paymentRepo repository.PaymentRepository,
	parcelRepo repository.ParcelRepository,
	processor service.PaymentProcessor,
	opts Options,
) *PaymentUseCase {
	return &PaymentUseCase{
		paymentRepo: paymentRepo,
		parcelRepo:  parcelRepo,
		processor:   processor,
		opts:        opts,
	}
}

type CreateIntentInput struct {
	Price    float64
	Currency string
	ParcelID string
	Email    string
	Name     string
}

func (uc *PaymentUseCase) CreateIntent(ctx context.Context, input CreateIntentInput) (*service.PaymentIntent, error) {
	if math.IsNaN(input.Price) || input.Price < service.MinimumChargeAmount {
		return nil, errors.Validation(fmt.Sprintf("The price must be at least $%.2f and should be a valid number.", service.MinimumChargeAmount), nil)
	}

	currency := strings.ToLower(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.processor.CreateIntent(ctx, service.PaymentIntentRequest{
		OrderID:  input.ParcelID,
		Amount:   input.Price,
		Currency: currency,
		Customer: service.CustomerDetails{
			FirstName: input.Name,
			Email:     input.Email,
		},
	})
}

type RecordPaymentInput struct {
	ParcelID      string
	Email         string
	Name          string
	Amount        float64
	Currency      string
	TransactionID string
}

// RecordPayment stores a payment the client already confirmed with the processor.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, input RecordPaymentInput) (*entity.Payment, error) {
	if strings.TrimSpace(input.Email) == "" {
		return nil, errors.Validation("email is required", nil)
	}
	if strings.TrimSpace(input.TransactionID) == "" {
		return nil, errors.Validation("transactionId is required", nil)
	}
	if input.Amount <= 0 {
		return nil, errors.Validation("amount must be positive", nil)
	}

	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	if input.ParcelID != "" {
		if _, err := uc.parcelRepo.GetByID(ctx, input.ParcelID); err != nil {
			return nil, err
		}
	}

	currency := strings.ToLower(input.Currency)
	if currency == "" {
		currency = defaultCurrency
	}

	payment := &entity.Payment{
		ParcelID:      input.ParcelID,
		Email:         input.Email,
		Name:          input.Name,
		Amount:        input.Amount,
		Currency:      currency,
		TransactionID: input.TransactionID,
	}
	if err := uc.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	logger.Info("Payment %s recorded for %s (%.2f %s)", payment.TransactionID, payment.Email, payment.Amount, payment.Currency)
	notifyAsync(uc.opts.notifier(), uc.opts.timeout(), service.Message{
		To:       payment.Email,
		Subject:  "Payment Successful",
		Template: service.TemplatePaymentReceived,
		Data: map[string]interface{}{
			"name":          payment.Name,
			"amount":        fmt.Sprintf("%.2f", payment.Amount),
			"currency":      strings.ToUpper(payment.Currency),
			"transactionId": payment.TransactionID,
		},
	})
	return payment, nil
}

func (uc *PaymentUseCase) History(ctx context.Context, email string) ([]*entity.Payment, error) {
	ctx, cancel := context.WithTimeout(ctx, uc.opts.timeout())
	defer cancel()

	return uc.paymentRepo.ListByEmail(ctx, email)
}
