package service

import (
	"context"
	stderrors "errors"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

// StripePaymentService creates card PaymentIntents; the client secret is handed to the browser.
type StripePaymentService struct {
	api *client.API
}

func NewStripePaymentService(secretKey string) *StripePaymentService {
	api := &client.API{}
	api.Init(secretKey, nil)

	return &StripePaymentService{api: api}
}

func (s *StripePaymentService) CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	currency := strings.ToLower(req.Currency)
	if currency == "" {
		currency = string(stripe.CurrencyUSD)
	}

	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(int64(math.Round(req.Amount * 100))),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx
	if req.OrderID != "" {
		params.AddMetadata("order_id", req.OrderID)
	}
	if req.Customer.Email != "" {
		params.ReceiptEmail = stripe.String(req.Customer.Email)
	}

	intent, err := s.api.PaymentIntents.New(params)
	if err != nil {
		logger.Error("Stripe payment intent failed for order %s: %v", req.OrderID, err)
		// Anything that is not an API error never got an answer from Stripe.
		var apiErr *stripe.Error
		if !stderrors.As(err, &apiErr) {
			return nil, errors.Unavailable("Payment gateway unreachable", err)
		}
		return nil, errors.PaymentProcessing("Failed to create payment intent", err)
	}

	return &PaymentIntent{
		Provider:     "stripe",
		ID:           intent.ID,
		ClientSecret: intent.ClientSecret,
		Amount:       req.Amount,
		Currency:     currency,
	}, nil
}
