package service

import (
	"context"
)

// MinimumChargeAmount is the smallest amount the processors accept, in major currency units.
const MinimumChargeAmount = 0.5

// PaymentIntentRequest describes a charge the client will confirm.
type PaymentIntentRequest struct {
	OrderID  string
	Amount   float64
	Currency string
	Customer CustomerDetails
}

// CustomerDetails represents customer information
type CustomerDetails struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
}

// PaymentIntent is the opaque handle the client uses to confirm the charge.
type PaymentIntent struct {
	Provider     string  `json:"provider"`
	ID           string  `json:"id"`
	ClientSecret string  `json:"clientSecret"`
	RedirectURL  string  `json:"redirectUrl,omitempty"`
	Amount       float64 `json:"amount"`
	Currency     string  `json:"currency"`
}

// PaymentProcessor creates client-confirmable payments. Failures are
// reported as PAYMENT_PROCESSING_ERROR AppErrors.
type PaymentProcessor interface {
	CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error)
}
