package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"parcelmama/pkg/errors"
	"parcelmama/pkg/logger"
)

// MidtransPaymentService talks to the Midtrans Snap API over HTTP. The snap
// token plays the role of the client secret.
type MidtransPaymentService struct {
	serverKey string
	baseURL   string
	client    *http.Client
}

func NewMidtransPaymentService(serverKey string, isProduction bool) *MidtransPaymentService {
	baseURL := "https://app.sandbox.midtrans.com/snap/v1"
	if isProduction {
		baseURL = "https://app.midtrans.com/snap/v1"
	}

	return &MidtransPaymentService{
		serverKey: serverKey,
		baseURL:   baseURL,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// MidtransSnapRequest represents Midtrans Snap API request
type MidtransSnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    CustomerDetails    `json:"customer_details"`
}

// TransactionDetails for Midtrans
type TransactionDetails struct {
	OrderID     string  `json:"order_id"`
	GrossAmount float64 `json:"gross_amount"`
}

// MidtransSnapResponse represents Midtrans Snap API response
type MidtransSnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

func (mps *MidtransPaymentService) CreateIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntent, error) {
	orderID := req.OrderID
	if orderID == "" {
		orderID = "PM-" + uuid.New().String()
	}

	logger.Debug("Creating Midtrans payment for order: %s, amount: %.2f", orderID, req.Amount)

	snapReq := MidtransSnapRequest{
		TransactionDetails: TransactionDetails{
			OrderID:     orderID,
			GrossAmount: req.Amount,
		},
		CustomerDetails: req.Customer,
	}

	jsonData, err := json.Marshal(snapReq)
	if err != nil {
		return nil, errors.PaymentProcessing("Failed to encode payment request", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, mps.baseURL+"/transactions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, errors.PaymentProcessing("Failed to build payment request", err)
	}

	authHeader := base64.StdEncoding.EncodeToString([]byte(mps.serverKey + ":"))
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+authHeader)

	resp, err := mps.client.Do(httpReq)
	if err != nil {
		return nil, errors.Unavailable("Payment gateway unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.PaymentProcessing("Failed to read payment gateway response", err)
	}

	if resp.StatusCode != http.StatusCreated {
		logger.Error("Midtrans API error: %s", string(body))
		return nil, errors.PaymentProcessing("Payment gateway rejected the request", fmt.Errorf("midtrans status %d", resp.StatusCode))
	}

	var snapResp MidtransSnapResponse
	if err := json.Unmarshal(body, &snapResp); err != nil {
		return nil, errors.PaymentProcessing("Failed to parse payment gateway response", err)
	}

	logger.Info("Midtrans payment created for order %s", orderID)
	return &PaymentIntent{
		Provider:     "midtrans",
		ID:           orderID,
		ClientSecret: snapResp.Token,
		RedirectURL:  snapResp.RedirectURL,
		Amount:       req.Amount,
		Currency:     req.Currency,
	}, nil
}
