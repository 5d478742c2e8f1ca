package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parcelmama/pkg/errors"
)

func newMidtransTestServer(t *testing.T, status int, body string) (*MidtransPaymentService, *MidtransSnapRequest) {
	t.Helper()

	var received MidtransSnapRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transactions", r.URL.Path)
		user, _, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "server-key", user)
		_ = json.NewDecoder(r.Body).Decode(&received)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	svc := NewMidtransPaymentService("server-key", false)
	svc.baseURL = srv.URL
	return svc, &received
}

func TestMidtransPaymentService_CreateIntent(t *testing.T) {
	svc, received := newMidtransTestServer(t, http.StatusCreated, `{"token":"snap-token","redirect_url":"https://pay.example/snap"}`)

	intent, err := svc.CreateIntent(context.Background(), PaymentIntentRequest{
		OrderID:  "parcel-1",
		Amount:   150,
		Currency: "idr",
		Customer: CustomerDetails{FirstName: "Rina", Email: "rina@example.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "midtrans", intent.Provider)
	assert.Equal(t, "parcel-1", intent.ID)
	assert.Equal(t, "snap-token", intent.ClientSecret)
	assert.Equal(t, "https://pay.example/snap", intent.RedirectURL)
	assert.Equal(t, 150.0, received.TransactionDetails.GrossAmount)
	assert.Equal(t, "rina@example.com", received.CustomerDetails.Email)
}

func TestMidtransPaymentService_GeneratesOrderID(t *testing.T) {
	svc, received := newMidtransTestServer(t, http.StatusCreated, `{"token":"t"}`)

	intent, err := svc.CreateIntent(context.Background(), PaymentIntentRequest{Amount: 10})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(intent.ID, "PM-"))
	assert.Equal(t, intent.ID, received.TransactionDetails.OrderID)
}

func TestMidtransPaymentService_Rejected(t *testing.T) {
	svc, _ := newMidtransTestServer(t, http.StatusBadRequest, `{"error_messages":["gross_amount invalid"]}`)

	_, err := svc.CreateIntent(context.Background(), PaymentIntentRequest{OrderID: "x", Amount: 1})
	assert.True(t, errors.Is(err, errors.CodePaymentProcessing))
}

func TestMidtransPaymentService_Unreachable(t *testing.T) {
	svc := NewMidtransPaymentService("server-key", false)
	svc.baseURL = "http://127.0.0.1:1"

	_, err := svc.CreateIntent(context.Background(), PaymentIntentRequest{OrderID: "x", Amount: 1})
	assert.True(t, errors.Is(err, errors.CodeUnavailable))
}
