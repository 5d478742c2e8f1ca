package service

import (
	"context"
	"fmt"
	"strings"
)

// Templates known to the notifiers.
const (
	TemplateParcelBooked    = "parcel_booked"
	TemplateParcelAssigned  = "parcel_assigned"
	TemplateParcelDelivered = "parcel_delivered"
	TemplatePaymentReceived = "payment_received"
)

type Message struct {
	To       string                 `json:"to"`
	Subject  string                 `json:"subject"`
	Template string                 `json:"template"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// Notifier delivers a message to a user. Callers dispatch it asynchronously
// and only log failures.
type Notifier interface {
	Notify(ctx context.Context, msg Message) error
}

// MultiNotifier fans a message out to every channel and reports all failures together.
type MultiNotifier []Notifier

func NewMultiNotifier(notifiers ...Notifier) MultiNotifier {
	out := make(MultiNotifier, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

func (m MultiNotifier) Notify(ctx context.Context, msg Message) error {
	var failures []string
	for _, n := range m {
		if err := n.Notify(ctx, msg); err != nil {
			failures = append(failures, err.Error())
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("notify %s: %s", msg.To, strings.Join(failures, "; "))
	}
	return nil
}

type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Message) error { return nil }
