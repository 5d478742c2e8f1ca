package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/mailgun/mailgun-go/v4"

	"parcelmama/pkg/logger"
)

var emailTemplates = template.Must(template.New("email").Parse(`
{{define "parcel_booked"}}<p>Hi {{.name}},</p><p>Your {{.parcelType}} parcel is booked. Price: {{.price}}. We will let you know once a delivery man picks it up.</p>{{end}}
{{define "parcel_assigned"}}<p>Hi {{.name}},</p><p>Your parcel is on the way. Approximate delivery date: {{.apprDeliDate}}.</p>{{end}}
{{define "parcel_delivered"}}<p>Hi {{.name}},</p><p>Your parcel has been delivered. Tell us how the delivery went by leaving a review.</p>{{end}}
{{define "payment_received"}}<p>Hi {{.name}},</p><p>We received your payment of {{.amount}} {{.currency}}. Transaction: {{.transactionId}}.</p>{{end}}
`))

// MailgunNotifier sends notifications as HTML email.
type MailgunNotifier struct {
	mg     mailgun.Mailgun
	sender string
}

func NewMailgunNotifier(domain, apiKey, sender string) *MailgunNotifier {
	return &MailgunNotifier{
		mg:     mailgun.NewMailgun(domain, apiKey),
		sender: sender,
	}
}

func renderEmail(name string, data map[string]interface{}) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (n *MailgunNotifier) Notify(ctx context.Context, msg Message) error {
	html, err := renderEmail(msg.Template, msg.Data)
	if err != nil {
		return err
	}

	m := n.mg.NewMessage(n.sender, msg.Subject, "", msg.To)
	m.SetHtml(html)

	_, id, err := n.mg.Send(ctx, m)
	if err != nil {
		return fmt.Errorf("mailgun send to %s: %w", msg.To, err)
	}

	logger.Debug("Email %s queued for %s: %s", msg.Template, msg.To, id)
	return nil
}
