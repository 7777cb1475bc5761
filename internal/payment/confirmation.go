package payment

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"

	"github.com/skip2/go-qrcode"
)

// ConfirmationData feeds the settlement confirmation page. The payer
// fields come from the order's snapshot, never from a fresh user
// lookup, so the receipt reflects the time of purchase.
type ConfirmationData struct {
	Message       string
	Settled       bool
	Name          string
	Email         string
	Phone         string
	Address       string
	TransactionID string
	Amount        float64
	Date          string
	QRCode        template.URL
}

const confirmationTemplate = `<!DOCTYPE html>
<html>
<head>
  <title>Payment Confirmation</title>
  <style>
    body { font-family: sans-serif; background: #f5f5f5; }
    .card { max-width: 480px; margin: 48px auto; background: #fff; border-radius: 8px; padding: 32px; box-shadow: 0 1px 4px rgba(0,0,0,.15); }
    .message { font-size: 1.2em; margin-bottom: 24px; color: {{if .Settled}}#1a7f37{{else}}#b42318{{end}}; }
    table { width: 100%; border-collapse: collapse; }
    td { padding: 6px 0; }
    td:first-child { color: #666; width: 40%; }
    img.receipt { display: block; margin: 24px auto 0; }
  </style>
</head>
<body>
  <div class="card">
    <div class="message">{{.Message}}</div>
    <table>
      <tr><td>Name</td><td>{{.Name}}</td></tr>
      <tr><td>Email</td><td>{{.Email}}</td></tr>
      <tr><td>Phone</td><td>{{.Phone}}</td></tr>
      <tr><td>Address</td><td>{{.Address}}</td></tr>
      <tr><td>Transaction ID</td><td>{{.TransactionID}}</td></tr>
      <tr><td>Amount</td><td>{{printf "%.2f" .Amount}}</td></tr>
      <tr><td>Date</td><td>{{.Date}}</td></tr>
    </table>
    {{if .QRCode}}<img class="receipt" src="{{.QRCode}}" alt="receipt" width="160" height="160">{{end}}
  </div>
</body>
</html>`

var confirmationTmpl = template.Must(template.New("confirmation").Parse(confirmationTemplate))

// RenderConfirmation produces the HTML confirmation view for a
// settlement outcome, with a QR receipt for settled payments.
func RenderConfirmation(data ConfirmationData) (string, error) {
	if data.Settled && data.TransactionID != "" && data.QRCode == "" {
		qr, err := ReceiptQR(data.TransactionID)
		if err != nil {
			return "", err
		}
		data.QRCode = qr
	}

	var buf bytes.Buffer
	if err := confirmationTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render confirmation: %w", err)
	}
	return buf.String(), nil
}

// ReceiptQR encodes the transaction reference as an inline PNG data
// URI.
func ReceiptQR(transactionID string) (template.URL, error) {
	png, err := qrcode.Encode(transactionID, qrcode.Medium, 256)
	if err != nil {
		return "", fmt.Errorf("failed to encode receipt QR: %w", err)
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png)), nil
}
