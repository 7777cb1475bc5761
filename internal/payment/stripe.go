package payment

import (
	"errors"
	"fmt"

	"ms-facility-booking/internal/logger"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var ErrStripeClientInitFailed = errors.New("failed to initialize Stripe client")

type StripeConfig struct {
	SecretKey  string
	Currency   string
	SuccessURL string
	CancelURL  string
}

// StripeProvider implements Provider on Stripe Checkout. The order's
// transaction id travels in the session metadata so settlement
// callbacks can be matched back to the order.
type StripeProvider struct {
	client *client.API
	cfg    StripeConfig
	log    *logger.Logger
}

func NewStripeProvider(cfg StripeConfig, log *logger.Logger) (*StripeProvider, error) {
	if cfg.SecretKey == "" {
		log.Error("STRIPE", "STRIPE_SECRET_KEY not set")
		return nil, ErrStripeClientInitFailed
	}
	if cfg.Currency == "" {
		cfg.Currency = "usd"
	}

	sc := client.New(cfg.SecretKey, nil)
	log.Info("STRIPE", "Stripe client initialized successfully")
	return &StripeProvider{client: sc, cfg: cfg, log: log}, nil
}

func (p *StripeProvider) OpenSession(req SessionRequest) (*Session, error) {
	p.log.LogPayment("SESSION", req.TransactionID, fmt.Sprintf("opening checkout session for %.2f %s", req.Amount, p.cfg.Currency))

	amountInCents := int64(req.Amount * 100)
	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(p.cfg.SuccessURL + "?transactionId=" + req.TransactionID + "&status=success"),
		CancelURL:  stripe.String(p.cfg.CancelURL + "?transactionId=" + req.TransactionID + "&status=failed"),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.cfg.Currency),
					UnitAmount: stripe.Int64(amountInCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(req.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}
	params.AddMetadata("transaction_id", req.TransactionID)

	sess, err := p.client.CheckoutSessions.New(params)
	if err != nil {
		p.log.Error("STRIPE", fmt.Sprintf("failed to create checkout session for %s: %v", req.TransactionID, err))
		return nil, fmt.Errorf("stripe checkout session: %w", err)
	}

	p.log.LogPayment("SESSION", req.TransactionID, fmt.Sprintf("checkout session %s opened", sess.ID))
	return &Session{ID: sess.ID, URL: sess.URL}, nil
}

// Verify reports whether the checkout session behind a transaction has
// been paid. An unpaid or expired session is not an error, just not
// settled yet.
func (p *StripeProvider) Verify(sessionID string) (bool, error) {
	sess, err := p.client.CheckoutSessions.Get(sessionID, nil)
	if err != nil {
		return false, fmt.Errorf("stripe session lookup: %w", err)
	}
	return sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid, nil
}
