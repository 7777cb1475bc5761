// Package payment wraps the external payment collaborator behind two
// capabilities: open a checkout session for an amount, and report
// whether a session has settled.
package payment

type SessionRequest struct {
	TransactionID   string
	Amount          float64
	Description     string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerAddress string
}

// Session is the handle the client uses to complete payment
// out-of-band.
type Session struct {
	ID  string
	URL string
}

type Provider interface {
	OpenSession(req SessionRequest) (*Session, error)
	Verify(sessionID string) (bool, error)
}
