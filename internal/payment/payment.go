// Package payment is the boundary to the payment provider. The core never
// talks payment protocol; it consumes one fact — "order X was captured,
// paid by this email" — recorded onto the session by the capture webhook
// handler.
package payment

import "context"

// Facts is what the core learns about a completed payment.
type Facts struct {
	Paid       bool
	PayerEmail string
}

// FactSource looks up payment facts for a provider order id.
type FactSource interface {
	Lookup(ctx context.Context, orderID string) (Facts, error)
}

// Static is a FactSource with fixed answers, for tests and development.
type Static struct {
	Facts Facts
	Err   error
}

func (s Static) Lookup(context.Context, string) (Facts, error) {
	return s.Facts, s.Err
}
