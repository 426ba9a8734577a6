package payments

import (
	"context"
)

// Session statuses reported by the payment provider, normalized so the
// rest of the app never touches provider-specific enums.
const (
	SessionOpen     = "open"
	SessionComplete = "complete"
	SessionExpired  = "expired"
)

// CreateSessionInput carries everything needed to open a hosted
// checkout page for a single order.
type CreateSessionInput struct {
	Reference   string
	Description string
	Amount      int64
	Currency    string
	SuccessURL  string
	CancelURL   string
}

// Session is the provider's view of a checkout session.
type Session struct {
	ID          string
	URL         string
	Status      string
	Paid        bool
	AmountTotal int64
}

// Provider abstracts the hosted-checkout payment processor.
type Provider interface {
	CreateSession(ctx context.Context, in CreateSessionInput) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}
