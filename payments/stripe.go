package payments

import (
	"context"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
	"go.uber.org/zap"
)

// StripeProvider implements Provider on top of Stripe hosted checkout.
type StripeProvider struct{}

// NewStripeProvider sets the global Stripe key and returns the provider.
func NewStripeProvider(apiKey string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{}
}

// CreateSession opens a hosted checkout session for a single line item.
func (p *StripeProvider) CreateSession(_ context.Context, in CreateSessionInput) (*Session, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(in.SuccessURL),
		CancelURL:         stripe.String(in.CancelURL),
		ClientReferenceID: stripe.String(in.Reference),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(in.Currency),
					UnitAmount: stripe.Int64(in.Amount),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(in.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	s, err := session.New(params)
	if err != nil {
		zap.S().Errorw("failed to create stripe checkout session", "error", err)
		return nil, err
	}
	return fromStripe(s), nil
}

// GetSession fetches the current state of a checkout session.
func (p *StripeProvider) GetSession(_ context.Context, id string) (*Session, error) {
	s, err := session.Get(id, nil)
	if err != nil {
		zap.S().Errorw("failed to fetch stripe checkout session", "sessionID", id, "error", err)
		return nil, err
	}
	return fromStripe(s), nil
}

func fromStripe(s *stripe.CheckoutSession) *Session {
	return &Session{
		ID:          s.ID,
		URL:         s.URL,
		Status:      string(s.Status),
		Paid:        s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
		AmountTotal: s.AmountTotal,
	}
}
