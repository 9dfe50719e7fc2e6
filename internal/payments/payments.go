// Package payments wraps the payment provider used for one-time
// capacity block purchases. Gateway protocol details stay behind the
// Provider interface; the billing service only sees sessions and their
// completion state.
package payments

import (
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/checkout/session"
)

// CheckoutSession is the provider-agnostic view of a started checkout.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Verification is the provider-agnostic result of checking a session.
type Verification struct {
	SessionID string
	ClientID  uint
	Paid      bool
}

// Provider starts and verifies block-purchase checkouts.
type Provider interface {
	CreateBlockCheckout(clientID uint) (*CheckoutSession, error)
	VerifyCheckout(sessionID string) (*Verification, error)
}

type stripeProvider struct {
	priceID    string
	successURL string
	cancelURL  string
}

// NewStripeProvider creates a Provider backed by Stripe Checkout.
// Setting the package-level key follows the stripe-go client model.
func NewStripeProvider(secretKey, priceID, successURL, cancelURL string) Provider {
	stripe.Key = secretKey
	return &stripeProvider{priceID: priceID, successURL: successURL, cancelURL: cancelURL}
}

func (p *stripeProvider) CreateBlockCheckout(clientID uint) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(p.priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:        stripe.String(p.successURL),
		CancelURL:         stripe.String(p.cancelURL),
		ClientReferenceID: stripe.String(strconv.FormatUint(uint64(clientID), 10)),
	}

	s, err := session.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func (p *stripeProvider) VerifyCheckout(sessionID string) (*Verification, error) {
	s, err := session.Get(sessionID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	clientID, err := strconv.ParseUint(s.ClientReferenceID, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("checkout session has no usable client reference: %w", err)
	}

	return &Verification{
		SessionID: s.ID,
		ClientID:  uint(clientID),
		Paid:      s.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid,
	}, nil
}
