package stripe

import (
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/paymentintent"
)

type PaymentIntent = stripe.PaymentIntent

// Client is the part of the Stripe API the shop uses.
type Client interface {
	CreatePaymentIntent(amount int64, currency string, description string, metadata map[string]string) (*PaymentIntent, error)
}

type stripeClient struct{}

// NewStripeClient sets the package-level key used by stripe-go resources.
func NewStripeClient(apiKey string) Client {
	stripe.Key = apiKey

	return &stripeClient{}
}

// CreatePaymentIntent registers a planned charge of amount in the smallest currency unit.
func (s *stripeClient) CreatePaymentIntent(amount int64, currency string, description string, metadata map[string]string) (*PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:      stripe.Int64(amount),
		Currency:    stripe.String(currency),
		Description: stripe.String(description),
	}

	for key, value := range metadata {
		params.AddMetadata(key, value)
	}

	return paymentintent.New(params)
}
