// Package payment talks to the external card processor.
package payment

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

var ErrNotConfigured = errors.New("payment processor is not configured")

// Processor creates a charge the client can confirm and returns the client
// secret for it.
type Processor interface {
	CreateIntent(ctx context.Context, amount int64, currency string) (string, error)
}

// MinorUnits converts a price to the processor's integer minor units,
// truncating any fraction of a cent.
func MinorUnits(price float64) int64 {
	return int64(math.Trunc(price * 100))
}

type StripeProcessor struct {
	api *client.API
}

func NewStripe(secretKey string) *StripeProcessor {
	sc := &client.API{}
	sc.Init(secretKey, nil)
	return &StripeProcessor{api: sc}
}

func (p *StripeProcessor) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	if p == nil || p.api == nil {
		return "", ErrNotConfigured
	}
	params := &stripe.PaymentIntentParams{
		Amount:             stripe.Int64(amount),
		Currency:           stripe.String(currency),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
	}
	params.Context = ctx

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return "", fmt.Errorf("create payment intent: %w", err)
	}
	return pi.ClientSecret, nil
}
