package service

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/natours/tour-booking-api/internal/core/domain"
	"github.com/natours/tour-booking-api/internal/core/ports"
)

// PaymentService creates Stripe checkout sessions for tour purchases.
type PaymentService struct {
	api        *client.API
	successURL string
	cancelURL  string
}

func NewPaymentService(secretKey, successURL, cancelURL string) *PaymentService {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &PaymentService{api: api, successURL: successURL, cancelURL: cancelURL}
}

// CheckoutSession builds a single-item payment session priced from the
// tour. The tour id travels as the client reference so the booking can be
// recorded after payment.
func (s *PaymentService) CheckoutSession(ctx context.Context, tour *domain.Tour, user *domain.User) (*ports.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Params:            stripe.Params{Context: ctx},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL:        stripe.String(s.successURL),
		CancelURL:         stripe.String(fmt.Sprintf("%s/tour/%s", s.cancelURL, tour.Slug)),
		CustomerEmail:     stripe.String(user.Email),
		ClientReferenceID: stripe.String(tour.ID.Hex()),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(string(stripe.CurrencyUSD)),
					UnitAmount: stripe.Int64(int64(tour.Price * 100)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(fmt.Sprintf("%s Tour", tour.Name)),
						Description: stripe.String(tour.Summary),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return nil, fmt.Errorf("create checkout session: %w", err)
	}
	return &ports.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}
