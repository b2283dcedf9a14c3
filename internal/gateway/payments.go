package gateway

import (
	"context"
	"net/http"

	"github.com/coursedeck/coursedeck/internal/models"
)

// CreatePaymentIntent opens a payment with the gateway's processor and
// returns the handle the hosted payment widget consumes. The client never
// touches card data; that stays between the user and the processor.
func (c *Client) CreatePaymentIntent(ctx context.Context, req models.PaymentIntentRequest) (models.PaymentIntent, error) {
	var intent models.PaymentIntent
	if _, err := c.do(ctx, http.MethodPost, "/payment/create-payment-intent", nil, req, &intent); err != nil {
		return models.PaymentIntent{}, err
	}
	return intent, nil
}

// ConfirmPayment finalizes a settled payment and returns the enrollment the
// gateway created for it.
func (c *Client) ConfirmPayment(ctx context.Context, req models.ConfirmPaymentRequest) (models.Enrollment, error) {
	var enrollment models.Enrollment
	if _, err := c.do(ctx, http.MethodPost, "/payment/confirm-payment", nil, req, &enrollment); err != nil {
		return models.Enrollment{}, err
	}
	return enrollment, nil
}
