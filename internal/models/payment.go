package models

// PaymentIntentRequest asks the gateway to open a payment with its processor.
// Amount is the effective course price; the gateway re-derives and verifies it
// server-side, the client-sent value is advisory.
type PaymentIntentRequest struct {
	CourseID string  `json:"courseId" validate:"required"`
	Amount   float64 `json:"amount" validate:"gt=0"`
	Currency string  `json:"currency" validate:"required,len=3"`
}

// PaymentIntent is the gateway's handle on an in-flight payment. ClientSecret
// is consumed by the processor's hosted widget, never interpreted here.
type PaymentIntent struct {
	PaymentIntentID string `json:"paymentIntentId"`
	ClientSecret    string `json:"clientSecret"`
}

// ConfirmPaymentRequest finalizes a payment and creates the enrollment
type ConfirmPaymentRequest struct {
	PaymentIntentID string `json:"paymentIntentId" validate:"required"`
	CourseID        string `json:"courseId" validate:"required"`
	IdempotencyKey  string `json:"idempotencyKey,omitempty"`
}
