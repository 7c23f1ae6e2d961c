package payments

import (
	"github.com/google/uuid"
)

// CheckoutDTO is everything the mobile client needs to open Razorpay checkout.
type CheckoutDTO struct {
	OrderID        uuid.UUID      `json:"order_id"`
	GatewayOrderID string         `json:"gateway_order_id"`
	KeyID          string         `json:"key_id"`
	AmountPaise    int64          `json:"amount_paise"`
	Currency       string         `json:"currency"`
	Options        map[string]any `json:"options"`
}

// ConfirmPaymentRequest carries the checkout success callback payload.
type ConfirmPaymentRequest struct {
	GatewayOrderID string `json:"razorpay_order_id" validate:"required"`
	PaymentID      string `json:"razorpay_payment_id" validate:"required"`
	Signature      string `json:"razorpay_signature" validate:"required"`
}

// FailPaymentRequest carries the checkout failure callback payload.
type FailPaymentRequest struct {
	Code        int    `json:"code"`
	Description string `json:"description"`
}
