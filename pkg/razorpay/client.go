package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	razorpaysdk "github.com/razorpay/razorpay-go"
	rzperrors "github.com/razorpay/razorpay-go/errors"

	"github.com/apmw/freshbrand-backend/pkg/config"
	pkgerrors "github.com/apmw/freshbrand-backend/pkg/errors"
	"github.com/apmw/freshbrand-backend/pkg/logger"
)

const (
	// Checkout failure codes reported by the Razorpay mobile SDK.
	CheckoutPaymentCancelled = 0
	CheckoutNetworkError     = 2
	CheckoutInvalidOptions   = 3
	CheckoutTLSError         = 6

	checkoutTimeoutSeconds = 300
	checkoutRetryMaxCount  = 3
	merchantName           = "Fresh Brand"
	themeColor             = "#3399cc"
)

var (
	errKeyIDRequired   = errors.New("razorpay key id is required")
	errKeySecret        = errors.New("razorpay key secret is required")
	errLoggerRequired   = errors.New("razorpay logger is required")
	errAmountNotPayable = errors.New("order amount must be positive")
)

// Client exposes Razorpay primitives with centralized auth, logging, and error mapping.
type Client struct {
	sdk       *razorpaysdk.Client
	keyID     string
	keySecret string
	currency  string
	logger    *logger.Logger
}

// GatewayOrder is the subset of the Razorpay order we persist and return.
type GatewayOrder struct {
	ID          string
	AmountPaise int64
	Currency    string
	Receipt     string
	Status      string
}

// OrderCreateParams captures what CreateOrder needs from the caller.
type OrderCreateParams struct {
	AmountPaise int64
	Receipt     string
	Notes       map[string]string
}

// CheckoutParams feeds the client-side checkout options builder.
type CheckoutParams struct {
	GatewayOrderID string
	OrderID        string
	UserID         string
	AmountPaise    int64
	Email          string
	Contact        string
}

// NewClient initializes the Razorpay wrapper and validates the credentials.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	keySecret := strings.TrimSpace(cfg.KeySecret)
	if keySecret == "" {
		return nil, errKeySecret
	}
	currency := strings.TrimSpace(cfg.Currency)
	if currency == "" {
		currency = "INR"
	}

	c := &Client{
		sdk:       razorpaysdk.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
		currency:  currency,
		logger:    logg,
	}

	logg.Info(ctx, "razorpay client initialized")
	return c, nil
}

// KeyID returns the public key the mobile client embeds in checkout.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// Currency reports the configured settlement currency.
func (c *Client) Currency() string {
	if c == nil {
		return ""
	}
	return c.currency
}

// CreateOrder registers an order with Razorpay and returns the gateway handle.
func (c *Client) CreateOrder(ctx context.Context, params OrderCreateParams) (*GatewayOrder, error) {
	if params.AmountPaise <= 0 {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, errAmountNotPayable, "create razorpay order")
	}

	data := map[string]interface{}{
		"amount":   params.AmountPaise,
		"currency": c.currency,
	}
	if params.Receipt != "" {
		data["receipt"] = params.Receipt
	}
	if len(params.Notes) > 0 {
		notes := make(map[string]interface{}, len(params.Notes))
		for k, v := range params.Notes {
			notes[k] = v
		}
		data["notes"] = notes
	}

	c.log(ctx, "request", "create_order", map[string]any{
		"amount":  params.AmountPaise,
		"receipt": params.Receipt,
	})

	resp, err := c.sdk.Order.Create(data, nil)
	if err != nil {
		c.log(ctx, "error", "create_order", map[string]any{"error": err.Error()})
		return nil, c.mapGatewayError(err, "create order")
	}

	order := &GatewayOrder{
		ID:          stringField(resp, "id"),
		AmountPaise: intField(resp, "amount"),
		Currency:    stringField(resp, "currency"),
		Receipt:     stringField(resp, "receipt"),
		Status:      stringField(resp, "status"),
	}

	c.log(ctx, "response", "create_order", map[string]any{
		"gateway_order_id": order.ID,
		"status":           order.Status,
	})
	return order, nil
}

// VerifyPaymentSignature checks the HMAC the checkout hands back after a
// successful payment. The signed payload is "<order_id>|<payment_id>".
func (c *Client) VerifyPaymentSignature(gatewayOrderID, paymentID, signature string) bool {
	if gatewayOrderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CheckoutOptions builds the options object the mobile checkout consumes.
func (c *Client) CheckoutOptions(params CheckoutParams) map[string]any {
	description := "Order #" + shortOrderRef(params.OrderID)
	return map[string]any{
		"name":        merchantName,
		"description": description,
		"order_id":    params.GatewayOrderID,
		"theme":       map[string]any{"color": themeColor},
		"currency":    c.currency,
		"amount":      params.AmountPaise,
		"prefill": map[string]any{
			"email":   params.Email,
			"contact": params.Contact,
		},
		"notes": map[string]any{
			"order_id": params.OrderID,
			"user_id":  params.UserID,
		},
		"retry": map[string]any{
			"enabled":   true,
			"max_count": checkoutRetryMaxCount,
		},
		"send_sms_hash":     true,
		"remember_customer": false,
		"timeout":           checkoutTimeoutSeconds,
		"method": map[string]any{
			"netbanking": true,
			"card":       true,
			"upi":        true,
			"wallet":     true,
		},
	}
}

// FailureMessage translates checkout SDK error codes into user-facing text.
func FailureMessage(code int, response string) string {
	switch code {
	case CheckoutNetworkError:
		return "Network error. Please check your internet connection."
	case CheckoutInvalidOptions:
		return "Invalid payment options. Please try again."
	case CheckoutPaymentCancelled:
		return "Payment was cancelled."
	case CheckoutTLSError:
		return "TLS/SSL error. Please update your app."
	default:
		if response != "" {
			return response
		}
		return fmt.Sprintf("Payment failed with code: %d", code)
	}
}

func (c *Client) log(ctx context.Context, phase, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{
		"operation": op,
		"phase":     phase,
	}
	for k, v := range fields {
		logFields[k] = c.redact(k, v)
	}
	ctx = c.logger.WithFields(ctx, logFields)
	switch phase {
	case "error":
		c.logger.Error(ctx, fmt.Sprintf("razorpay %s", op), errors.New(fmt.Sprint(fields["error"])))
	default:
		c.logger.Info(ctx, fmt.Sprintf("razorpay %s", phase))
	}
}

func (c *Client) redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "signature", "email", "contact", "phone"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}

func (c *Client) mapGatewayError(err error, op string) error {
	if err == nil {
		return nil
	}
	var badReq *rzperrors.BadRequestError
	if errors.As(err, &badReq) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("razorpay %s failed", op))
	}
	var gateway *rzperrors.GatewayError
	if errors.As(err, &gateway) {
		return pkgerrors.Wrap(pkgerrors.CodePayment, err, fmt.Sprintf("razorpay %s failed", op))
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("razorpay %s failed", op))
}

func shortOrderRef(orderID string) string {
	if len(orderID) <= 8 {
		return orderID
	}
	return orderID[:8]
}

func stringField(resp map[string]interface{}, key string) string {
	if v, ok := resp[key].(string); ok {
		return v
	}
	return ""
}

func intField(resp map[string]interface{}, key string) int64 {
	switch v := resp[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}
