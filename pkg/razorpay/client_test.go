package razorpay

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/apmw/freshbrand-backend/pkg/config"
	"github.com/apmw/freshbrand-backend/pkg/logger"
	"github.com/rs/zerolog"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	client, err := NewClient(context.Background(), config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		Currency:  "INR",
	}, logg)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewClientValidatesCredentials(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test", Level: zerolog.Disabled})
	if _, err := NewClient(context.Background(), config.RazorpayConfig{KeySecret: "x"}, logg); err == nil {
		t.Fatal("expected missing key id error")
	}
	if _, err := NewClient(context.Background(), config.RazorpayConfig{KeyID: "x"}, logg); err == nil {
		t.Fatal("expected missing key secret error")
	}
	if _, err := NewClient(context.Background(), config.RazorpayConfig{KeyID: "x", KeySecret: "y"}, nil); err == nil {
		t.Fatal("expected missing logger error")
	}
}

func TestVerifyPaymentSignature(t *testing.T) {
	client := newTestClient(t)

	mac := hmac.New(sha256.New, []byte("rzp_test_secret"))
	mac.Write([]byte("order_abc|pay_1"))
	signature := hex.EncodeToString(mac.Sum(nil))

	if !client.VerifyPaymentSignature("order_abc", "pay_1", signature) {
		t.Fatal("expected valid signature to verify")
	}
	if client.VerifyPaymentSignature("order_abc", "pay_1", "bogus") {
		t.Fatal("expected bogus signature to fail")
	}
	if client.VerifyPaymentSignature("", "pay_1", signature) {
		t.Fatal("expected empty order id to fail")
	}
}

func TestCheckoutOptionsShape(t *testing.T) {
	client := newTestClient(t)
	opts := client.CheckoutOptions(CheckoutParams{
		GatewayOrderID: "order_abc",
		OrderID:        "0f2e4a6c-1111-2222-3333-444455556666",
		UserID:         "user-1",
		AmountPaise:    35400,
		Email:          "shop@example.com",
		Contact:        "9999999999",
	})

	if opts["description"] != "Order #0f2e4a6c" {
		t.Fatalf("unexpected description %v", opts["description"])
	}
	if opts["amount"] != int64(35400) {
		t.Fatalf("unexpected amount %v", opts["amount"])
	}
	if opts["currency"] != "INR" {
		t.Fatalf("unexpected currency %v", opts["currency"])
	}
	if opts["timeout"] != checkoutTimeoutSeconds {
		t.Fatalf("unexpected timeout %v", opts["timeout"])
	}
	retry, ok := opts["retry"].(map[string]any)
	if !ok || retry["max_count"] != checkoutRetryMaxCount || retry["enabled"] != true {
		t.Fatalf("unexpected retry block %v", opts["retry"])
	}
	method, ok := opts["method"].(map[string]any)
	if !ok || method["upi"] != true || method["card"] != true {
		t.Fatalf("unexpected method block %v", opts["method"])
	}
}

func TestFailureMessageMapping(t *testing.T) {
	cases := map[int]string{
		CheckoutNetworkError:     "Network error. Please check your internet connection.",
		CheckoutInvalidOptions:   "Invalid payment options. Please try again.",
		CheckoutPaymentCancelled: "Payment was cancelled.",
		CheckoutTLSError:         "TLS/SSL error. Please update your app.",
	}
	for code, want := range cases {
		if got := FailureMessage(code, ""); got != want {
			t.Fatalf("code %d expected %q got %q", code, want, got)
		}
	}
	if got := FailureMessage(99, "gateway says no"); got != "gateway says no" {
		t.Fatalf("expected raw response passthrough, got %q", got)
	}
	if got := FailureMessage(99, ""); got != "Payment failed with code: 99" {
		t.Fatalf("unexpected fallback %q", got)
	}
}
