// Package gateway abstracts the online payment provider so the payment
// service can be exercised without network access.
package gateway

import (
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	rzputils "github.com/razorpay/razorpay-go/utils"
)

// Gateway is the narrow surface the payment reconciler needs from the
// payment provider.
type Gateway interface {
	// CreateOrder opens a remote gateway order for amountPaise (minor
	// currency units) and returns the gateway order id.
	CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error)
	// VerifySignature checks the callback signature against the stored
	// gateway order id.
	VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool
	// KeyID is the public key handed to clients for checkout.
	KeyID() string
}

// RazorpayGateway is the production Gateway backed by the Razorpay SDK.
type RazorpayGateway struct {
	client *razorpay.Client
	keyID  string
	secret string
}

// NewRazorpayGateway builds a gateway from credentials. Returns nil when the
// credentials are absent so callers can treat the gateway as unconfigured.
func NewRazorpayGateway(keyID, secret string) *RazorpayGateway {
	if keyID == "" || secret == "" {
		return nil
	}
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, secret),
		keyID:  keyID,
		secret: secret,
	}
}

// CreateOrder opens a Razorpay order. Amount is in paise.
func (g *RazorpayGateway) CreateOrder(amountPaise int64, currency, receipt string, notes map[string]interface{}) (string, error) {
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	if len(notes) > 0 {
		data["notes"] = notes
	}
	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("razorpay order create failed: %w", err)
	}
	id, ok := body["id"].(string)
	if !ok || id == "" {
		return "", fmt.Errorf("razorpay order create returned no id")
	}
	return id, nil
}

// VerifySignature validates the HMAC signature Razorpay attaches to a
// successful checkout callback.
func (g *RazorpayGateway) VerifySignature(gatewayOrderID, gatewayPaymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   gatewayOrderID,
		"razorpay_payment_id": gatewayPaymentID,
	}
	return rzputils.VerifyPaymentSignature(params, signature, g.secret)
}

// KeyID returns the public Razorpay key id.
func (g *RazorpayGateway) KeyID() string {
	return g.keyID
}
