// Package qr builds and renders the order pickup QR payload.
package qr

import (
	"encoding/base64"
	"fmt"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	payloadPrefix  = "QUICKBITE_ORDER:"
	tokenSeparator = "|TOKEN:"
)

// Payload encodes an order id and its token into the textual QR payload:
// "QUICKBITE_ORDER:<orderId>|TOKEN:<token>".
func Payload(orderID, token string) string {
	return payloadPrefix + orderID + tokenSeparator + token
}

// ParsePayload extracts the order id and token from a scanned payload.
// Anything that does not carry the exact structure is rejected.
func ParsePayload(payload string) (orderID, token string, err error) {
	if !strings.HasPrefix(payload, payloadPrefix) {
		return "", "", fmt.Errorf("not a quickbite order payload")
	}
	rest := strings.TrimPrefix(payload, payloadPrefix)
	idx := strings.Index(rest, tokenSeparator)
	if idx < 0 {
		return "", "", fmt.Errorf("payload missing token segment")
	}
	orderID = rest[:idx]
	token = rest[idx+len(tokenSeparator):]
	if orderID == "" || token == "" {
		return "", "", fmt.Errorf("payload has empty order id or token")
	}
	return orderID, token, nil
}

// Generate renders the payload for orderID/token as a 256px PNG and returns
// it as a base64 data URI alongside the raw payload string.
func Generate(orderID, token string) (dataURI, payload string, err error) {
	payload = Payload(orderID, token)
	png, err := qrcode.Encode(payload, qrcode.Low, 256)
	if err != nil {
		return "", payload, fmt.Errorf("failed to encode QR image: %w", err)
	}
	dataURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	return dataURI, payload, nil
}
