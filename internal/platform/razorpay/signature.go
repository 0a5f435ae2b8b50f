package razorpay

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// VerifyPaymentSignature recomputes the HMAC-SHA256 digest over
// orderID + "|" + paymentID with the key secret and compares it against the
// supplied hex signature in constant time. A mismatch is a normal negative
// result; the sole error-free false return is the whole authenticity check.
func (g *Gateway) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return verifyHMAC(g.keySecret, orderID+"|"+paymentID, signature)
}

// VerifyWebhookSignature checks the X-Razorpay-Signature header against the
// raw request body using the webhook secret.
func (g *Gateway) VerifyWebhookSignature(body []byte, signature string) bool {
	if g.webhookSecret == "" {
		return false
	}
	return verifyHMAC(g.webhookSecret, string(body), signature)
}

func verifyHMAC(secret, payload, signature string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	expected := hex.EncodeToString(mac.Sum(nil))
	// hmac.Equal is constant time for equal-length inputs
	return hmac.Equal([]byte(expected), []byte(signature))
}
