package payment

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"

	"github.com/google/uuid"
)

// ErrSignatureMismatch is returned when the client-supplied signature does
// not match the server-side recomputation.
var ErrSignatureMismatch = errors.New("payment signature verification failed")

// NewReceipt mints a unique receipt identifier for a gateway checkout.
func NewReceipt() string {
	return "rcpt_" + uuid.NewString()
}

// Sign computes the gateway's HMAC-SHA256 signature over
// orderID + "|" + paymentID with the shared key secret.
func Sign(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify recomputes the signature and compares it in constant time against
// the one the client submitted.
func Verify(orderID, paymentID, signature, secret string) error {
	expected := Sign(orderID, paymentID, secret)
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
