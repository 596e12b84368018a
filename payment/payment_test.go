package payment

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyAcceptsValidSignature(t *testing.T) {
	sig := Sign("order_abc", "pay_123", "topsecret")
	require.NoError(t, Verify("order_abc", "pay_123", sig, "topsecret"))
}

func TestVerifyRejectsTamperedSignature(t *testing.T) {
	sig := Sign("order_abc", "pay_123", "topsecret")

	assert.ErrorIs(t, Verify("order_abc", "pay_999", sig, "topsecret"), ErrSignatureMismatch)
	assert.ErrorIs(t, Verify("order_xyz", "pay_123", sig, "topsecret"), ErrSignatureMismatch)
	assert.ErrorIs(t, Verify("order_abc", "pay_123", sig, "wrongsecret"), ErrSignatureMismatch)
	assert.ErrorIs(t, Verify("order_abc", "pay_123", sig+"00", "topsecret"), ErrSignatureMismatch)
}

func TestSignIsDeterministicAndKeyed(t *testing.T) {
	assert.Equal(t, Sign("a", "b", "k"), Sign("a", "b", "k"))
	assert.NotEqual(t, Sign("a", "b", "k"), Sign("a", "b", "other"))
	// The separator prevents ("ab","c") colliding with ("a","bc").
	assert.NotEqual(t, Sign("ab", "c", "k"), Sign("a", "bc", "k"))
}

func TestNewReceipt(t *testing.T) {
	r1 := NewReceipt()
	r2 := NewReceipt()
	assert.True(t, strings.HasPrefix(r1, "rcpt_"))
	assert.NotEqual(t, r1, r2)
}
