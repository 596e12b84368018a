package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tiffin-market-api/models"
)

func TestChargesForTwoKitchenScenario(t *testing.T) {
	// Kitchen A: price 100 × qty 2; Kitchen B: price 50 × qty 1.
	// Flat fee 40, 5% tax.
	a := []models.CartItem{{Price: 100, Quantity: 2}}
	b := []models.CartItem{{Price: 50, Quantity: 1}}

	chargesA := ChargesFor(Subtotal(a), 40, 5)
	assert.Equal(t, 200.0, chargesA.Subtotal)
	assert.Equal(t, 40.0, chargesA.DeliveryFee)
	assert.Equal(t, 10.0, chargesA.Tax)
	assert.Equal(t, 250.0, chargesA.Total)

	chargesB := ChargesFor(Subtotal(b), 40, 5)
	assert.Equal(t, 50.0, chargesB.Subtotal)
	assert.Equal(t, 2.5, chargesB.Tax)
	assert.Equal(t, 92.5, chargesB.Total)
}

func TestSubtotalSumsLines(t *testing.T) {
	items := []models.CartItem{
		{Price: 120.5, Quantity: 2},
		{Price: 80, Quantity: 1},
	}
	assert.True(t, Subtotal(items).Equal(Subtotal(items)))
	assert.Equal(t, 321.0, Subtotal(items).InexactFloat64())
}

func TestTaxRoundedToTwoDecimals(t *testing.T) {
	// 99.99 × 5% = 4.9995 → 5.00
	items := []models.CartItem{{Price: 99.99, Quantity: 1}}
	charges := ChargesFor(Subtotal(items), 0, 5)
	assert.Equal(t, 5.0, charges.Tax)
}

func TestCartTotal(t *testing.T) {
	items := []models.CartItem{
		{Price: 10, Quantity: 3},
		{Price: 5.5, Quantity: 2},
	}
	assert.Equal(t, 41.0, CartTotal(items))
	assert.Equal(t, 0.0, CartTotal(nil))
}

func TestRoundRating(t *testing.T) {
	assert.Equal(t, 0.0, RoundRating(0, 0))
	assert.Equal(t, 5.0, RoundRating(5, 1))
	assert.Equal(t, 4.5, RoundRating(9, 2))
	// (5+4+4)/3 = 4.333… → 4.3
	assert.Equal(t, 4.3, RoundRating(13, 3))
	// (5+4)/2 with a 3: (5+4+3)/3 = 4.0
	assert.Equal(t, 4.0, RoundRating(12, 3))
	// 2/3 = 0.666… → 0.7
	assert.Equal(t, 0.7, RoundRating(2, 3))
}
