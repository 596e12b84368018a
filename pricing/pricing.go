package pricing

import (
	"github.com/shopspring/decimal"

	"tiffin-market-api/models"
)

// Charges is the per-order money breakdown produced at checkout. All
// amounts are rounded to 2 decimal places.
type Charges struct {
	Subtotal    float64
	DeliveryFee float64
	Tax         float64
	Total       float64
}

// Subtotal computes Σ price×quantity over a kitchen's cart partition.
func Subtotal(items []models.CartItem) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		line := decimal.NewFromFloat(it.Price).Mul(decimal.NewFromInt(int64(it.Quantity)))
		sum = sum.Add(line)
	}
	return sum
}

// ChargesFor applies the flat delivery fee and percentage tax to a subtotal.
func ChargesFor(subtotal decimal.Decimal, deliveryFee, taxPercent float64) Charges {
	fee := decimal.NewFromFloat(deliveryFee)
	tax := subtotal.Mul(decimal.NewFromFloat(taxPercent)).Div(decimal.NewFromInt(100)).Round(2)
	total := subtotal.Add(fee).Add(tax)
	return Charges{
		Subtotal:    subtotal.Round(2).InexactFloat64(),
		DeliveryFee: fee.Round(2).InexactFloat64(),
		Tax:         tax.InexactFloat64(),
		Total:       total.Round(2).InexactFloat64(),
	}
}

// CartTotal recomputes a cart's grand total across all line items.
func CartTotal(items []models.CartItem) float64 {
	return Subtotal(items).Round(2).InexactFloat64()
}

// RoundRating rounds an aggregate rating mean to one decimal place.
func RoundRating(sum int, count int) float64 {
	if count == 0 {
		return 0
	}
	mean := decimal.NewFromInt(int64(sum)).Div(decimal.NewFromInt(int64(count)))
	return mean.Round(1).InexactFloat64()
}
