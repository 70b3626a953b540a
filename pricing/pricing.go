package pricing

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Baysah/prostore/models"
)

// Shipping is free strictly above the threshold, otherwise the flat fee applies.
var (
	freeShippingThreshold = decimal.NewFromInt(100)
	flatShippingFee       = decimal.NewFromInt(10)
	taxRate               = decimal.NewFromFloat(0.07)
)

// CalcPrices derives the four cart totals from the line items. Pure function,
// no I/O. Each aggregate is rounded half-up to 2dp after it is summed, not per
// line, so repeated rounding cannot drift. A line whose snapshot price is not
// a valid decimal fails the whole computation rather than pricing the cart
// short.
func CalcPrices(items []models.CartItem) (models.CartPrices, error) {
	itemsPrice := decimal.Zero
	for _, item := range items {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return models.CartPrices{}, fmt.Errorf("invalid price %q for product %s: %w", item.Price, item.ProductID, err)
		}
		itemsPrice = itemsPrice.Add(price.Mul(decimal.NewFromInt(int64(item.Qty))))
	}
	itemsPrice = itemsPrice.Round(2)

	shippingPrice := flatShippingFee
	if itemsPrice.GreaterThan(freeShippingThreshold) {
		shippingPrice = decimal.Zero
	}

	taxPrice := itemsPrice.Mul(taxRate).Round(2)
	totalPrice := itemsPrice.Add(shippingPrice).Add(taxPrice).Round(2)

	return models.CartPrices{
		ItemsPrice:    itemsPrice.StringFixed(2),
		ShippingPrice: shippingPrice.StringFixed(2),
		TaxPrice:      taxPrice.StringFixed(2),
		TotalPrice:    totalPrice.StringFixed(2),
	}, nil
}
