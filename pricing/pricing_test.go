package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Baysah/prostore/models"
)

func item(price string, qty int) models.CartItem {
	return models.CartItem{ProductID: "p-" + price, Price: price, Qty: qty}
}

func TestCalcPricesFreeShippingOverThreshold(t *testing.T) {
	got, err := CalcPrices([]models.CartItem{item("60.00", 2)})
	require.NoError(t, err)

	assert.Equal(t, "120.00", got.ItemsPrice)
	assert.Equal(t, "0.00", got.ShippingPrice)
	assert.Equal(t, "8.40", got.TaxPrice)
	assert.Equal(t, "128.40", got.TotalPrice)
}

func TestCalcPricesFlatShippingAtOrBelowThreshold(t *testing.T) {
	got, err := CalcPrices([]models.CartItem{item("10.00", 1)})
	require.NoError(t, err)

	assert.Equal(t, "10.00", got.ItemsPrice)
	assert.Equal(t, "10.00", got.ShippingPrice)
	assert.Equal(t, "0.70", got.TaxPrice)
	assert.Equal(t, "20.70", got.TotalPrice)
}

func TestCalcPricesThresholdIsExclusive(t *testing.T) {
	// Exactly 100.00 still pays shipping; only strictly greater is free.
	got, err := CalcPrices([]models.CartItem{item("100.00", 1)})
	require.NoError(t, err)
	assert.Equal(t, "10.00", got.ShippingPrice)

	got, err = CalcPrices([]models.CartItem{item("100.01", 1)})
	require.NoError(t, err)
	assert.Equal(t, "0.00", got.ShippingPrice)
}

func TestCalcPricesEmptyCart(t *testing.T) {
	got, err := CalcPrices(nil)
	require.NoError(t, err)

	assert.Equal(t, "0.00", got.ItemsPrice)
	// An empty cart is never priced for shipping in practice; the calculator
	// itself still applies the flat fee below the threshold.
	assert.Equal(t, "10.00", got.ShippingPrice)
	assert.Equal(t, "0.00", got.TaxPrice)
	assert.Equal(t, "10.00", got.TotalPrice)
}

func TestCalcPricesRoundsAggregatesNotLines(t *testing.T) {
	// 3 x 0.335 = 1.005 -> 1.01 when rounded once at the aggregate.
	got, err := CalcPrices([]models.CartItem{item("0.335", 3)})
	require.NoError(t, err)
	assert.Equal(t, "1.01", got.ItemsPrice)
}

func TestCalcPricesRejectsMalformedPrice(t *testing.T) {
	// A corrupt snapshot must fail loudly, never price the cart short.
	_, err := CalcPrices([]models.CartItem{item("60.00", 1), item("sixty", 1)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sixty")
}

func TestCalcPricesTotalIsExactSum(t *testing.T) {
	cases := [][]models.CartItem{
		{item("19.99", 3)},
		{item("49.95", 1), item("24.99", 2)},
		{item("100.00", 1)},
		{item("0.01", 7)},
		{item("33.33", 3), item("1.37", 5)},
	}
	for _, items := range cases {
		got, err := CalcPrices(items)
		require.NoError(t, err)

		itemsPrice, err := decimal.NewFromString(got.ItemsPrice)
		require.NoError(t, err)
		shipping, err := decimal.NewFromString(got.ShippingPrice)
		require.NoError(t, err)
		tax, err := decimal.NewFromString(got.TaxPrice)
		require.NoError(t, err)
		total, err := decimal.NewFromString(got.TotalPrice)
		require.NoError(t, err)

		assert.True(t, itemsPrice.Add(shipping).Add(tax).Equal(total),
			"grand total must equal the sum of its parts for %v", items)
	}
}
