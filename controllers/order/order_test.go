package orderControllers_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	cartControllers "github.com/Baysah/prostore/controllers/cart"
	orderControllers "github.com/Baysah/prostore/controllers/order"
	"github.com/Baysah/prostore/models"
	"github.com/Baysah/prostore/testutil"
)

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{
		ID:       uuid.NewString(),
		Name:     "John Buyer",
		Email:    uuid.NewString() + "@example.com",
		Password: "x",
		Role:     models.RoleUser,
		Address: models.Address{
			FullName:      "John Buyer",
			StreetAddress: "123 Main St",
			City:          "Springfield",
			PostalCode:    "12345",
			Country:       "USA",
		},
		PaymentMethod: models.PaymentMethodPayPal,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func seedProduct(t *testing.T, db *gorm.DB, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{
		ID:          uuid.NewString(),
		Name:        "Test Product " + price,
		Slug:        "test-product-" + uuid.NewString(),
		Category:    "Shirts",
		Brand:       "Acme",
		Description: "A test product",
		Images:      []string{"/uploads/p.jpg"},
		Price:       price,
		Stock:       stock,
		Rating:      "0.00",
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func fillCart(t *testing.T, db *gorm.DB, userID, productID string, qty int) {
	t.Helper()
	id := cartControllers.Identity{UserID: userID}
	for i := 0; i < qty; i++ {
		result := cartControllers.AddItemToCart(db, id, productID)
		require.True(t, result.Success, result.Message)
	}
}

func TestCreateOrderSnapshotsCartAndClearsIt(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "60.00", 10)
	fillCart(t, db, user.ID, product.ID, 2)

	result := orderControllers.CreateOrder(db, user.ID)
	require.True(t, result.Success, result.Message)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, "user_id = ?", user.ID).Error)

	assert.Equal(t, "120.00", order.ItemsPrice)
	assert.Equal(t, "0.00", order.ShippingPrice)
	assert.Equal(t, "8.40", order.TaxPrice)
	assert.Equal(t, "128.40", order.TotalPrice)
	assert.Equal(t, user.Address, order.ShippingAddress)
	assert.Equal(t, models.PaymentMethodPayPal, order.PaymentMethod)
	assert.False(t, order.IsPaid)
	assert.False(t, order.IsDelivered)
	assert.Equal(t, "/order/"+order.ID, result.RedirectTo)

	require.Len(t, order.Items, 1)
	assert.Equal(t, product.ID, order.Items[0].ProductID)
	assert.Equal(t, "60.00", order.Items[0].Price)
	assert.Equal(t, 2, order.Items[0].Qty)

	// The cart is cleared in the same transaction.
	cart, err := cartControllers.GetMyCart(db, cartControllers.Identity{UserID: user.ID})
	require.NoError(t, err)
	require.NotNil(t, cart)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.TotalPrice)

	// Stock is untouched until payment capture.
	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 10, fresh.Stock)
}

func TestCreateOrderEmptyCartRedirects(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	user := seedUser(t, db)

	result := orderControllers.CreateOrder(db, user.ID)
	assert.False(t, result.Success)
	assert.Equal(t, "Cart is empty", result.Message)
	assert.Equal(t, "/cart", result.RedirectTo)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateOrderMissingAddressRedirects(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	user := seedUser(t, db)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).Updates(map[string]interface{}{
		"address_full_name":      "",
		"address_street_address": "",
		"address_city":           "",
		"address_postal_code":    "",
		"address_country":        "",
	}).Error)

	product := seedProduct(t, db, "20.00", 5)
	fillCart(t, db, user.ID, product.ID, 1)

	result := orderControllers.CreateOrder(db, user.ID)
	assert.False(t, result.Success)
	assert.Equal(t, "/shipping-address", result.RedirectTo)

	var count int64
	require.NoError(t, db.Model(&models.Order{}).Count(&count).Error)
	assert.EqualValues(t, 0, count)
}

func TestCreateOrderMissingPaymentMethodRedirects(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	user := seedUser(t, db)
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", user.ID).
		Update("payment_method", "").Error)

	product := seedProduct(t, db, "20.00", 5)
	fillCart(t, db, user.ID, product.ID, 1)

	result := orderControllers.CreateOrder(db, user.ID)
	assert.False(t, result.Success)
	assert.Equal(t, "/payment-method", result.RedirectTo)
}

func TestMarkOrderPaidDecrementsStockExactlyOnce(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "60.00", 10)
	fillCart(t, db, user.ID, product.ID, 2)

	require.True(t, orderControllers.CreateOrder(db, user.ID).Success)
	var order models.Order
	require.NoError(t, db.First(&order, "user_id = ?", user.ID).Error)

	payment := models.PaymentResult{ID: "PAY-1", Status: "COMPLETED", EmailAddress: "buyer@example.com", PricePaid: "128.40"}
	require.NoError(t, orderControllers.MarkOrderPaid(db, order.ID, payment))

	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 8, fresh.Stock)

	var paid models.Order
	require.NoError(t, db.First(&paid, "id = ?", order.ID).Error)
	assert.True(t, paid.IsPaid)
	require.NotNil(t, paid.PaidAt)
	assert.Equal(t, payment, paid.PaymentResult)

	// Second application trips the idempotence guard and leaves stock alone.
	err := orderControllers.MarkOrderPaid(db, order.ID, payment)
	assert.ErrorIs(t, err, orderControllers.ErrAlreadyPaid)

	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 8, fresh.Stock)
}

func TestMarkOrderPaidFailsWhenStockCannotCoverLine(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	first := seedUser(t, db)
	second := seedUser(t, db)
	product := seedProduct(t, db, "25.00", 1)

	// Both carts pass the per-cart stock gate for the same last unit, so
	// both orders get created.
	fillCart(t, db, first.ID, product.ID, 1)
	fillCart(t, db, second.ID, product.ID, 1)
	require.True(t, orderControllers.CreateOrder(db, first.ID).Success)
	require.True(t, orderControllers.CreateOrder(db, second.ID).Success)

	var firstOrder, secondOrder models.Order
	require.NoError(t, db.First(&firstOrder, "user_id = ?", first.ID).Error)
	require.NoError(t, db.First(&secondOrder, "user_id = ?", second.ID).Error)

	require.NoError(t, orderControllers.MarkOrderPaid(db, firstOrder.ID, models.PaymentResult{}))

	// The first capture took the last unit; the second must fail rather
	// than drive stock negative.
	err := orderControllers.MarkOrderPaid(db, secondOrder.ID, models.PaymentResult{})
	assert.ErrorIs(t, err, orderControllers.ErrOutOfStock)

	var fresh models.Product
	require.NoError(t, db.First(&fresh, "id = ?", product.ID).Error)
	assert.Equal(t, 0, fresh.Stock)

	var unpaid models.Order
	require.NoError(t, db.First(&unpaid, "id = ?", secondOrder.ID).Error)
	assert.False(t, unpaid.IsPaid)
	assert.Nil(t, unpaid.PaidAt)
}

func TestMarkOrderPaidUnknownOrder(t *testing.T) {
	db := testutil.SetupTestPostgres(t)

	err := orderControllers.MarkOrderPaid(db, uuid.NewString(), models.PaymentResult{})
	assert.ErrorIs(t, err, orderControllers.ErrOrderNotFound)
}

func TestMarkOrderDeliveredGuards(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "15.00", 5)
	fillCart(t, db, user.ID, product.ID, 1)

	require.True(t, orderControllers.CreateOrder(db, user.ID).Success)
	var order models.Order
	require.NoError(t, db.First(&order, "user_id = ?", user.ID).Error)

	// Unpaid orders cannot be delivered.
	err := orderControllers.MarkOrderDelivered(db, order.ID)
	assert.ErrorIs(t, err, orderControllers.ErrNotPaid)

	require.NoError(t, orderControllers.MarkOrderPaid(db, order.ID, models.PaymentResult{}))
	require.NoError(t, orderControllers.MarkOrderDelivered(db, order.ID))

	err = orderControllers.MarkOrderDelivered(db, order.ID)
	assert.ErrorIs(t, err, orderControllers.ErrAlreadyDelivered)

	var delivered models.Order
	require.NoError(t, db.First(&delivered, "id = ?", order.ID).Error)
	assert.True(t, delivered.IsDelivered)
	require.NotNil(t, delivered.DeliveredAt)
}

func TestListOrdersPagination(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "10.00", 100)

	t.Setenv("ORDER_PAGE_SIZE", "2")

	for i := 0; i < 3; i++ {
		fillCart(t, db, user.ID, product.ID, 1)
		require.True(t, orderControllers.CreateOrder(db, user.ID).Success)
	}

	orders, totalPages, err := orderControllers.GetMyOrders(db, user.ID, 1)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
	assert.Equal(t, 2, totalPages)

	orders, _, err = orderControllers.GetMyOrders(db, user.ID, 2)
	require.NoError(t, err)
	assert.Len(t, orders, 1)

	all, totalPages, err := orderControllers.GetAllOrders(db, 1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, 2, totalPages)
}

func TestGetOrderSummary(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "60.00", 50)

	fillCart(t, db, user.ID, product.ID, 2)
	require.True(t, orderControllers.CreateOrder(db, user.ID).Success)
	fillCart(t, db, user.ID, product.ID, 2)
	require.True(t, orderControllers.CreateOrder(db, user.ID).Success)

	summary, err := orderControllers.GetOrderSummary(db)
	require.NoError(t, err)

	assert.EqualValues(t, 2, summary.OrdersCount)
	assert.EqualValues(t, 1, summary.ProductsCount)
	assert.EqualValues(t, 1, summary.UsersCount)
	assert.Equal(t, "256.80", summary.TotalSales)
	require.Len(t, summary.SalesData, 1)
	assert.Equal(t, "256.80", summary.SalesData[0].TotalSales)
	assert.Len(t, summary.LatestSales, 2)
}

func TestDeleteOrderRemovesItems(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	user := seedUser(t, db)
	product := seedProduct(t, db, "10.00", 5)
	fillCart(t, db, user.ID, product.ID, 1)
	require.True(t, orderControllers.CreateOrder(db, user.ID).Success)

	var order models.Order
	require.NoError(t, db.First(&order, "user_id = ?", user.ID).Error)

	require.NoError(t, orderControllers.DeleteOrder(db, order.ID))

	var orderCount, itemCount int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orderCount).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&itemCount).Error)
	assert.EqualValues(t, 0, orderCount)
	assert.EqualValues(t, 0, itemCount)

	assert.ErrorIs(t, orderControllers.DeleteOrder(db, order.ID), orderControllers.ErrOrderNotFound)
}
