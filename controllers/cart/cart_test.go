package cartControllers_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	cartControllers "github.com/Baysah/prostore/controllers/cart"
	"github.com/Baysah/prostore/models"
	"github.com/Baysah/prostore/testutil"
)

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

func sessionIdentity() cartControllers.Identity {
	return cartControllers.Identity{SessionCartID: uuid.NewString()}
}

func TestAddItemCreatesCartWithComputedTotals(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	product := seedProduct(t, db, "60.00", 5)
	id := sessionIdentity()

	result := cartControllers.AddItemToCart(db, id, product.ID)
	require.True(t, result.Success, result.Message)

	cart, err := cartControllers.GetMyCart(db, id)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 1, cart.Items[0].Qty)
	assert.Equal(t, "60.00", cart.ItemsPrice)
	assert.Equal(t, "10.00", cart.ShippingPrice)
	assert.Equal(t, "4.20", cart.TaxPrice)
	assert.Equal(t, "74.20", cart.TotalPrice)
}

func TestAddItemIncrementsExistingLineByOne(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	product := seedProduct(t, db, "60.00", 5)
	id := sessionIdentity()

	require.True(t, cartControllers.AddItemToCart(db, id, product.ID).Success)
	require.True(t, cartControllers.AddItemToCart(db, id, product.ID).Success)

	cart, err := cartControllers.GetMyCart(db, id)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 2, cart.Items[0].Qty)
	assert.Equal(t, "120.00", cart.ItemsPrice)
	assert.Equal(t, "0.00", cart.ShippingPrice)
	assert.Equal(t, "8.40", cart.TaxPrice)
	assert.Equal(t, "128.40", cart.TotalPrice)
}

func TestAddItemFailsWhenStockExhausted(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	product := seedProduct(t, db, "25.00", 1)
	id := sessionIdentity()

	require.True(t, cartControllers.AddItemToCart(db, id, product.ID).Success)

	result := cartControllers.AddItemToCart(db, id, product.ID)
	assert.False(t, result.Success)
	assert.Equal(t, "Not enough stock", result.Message)

	cart, err := cartControllers.GetMyCart(db, id)
	require.NoError(t, err)
	assert.Equal(t, 1, cart.Items[0].Qty)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := testutil.SetupTestPostgres(t)

	result := cartControllers.AddItemToCart(db, sessionIdentity(), uuid.NewString())
	assert.False(t, result.Success)
	assert.Equal(t, "Product not found", result.Message)
}

func TestAddThenRemoveRoundTrip(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	product := seedProduct(t, db, "19.99", 10)
	id := sessionIdentity()

	require.True(t, cartControllers.AddItemToCart(db, id, product.ID).Success)
	before, err := cartControllers.GetMyCart(db, id)
	require.NoError(t, err)

	require.True(t, cartControllers.AddItemToCart(db, id, product.ID).Success)
	require.True(t, cartControllers.RemoveItemFromCart(db, id, product.ID).Success)

	after, err := cartControllers.GetMyCart(db, id)
	require.NoError(t, err)
	assert.Equal(t, before.Items[0].Qty, after.Items[0].Qty)
	assert.Equal(t, before.ItemsPrice, after.ItemsPrice)
	assert.Equal(t, before.ShippingPrice, after.ShippingPrice)
	assert.Equal(t, before.TaxPrice, after.TaxPrice)
	assert.Equal(t, before.TotalPrice, after.TotalPrice)
}

func TestRemoveLastUnitDeletesLineAndZeroesTotals(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	product := seedProduct(t, db, "42.00", 3)
	id := sessionIdentity()

	require.True(t, cartControllers.AddItemToCart(db, id, product.ID).Success)
	require.True(t, cartControllers.RemoveItemFromCart(db, id, product.ID).Success)

	cart, err := cartControllers.GetMyCart(db, id)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Equal(t, "0.00", cart.ItemsPrice)
	assert.Equal(t, "0.00", cart.ShippingPrice)
	assert.Equal(t, "0.00", cart.TaxPrice)
	assert.Equal(t, "0.00", cart.TotalPrice)
}

func TestRemoveItemMissingCartAndLine(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	product := seedProduct(t, db, "10.00", 5)
	id := sessionIdentity()

	result := cartControllers.RemoveItemFromCart(db, id, product.ID)
	assert.False(t, result.Success)
	assert.Equal(t, "Cart not found", result.Message)

	other := seedProduct(t, db, "15.00", 5)
	require.True(t, cartControllers.AddItemToCart(db, id, product.ID).Success)

	result = cartControllers.RemoveItemFromCart(db, id, other.ID)
	assert.False(t, result.Success)
	assert.Equal(t, "Item not found in cart", result.Message)
}

func TestGetMyCartReturnsNilWhenAbsent(t *testing.T) {
	db := testutil.SetupTestPostgres(t)

	cart, err := cartControllers.GetMyCart(db, sessionIdentity())
	require.NoError(t, err)
	assert.Nil(t, cart)
}

func TestMergeSessionCartHandsCartToUser(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	product := seedProduct(t, db, "30.00", 5)

	user := models.User{ID: uuid.NewString(), Name: "Jane", Email: uuid.NewString() + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	// The user shopped before on this device...
	userIdentity := cartControllers.Identity{UserID: user.ID}
	old := seedProduct(t, db, "5.00", 5)
	require.True(t, cartControllers.AddItemToCart(db, userIdentity, old.ID).Success)

	// ...and now signs in with a fresh guest cart.
	guest := sessionIdentity()
	require.True(t, cartControllers.AddItemToCart(db, guest, product.ID).Success)

	require.NoError(t, cartControllers.MergeSessionCart(db, user.ID, guest.SessionCartID))

	cart, err := cartControllers.GetMyCart(db, userIdentity)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, product.ID, cart.Items[0].ProductID)

	// The session token no longer resolves to a cart.
	ghost, err := cartControllers.GetMyCart(db, guest)
	require.NoError(t, err)
	assert.Nil(t, ghost)

	var cartCount int64
	require.NoError(t, db.Model(&models.Cart{}).Count(&cartCount).Error)
	assert.EqualValues(t, 1, cartCount)
}

func TestMergeSessionCartIgnoresEmptySessionCart(t *testing.T) {
	db := testutil.SetupTestPostgres(t)
	product := seedProduct(t, db, "30.00", 5)

	user := models.User{ID: uuid.NewString(), Name: "Jane", Email: uuid.NewString() + "@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	userIdentity := cartControllers.Identity{UserID: user.ID}
	require.True(t, cartControllers.AddItemToCart(db, userIdentity, product.ID).Success)

	require.NoError(t, cartControllers.MergeSessionCart(db, user.ID, uuid.NewString()))

	cart, err := cartControllers.GetMyCart(db, userIdentity)
	require.NoError(t, err)
	require.NotNil(t, cart)
	require.Len(t, cart.Items, 1)
}
