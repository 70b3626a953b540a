package cartControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Baysah/prostore/middleware"
	"github.com/Baysah/prostore/models"
	"github.com/Baysah/prostore/pricing"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("item not found in cart")
	ErrProductNotFound = errors.New("product not found")
	ErrOutOfStock      = errors.New("not enough stock")
	ErrNoIdentity      = errors.New("no cart identity")
)

// Identity is the caller's cart scope: a signed-in user id, an anonymous
// cart-session token, or both (user wins). Core operations take it explicitly
// instead of reading request state.
type Identity struct {
	UserID        string
	SessionCartID string
}

func IdentityFromContext(c *gin.Context) Identity {
	var id Identity
	if v, exists := c.Get("user_id"); exists {
		id.UserID, _ = v.(string)
	}
	if token, err := c.Cookie(middleware.SessionCartCookie); err == nil {
		id.SessionCartID = token
	}
	return id
}

type AddItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
}

// findCart resolves the identity to at most one cart. A missing cart is
// (nil, nil), not an error.
func findCart(db *gorm.DB, id Identity) (*models.Cart, error) {
	query := db.Preload("Items")
	switch {
	case id.UserID != "":
		query = query.Where("user_id = ?", id.UserID)
	case id.SessionCartID != "":
		query = query.Where("session_cart_id = ? AND user_id IS NULL", id.SessionCartID)
	default:
		return nil, ErrNoIdentity
	}

	var cart models.Cart
	if err := query.First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &cart, nil
}

// GetMyCart returns the caller's cart, or nil when none exists yet.
func GetMyCart(db *gorm.DB, id Identity) (*models.Cart, error) {
	return findCart(db, id)
}

// applyTotals recomputes the derived totals from the lines. An empty cart is
// fully zeroed rather than priced for shipping. A line with a corrupt price
// snapshot fails the whole mutation instead of pricing the cart short.
func applyTotals(cart *models.Cart) error {
	if len(cart.Items) == 0 {
		cart.ItemsPrice, cart.ShippingPrice, cart.TaxPrice, cart.TotalPrice = "0.00", "0.00", "0.00", "0.00"
		return nil
	}
	prices, err := pricing.CalcPrices(cart.Items)
	if err != nil {
		return err
	}
	cart.ItemsPrice = prices.ItemsPrice
	cart.ShippingPrice = prices.ShippingPrice
	cart.TaxPrice = prices.TaxPrice
	cart.TotalPrice = prices.TotalPrice
	return nil
}

func saveTotals(tx *gorm.DB, cart *models.Cart) error {
	return tx.Model(&models.Cart{}).Where("id = ?", cart.ID).Updates(map[string]interface{}{
		"items_price":    cart.ItemsPrice,
		"shipping_price": cart.ShippingPrice,
		"tax_price":      cart.TaxPrice,
		"total_price":    cart.TotalPrice,
	}).Error
}

// AddItemToCart adds one unit of the product to the caller's cart, creating
// the cart on first use. The product's live stock is the authority: the add
// fails when stock cannot cover the quantity already in the cart plus one.
func AddItemToCart(db *gorm.DB, id Identity, productID string) models.Result {
	var cart *models.Cart

	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var err error
		cart, err = findCart(tx, id)
		if err != nil {
			return err
		}

		if cart == nil {
			if product.Stock < 1 {
				return ErrOutOfStock
			}
			cart = &models.Cart{
				ID:            uuid.NewString(),
				SessionCartID: id.SessionCartID,
				Items:         []models.CartItem{newCartItem(product)},
			}
			if id.UserID != "" {
				cart.UserID = &id.UserID
				cart.SessionCartID = ""
			}
			if err := applyTotals(cart); err != nil {
				return err
			}
			return tx.Create(cart).Error
		}

		line := findLine(cart, productID)
		qtyInCart := 0
		if line != nil {
			qtyInCart = line.Qty
		}
		if product.Stock < qtyInCart+1 {
			return ErrOutOfStock
		}

		if line != nil {
			line.Qty++
			if err := tx.Model(&models.CartItem{}).Where("id = ?", line.ID).
				Update("qty", line.Qty).Error; err != nil {
				return err
			}
		} else {
			item := newCartItem(product)
			item.CartID = cart.ID
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
			cart.Items = append(cart.Items, item)
		}

		if err := applyTotals(cart); err != nil {
			return err
		}
		return saveTotals(tx, cart)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrProductNotFound):
			return models.Fail("Product not found")
		case errors.Is(err, ErrOutOfStock):
			return models.Fail("Not enough stock")
		case errors.Is(err, ErrNoIdentity):
			return models.Fail("Cart session not found")
		default:
			return models.Fail("Failed to add item to cart")
		}
	}

	return models.Result{Success: true, Message: "Item added to cart", Data: cart}
}

// RemoveItemFromCart removes one unit; the line disappears at quantity zero.
func RemoveItemFromCart(db *gorm.DB, id Identity, productID string) models.Result {
	var cart *models.Cart

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		cart, err = findCart(tx, id)
		if err != nil {
			return err
		}
		if cart == nil {
			return ErrCartNotFound
		}

		line := findLine(cart, productID)
		if line == nil {
			return ErrItemNotFound
		}

		if line.Qty > 1 {
			line.Qty--
			if err := tx.Model(&models.CartItem{}).Where("id = ?", line.ID).
				Update("qty", line.Qty).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Delete(&models.CartItem{}, "id = ?", line.ID).Error; err != nil {
				return err
			}
			cart.Items = deleteLine(cart.Items, line.ID)
		}

		if err := applyTotals(cart); err != nil {
			return err
		}
		return saveTotals(tx, cart)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrCartNotFound):
			return models.Fail("Cart not found")
		case errors.Is(err, ErrItemNotFound):
			return models.Fail("Item not found in cart")
		case errors.Is(err, ErrNoIdentity):
			return models.Fail("Cart session not found")
		default:
			return models.Fail("Failed to remove item from cart")
		}
	}

	return models.Result{Success: true, Message: "Item removed from cart", Data: cart}
}

// ClearCart empties the lines and zeroes the totals. Order creation calls
// this inside its own transaction.
func ClearCart(tx *gorm.DB, cartID string) error {
	if err := tx.Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	return tx.Model(&models.Cart{}).Where("id = ?", cartID).Updates(map[string]interface{}{
		"items_price":    "0.00",
		"shipping_price": "0.00",
		"tax_price":      "0.00",
		"total_price":    "0.00",
	}).Error
}

// MergeSessionCart re-owns a non-empty anonymous cart to the user at sign-in.
// The user's previous cart, if any, is dropped in favour of the session cart.
func MergeSessionCart(db *gorm.DB, userID, sessionCartID string) error {
	if sessionCartID == "" {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		sessionCart, err := findCart(tx, Identity{SessionCartID: sessionCartID})
		if err != nil || sessionCart == nil {
			return err
		}
		if len(sessionCart.Items) == 0 {
			return nil
		}

		var existing models.Cart
		err = tx.Where("user_id = ?", userID).First(&existing).Error
		if err == nil {
			if err := tx.Where("cart_id = ?", existing.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Cart{}, "id = ?", existing.ID).Error; err != nil {
				return err
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		return tx.Model(&models.Cart{}).Where("id = ?", sessionCart.ID).Updates(map[string]interface{}{
			"user_id":         userID,
			"session_cart_id": "",
		}).Error
	})
}

func newCartItem(product models.Product) models.CartItem {
	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	return models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Slug:      product.Slug,
		Image:     image,
		Price:     product.Price,
		Qty:       1,
	}
}

func findLine(cart *models.Cart, productID string) *models.CartItem {
	for i := range cart.Items {
		if cart.Items[i].ProductID == productID {
			return &cart.Items[i]
		}
	}
	return nil
}

func deleteLine(items []models.CartItem, id uint) []models.CartItem {
	out := items[:0]
	for _, item := range items {
		if item.ID != id {
			out = append(out, item)
		}
	}
	return out
}

// -------- Handlers --------

// GET /cart
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart, err := GetMyCart(db, IdentityFromContext(c))
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch cart"))
			return
		}
		c.JSON(http.StatusOK, models.Result{Success: true, Data: cart})
	}
}

// POST /cart
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		result := AddItemToCart(db, IdentityFromContext(c), input.ProductID)
		if !result.Success {
			c.JSON(http.StatusBadRequest, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// DELETE /cart/:product_id
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := RemoveItemFromCart(db, IdentityFromContext(c), c.Param("product_id"))
		if !result.Success {
			status := http.StatusBadRequest
			if result.Message == "Cart not found" || result.Message == "Item not found in cart" {
				status = http.StatusNotFound
			}
			c.JSON(status, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
