package orderControllers

import (
	"errors"
	"math"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	cartControllers "github.com/Baysah/prostore/controllers/cart"
	"github.com/Baysah/prostore/models"
)

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrAlreadyPaid      = errors.New("order is already paid")
	ErrNotPaid          = errors.New("order is not paid")
	ErrAlreadyDelivered = errors.New("order is already delivered")
	ErrOutOfStock       = errors.New("not enough stock")
)

const defaultOrderPageSize = 10

func orderPageSize() int {
	if v, err := strconv.Atoi(os.Getenv("ORDER_PAGE_SIZE")); err == nil && v > 0 {
		return v
	}
	return defaultOrderPageSize
}

// -------- Core Logic --------

// CreateOrder turns the user's cart into an order. The order row, its items
// and the cart clearing commit in one transaction; any failure rolls the
// whole step back. Totals and the shipping address are frozen snapshots.
func CreateOrder(db *gorm.DB, userID string) models.Result {
	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		return models.Fail("User not found")
	}

	cart, err := cartControllers.GetMyCart(db, cartControllers.Identity{UserID: userID})
	if err != nil {
		return models.Fail("Failed to fetch cart")
	}

	if cart == nil || len(cart.Items) == 0 {
		return models.Result{Success: false, Message: "Cart is empty", RedirectTo: "/cart"}
	}
	if !user.Address.HasShippingAddress() {
		return models.Result{Success: false, Message: "No Shipping Address Found", RedirectTo: "/shipping-address"}
	}
	if user.PaymentMethod == "" {
		return models.Result{Success: false, Message: "No Payment Method Selected", RedirectTo: "/payment-method"}
	}

	order := models.Order{
		ID:              uuid.NewString(),
		UserID:          user.ID,
		ShippingAddress: user.Address,
		PaymentMethod:   user.PaymentMethod,
		ItemsPrice:      cart.ItemsPrice,
		ShippingPrice:   cart.ShippingPrice,
		TaxPrice:        cart.TaxPrice,
		TotalPrice:      cart.TotalPrice,
		CreatedAt:       time.Now(),
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, models.OrderItem{
			OrderID:   order.ID,
			ProductID: item.ProductID,
			Name:      item.Name,
			Slug:      item.Slug,
			Image:     item.Image,
			Price:     item.Price,
			Qty:       item.Qty,
		})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order).Error; err != nil {
			return err
		}
		return cartControllers.ClearCart(tx, cart.ID)
	})
	if err != nil {
		return models.Fail("Failed to create order")
	}

	broadcastOrderEvent(OrderEvent{Type: "order-created", OrderID: order.ID, UserID: order.UserID})

	return models.Result{
		Success:    true,
		Message:    "Order created",
		RedirectTo: "/order/" + order.ID,
		Data:       gin.H{"order_id": order.ID},
	}
}

// MarkOrderPaid flips the paid flag exactly once. The flag is re-checked
// under a row lock inside the transaction, so a concurrent second capture
// fails with ErrAlreadyPaid instead of decrementing stock twice.
func MarkOrderPaid(db *gorm.DB, orderID string, payment models.PaymentResult) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if order.IsPaid {
			return ErrAlreadyPaid
		}

		var items []models.OrderItem
		if err := tx.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
			return err
		}

		for _, item := range items {
			var product models.Product
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				First(&product, "id = ?", item.ProductID).Error; err != nil {
				return err
			}
			// The cart-time stock gate is per cart; re-check under the row
			// lock so stock never goes negative.
			if product.Stock < item.Qty {
				return ErrOutOfStock
			}
			product.Stock -= item.Qty
			if err := tx.Save(&product).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		return tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
			"is_paid":               true,
			"paid_at":               now,
			"payment_id":            payment.ID,
			"payment_status":        payment.Status,
			"payment_email_address": payment.EmailAddress,
			"payment_price_paid":    payment.PricePaid,
		}).Error
	})
	if err != nil {
		return err
	}

	broadcastOrderEvent(OrderEvent{Type: "order-paid", OrderID: orderID})
	return nil
}

// MarkOrderDelivered flips the delivered flag exactly once; only paid orders
// can be delivered.
func MarkOrderDelivered(db *gorm.DB, orderID string) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&order, "id = ?", orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}
		if !order.IsPaid {
			return ErrNotPaid
		}
		if order.IsDelivered {
			return ErrAlreadyDelivered
		}

		now := time.Now()
		return tx.Model(&models.Order{}).Where("id = ?", orderID).Updates(map[string]interface{}{
			"is_delivered": true,
			"delivered_at": now,
		}).Error
	})
	if err != nil {
		return err
	}

	broadcastOrderEvent(OrderEvent{Type: "order-delivered", OrderID: orderID})
	return nil
}

// GetOrderByID fetches one order with its items and buyer.
func GetOrderByID(db *gorm.DB, orderID string) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").Preload("User").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func listOrders(db *gorm.DB, page int, scope func(*gorm.DB) *gorm.DB) ([]models.Order, int, error) {
	if page < 1 {
		page = 1
	}
	pageSize := orderPageSize()

	var count int64
	if err := scope(db.Model(&models.Order{})).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var orders []models.Order
	err := scope(db.Preload("Items").Preload("User")).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	totalPages := int(math.Ceil(float64(count) / float64(pageSize)))
	return orders, totalPages, nil
}

// GetMyOrders returns one page of the user's orders, newest first.
func GetMyOrders(db *gorm.DB, userID string, page int) ([]models.Order, int, error) {
	return listOrders(db, page, func(q *gorm.DB) *gorm.DB {
		return q.Where("user_id = ?", userID)
	})
}

// GetAllOrders returns one page across all users (admin).
func GetAllOrders(db *gorm.DB, page int) ([]models.Order, int, error) {
	return listOrders(db, page, func(q *gorm.DB) *gorm.DB { return q })
}

// DeleteOrder removes an order and its items (admin).
func DeleteOrder(db *gorm.DB, orderID string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Order{}, "id = ?", orderID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrOrderNotFound
		}
		return nil
	})
}

// MonthlySales is one month's bucket in the admin sales chart.
type MonthlySales struct {
	Month      string `json:"month"`
	TotalSales string `json:"total_sales"`
}

// Summary backs the admin overview page.
type Summary struct {
	OrdersCount   int64          `json:"orders_count"`
	ProductsCount int64          `json:"products_count"`
	UsersCount    int64          `json:"users_count"`
	TotalSales    string         `json:"total_sales"`
	SalesData     []MonthlySales `json:"sales_data"`
	LatestSales   []models.Order `json:"latest_sales"`
}

// GetOrderSummary aggregates counts, total sales, per-month sales and the six
// latest orders. Read-only.
func GetOrderSummary(db *gorm.DB) (*Summary, error) {
	var summary Summary

	if err := db.Model(&models.Order{}).Count(&summary.OrdersCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Product{}).Count(&summary.ProductsCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.User{}).Count(&summary.UsersCount).Error; err != nil {
		return nil, err
	}

	err := db.Model(&models.Order{}).
		Select("COALESCE(SUM(total_price), 0)::numeric(12,2)").
		Scan(&summary.TotalSales).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.Order{}).
		Select("to_char(created_at, 'MM/YY') AS month, SUM(total_price)::numeric(12,2) AS total_sales").
		Group("to_char(created_at, 'MM/YY')").
		Order("min(created_at)").
		Scan(&summary.SalesData).Error
	if err != nil {
		return nil, err
	}

	err = db.Preload("User").Order("created_at DESC").Limit(6).Find(&summary.LatestSales).Error
	if err != nil {
		return nil, err
	}

	return &summary, nil
}

// -------- Handlers --------

// POST /orders
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		result := CreateOrder(db, userID.(string))
		if !result.Success {
			c.JSON(http.StatusBadRequest, result)
			return
		}
		c.JSON(http.StatusCreated, result)
	}
}

// GET /orders/:orderID — owner or admin only.
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := GetOrderByID(db, c.Param("orderID"))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, models.Fail("Order not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch order"))
			return
		}

		userID, _ := c.Get("user_id")
		role, _ := c.Get("role")
		if order.UserID != userID && role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, models.Fail("Not authorized to view this order"))
			return
		}

		c.JSON(http.StatusOK, models.Result{Success: true, Data: order})
	}
}

// GET /orders/mine?page=1
func GetMyOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := c.Get("user_id")
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

		orders, totalPages, err := GetMyOrders(db, userID.(string), page)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch orders"))
			return
		}
		c.JSON(http.StatusOK, models.Result{Success: true, Data: gin.H{
			"orders":      orders,
			"total_pages": totalPages,
		}})
	}
}

// GET /admin/orders?page=1
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

		orders, totalPages, err := GetAllOrders(db, page)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch orders"))
			return
		}
		c.JSON(http.StatusOK, models.Result{Success: true, Data: gin.H{
			"orders":      orders,
			"total_pages": totalPages,
		}})
	}
}

// PUT /admin/orders/:orderID/pay — cash-on-delivery orders bypass the gateway.
func MarkPaidCODHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := MarkOrderPaid(db, c.Param("orderID"), models.PaymentResult{})
		if err != nil {
			respondTransitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.Ok("Order marked as paid"))
	}
}

// PUT /admin/orders/:orderID/deliver
func MarkDeliveredHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := MarkOrderDelivered(db, c.Param("orderID"))
		if err != nil {
			respondTransitionError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.Ok("Order marked as delivered"))
	}
}

// DELETE /admin/orders/:orderID
func DeleteOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := DeleteOrder(db, c.Param("orderID")); err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, models.Fail("Order not found"))
				return
			}
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to delete order"))
			return
		}
		c.JSON(http.StatusOK, models.Ok("Order deleted"))
	}
}

// GET /admin/overview
func GetOrderSummaryHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		summary, err := GetOrderSummary(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, models.Fail("Failed to fetch summary"))
			return
		}
		c.JSON(http.StatusOK, models.Result{Success: true, Data: summary})
	}
}

func respondTransitionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
		c.JSON(http.StatusNotFound, models.Fail("Order not found"))
	case errors.Is(err, ErrAlreadyPaid):
		c.JSON(http.StatusConflict, models.Fail("Order is already paid"))
	case errors.Is(err, ErrAlreadyDelivered):
		c.JSON(http.StatusConflict, models.Fail("Order is already delivered"))
	case errors.Is(err, ErrNotPaid):
		c.JSON(http.StatusBadRequest, models.Fail("Order is not paid"))
	case errors.Is(err, ErrOutOfStock):
		c.JSON(http.StatusConflict, models.Fail("Not enough stock"))
	default:
		c.JSON(http.StatusInternalServerError, models.Fail("Failed to update order"))
	}
}
