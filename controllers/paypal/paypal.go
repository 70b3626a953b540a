package paypalControllers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	orderControllers "github.com/Baysah/prostore/controllers/order"
	"github.com/Baysah/prostore/models"
)

// ErrGatewayMismatch rejects a capture whose id, status or amount does not
// match what this side expects. Client-submitted data is never trusted.
var ErrGatewayMismatch = errors.New("payment verification failed")

// Gateway is the slice of the PayPal client the pipeline depends on.
type Gateway interface {
	CreateOrder(amount string) (string, error)
	CapturePayment(remoteOrderID string) (*CaptureResponse, error)
}

// CreateGatewayOrder creates the remote payment intent sized to the order's
// grand total and stores its id on the order as a placeholder payment result,
// to be verified at capture time.
func CreateGatewayOrder(db *gorm.DB, gateway Gateway, orderID string) models.Result {
	order, err := orderControllers.GetOrderByID(db, orderID)
	if err != nil {
		if errors.Is(err, orderControllers.ErrOrderNotFound) {
			return models.Fail("Order not found")
		}
		return models.Fail("Failed to fetch order")
	}

	remoteID, err := gateway.CreateOrder(order.TotalPrice)
	if err != nil {
		return models.Fail("Failed to create PayPal order")
	}

	placeholder := models.PaymentResult{ID: remoteID, Status: "", EmailAddress: "", PricePaid: "0"}
	err = db.Model(&models.Order{}).Where("id = ?", order.ID).Updates(map[string]interface{}{
		"payment_id":            placeholder.ID,
		"payment_status":        placeholder.Status,
		"payment_email_address": placeholder.EmailAddress,
		"payment_price_paid":    placeholder.PricePaid,
	}).Error
	if err != nil {
		return models.Fail("Failed to store PayPal order")
	}

	return models.Result{
		Success: true,
		Message: "PayPal order created",
		Data:    gin.H{"paypal_order_id": remoteID},
	}
}

// verifyCapture checks the captured payment against the order: the captured
// id must match the stored placeholder, the status must be exactly COMPLETED
// and the captured amount must equal the order's grand total. Any mismatch
// fails closed.
func verifyCapture(order *models.Order, capture *CaptureResponse) (models.PaymentResult, error) {
	if capture == nil || capture.ID == "" || capture.ID != order.PaymentResult.ID {
		return models.PaymentResult{}, fmt.Errorf("%w: captured id does not match this order's PayPal order", ErrGatewayMismatch)
	}
	if capture.Status != "COMPLETED" {
		return models.PaymentResult{}, fmt.Errorf("%w: capture status %q is not COMPLETED", ErrGatewayMismatch, capture.Status)
	}
	if len(capture.PurchaseUnits) == 0 || len(capture.PurchaseUnits[0].Payments.Captures) == 0 {
		return models.PaymentResult{}, fmt.Errorf("%w: capture carries no captured amount", ErrGatewayMismatch)
	}

	captured := capture.PurchaseUnits[0].Payments.Captures[0].Amount.Value
	capturedAmount, err := decimal.NewFromString(captured)
	if err != nil {
		return models.PaymentResult{}, fmt.Errorf("%w: unreadable captured amount %q", ErrGatewayMismatch, captured)
	}
	orderTotal, err := decimal.NewFromString(order.TotalPrice)
	if err != nil {
		return models.PaymentResult{}, fmt.Errorf("%w: unreadable order total %q", ErrGatewayMismatch, order.TotalPrice)
	}
	if !capturedAmount.Equal(orderTotal) {
		return models.PaymentResult{}, fmt.Errorf("%w: captured amount %s does not match order total %s",
			ErrGatewayMismatch, capturedAmount.StringFixed(2), order.TotalPrice)
	}

	return models.PaymentResult{
		ID:           capture.ID,
		Status:       capture.Status,
		EmailAddress: capture.Payer.EmailAddress,
		PricePaid:    capturedAmount.StringFixed(2),
	}, nil
}

// CaptureGatewayOrder captures the remote order and, only after the result
// verifies, marks the order paid. The paid transition decrements stock and is
// guarded against double application, so a second capture attempt cannot
// deplete stock twice.
func CaptureGatewayOrder(db *gorm.DB, gateway Gateway, orderID, remoteOrderID string) models.Result {
	order, err := orderControllers.GetOrderByID(db, orderID)
	if err != nil {
		if errors.Is(err, orderControllers.ErrOrderNotFound) {
			return models.Fail("Order not found")
		}
		return models.Fail("Failed to fetch order")
	}

	capture, err := gateway.CapturePayment(remoteOrderID)
	if err != nil {
		return models.Fail("Failed to capture PayPal payment")
	}

	payment, err := verifyCapture(order, capture)
	if err != nil {
		return models.Fail("Error in PayPal payment: " + err.Error())
	}

	if err := orderControllers.MarkOrderPaid(db, order.ID, payment); err != nil {
		switch {
		case errors.Is(err, orderControllers.ErrAlreadyPaid):
			return models.Fail("Order is already paid")
		case errors.Is(err, orderControllers.ErrOutOfStock):
			return models.Fail("Not enough stock")
		}
		return models.Fail("Failed to update order to paid")
	}

	return models.Result{
		Success:    true,
		Message:    "Your order has been paid",
		RedirectTo: "/order/" + order.ID,
	}
}

// -------- Handlers --------

type captureInput struct {
	PayPalOrderID string `json:"paypal_order_id" binding:"required"`
}

func ownsOrder(c *gin.Context, db *gorm.DB, orderID string) bool {
	order, err := orderControllers.GetOrderByID(db, orderID)
	if err != nil {
		return false
	}
	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")
	return order.UserID == userID || role == models.RoleAdmin
}

// POST /orders/:orderID/paypal
func CreatePayPalOrderHandler(db *gorm.DB, gateway Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if !ownsOrder(c, db, orderID) {
			c.JSON(http.StatusForbidden, models.Fail("Not authorized to pay for this order"))
			return
		}

		result := CreateGatewayOrder(db, gateway, orderID)
		if !result.Success {
			status := http.StatusBadGateway
			if result.Message == "Order not found" {
				status = http.StatusNotFound
			}
			c.JSON(status, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// POST /orders/:orderID/paypal/capture
func CapturePayPalOrderHandler(db *gorm.DB, gateway Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("orderID")
		if !ownsOrder(c, db, orderID) {
			c.JSON(http.StatusForbidden, models.Fail("Not authorized to pay for this order"))
			return
		}

		var input captureInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, models.Fail("Invalid input: "+err.Error()))
			return
		}

		result := CaptureGatewayOrder(db, gateway, orderID, input.PayPalOrderID)
		if !result.Success {
			status := http.StatusBadRequest
			if result.Message == "Order not found" {
				status = http.StatusNotFound
			}
			c.JSON(status, result)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
