package controllers

import (
	"errors"
	"log"
	"net/http"
	"path/filepath"
	"time"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/DhikshaSubash/Online-Shopping-Website/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	orderIDLength      = 5
	maxOrderIDAttempts = 25

	msgCartEmpty   = "Cart is empty"
	msgOrderPlaced = "Order placed"
)

// PlaceOrder runs the whole order workflow as one atomic unit: read the
// cart, validate every line against the live catalog, snapshot prices,
// create the order and its items, decrement stock, and clear the cart.
// Validation happens for the entire cart before any write, so a failure on
// the last line leaves stock for the first lines untouched.
func PlaceOrder(s store.Store, email string) (*models.Order, error) {
	var placed *models.Order

	err := s.Atomic(func(tx store.Store) error {
		cartItems, err := tx.ListCartItems(email)
		if err != nil {
			return err
		}
		if len(cartItems) == 0 {
			return store.ErrEmptyCart
		}

		total := decimal.Zero
		orderItems := make([]models.OrderItem, 0, len(cartItems))
		for _, item := range cartItems {
			product, err := tx.GetProductForUpdate(item.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				return &store.ProductNotFoundError{ProductID: item.ProductID}
			}
			if err != nil {
				return err
			}
			if item.Quantity > product.Stock {
				return &store.InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Available: product.Stock,
				}
			}

			total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
			orderItems = append(orderItems, models.OrderItem{
				ProductID:       product.ID,
				Quantity:        item.Quantity,
				PriceAtPurchase: product.Price,
			})
		}

		orderID, err := generateOrderID(tx)
		if err != nil {
			return err
		}

		order := models.Order{
			OrderID: orderID,
			Email:   email,
			Amount:  total,
			Date:    datatypes.Date(time.Now()),
		}
		if err := tx.CreateOrder(&order, orderItems); err != nil {
			return err
		}

		for _, item := range cartItems {
			if err := tx.DecrementStock(item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		if err := tx.ClearCart(email); err != nil {
			return err
		}

		order.Items = orderItems
		placed = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return placed, nil
}

// generateOrderID draws random numeric ids until one is unused. The retry is
// bounded; exhausting it surfaces as a persistence failure.
func generateOrderID(tx store.Store) (string, error) {
	for attempt := 0; attempt < maxOrderIDAttempts; attempt++ {
		id, err := utils.GenerateCode(orderIDLength)
		if err != nil {
			return "", err
		}
		exists, err := tx.OrderIDExists(id)
		if err != nil {
			return "", err
		}
		if !exists {
			return id, nil
		}
	}
	return "", errors.New("could not generate a unique order id")
}

// Send the order confirmation
func sendOrderConfirmationEmail(order *models.Order) error {
	emailData := utils.EmailData{
		Name:    order.Email,
		Message: "Your order has been placed successfully.",
		OrderID: order.OrderID,
		Amount:  order.Amount.StringFixed(2),
		Date:    order.DateString(),
	}

	templatePath := filepath.Join("templates", "order_confirmation.html")
	return utils.SendEmail(order.Email, "Order #"+order.OrderID+" confirmed", emailData, templatePath)
}

// CreateOrder handles POST /user/place-order.
func CreateOrder(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var body struct {
			Email string `json:"email"`
		}
		if err := ctx.ShouldBindJSON(&body); err != nil || body.Email == "" {
			sendErrorResponse(ctx, http.StatusBadRequest, msgEmailRequired)
			return
		}

		order, err := PlaceOrder(s, normalizeEmail(body.Email))
		if err != nil {
			var notFound *store.ProductNotFoundError
			var noStock *store.InsufficientStockError
			switch {
			case errors.Is(err, store.ErrEmptyCart):
				sendErrorResponse(ctx, http.StatusBadRequest, msgCartEmpty)
			case errors.As(err, &notFound):
				sendErrorResponse(ctx, http.StatusBadRequest, notFound.Error())
			case errors.As(err, &noStock):
				sendErrorResponse(ctx, http.StatusBadRequest, noStock.Error())
			default:
				log.Println("Order placement error:", err)
				sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			}
			return
		}

		// Fire and forget: a notification failure is logged, the order stands.
		if err := sendOrderConfirmationEmail(order); err != nil {
			log.Println("Error sending order confirmation email:", err)
		} else {
			log.Println("Order confirmation sent to:", order.Email)
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgOrderPlaced, "order_id": order.OrderID})
	}
}

// GetUserOrders returns a user's order history, newest first, with line
// items joined against current product names.
func GetUserOrders(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		email := normalizeEmail(ctx.Param("email"))

		orders, err := s.ListOrdersByEmail(email)
		if err != nil {
			log.Println("Error fetching orders:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		products, err := s.ListProducts("")
		if err != nil {
			log.Println("Error fetching products:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		names := make(map[uint]string, len(products))
		for _, p := range products {
			names[p.ID] = p.Name
		}

		result := make([]gin.H, 0, len(orders))
		for _, order := range orders {
			items, err := s.ListOrderItems(order.OrderID)
			if err != nil {
				log.Println("Error fetching order items:", err)
				sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
				return
			}

			itemList := make([]gin.H, 0, len(items))
			for _, item := range items {
				price := item.PriceAtPurchase.Mul(decimal.NewFromInt(int64(item.Quantity)))
				itemList = append(itemList, gin.H{
					"name":     names[item.ProductID],
					"quantity": item.Quantity,
					"price":    price.InexactFloat64(),
				})
			}

			result = append(result, gin.H{
				"order_id": order.OrderID,
				"date":     order.DateString(),
				"amount":   order.Amount.InexactFloat64(),
				"items":    itemList,
			})
		}

		ctx.JSON(http.StatusOK, result)
	}
}

// GetOrders returns every order, optionally filtered to one date. Admin only.
func GetOrders(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		orders, err := s.ListOrders(ctx.Query("date"))
		if err != nil {
			log.Println("Error fetching orders:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		result := make([]gin.H, 0, len(orders))
		for _, order := range orders {
			result = append(result, gin.H{
				"order_id":    order.OrderID,
				"user_email":  order.Email,
				"total_price": order.Amount.InexactFloat64(),
				"date":        order.DateString(),
			})
		}

		ctx.JSON(http.StatusOK, result)
	}
}
