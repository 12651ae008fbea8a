package controllers

import (
	"log"
	"net/http"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
)

const (
	msgCartFieldsRequired = "Email and product_id are required"
	msgQuantityTooLow     = "Quantity must be at least 1"
	msgAddedToCart        = "Added to cart"
	msgRemovedFromCart    = "Item removed from cart"
)

// AddToCart accumulates quantity onto an existing (email, product) row or
// creates one. A quantity below 1 is rejected, never stored.
func AddToCart(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var body models.CartItemData
		if err := ctx.ShouldBindJSON(&body); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgCartFieldsRequired)
			return
		}
		if body.Email == "" || body.ProductID == nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgCartFieldsRequired)
			return
		}

		quantity := 1
		if body.Quantity != nil {
			quantity = *body.Quantity
		}
		if quantity < 1 {
			sendErrorResponse(ctx, http.StatusBadRequest, msgQuantityTooLow)
			return
		}

		if err := s.AddCartItem(normalizeEmail(body.Email), *body.ProductID, quantity); err != nil {
			log.Println("Error adding cart item:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgAddedToCart})
	}
}

func GetCart(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		items, err := s.ListCartItems(normalizeEmail(ctx.Param("email")))
		if err != nil {
			log.Println("Error fetching cart:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		if items == nil {
			items = []models.CartItem{}
		}
		ctx.JSON(http.StatusOK, items)
	}
}

// RemoveFromCart is idempotent: removing an absent row succeeds.
func RemoveFromCart(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var body models.CartItemData
		if err := ctx.ShouldBindJSON(&body); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgCartFieldsRequired)
			return
		}
		if body.Email == "" || body.ProductID == nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgCartFieldsRequired)
			return
		}

		if err := s.RemoveCartItem(normalizeEmail(body.Email), *body.ProductID); err != nil {
			log.Println("Error removing cart item:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgRemovedFromCart})
	}
}
