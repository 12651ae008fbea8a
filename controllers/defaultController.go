package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	message := `Online Shopping API. The following are the endpoints for this API:

AUTH
- POST "/auth/signup" - Create user account
- POST "/auth/login" - Log in (set "admin": true for admin accounts)
- POST "/auth/forgot-password" - Request a password reset code
- POST "/auth/reset-password" - Reset password with the emailed code

USER
- GET "/user/products" - List products (optional ?search=)
- GET "/user/products/:id" - Get product by ID
- POST "/user/cart" - Add an item to the cart
- GET "/user/cart/:email" - View the cart
- POST "/user/cart/remove" - Remove an item from the cart
- POST "/user/place-order" - Place an order for the whole cart
- GET "/user/orders/:email" - Order history

ADMIN (requires admin token)
- GET "/admin/users" - List users
- GET "/admin/orders" - List orders (optional ?date=YYYY-MM-DD)
- GET "/admin/products" - List products
- POST "/admin/add-product" - Add a product (multipart: name, price, stock, image)
- DELETE "/admin/remove-product/:id" - Remove a product
- GET "/admin/analytics/revenue" - Revenue report
- GET "/admin/analytics/orders" - Order volume report
- GET "/admin/analytics/products" - Product sales report
- GET "/admin/analytics/customers" - Customer report
- GET "/admin/analytics/conversion" - Conversion metrics
- GET "/admin/analytics/overview" - Combined overview`

	ctx.JSON(http.StatusOK, gin.H{
		"message": message,
	})
}
