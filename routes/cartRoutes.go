package routes

import (
	"github.com/DhikshaSubash/Online-Shopping-Website/controllers"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
)

func CartRoutes(server *gin.Engine, s store.Store) {
	server.POST("/user/cart", controllers.AddToCart(s))
	server.GET("/user/cart/:email", controllers.GetCart(s))
	server.POST("/user/cart/remove", controllers.RemoveFromCart(s))
}
