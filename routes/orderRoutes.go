package routes

import (
	"github.com/DhikshaSubash/Online-Shopping-Website/controllers"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
)

func OrderRoutes(server *gin.Engine, s store.Store) {
	server.POST("/user/place-order", controllers.CreateOrder(s))
	server.GET("/user/orders/:email", controllers.GetUserOrders(s))
}
