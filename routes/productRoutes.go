package routes

import (
	"github.com/DhikshaSubash/Online-Shopping-Website/controllers"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
)

func ProductRoutes(server *gin.Engine, s store.Store) {
	server.GET("/user/products", controllers.GetProducts(s))
	server.GET("/user/products/:id", controllers.GetProduct(s))
}
