package routes

import (
	"github.com/DhikshaSubash/Online-Shopping-Website/controllers"
	"github.com/DhikshaSubash/Online-Shopping-Website/middlewares"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
)

func AdminRoutes(server *gin.Engine, s store.Store) {
	admin := server.Group("/admin", middlewares.RequireAuth(), middlewares.RequireAdmin())
	admin.GET("/users", controllers.GetUsers(s))
	admin.GET("/orders", controllers.GetOrders(s))
	admin.GET("/products", controllers.GetProducts(s))
	admin.POST("/add-product", controllers.AddProduct(s))
	admin.DELETE("/remove-product/:id", controllers.RemoveProduct(s))

	analytics := admin.Group("/analytics")
	analytics.GET("/revenue", controllers.GetRevenueAnalytics(s))
	analytics.GET("/orders", controllers.GetOrdersAnalytics(s))
	analytics.GET("/products", controllers.GetProductAnalytics(s))
	analytics.GET("/customers", controllers.GetCustomerAnalytics(s))
	analytics.GET("/conversion", controllers.GetConversionMetrics(s))
	analytics.GET("/overview", controllers.GetAnalyticsOverview(s))
}
