package routes

import (
	"github.com/DhikshaSubash/Online-Shopping-Website/controllers"
	"github.com/gin-gonic/gin"
)

func DefaultRoutes(server *gin.Engine) {
	server.GET("/", controllers.GetHome)
}
