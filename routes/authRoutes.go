package routes

import (
	"github.com/DhikshaSubash/Online-Shopping-Website/controllers"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
)

func AuthRoutes(server *gin.Engine, s store.Store) {
	auth := server.Group("/auth")
	auth.POST("/signup", controllers.Signup(s))
	auth.POST("/login", controllers.Login(s))
	auth.POST("/forgot-password", controllers.ForgotPassword(s))
	auth.POST("/reset-password", controllers.ResetPassword(s))
}
