package main

import (
	"log"
	"os"
	"time"

	"github.com/DhikshaSubash/Online-Shopping-Website/initializers"
	"github.com/DhikshaSubash/Online-Shopping-Website/routes"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	initializers.LoadEnv()

	// Money fields render as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := initializers.OpenStore()
	if err != nil {
		log.Fatal("Failed to open storage backend: ", err)
	}
	defer db.Close()

	server := gin.Default()
	server.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Product images uploaded without an S3 bucket configured are served
	// straight from disk.
	server.Static("/static/images", "./static/images")

	routes.DefaultRoutes(server)
	routes.AuthRoutes(server, db)
	routes.ProductRoutes(server, db)
	routes.CartRoutes(server, db)
	routes.OrderRoutes(server, db)
	routes.AdminRoutes(server, db)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := server.Run(":" + port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
