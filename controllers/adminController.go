package controllers

import (
	"log"
	"net/http"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
)

// GetUsers lists every registered user. Admin only.
func GetUsers(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		users, err := s.ListUsers()
		if err != nil {
			log.Println("Error fetching users:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}
		if users == nil {
			users = []models.User{}
		}
		ctx.JSON(http.StatusOK, users)
	}
}
