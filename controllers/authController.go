package controllers

import (
	"errors"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/DhikshaSubash/Online-Shopping-Website/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	resetCodeLength = 5
	resetCodeTTL    = 15 * time.Minute

	// Standard response messages
	msgInternalServerError   = "Internal server error"
	msgFieldsRequired        = "Email and password are required"
	msgEmailExists           = "Email already exists"
	msgSignupSuccess         = "Signup successful"
	msgLoginSuccess          = "Login successful"
	msgInvalidCredentials    = "Invalid credentials"
	msgEmailRequired         = "Email is required"
	msgResetCodeSent         = "Reset code sent to your email"
	msgResetFieldsRequired   = "Email, code, and new_password are required"
	msgInvalidResetCode      = "Invalid code"
	msgResetCodeExpired      = "Code has expired"
	msgUserNotFound          = "User not found"
	msgPasswordResetSuccess  = "Password reset successful"
	msgFailedToGenerateToken = "Failed to generate token"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"error": message})
}

func generateJWT(email, role string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": email,
		"role":  role,
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour * 24 * 30).Unix(),
	})

	jwtSecret := os.Getenv("JWT_SECRET")
	return token.SignedString([]byte(jwtSecret))
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Send the password reset code
func sendResetCodeEmail(email, code string) error {
	emailData := utils.EmailData{
		Name:    email,
		Message: "You requested a password reset. Use the code below; it expires in 15 minutes.",
		Code:    code,
	}

	templatePath := filepath.Join("templates", "reset_code.html")
	return utils.SendEmail(email, "Password Reset Code", emailData, templatePath)
}

// Signup handles user registration
func Signup(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var signupData models.SignupData
		if err := ctx.ShouldBindJSON(&signupData); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgFieldsRequired)
			return
		}
		if signupData.Email == "" || signupData.Password == "" {
			sendErrorResponse(ctx, http.StatusBadRequest, msgFieldsRequired)
			return
		}

		email := normalizeEmail(signupData.Email)

		_, err := s.GetUser(email)
		if err == nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgEmailExists)
			return
		}
		if !errors.Is(err, store.ErrNotFound) {
			log.Println("Database error during user check:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		user := models.User{Email: email, Password: strings.TrimSpace(signupData.Password)}
		if err := s.CreateUser(&user); err != nil {
			log.Println("User creation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgSignupSuccess})
	}
}

// Login authenticates a user or, with "admin": true, an admin account.
func Login(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var loginData models.LoginData
		if err := ctx.ShouldBindJSON(&loginData); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgFieldsRequired)
			return
		}
		if loginData.Email == "" || loginData.Password == "" {
			sendErrorResponse(ctx, http.StatusBadRequest, msgFieldsRequired)
			return
		}

		email := normalizeEmail(loginData.Email)
		password := strings.TrimSpace(loginData.Password)

		var storedPassword, role string
		if loginData.Admin {
			admin, err := s.GetAdmin(email)
			if err != nil {
				sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
				return
			}
			storedPassword, role = admin.Password, "admin"
		} else {
			user, err := s.GetUser(email)
			if err != nil {
				sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
				return
			}
			storedPassword, role = user.Password, "user"
		}

		// Plain-text comparison, matching how passwords are stored.
		if storedPassword != password {
			sendErrorResponse(ctx, http.StatusUnauthorized, msgInvalidCredentials)
			return
		}

		tokenString, err := generateJWT(email, role)
		if err != nil {
			log.Println("JWT generation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgFailedToGenerateToken)
			return
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgLoginSuccess, "token": tokenString})
	}
}

// ForgotPassword emails a short-lived reset code. The response never reveals
// whether the account exists.
func ForgotPassword(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var body struct {
			Email string `json:"email"`
		}
		if err := ctx.ShouldBindJSON(&body); err != nil || body.Email == "" {
			sendErrorResponse(ctx, http.StatusBadRequest, msgEmailRequired)
			return
		}

		email := normalizeEmail(body.Email)
		if _, err := s.GetUser(email); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetCodeSent})
				return
			}
			log.Println("Database error during user check:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		code, err := utils.GenerateCode(resetCodeLength)
		if err != nil {
			log.Println("Reset code generation error:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		resetCode := models.ResetCode{
			Email:     email,
			Code:      code,
			ExpiresAt: time.Now().Add(resetCodeTTL),
		}
		if err := s.SaveResetCode(&resetCode); err != nil {
			log.Println("Error saving reset code:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		if err := sendResetCodeEmail(email, code); err != nil {
			log.Println("Error sending password reset email:", err)
		} else {
			log.Println("Password reset code sent to:", email)
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgResetCodeSent})
	}
}

// ResetPassword validates the emailed code and sets the new password. The
// code is single use: it is deleted on success and on expiry.
func ResetPassword(s store.Store) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		var body struct {
			Email       string `json:"email"`
			Code        string `json:"code"`
			NewPassword string `json:"new_password"`
		}
		if err := ctx.ShouldBindJSON(&body); err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, msgResetFieldsRequired)
			return
		}
		if body.Email == "" || body.Code == "" || body.NewPassword == "" {
			sendErrorResponse(ctx, http.StatusBadRequest, msgResetFieldsRequired)
			return
		}

		email := normalizeEmail(body.Email)
		code := strings.TrimSpace(body.Code)
		newPassword := strings.TrimSpace(body.NewPassword)

		resetCode, err := s.GetResetCode(email)
		if err != nil || resetCode.Code != code {
			sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidResetCode)
			return
		}

		if time.Now().After(resetCode.ExpiresAt) {
			if err := s.DeleteResetCode(email); err != nil {
				log.Println("Error deleting expired reset code:", err)
			}
			sendErrorResponse(ctx, http.StatusBadRequest, msgResetCodeExpired)
			return
		}

		if err := s.UpdateUserPassword(email, newPassword); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				sendErrorResponse(ctx, http.StatusNotFound, msgUserNotFound)
				return
			}
			log.Println("Error resetting password:", err)
			sendErrorResponse(ctx, http.StatusInternalServerError, msgInternalServerError)
			return
		}

		if err := s.DeleteResetCode(email); err != nil {
			log.Println("Error deleting used reset code:", err)
		}

		sendJSONResponse(ctx, http.StatusOK, gin.H{"message": msgPasswordResetSuccess})
	}
}
