package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter(t *testing.T) (*gin.Engine, store.Store) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	gin.SetMode(gin.TestMode)

	s := newTestStore(t)
	router := gin.New()
	router.POST("/auth/signup", Signup(s))
	router.POST("/auth/login", Login(s))
	router.POST("/auth/forgot-password", ForgotPassword(s))
	router.POST("/auth/reset-password", ResetPassword(s))
	return router, s
}

func TestSignupAndLogin(t *testing.T) {
	router, _ := newAuthRouter(t)

	w, response := postJSON(t, router, "/auth/signup", `{"email":"","password":""}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email and password are required", response["error"])

	w, response = postJSON(t, router, "/auth/signup", `{"email":"Jane@Example.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Signup successful", response["message"])

	// Duplicate signup is rejected regardless of email case.
	w, response = postJSON(t, router, "/auth/signup", `{"email":"jane@example.com","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email already exists", response["error"])

	w, response = postJSON(t, router, "/auth/login", `{"email":"jane@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", response["error"])

	w, response = postJSON(t, router, "/auth/login", `{"email":"JANE@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Login successful", response["message"])
	token, _ := response["token"].(string)
	assert.NotEmpty(t, token)
}

func TestAdminLogin(t *testing.T) {
	router, s := newAuthRouter(t)
	require.NoError(t, s.CreateAdmin(&models.Admin{Email: "admin@example.com", Password: "adminpass"}))

	// Without the admin flag the admin account does not exist as a user.
	w, response := postJSON(t, router, "/auth/login", `{"email":"admin@example.com","password":"adminpass"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid credentials", response["error"])

	w, response = postJSON(t, router, "/auth/login", `{"email":"admin@example.com","password":"adminpass","admin":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, response["token"])
}

func TestPasswordResetFlow(t *testing.T) {
	router, s := newAuthRouter(t)

	w, response := postJSON(t, router, "/auth/signup", `{"email":"jane@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	// The response is the same whether or not the account exists.
	w, response = postJSON(t, router, "/auth/forgot-password", `{"email":"nobody@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reset code sent to your email", response["message"])
	_, err := s.GetResetCode("nobody@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	w, response = postJSON(t, router, "/auth/forgot-password", `{"email":"jane@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reset code sent to your email", response["message"])

	resetCode, err := s.GetResetCode("jane@example.com")
	require.NoError(t, err)
	assert.Regexp(t, `^[1-9][0-9]{4}$`, resetCode.Code)

	w, response = postJSON(t, router, "/auth/reset-password",
		`{"email":"jane@example.com","code":"00000","new_password":"newpass"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid code", response["error"])

	w, response = postJSON(t, router, "/auth/reset-password",
		`{"email":"jane@example.com","code":"`+resetCode.Code+`","new_password":"newpass"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Password reset successful", response["message"])

	// The code is single use.
	_, err = s.GetResetCode("jane@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)

	w, _ = postJSON(t, router, "/auth/login", `{"email":"jane@example.com","password":"secret"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, _ = postJSON(t, router, "/auth/login", `{"email":"jane@example.com","password":"newpass"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestResetCodeExpired(t *testing.T) {
	router, s := newAuthRouter(t)

	w, _ := postJSON(t, router, "/auth/signup", `{"email":"jane@example.com","password":"secret"}`)
	require.Equal(t, http.StatusOK, w.Code)

	expired := models.ResetCode{
		Email:     "jane@example.com",
		Code:      "12345",
		ExpiresAt: time.Now().Add(-time.Minute),
	}
	require.NoError(t, s.SaveResetCode(&expired))

	w, response := postJSON(t, router, "/auth/reset-password",
		`{"email":"jane@example.com","code":"12345","new_password":"newpass"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Code has expired", response["error"])

	// Expired codes are discarded.
	_, err := s.GetResetCode("jane@example.com")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
