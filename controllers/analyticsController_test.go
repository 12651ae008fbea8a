package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func seedOrder(t *testing.T, s store.Store, orderID, email, amount string, items []models.OrderItem) {
	t.Helper()
	order := models.Order{
		OrderID: orderID,
		Email:   email,
		Amount:  decimal.RequireFromString(amount),
		Date:    datatypes.Date(time.Now()),
	}
	require.NoError(t, s.CreateOrder(&order, items))
}

func getJSON(t *testing.T, router *gin.Engine, path string) map[string]any {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return response
}

func TestRevenueAnalytics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	seedOrder(t, s, "11111", "jane@example.com", "20.00", nil)
	seedOrder(t, s, "22222", "john@example.com", "5.50", nil)

	router := gin.New()
	router.GET("/admin/analytics/revenue", GetRevenueAnalytics(s))

	response := getJSON(t, router, "/admin/analytics/revenue")
	assert.Equal(t, 25.5, response["total_revenue"])

	daily, ok := response["daily_revenue"].([]any)
	require.True(t, ok)
	require.Len(t, daily, 1)
	bucket := daily[0].(map[string]any)
	assert.Equal(t, time.Now().Format("2006-01-02"), bucket["date"])
	assert.Equal(t, 25.5, bucket["revenue"])

	weekly := response["weekly_revenue"].([]any)
	require.Len(t, weekly, 1)
	monthly := response["monthly_revenue"].([]any)
	require.Len(t, monthly, 1)
}

func TestOrdersAnalytics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	seedOrder(t, s, "11111", "jane@example.com", "20.00", nil)
	seedOrder(t, s, "22222", "jane@example.com", "5.50", nil)

	router := gin.New()
	router.GET("/admin/analytics/orders", GetOrdersAnalytics(s))

	response := getJSON(t, router, "/admin/analytics/orders")
	assert.Equal(t, 2.0, response["total_orders"])

	daily := response["daily_orders"].([]any)
	require.Len(t, daily, 1)
	bucket := daily[0].(map[string]any)
	assert.Equal(t, 2.0, bucket["count"])
}

func TestProductAnalytics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	seedProduct(t, s, 1, "Coffee Mug", "4.00", 5)
	seedProduct(t, s, 2, "Tea Kettle", "6.00", 3)
	seedProduct(t, s, 3, "Unsold Spoon", "1.00", 9)
	seedOrder(t, s, "11111", "jane@example.com", "20.00", []models.OrderItem{
		{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("4.00")},
		{ProductID: 2, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("6.00")},
	})
	seedOrder(t, s, "22222", "john@example.com", "4.00", []models.OrderItem{
		{ProductID: 1, Quantity: 1, PriceAtPurchase: decimal.RequireFromString("4.00")},
	})

	router := gin.New()
	router.GET("/admin/analytics/products", GetProductAnalytics(s))

	response := getJSON(t, router, "/admin/analytics/products")

	top := response["top_products"].([]any)
	require.Len(t, top, 3)
	best := top[0].(map[string]any)
	assert.Equal(t, "Coffee Mug", best["name"])
	assert.Equal(t, 3.0, best["total_sold"])
	assert.Equal(t, 12.0, best["total_revenue"])

	// Products that never sold still show up in the least-selling list.
	least := response["least_products"].([]any)
	require.Len(t, least, 3)
	worst := least[0].(map[string]any)
	assert.Equal(t, "Unsold Spoon", worst["name"])
	assert.Equal(t, 0.0, worst["total_sold"])

	distribution := response["product_distribution"].([]any)
	require.Len(t, distribution, 3)
	richest := distribution[0].(map[string]any)
	assert.Equal(t, "Coffee Mug", richest["name"])
	assert.Equal(t, 12.0, richest["revenue"])
}

func TestCustomerAnalytics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	require.NoError(t, s.CreateUser(&models.User{Email: "jane@example.com", Password: "x"}))
	require.NoError(t, s.CreateUser(&models.User{Email: "john@example.com", Password: "x"}))
	require.NoError(t, s.CreateUser(&models.User{Email: "idle@example.com", Password: "x"}))
	seedOrder(t, s, "11111", "jane@example.com", "20.00", nil)
	seedOrder(t, s, "22222", "jane@example.com", "5.00", nil)
	seedOrder(t, s, "33333", "john@example.com", "4.00", nil)

	router := gin.New()
	router.GET("/admin/analytics/customers", GetCustomerAnalytics(s))

	response := getJSON(t, router, "/admin/analytics/customers")
	assert.Equal(t, 3.0, response["total_users"])
	assert.Equal(t, 2.0, response["users_with_orders"])

	types := response["customer_types"].(map[string]any)
	assert.Equal(t, 1.0, types["Repeat Customers"])
	assert.Equal(t, 1.0, types["Single Order Customers"])
	assert.Equal(t, 1.0, types["No Orders"])

	monthly := response["monthly_new_users"].([]any)
	require.Len(t, monthly, 1)
	bucket := monthly[0].(map[string]any)
	assert.Equal(t, 3.0, bucket["count"])
}

func TestConversionMetrics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	require.NoError(t, s.CreateUser(&models.User{Email: "jane@example.com", Password: "x"}))
	require.NoError(t, s.CreateUser(&models.User{Email: "idle@example.com", Password: "x"}))
	seedOrder(t, s, "11111", "jane@example.com", "20.00", nil)

	router := gin.New()
	router.GET("/admin/analytics/conversion", GetConversionMetrics(s))

	response := getJSON(t, router, "/admin/analytics/conversion")
	assert.Equal(t, 2.0, response["total_users"])
	assert.Equal(t, 1.0, response["users_with_orders"])
	assert.Equal(t, 1.0, response["users_without_orders"])
	assert.Equal(t, 50.0, response["conversion_rate"])
}

func TestAnalyticsOverview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	require.NoError(t, s.CreateUser(&models.User{Email: "jane@example.com", Password: "x"}))
	seedProduct(t, s, 1, "Coffee Mug", "4.00", 5)
	seedOrder(t, s, "11111", "jane@example.com", "8.00", []models.OrderItem{
		{ProductID: 1, Quantity: 2, PriceAtPurchase: decimal.RequireFromString("4.00")},
	})

	router := gin.New()
	router.GET("/admin/analytics/overview", GetAnalyticsOverview(s))

	response := getJSON(t, router, "/admin/analytics/overview")

	revenue := response["revenue"].(map[string]any)
	assert.Equal(t, 8.0, revenue["total_revenue"])
	orders := response["orders"].(map[string]any)
	assert.Equal(t, 1.0, orders["total_orders"])
	customers := response["customers"].(map[string]any)
	assert.Equal(t, 1.0, customers["total_users"])
	conversion := response["conversion"].(map[string]any)
	assert.Equal(t, 100.0, conversion["conversion_rate"])
}

func TestConversionRateNoUsers(t *testing.T) {
	assert.Equal(t, 0.0, conversionRate(0, 0))
	assert.Equal(t, 33.33, conversionRate(1, 3))
}
