package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/DhikshaSubash/Online-Shopping-Website/store"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewCSVStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func seedProduct(t *testing.T, s store.Store, id uint, name, price string, stock int) {
	t.Helper()
	p := models.Product{ID: id, Name: name, Price: decimal.RequireFromString(price), Stock: stock}
	require.NoError(t, s.CreateProduct(&p))
}

func productStock(t *testing.T, s store.Store, id uint) int {
	t.Helper()
	p, err := s.GetProduct(id)
	require.NoError(t, err)
	return p.Stock
}

func TestPlaceOrderHappyPath(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, 1, "Coffee Mug", "4.00", 5)
	seedProduct(t, s, 2, "Tea Kettle", "6.00", 3)
	require.NoError(t, s.AddCartItem("jane@example.com", 1, 2))
	require.NoError(t, s.AddCartItem("jane@example.com", 2, 2))

	order, err := PlaceOrder(s, "jane@example.com")
	require.NoError(t, err)

	assert.Regexp(t, `^[1-9][0-9]{4}$`, order.OrderID)
	assert.Equal(t, "jane@example.com", order.Email)
	assert.Equal(t, "20.00", order.Amount.StringFixed(2))
	require.Len(t, order.Items, 2)

	// Prices are snapshotted per line.
	assert.Equal(t, "4.00", order.Items[0].PriceAtPurchase.StringFixed(2))
	assert.Equal(t, "6.00", order.Items[1].PriceAtPurchase.StringFixed(2))

	assert.Equal(t, 3, productStock(t, s, 1))
	assert.Equal(t, 1, productStock(t, s, 2))

	cart, err := s.ListCartItems("jane@example.com")
	require.NoError(t, err)
	assert.Empty(t, cart)

	items, err := s.ListOrderItems(order.OrderID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	s := newTestStore(t)

	_, err := PlaceOrder(s, "jane@example.com")
	assert.ErrorIs(t, err, store.ErrEmptyCart)
}

func TestPlaceOrderInsufficientStock(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, 1, "Coffee Mug", "4.00", 5)
	seedProduct(t, s, 2, "Tea Kettle", "6.00", 3)
	require.NoError(t, s.AddCartItem("jane@example.com", 1, 2))
	require.NoError(t, s.AddCartItem("jane@example.com", 2, 10))

	_, err := PlaceOrder(s, "jane@example.com")
	var noStock *store.InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	assert.Equal(t, "Only 3 in stock for Tea Kettle", err.Error())

	// A failed order leaves every line untouched, including earlier valid ones.
	assert.Equal(t, 5, productStock(t, s, 1))
	assert.Equal(t, 3, productStock(t, s, 2))
	cart, err := s.ListCartItems("jane@example.com")
	require.NoError(t, err)
	assert.Len(t, cart, 2)
	orders, err := s.ListOrdersByEmail("jane@example.com")
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, 1, "Coffee Mug", "4.00", 5)
	require.NoError(t, s.AddCartItem("jane@example.com", 1, 1))
	require.NoError(t, s.AddCartItem("jane@example.com", 99, 1))

	_, err := PlaceOrder(s, "jane@example.com")
	var notFound *store.ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "Product ID 99 not found", err.Error())

	assert.Equal(t, 5, productStock(t, s, 1))
}

func TestPlaceOrderUniqueOrderIDs(t *testing.T) {
	s := newTestStore(t)
	seedProduct(t, s, 1, "Coffee Mug", "4.00", 100)

	seen := make(map[string]bool)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.AddCartItem("jane@example.com", 1, 1))
		order, err := PlaceOrder(s, "jane@example.com")
		require.NoError(t, err)
		assert.False(t, seen[order.OrderID], "order id %s reused", order.OrderID)
		seen[order.OrderID] = true
	}
}

func postJSON(t *testing.T, router *gin.Engine, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	var response map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	return w, response
}

func TestCreateOrderHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	seedProduct(t, s, 1, "Coffee Mug", "4.00", 5)

	router := gin.New()
	router.POST("/user/place-order", CreateOrder(s))

	w, response := postJSON(t, router, "/user/place-order", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Email is required", response["error"])

	w, response = postJSON(t, router, "/user/place-order", `{"email":"jane@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Cart is empty", response["error"])

	require.NoError(t, s.AddCartItem("jane@example.com", 1, 10))
	w, response = postJSON(t, router, "/user/place-order", `{"email":"jane@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Only 5 in stock for Coffee Mug", response["error"])

	require.NoError(t, s.ClearCart("jane@example.com"))
	require.NoError(t, s.AddCartItem("jane@example.com", 1, 2))

	// Succeeds even though no mail server is configured: the confirmation
	// email is best effort.
	w, response = postJSON(t, router, "/user/place-order", `{"email":"jane@example.com"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Order placed", response["message"])
	assert.Regexp(t, `^[1-9][0-9]{4}$`, response["order_id"])
}

func TestGetUserOrdersHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	seedProduct(t, s, 1, "Coffee Mug", "4.00", 5)
	require.NoError(t, s.AddCartItem("jane@example.com", 1, 2))
	placed, err := PlaceOrder(s, "jane@example.com")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/user/orders/:email", GetUserOrders(s))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/user/orders/jane@example.com", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, placed.OrderID, orders[0]["order_id"])
	assert.Equal(t, 8.0, orders[0]["amount"])

	items, ok := orders[0]["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.Equal(t, "Coffee Mug", line["name"])
	assert.Equal(t, 2.0, line["quantity"])
	assert.Equal(t, 8.0, line["price"])
}

func TestGetOrdersHandlerDateFilter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := newTestStore(t)
	seedProduct(t, s, 1, "Coffee Mug", "4.00", 5)
	require.NoError(t, s.AddCartItem("jane@example.com", 1, 1))
	placed, err := PlaceOrder(s, "jane@example.com")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/admin/orders", GetOrders(s))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/admin/orders?date="+placed.DateString(), nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var orders []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, placed.OrderID, orders[0]["order_id"])
	assert.Equal(t, "jane@example.com", orders[0]["user_email"])
	assert.Equal(t, 4.0, orders[0]["total_price"])

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/admin/orders?date=1999-01-01", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	assert.Empty(t, orders)
}
