package store

import (
	"errors"
	"fmt"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrEmptyCart = errors.New("cart is empty")
)

// ProductNotFoundError reports a cart line referencing a product that no
// longer exists in the catalog.
type ProductNotFoundError struct {
	ProductID uint
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("Product ID %d not found", e.ProductID)
}

// InsufficientStockError reports an ordered quantity above the available
// stock. Available carries the stock at check time for the error message.
type InsufficientStockError struct {
	ProductID uint
	Name      string
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Only %d in stock for %s", e.Available, e.Name)
}

// Store is the single persistence contract the application talks to. Two
// implementations exist: a Postgres-backed one (transactional, safe under
// concurrent requests) and a CSV-backed one (whole-file rewrite, single
// process only).
type Store interface {
	// Users and admins.
	CreateUser(user *models.User) error
	GetUser(email string) (*models.User, error)
	ListUsers() ([]models.User, error)
	UpdateUserPassword(email, password string) error
	CreateAdmin(admin *models.Admin) error
	GetAdmin(email string) (*models.Admin, error)

	// Password reset codes. Saving replaces any previous code for the email.
	SaveResetCode(code *models.ResetCode) error
	GetResetCode(email string) (*models.ResetCode, error)
	DeleteResetCode(email string) error

	// Catalog.
	ListProducts(search string) ([]models.Product, error)
	GetProduct(id uint) (*models.Product, error)
	// GetProductForUpdate behaves like GetProduct but, inside Atomic on the
	// Postgres backend, locks the row until the transaction ends.
	GetProductForUpdate(id uint) (*models.Product, error)
	CreateProduct(product *models.Product) error
	DeleteProduct(id uint) (bool, error)
	// DecrementStock fails with InsufficientStockError rather than letting
	// stock go negative.
	DecrementStock(id uint, quantity int) error

	// Cart.
	AddCartItem(email string, productID uint, quantity int) error
	RemoveCartItem(email string, productID uint) error
	ListCartItems(email string) ([]models.CartItem, error)
	ClearCart(email string) error

	// Orders.
	CreateOrder(order *models.Order, items []models.OrderItem) error
	OrderIDExists(orderID string) (bool, error)
	ListOrders(date string) ([]models.Order, error)
	ListOrdersByEmail(email string) ([]models.Order, error)
	ListOrderItems(orderID string) ([]models.OrderItem, error)
	ListAllOrderItems() ([]models.OrderItem, error)

	// Atomic runs fn against a view of the store where either every write
	// succeeds or none is applied. fn must use the Store it is handed, not
	// the outer one.
	Atomic(fn func(Store) error) error

	Close() error
}
