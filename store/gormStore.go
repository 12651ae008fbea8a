package store

import (
	"errors"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormStore backs the Store contract with Postgres through GORM. Atomic maps
// onto a database transaction, and order placement locks product rows so two
// concurrent orders cannot both pass the stock check.
type gormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) CreateUser(user *models.User) error {
	return s.db.Create(user).Error
}

func (s *gormStore) GetUser(email string) (*models.User, error) {
	var user models.User
	err := s.db.Where("LOWER(email) = LOWER(?)", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *gormStore) ListUsers() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("email").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *gormStore) UpdateUserPassword(email, password string) error {
	result := s.db.Model(&models.User{}).
		Where("LOWER(email) = LOWER(?)", email).
		Update("password", password)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *gormStore) CreateAdmin(admin *models.Admin) error {
	return s.db.Create(admin).Error
}

func (s *gormStore) GetAdmin(email string) (*models.Admin, error) {
	var admin models.Admin
	err := s.db.Where("LOWER(email) = LOWER(?)", email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *gormStore) SaveResetCode(code *models.ResetCode) error {
	return s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(code).Error
}

func (s *gormStore) GetResetCode(email string) (*models.ResetCode, error) {
	var code models.ResetCode
	err := s.db.Where("LOWER(email) = LOWER(?)", email).First(&code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &code, nil
}

func (s *gormStore) DeleteResetCode(email string) error {
	return s.db.Where("LOWER(email) = LOWER(?)", email).Delete(&models.ResetCode{}).Error
}

func (s *gormStore) ListProducts(search string) ([]models.Product, error) {
	var products []models.Product
	query := s.db.Order("id")
	if search != "" {
		query = query.Where("name ILIKE ?", "%"+search+"%")
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *gormStore) GetProduct(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *gormStore) GetProductForUpdate(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.Clauses(clause.Locking{Strength: "UPDATE"}).First(&product, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *gormStore) CreateProduct(product *models.Product) error {
	return s.db.Create(product).Error
}

func (s *gormStore) DeleteProduct(id uint) (bool, error) {
	result := s.db.Delete(&models.Product{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (s *gormStore) DecrementStock(id uint, quantity int) error {
	result := s.db.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		product, err := s.GetProduct(id)
		if errors.Is(err, ErrNotFound) {
			return &ProductNotFoundError{ProductID: id}
		}
		if err != nil {
			return err
		}
		return &InsufficientStockError{ProductID: id, Name: product.Name, Available: product.Stock}
	}
	return nil
}

func (s *gormStore) AddCartItem(email string, productID uint, quantity int) error {
	var existing models.CartItem
	err := s.db.Where("email = ? AND product_id = ?", email, productID).First(&existing).Error
	if err == nil {
		return s.db.Model(&existing).Update("quantity", existing.Quantity+quantity).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	item := models.CartItem{Email: email, ProductID: productID, Quantity: quantity}
	return s.db.Create(&item).Error
}

func (s *gormStore) RemoveCartItem(email string, productID uint) error {
	// Deleting an absent row is not an error.
	return s.db.Where("email = ? AND product_id = ?", email, productID).
		Delete(&models.CartItem{}).Error
}

func (s *gormStore) ListCartItems(email string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := s.db.Where("email = ?", email).Order("product_id").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *gormStore) ClearCart(email string) error {
	return s.db.Where("email = ?", email).Delete(&models.CartItem{}).Error
}

func (s *gormStore) CreateOrder(order *models.Order, items []models.OrderItem) error {
	if err := s.db.Omit("Items").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.OrderID
	}
	return s.db.Create(&items).Error
}

func (s *gormStore) OrderIDExists(orderID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.Order{}).Where("order_id = ?", orderID).Count(&count).Error
	return count > 0, err
}

func (s *gormStore) ListOrders(date string) ([]models.Order, error) {
	var orders []models.Order
	query := s.db.Order("date DESC")
	if date != "" {
		query = query.Where("date = ?", date)
	}
	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *gormStore) ListOrdersByEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.Where("email = ?", email).Order("date DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (s *gormStore) ListOrderItems(orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := s.db.Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *gormStore) ListAllOrderItems() ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := s.db.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *gormStore) Atomic(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

func (s *gormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
