package store

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DhikshaSubash/Online-Shopping-Website/models"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// One CSV file per table, whole-file rewrite on every flush. A single mutex
// serializes all access within the process; concurrent writer processes are
// NOT safe (last writer wins). Acceptable for the single-process demo this
// backend exists for.
const (
	fileUsers      = "users.csv"
	fileAdmins     = "admins.csv"
	fileResetCodes = "reset_codes.csv"
	fileProducts   = "products.csv"
	fileCart       = "cart.csv"
	fileOrders     = "orders.csv"
	fileOrderItems = "order_items.csv"
)

const csvDateFormat = "2006-01-02"

type csvTables struct {
	users      []models.User
	admins     []models.Admin
	resetCodes []models.ResetCode
	products   []models.Product
	cart       []models.CartItem
	orders     []models.Order
	orderItems []models.OrderItem

	nextProductID   uint
	nextOrderItemID uint
}

func (t *csvTables) clone() *csvTables {
	c := *t
	c.users = append([]models.User(nil), t.users...)
	c.admins = append([]models.Admin(nil), t.admins...)
	c.resetCodes = append([]models.ResetCode(nil), t.resetCodes...)
	c.products = append([]models.Product(nil), t.products...)
	c.cart = append([]models.CartItem(nil), t.cart...)
	c.orders = append([]models.Order(nil), t.orders...)
	c.orderItems = append([]models.OrderItem(nil), t.orderItems...)
	return &c
}

type csvStore struct {
	mu  sync.Mutex
	dir string
	t   csvTables
}

// NewCSVStore loads every table file found under dir (missing files read as
// empty tables) and returns a Store over them.
func NewCSVStore(dir string) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	s := &csvStore{dir: dir}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *csvStore) Atomic(fn func(Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := s.t.clone()
	tx := &csvTx{s: s, dirty: make(map[string]bool)}
	if err := fn(tx); err != nil {
		s.t = *snapshot
		return err
	}
	// A failed flush rolls the in-memory tables back too, so reads never
	// observe state the files don't hold. Tables that already reached disk
	// are rewritten from the snapshot; the original failure is the one
	// reported.
	if err := s.flush(tx.dirty); err != nil {
		s.t = *snapshot
		for file := range tx.dirty {
			_ = s.flushTable(file)
		}
		return err
	}
	return nil
}

func (s *csvStore) Close() error { return nil }

// Every write goes through Atomic so a failed operation never leaves a
// half-updated table in memory or on disk.
func (s *csvStore) CreateUser(user *models.User) error {
	return s.Atomic(func(tx Store) error { return tx.CreateUser(user) })
}

func (s *csvStore) UpdateUserPassword(email, password string) error {
	return s.Atomic(func(tx Store) error { return tx.UpdateUserPassword(email, password) })
}

func (s *csvStore) CreateAdmin(admin *models.Admin) error {
	return s.Atomic(func(tx Store) error { return tx.CreateAdmin(admin) })
}

func (s *csvStore) SaveResetCode(code *models.ResetCode) error {
	return s.Atomic(func(tx Store) error { return tx.SaveResetCode(code) })
}

func (s *csvStore) DeleteResetCode(email string) error {
	return s.Atomic(func(tx Store) error { return tx.DeleteResetCode(email) })
}

func (s *csvStore) CreateProduct(product *models.Product) error {
	return s.Atomic(func(tx Store) error { return tx.CreateProduct(product) })
}

func (s *csvStore) DeleteProduct(id uint) (bool, error) {
	var removed bool
	err := s.Atomic(func(tx Store) error {
		var err error
		removed, err = tx.DeleteProduct(id)
		return err
	})
	return removed, err
}

func (s *csvStore) DecrementStock(id uint, quantity int) error {
	return s.Atomic(func(tx Store) error { return tx.DecrementStock(id, quantity) })
}

func (s *csvStore) AddCartItem(email string, productID uint, quantity int) error {
	return s.Atomic(func(tx Store) error { return tx.AddCartItem(email, productID, quantity) })
}

func (s *csvStore) RemoveCartItem(email string, productID uint) error {
	return s.Atomic(func(tx Store) error { return tx.RemoveCartItem(email, productID) })
}

func (s *csvStore) ClearCart(email string) error {
	return s.Atomic(func(tx Store) error { return tx.ClearCart(email) })
}

func (s *csvStore) CreateOrder(order *models.Order, items []models.OrderItem) error {
	return s.Atomic(func(tx Store) error { return tx.CreateOrder(order, items) })
}

func (s *csvStore) GetUser(email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).GetUser(email)
}

func (s *csvStore) ListUsers() ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).ListUsers()
}

func (s *csvStore) GetAdmin(email string) (*models.Admin, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).GetAdmin(email)
}

func (s *csvStore) GetResetCode(email string) (*models.ResetCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).GetResetCode(email)
}

func (s *csvStore) ListProducts(search string) ([]models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).ListProducts(search)
}

func (s *csvStore) GetProduct(id uint) (*models.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).GetProduct(id)
}

func (s *csvStore) GetProductForUpdate(id uint) (*models.Product, error) {
	return s.GetProduct(id)
}

func (s *csvStore) ListCartItems(email string) ([]models.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).ListCartItems(email)
}

func (s *csvStore) OrderIDExists(orderID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).OrderIDExists(orderID)
}

func (s *csvStore) ListOrders(date string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).ListOrders(date)
}

func (s *csvStore) ListOrdersByEmail(email string) ([]models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).ListOrdersByEmail(email)
}

func (s *csvStore) ListOrderItems(orderID string) ([]models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).ListOrderItems(orderID)
}

func (s *csvStore) ListAllOrderItems() ([]models.OrderItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&csvTx{s: s}).ListAllOrderItems()
}

// csvTx is the view Atomic hands to its callback: all reads and writes go
// against the in-memory tables while the store mutex is held, and writes only
// reach disk when the whole callback has succeeded.
type csvTx struct {
	s     *csvStore
	dirty map[string]bool
}

func (t *csvTx) touch(file string) {
	if t.dirty != nil {
		t.dirty[file] = true
	}
}

func (t *csvTx) CreateUser(user *models.User) error {
	for _, u := range t.s.t.users {
		if strings.EqualFold(u.Email, user.Email) {
			return fmt.Errorf("user %s already exists", user.Email)
		}
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	t.s.t.users = append(t.s.t.users, *user)
	t.touch(fileUsers)
	return nil
}

func (t *csvTx) GetUser(email string) (*models.User, error) {
	for _, u := range t.s.t.users {
		if strings.EqualFold(u.Email, email) {
			user := u
			return &user, nil
		}
	}
	return nil, ErrNotFound
}

func (t *csvTx) ListUsers() ([]models.User, error) {
	users := append([]models.User(nil), t.s.t.users...)
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (t *csvTx) UpdateUserPassword(email, password string) error {
	for i := range t.s.t.users {
		if strings.EqualFold(t.s.t.users[i].Email, email) {
			t.s.t.users[i].Password = password
			t.touch(fileUsers)
			return nil
		}
	}
	return ErrNotFound
}

func (t *csvTx) CreateAdmin(admin *models.Admin) error {
	for _, a := range t.s.t.admins {
		if strings.EqualFold(a.Email, admin.Email) {
			return fmt.Errorf("admin %s already exists", admin.Email)
		}
	}
	t.s.t.admins = append(t.s.t.admins, *admin)
	t.touch(fileAdmins)
	return nil
}

func (t *csvTx) GetAdmin(email string) (*models.Admin, error) {
	for _, a := range t.s.t.admins {
		if strings.EqualFold(a.Email, email) {
			admin := a
			return &admin, nil
		}
	}
	return nil, ErrNotFound
}

func (t *csvTx) SaveResetCode(code *models.ResetCode) error {
	for i := range t.s.t.resetCodes {
		if strings.EqualFold(t.s.t.resetCodes[i].Email, code.Email) {
			t.s.t.resetCodes[i] = *code
			t.touch(fileResetCodes)
			return nil
		}
	}
	t.s.t.resetCodes = append(t.s.t.resetCodes, *code)
	t.touch(fileResetCodes)
	return nil
}

func (t *csvTx) GetResetCode(email string) (*models.ResetCode, error) {
	for _, c := range t.s.t.resetCodes {
		if strings.EqualFold(c.Email, email) {
			code := c
			return &code, nil
		}
	}
	return nil, ErrNotFound
}

func (t *csvTx) DeleteResetCode(email string) error {
	kept := t.s.t.resetCodes[:0]
	for _, c := range t.s.t.resetCodes {
		if !strings.EqualFold(c.Email, email) {
			kept = append(kept, c)
		}
	}
	t.s.t.resetCodes = kept
	t.touch(fileResetCodes)
	return nil
}

func (t *csvTx) ListProducts(search string) ([]models.Product, error) {
	var products []models.Product
	needle := strings.ToLower(search)
	for _, p := range t.s.t.products {
		if search == "" || strings.Contains(strings.ToLower(p.Name), needle) {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (t *csvTx) GetProduct(id uint) (*models.Product, error) {
	for _, p := range t.s.t.products {
		if p.ID == id {
			product := p
			return &product, nil
		}
	}
	return nil, ErrNotFound
}

// No row locks here; the store mutex is the only guard this backend has.
func (t *csvTx) GetProductForUpdate(id uint) (*models.Product, error) {
	return t.GetProduct(id)
}

func (t *csvTx) CreateProduct(product *models.Product) error {
	if product.ID == 0 {
		product.ID = t.s.t.nextProductID
	}
	if product.ID >= t.s.t.nextProductID {
		t.s.t.nextProductID = product.ID + 1
	}
	t.s.t.products = append(t.s.t.products, *product)
	t.touch(fileProducts)
	return nil
}

func (t *csvTx) DeleteProduct(id uint) (bool, error) {
	kept := t.s.t.products[:0]
	removed := false
	for _, p := range t.s.t.products {
		if p.ID == id {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	t.s.t.products = kept
	if removed {
		t.touch(fileProducts)
	}
	return removed, nil
}

func (t *csvTx) DecrementStock(id uint, quantity int) error {
	for i := range t.s.t.products {
		if t.s.t.products[i].ID != id {
			continue
		}
		if t.s.t.products[i].Stock < quantity {
			return &InsufficientStockError{
				ProductID: id,
				Name:      t.s.t.products[i].Name,
				Available: t.s.t.products[i].Stock,
			}
		}
		t.s.t.products[i].Stock -= quantity
		t.touch(fileProducts)
		return nil
	}
	return &ProductNotFoundError{ProductID: id}
}

func (t *csvTx) AddCartItem(email string, productID uint, quantity int) error {
	for i := range t.s.t.cart {
		if strings.EqualFold(t.s.t.cart[i].Email, email) && t.s.t.cart[i].ProductID == productID {
			t.s.t.cart[i].Quantity += quantity
			t.touch(fileCart)
			return nil
		}
	}
	t.s.t.cart = append(t.s.t.cart, models.CartItem{Email: email, ProductID: productID, Quantity: quantity})
	t.touch(fileCart)
	return nil
}

func (t *csvTx) RemoveCartItem(email string, productID uint) error {
	kept := t.s.t.cart[:0]
	for _, item := range t.s.t.cart {
		if strings.EqualFold(item.Email, email) && item.ProductID == productID {
			continue
		}
		kept = append(kept, item)
	}
	t.s.t.cart = kept
	t.touch(fileCart)
	return nil
}

func (t *csvTx) ListCartItems(email string) ([]models.CartItem, error) {
	var items []models.CartItem
	for _, item := range t.s.t.cart {
		if strings.EqualFold(item.Email, email) {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	return items, nil
}

func (t *csvTx) ClearCart(email string) error {
	kept := t.s.t.cart[:0]
	for _, item := range t.s.t.cart {
		if !strings.EqualFold(item.Email, email) {
			kept = append(kept, item)
		}
	}
	t.s.t.cart = kept
	t.touch(fileCart)
	return nil
}

func (t *csvTx) CreateOrder(order *models.Order, items []models.OrderItem) error {
	for _, o := range t.s.t.orders {
		if o.OrderID == order.OrderID {
			return fmt.Errorf("order %s already exists", order.OrderID)
		}
	}
	t.s.t.orders = append(t.s.t.orders, *order)
	for i := range items {
		items[i].OrderID = order.OrderID
		items[i].ID = t.s.t.nextOrderItemID
		t.s.t.nextOrderItemID++
		t.s.t.orderItems = append(t.s.t.orderItems, items[i])
	}
	t.touch(fileOrders)
	t.touch(fileOrderItems)
	return nil
}

func (t *csvTx) OrderIDExists(orderID string) (bool, error) {
	for _, o := range t.s.t.orders {
		if o.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

func (t *csvTx) ListOrders(date string) ([]models.Order, error) {
	var orders []models.Order
	for _, o := range t.s.t.orders {
		if date == "" || o.DateString() == date {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].DateString() > orders[j].DateString() })
	return orders, nil
}

func (t *csvTx) ListOrdersByEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	for _, o := range t.s.t.orders {
		if strings.EqualFold(o.Email, email) {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].DateString() > orders[j].DateString() })
	return orders, nil
}

func (t *csvTx) ListOrderItems(orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	for _, item := range t.s.t.orderItems {
		if item.OrderID == orderID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (t *csvTx) ListAllOrderItems() ([]models.OrderItem, error) {
	return append([]models.OrderItem(nil), t.s.t.orderItems...), nil
}

// Nested Atomic calls join the enclosing unit.
func (t *csvTx) Atomic(fn func(Store) error) error { return fn(t) }

func (t *csvTx) Close() error { return nil }

// ---- file codec ----

func (s *csvStore) load() error {
	s.t = csvTables{nextProductID: 1, nextOrderItemID: 1}

	rows, err := s.readTable(fileUsers)
	if err != nil {
		return err
	}
	for _, r := range rows {
		createdAt, err := time.Parse(time.RFC3339, r[2])
		if err != nil {
			return fmt.Errorf("%s: %w", fileUsers, err)
		}
		s.t.users = append(s.t.users, models.User{Email: r[0], Password: r[1], CreatedAt: createdAt})
	}

	rows, err = s.readTable(fileAdmins)
	if err != nil {
		return err
	}
	for _, r := range rows {
		s.t.admins = append(s.t.admins, models.Admin{Email: r[0], Password: r[1]})
	}

	rows, err = s.readTable(fileResetCodes)
	if err != nil {
		return err
	}
	for _, r := range rows {
		expiresAt, err := time.Parse(time.RFC3339, r[2])
		if err != nil {
			return fmt.Errorf("%s: %w", fileResetCodes, err)
		}
		s.t.resetCodes = append(s.t.resetCodes, models.ResetCode{Email: r[0], Code: r[1], ExpiresAt: expiresAt})
	}

	rows, err = s.readTable(fileProducts)
	if err != nil {
		return err
	}
	for _, r := range rows {
		id, err := strconv.ParseUint(r[0], 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", fileProducts, err)
		}
		price, err := decimal.NewFromString(r[2])
		if err != nil {
			return fmt.Errorf("%s: %w", fileProducts, err)
		}
		stock, err := strconv.Atoi(r[3])
		if err != nil {
			return fmt.Errorf("%s: %w", fileProducts, err)
		}
		product := models.Product{ID: uint(id), Name: r[1], Price: price, Stock: stock, Image: r[4]}
		s.t.products = append(s.t.products, product)
		if product.ID >= s.t.nextProductID {
			s.t.nextProductID = product.ID + 1
		}
	}

	rows, err = s.readTable(fileCart)
	if err != nil {
		return err
	}
	for _, r := range rows {
		productID, err := strconv.ParseUint(r[1], 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", fileCart, err)
		}
		quantity, err := strconv.Atoi(r[2])
		if err != nil {
			return fmt.Errorf("%s: %w", fileCart, err)
		}
		s.t.cart = append(s.t.cart, models.CartItem{Email: r[0], ProductID: uint(productID), Quantity: quantity})
	}

	rows, err = s.readTable(fileOrders)
	if err != nil {
		return err
	}
	for _, r := range rows {
		amount, err := decimal.NewFromString(r[2])
		if err != nil {
			return fmt.Errorf("%s: %w", fileOrders, err)
		}
		date, err := time.Parse(csvDateFormat, r[3])
		if err != nil {
			return fmt.Errorf("%s: %w", fileOrders, err)
		}
		s.t.orders = append(s.t.orders, models.Order{
			OrderID: r[0],
			Email:   r[1],
			Amount:  amount,
			Date:    datatypes.Date(date),
		})
	}

	rows, err = s.readTable(fileOrderItems)
	if err != nil {
		return err
	}
	for _, r := range rows {
		productID, err := strconv.ParseUint(r[1], 10, 32)
		if err != nil {
			return fmt.Errorf("%s: %w", fileOrderItems, err)
		}
		quantity, err := strconv.Atoi(r[2])
		if err != nil {
			return fmt.Errorf("%s: %w", fileOrderItems, err)
		}
		price, err := decimal.NewFromString(r[3])
		if err != nil {
			return fmt.Errorf("%s: %w", fileOrderItems, err)
		}
		s.t.orderItems = append(s.t.orderItems, models.OrderItem{
			ID:              s.t.nextOrderItemID,
			OrderID:         r[0],
			ProductID:       uint(productID),
			Quantity:        quantity,
			PriceAtPurchase: price,
		})
		s.t.nextOrderItemID++
	}

	return nil
}

func (s *csvStore) readTable(file string) ([][]string, error) {
	f, err := os.Open(filepath.Join(s.dir, file))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if len(records) <= 1 {
		return nil, nil
	}
	return records[1:], nil
}

func (s *csvStore) flush(dirty map[string]bool) error {
	for file := range dirty {
		if err := s.flushTable(file); err != nil {
			return err
		}
	}
	return nil
}

func (s *csvStore) flushTable(file string) error {
	var header []string
	var rows [][]string

	switch file {
	case fileUsers:
		header = []string{"email", "password", "created_at"}
		for _, u := range s.t.users {
			rows = append(rows, []string{u.Email, u.Password, u.CreatedAt.Format(time.RFC3339)})
		}
	case fileAdmins:
		header = []string{"email", "password"}
		for _, a := range s.t.admins {
			rows = append(rows, []string{a.Email, a.Password})
		}
	case fileResetCodes:
		header = []string{"email", "code", "expires_at"}
		for _, c := range s.t.resetCodes {
			rows = append(rows, []string{c.Email, c.Code, c.ExpiresAt.Format(time.RFC3339)})
		}
	case fileProducts:
		header = []string{"id", "name", "price", "stock", "image"}
		for _, p := range s.t.products {
			rows = append(rows, []string{
				strconv.FormatUint(uint64(p.ID), 10),
				p.Name,
				p.Price.StringFixed(2),
				strconv.Itoa(p.Stock),
				p.Image,
			})
		}
	case fileCart:
		header = []string{"email", "product_id", "quantity"}
		for _, item := range s.t.cart {
			rows = append(rows, []string{
				item.Email,
				strconv.FormatUint(uint64(item.ProductID), 10),
				strconv.Itoa(item.Quantity),
			})
		}
	case fileOrders:
		header = []string{"order_id", "email", "amount", "date"}
		for _, o := range s.t.orders {
			rows = append(rows, []string{o.OrderID, o.Email, o.Amount.StringFixed(2), o.DateString()})
		}
	case fileOrderItems:
		header = []string{"order_id", "product_id", "quantity", "price_at_purchase"}
		for _, item := range s.t.orderItems {
			rows = append(rows, []string{
				item.OrderID,
				strconv.FormatUint(uint64(item.ProductID), 10),
				strconv.Itoa(item.Quantity),
				item.PriceAtPurchase.StringFixed(2),
			})
		}
	default:
		return fmt.Errorf("unknown table file %s", file)
	}

	f, err := os.Create(filepath.Join(s.dir, file))
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
