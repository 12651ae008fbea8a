package models

// One row per (user, product). Quantity accumulates on repeated adds and is
// always >= 1; removing an item deletes the row.
type CartItem struct {
	Email     string `gorm:"primaryKey;size:255" json:"email"`
	ProductID uint   `gorm:"primaryKey" json:"product_id"`
	Quantity  int    `gorm:"not null" json:"quantity"`
}

// Pointer fields distinguish "absent" from zero values: a missing product_id
// is a validation error, a missing quantity defaults to 1, but an explicit
// zero quantity is rejected.
type CartItemData struct {
	Email     string `json:"email"`
	ProductID *uint  `json:"product_id"`
	Quantity  *int   `json:"quantity"`
}
