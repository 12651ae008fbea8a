package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// Orders are immutable once placed. Amount equals the sum of
// quantity * price_at_purchase across the order's items.
type Order struct {
	OrderID string          `gorm:"primaryKey;size:36" json:"order_id"`
	Email   string          `gorm:"index;not null" json:"email"`
	Amount  decimal.Decimal `gorm:"type:decimal(10,2)" json:"amount"`
	Date    datatypes.Date  `json:"date"`
	Items   []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

// PriceAtPurchase snapshots the product price at order time and never tracks
// later catalog changes.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey" json:"-"`
	OrderID         string          `gorm:"index;size:36" json:"order_id"`
	ProductID       uint            `json:"product_id"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(10,2)" json:"price_at_purchase"`
}

// DateString renders the order date the way the API exposes it.
func (o Order) DateString() string {
	return time.Time(o.Date).Format("2006-01-02")
}
