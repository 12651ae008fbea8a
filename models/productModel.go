package models

import "github.com/shopspring/decimal"

type Product struct {
	ID    uint            `gorm:"primaryKey;autoIncrement" json:"ID"`
	Name  string          `gorm:"not null" json:"name"`
	Price decimal.Decimal `gorm:"not null;type:decimal(10,2)" json:"price"`
	Stock int             `gorm:"not null" json:"stock"`
	Image string          `json:"image"`
}
