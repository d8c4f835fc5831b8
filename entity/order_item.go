package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderItem snapshots the menu price at ingestion time; menu prices change
// but past orders must not.
type OrderItem struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	OrderID string `gorm:"index" json:"orderId"`
	Order   Order  `json:"-"`

	MenuID string `gorm:"index" json:"menuId"`
	Menu   Menu   `json:"-"`

	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `gorm:"type:numeric" json:"price"`
	Total    decimal.Decimal `gorm:"type:numeric" json:"total"`
	Notes    string          `json:"notes"`

	// Status is written once at creation, mirroring the order status at that
	// moment. There is no item-level transition API.
	Status string `gorm:"default:new" json:"status"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == "" {
		oi.ID = uuid.NewString()
	}
	return nil
}
