package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Menu struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	OrganizationID string       `gorm:"index" json:"organizationId"`
	Organization   Organization `json:"-"`

	CategoryID string       `gorm:"index" json:"categoryId"`
	Category   MenuCategory `json:"-"`

	Name        string `json:"name"`
	Description string `json:"description"`
	Image       string `json:"image"`

	// Price is decimal end to end; order lines snapshot it at ingestion time.
	Price decimal.Decimal `gorm:"type:numeric" json:"price"`

	IsAvailable bool `gorm:"default:true" json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	OrderItems []OrderItem `json:"-"`
}

func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
