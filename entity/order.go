package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses as they appear on the wire and in storage.
const (
	OrderStatusNew       = "new"
	OrderStatusCooking   = "cooking"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
)

// Order types.
const (
	OrderTypeDineIn   = "dine-in"
	OrderTypeTakeaway = "takeaway"
)

// ValidOrderStatus reports whether s is one of the four defined statuses.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusNew, OrderStatusCooking, OrderStatusReady, OrderStatusCompleted:
		return true
	}
	return false
}

// Order is created atomically with its items by the webhook ingestion path.
// The ID is a short human-presentable code so kitchen staff can read it
// aloud off a ticket.
type Order struct {
	ID string `gorm:"primaryKey" json:"id"`

	OrganizationID string       `gorm:"index" json:"organizationId"`
	Organization   Organization `json:"-"`

	Type         string `json:"type"` // dine-in / takeaway
	CustomerName string `json:"customerName"`
	TableNumber  string `json:"tableNumber"` // dine-in only
	PaymentType  string `json:"paymentType"`

	Total decimal.Decimal `gorm:"type:numeric" json:"total"`

	Status string `gorm:"default:new;index" json:"status"`
	Notes  string `json:"notes"`

	// CompletedAt is non-nil exactly while Status == completed.
	CompletedAt *time.Time `json:"completedAt"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`
}
