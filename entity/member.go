package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Member links a user to an organization with a role ("owner" or "member").
type Member struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	OrganizationID string       `gorm:"index" json:"organizationId"`
	Organization   Organization `json:"-"`

	UserID string `gorm:"index" json:"userId"`
	User   User   `json:"-"`

	Role string `gorm:"default:member" json:"role"`

	CreatedAt time.Time `json:"createdAt"`
}

func (m *Member) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
