package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MenuCategory struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	OrganizationID string       `gorm:"index" json:"organizationId"`
	Organization   Organization `json:"-"`

	Name string `json:"name"`

	// OrderColumn is the display rank inside the organization; reordering
	// rewrites it for every category in one transaction.
	OrderColumn int `json:"orderColumn"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Menus []Menu `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"-"`
}

func (c *MenuCategory) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
