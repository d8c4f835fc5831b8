package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Organization is the unit of multi-tenant isolation. A restaurant signs up
// as one organization; menus, orders and knowledge sources all hang off it.
type Organization struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string `json:"name"`
	Slug        string `gorm:"uniqueIndex" json:"slug"`
	Logo        string `json:"logo"`
	Description string `json:"description"`

	// AgentID binds the externally hosted voice agent 1:1 to this tenant.
	// Indexed so the webhook path resolves the tenant without scanning.
	AgentID string `gorm:"index" json:"agentId"`

	// Metadata keeps genuinely free-form attributes only; agentId and
	// description used to live here and are now real columns.
	Metadata string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Members []Member `json:"-"`
	Menus   []Menu   `json:"-"`
	Orders  []Order  `json:"-"`
}

func (o *Organization) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
