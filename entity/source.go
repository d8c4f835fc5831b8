package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Source types.
const (
	SourceTypeText = "text"
	SourceTypeFile = "file"
)

// Source is a knowledge-base input: pasted text or an uploaded file.
// For files the extracted plain text is persisted back onto Content so
// re-processing never needs the original binary again.
type Source struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	OrganizationID string       `gorm:"index" json:"organizationId"`
	Organization   Organization `json:"-"`

	Type    string `gorm:"index" json:"type"` // text / file
	Name    string `json:"name"`
	Content string `json:"content"`

	FileName string `json:"fileName"`
	FilePath string `json:"filePath"`
	MimeType string `json:"mimeType"`
	Size     int64  `json:"size"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Documents []Document `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (s *Source) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
