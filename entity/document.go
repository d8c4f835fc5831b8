package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Document is one embedded chunk of a source, the unit of retrieval.
type Document struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	SourceID string `gorm:"index" json:"sourceId"`
	Source   Source `json:"-"`

	Content  string `json:"content"`
	Metadata string `json:"metadata"` // JSON blob from the loader

	// Embedding is the chunk vector, JSON-encoded. Similarity search decodes
	// it and ranks by cosine distance in-process.
	Embedding string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

// SetEmbedding stores vec as the document's embedding.
func (d *Document) SetEmbedding(vec []float32) error {
	b, err := json.Marshal(vec)
	if err != nil {
		return err
	}
	d.Embedding = string(b)
	return nil
}

// EmbeddingVector decodes the stored embedding.
func (d *Document) EmbeddingVector() ([]float32, error) {
	var vec []float32
	if err := json.Unmarshal([]byte(d.Embedding), &vec); err != nil {
		return nil, err
	}
	return vec, nil
}
