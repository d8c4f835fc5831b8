package repository

import (
	"github.com/ahmadnurfadilah/chattable/entity"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	DB *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{DB: db}
}

func (r *DocumentRepository) CreateBatch(tx *gorm.DB, docs []entity.Document) error {
	if len(docs) == 0 {
		return nil
	}
	return tx.Create(&docs).Error
}

// ListByOrganization returns every embedded chunk belonging to the tenant,
// joined through sources. Retrieval ranks these in-process.
func (r *DocumentRepository) ListByOrganization(orgID string) ([]entity.Document, error) {
	var docs []entity.Document
	err := r.DB.
		Joins("JOIN sources ON sources.id = documents.source_id").
		Where("sources.organization_id = ?", orgID).
		Find(&docs).Error
	return docs, err
}
