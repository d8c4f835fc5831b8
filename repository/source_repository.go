package repository

import (
	"github.com/ahmadnurfadilah/chattable/entity"
	"gorm.io/gorm"
)

type SourceRepository struct {
	DB *gorm.DB
}

func NewSourceRepository(db *gorm.DB) *SourceRepository {
	return &SourceRepository{DB: db}
}

func (r *SourceRepository) Create(tx *gorm.DB, s *entity.Source) error {
	return tx.Create(s).Error
}

func (r *SourceRepository) FindForOrganization(orgID, sourceID string) (*entity.Source, error) {
	var s entity.Source
	err := r.DB.Where("id = ? AND organization_id = ?", sourceID, orgID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListByType returns one page of sources of the given type, newest first,
// plus the total count for pagination.
func (r *SourceRepository) ListByType(orgID, sourceType string, page, pageSize int) ([]entity.Source, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 10
	}

	var total int64
	err := r.DB.Model(&entity.Source{}).
		Where("organization_id = ? AND type = ?", orgID, sourceType).
		Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var sources []entity.Source
	err = r.DB.
		Where("organization_id = ? AND type = ?", orgID, sourceType).
		Order("created_at DESC").
		Limit(pageSize).Offset((page - 1) * pageSize).
		Find(&sources).Error
	return sources, total, err
}

// Delete removes the source and its documents in one transaction.
func (r *SourceRepository) Delete(orgID, sourceID string) (int64, error) {
	var affected int64
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("source_id = ?", sourceID).Delete(&entity.Document{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ? AND organization_id = ?", sourceID, orgID).Delete(&entity.Source{})
		affected = res.RowsAffected
		return res.Error
	})
	return affected, err
}
