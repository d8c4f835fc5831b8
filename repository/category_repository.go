package repository

import (
	"github.com/ahmadnurfadilah/chattable/entity"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	DB *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{DB: db}
}

func (r *CategoryRepository) ListByOrganization(orgID string) ([]entity.MenuCategory, error) {
	var cats []entity.MenuCategory
	err := r.DB.Where("organization_id = ?", orgID).
		Order("order_column ASC").
		Find(&cats).Error
	return cats, err
}

func (r *CategoryRepository) FindForOrganization(orgID, categoryID string) (*entity.MenuCategory, error) {
	var cat entity.MenuCategory
	err := r.DB.Where("id = ? AND organization_id = ?", categoryID, orgID).First(&cat).Error
	if err != nil {
		return nil, err
	}
	return &cat, nil
}

func (r *CategoryRepository) MaxOrderColumn(orgID string) (int, error) {
	var row struct{ Max int }
	err := r.DB.Model(&entity.MenuCategory{}).
		Select("COALESCE(MAX(order_column), 0) AS max").
		Where("organization_id = ?", orgID).
		Scan(&row).Error
	return row.Max, err
}

func (r *CategoryRepository) Create(cat *entity.MenuCategory) error {
	return r.DB.Create(cat).Error
}

func (r *CategoryRepository) UpdateName(orgID, categoryID, name string) (int64, error) {
	res := r.DB.Model(&entity.MenuCategory{}).
		Where("id = ? AND organization_id = ?", categoryID, orgID).
		Update("name", name)
	return res.RowsAffected, res.Error
}

func (r *CategoryRepository) UpdateOrderColumn(tx *gorm.DB, orgID, categoryID string, rank int) error {
	return tx.Model(&entity.MenuCategory{}).
		Where("id = ? AND organization_id = ?", categoryID, orgID).
		Update("order_column", rank).Error
}

// Delete removes the category and its menus. The cascade is done explicitly
// inside one transaction so sqlite without foreign_keys=on behaves the same
// as postgres.
func (r *CategoryRepository) Delete(orgID, categoryID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ? AND organization_id = ?", categoryID, orgID).
			Delete(&entity.Menu{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND organization_id = ?", categoryID, orgID).
			Delete(&entity.MenuCategory{}).Error
	})
}
