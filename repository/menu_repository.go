package repository

import (
	"time"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

// MenuWithCategory is the list/detail row shape: a menu joined with its
// category name.
type MenuWithCategory struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	Image        string          `json:"image"`
	Price        decimal.Decimal `json:"price"`
	IsAvailable  bool            `json:"isAvailable"`
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (r *MenuRepository) listJoined(orgID string, availableOnly bool) ([]MenuWithCategory, error) {
	var rows []MenuWithCategory
	db := r.DB.Table("menus").
		Select("menus.id, menus.name, menus.description, menus.image, menus.price, menus.is_available, menus.category_id, menu_categories.name AS category_name, menus.created_at, menus.updated_at").
		Joins("JOIN menu_categories ON menu_categories.id = menus.category_id").
		Where("menus.organization_id = ?", orgID)
	if availableOnly {
		db = db.Where("menus.is_available = ?", true)
	}
	err := db.Order("menu_categories.order_column ASC, menus.created_at ASC").Scan(&rows).Error
	return rows, err
}

func (r *MenuRepository) ListByOrganization(orgID string) ([]MenuWithCategory, error) {
	return r.listJoined(orgID, false)
}

// ListAvailableByOrganization backs the public menu endpoint consumed by the
// voice agent: available items only.
func (r *MenuRepository) ListAvailableByOrganization(orgID string) ([]MenuWithCategory, error) {
	return r.listJoined(orgID, true)
}

func (r *MenuRepository) FindForOrganization(orgID, menuID string) (*entity.Menu, error) {
	var m entity.Menu
	if err := r.DB.Where("id = ? AND organization_id = ?", menuID, orgID).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// FindByIDsForOrganization batch-fetches menus by id, scoped to one tenant.
// Callers compare the result count with the requested id count; a shortfall
// means an unknown (or cross-tenant) item.
func (r *MenuRepository) FindByIDsForOrganization(orgID string, ids []string) ([]entity.Menu, error) {
	var menus []entity.Menu
	err := r.DB.Where("id IN ? AND organization_id = ?", ids, orgID).Find(&menus).Error
	return menus, err
}

func (r *MenuRepository) Create(m *entity.Menu) error {
	return r.DB.Create(m).Error
}

func (r *MenuRepository) Update(m *entity.Menu) error {
	return r.DB.Save(m).Error
}

func (r *MenuRepository) Delete(orgID, menuID string) (int64, error) {
	res := r.DB.Where("id = ? AND organization_id = ?", menuID, orgID).Delete(&entity.Menu{})
	return res.RowsAffected, res.Error
}

func (r *MenuRepository) CountByOrganization(orgID string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Menu{}).Where("organization_id = ?", orgID).Count(&count).Error
	return count, err
}
