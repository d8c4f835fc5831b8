package services

import (
	"fmt"
	"strings"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/repository"
	"gorm.io/gorm"
)

type CategoryService struct {
	DB   *gorm.DB
	Repo *repository.CategoryRepository
}

func NewCategoryService(db *gorm.DB, repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{DB: db, Repo: repo}
}

func (s *CategoryService) List(orgID string) ([]entity.MenuCategory, error) {
	return s.Repo.ListByOrganization(orgID)
}

// Create appends the category at the end of the display order.
func (s *CategoryService) Create(orgID, name string) (*entity.MenuCategory, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPayload)
	}

	maxRank, err := s.Repo.MaxOrderColumn(orgID)
	if err != nil {
		return nil, err
	}

	cat := &entity.MenuCategory{
		OrganizationID: orgID,
		Name:           strings.TrimSpace(name),
		OrderColumn:    maxRank + 1,
	}
	if err := s.Repo.Create(cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *CategoryService) Rename(orgID, categoryID, name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidPayload)
	}
	affected, err := s.Repo.UpdateName(orgID, categoryID, strings.TrimSpace(name))
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: category %s", ErrNotFound, categoryID)
	}
	return nil
}

// Reorder rewrites the rank of every listed category in one transaction so
// a concurrent reorder or delete never observes a half-applied ordering.
func (s *CategoryService) Reorder(orgID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return fmt.Errorf("%w: categoryIds is required", ErrInvalidPayload)
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		for i, id := range categoryIDs {
			if err := s.Repo.UpdateOrderColumn(tx, orgID, id, i+1); err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the category; its menus go with it.
func (s *CategoryService) Delete(orgID, categoryID string) error {
	if _, err := s.Repo.FindForOrganization(orgID, categoryID); err != nil {
		return fmt.Errorf("%w: category %s", ErrNotFound, categoryID)
	}
	return s.Repo.Delete(orgID, categoryID)
}
