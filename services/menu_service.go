package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuService struct {
	Repo         *repository.MenuRepository
	CategoryRepo *repository.CategoryRepository
	OrgRepo      *repository.OrganizationRepository
}

func NewMenuService(repo *repository.MenuRepository, categoryRepo *repository.CategoryRepository, orgRepo *repository.OrganizationRepository) *MenuService {
	return &MenuService{Repo: repo, CategoryRepo: categoryRepo, OrgRepo: orgRepo}
}

type MenuInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CategoryID  string `json:"categoryId"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	IsAvailable bool   `json:"isAvailable"`
}

func (s *MenuService) validate(orgID string, in *MenuInput) (decimal.Decimal, error) {
	if strings.TrimSpace(in.Name) == "" || in.CategoryID == "" || in.Price == "" {
		return decimal.Zero, fmt.Errorf("%w: name, category and price are required", ErrInvalidPayload)
	}

	// category must belong to the caller's organization
	if _, err := s.CategoryRepo.FindForOrganization(orgID, in.CategoryID); err != nil {
		return decimal.Zero, fmt.Errorf("%w: invalid category", ErrInvalidPayload)
	}

	price, err := decimal.NewFromString(in.Price)
	if err != nil || price.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: invalid price", ErrInvalidPayload)
	}
	return price, nil
}

func (s *MenuService) List(orgID string) ([]repository.MenuWithCategory, error) {
	return s.Repo.ListByOrganization(orgID)
}

func (s *MenuService) Get(orgID, menuID string) (*entity.Menu, error) {
	m, err := s.Repo.FindForOrganization(orgID, menuID)
	if err != nil {
		return nil, fmt.Errorf("%w: menu %s", ErrNotFound, menuID)
	}
	return m, nil
}

func (s *MenuService) Create(orgID string, in *MenuInput) (*entity.Menu, error) {
	price, err := s.validate(orgID, in)
	if err != nil {
		return nil, err
	}

	m := &entity.Menu{
		OrganizationID: orgID,
		CategoryID:     in.CategoryID,
		Name:           strings.TrimSpace(in.Name),
		Description:    in.Description,
		Image:          in.Image,
		Price:          price,
		IsAvailable:    in.IsAvailable,
	}
	if err := s.Repo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MenuService) Update(orgID, menuID string, in *MenuInput) (*entity.Menu, error) {
	m, err := s.Repo.FindForOrganization(orgID, menuID)
	if err != nil {
		return nil, fmt.Errorf("%w: menu %s", ErrNotFound, menuID)
	}

	price, err := s.validate(orgID, in)
	if err != nil {
		return nil, err
	}

	m.CategoryID = in.CategoryID
	m.Name = strings.TrimSpace(in.Name)
	m.Description = in.Description
	if in.Image != "" {
		m.Image = in.Image
	}
	m.Price = price
	m.IsAvailable = in.IsAvailable

	if err := s.Repo.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *MenuService) Delete(orgID, menuID string) error {
	affected, err := s.Repo.Delete(orgID, menuID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: menu %s", ErrNotFound, menuID)
	}
	return nil
}

// PublicMenu backs GET /api/:organizationId/menu: available items for a
// known tenant, ordered by category rank then creation time.
func (s *MenuService) PublicMenu(orgID string) ([]repository.MenuWithCategory, error) {
	if _, err := s.OrgRepo.FindByID(orgID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: organization %s", ErrNotFound, orgID)
		}
		return nil, err
	}
	return s.Repo.ListAvailableByOrganization(orgID)
}
