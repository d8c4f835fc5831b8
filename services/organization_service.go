package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/repository"
	"gorm.io/gorm"
)

type OrganizationService struct {
	DB   *gorm.DB
	Repo *repository.OrganizationRepository
}

func NewOrganizationService(db *gorm.DB, repo *repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{DB: db, Repo: repo}
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// slugify lowercases the name, collapses everything non-alphanumeric to
// dashes, and appends a random suffix so two "Pizza Place" tenants coexist.
func slugify(name string) string {
	s := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		s = "restaurant"
	}

	suffix := make([]byte, 3)
	rand.Read(suffix)
	return s + "-" + hex.EncodeToString(suffix)
}

// Create sets up a new tenant with the creator as owner member, atomically.
func (s *OrganizationService) Create(userID, name, description string) (*entity.Organization, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidPayload)
	}

	org := &entity.Organization{
		Name:        strings.TrimSpace(name),
		Slug:        slugify(name),
		Description: description,
	}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.Repo.Create(tx, org); err != nil {
			return err
		}
		member := &entity.Member{
			OrganizationID: org.ID,
			UserID:         userID,
			Role:           "owner",
		}
		return s.Repo.CreateMember(tx, member)
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (s *OrganizationService) ListForUser(userID string) ([]entity.Organization, error) {
	return s.Repo.ListForUser(userID)
}

func (s *OrganizationService) Get(orgID string) (*entity.Organization, error) {
	org, err := s.Repo.FindByID(orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: organization %s", ErrNotFound, orgID)
	}
	return org, nil
}

// UpdateSettings mutates the tenant's display fields.
func (s *OrganizationService) UpdateSettings(orgID, name, description, logo string) (*entity.Organization, error) {
	org, err := s.Repo.FindByID(orgID)
	if err != nil {
		return nil, fmt.Errorf("%w: organization %s", ErrNotFound, orgID)
	}
	if strings.TrimSpace(name) != "" {
		org.Name = strings.TrimSpace(name)
	}
	org.Description = description
	if logo != "" {
		org.Logo = logo
	}
	if err := s.Repo.Update(org); err != nil {
		return nil, err
	}
	return org, nil
}

// BindAgent stores the voice-agent identifier on its indexed column.
func (s *OrganizationService) BindAgent(orgID, agentID string) error {
	if strings.TrimSpace(agentID) == "" {
		return fmt.Errorf("%w: agentId is required", ErrInvalidPayload)
	}
	if _, err := s.Repo.FindByID(orgID); err != nil {
		return fmt.Errorf("%w: organization %s", ErrNotFound, orgID)
	}
	return s.Repo.SetAgentID(orgID, agentID)
}
