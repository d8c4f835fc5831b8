package repository

import (
	"github.com/ahmadnurfadilah/chattable/entity"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	DB *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) *OrganizationRepository {
	return &OrganizationRepository{DB: db}
}

func (r *OrganizationRepository) Create(tx *gorm.DB, org *entity.Organization) error {
	return tx.Create(org).Error
}

func (r *OrganizationRepository) CreateMember(tx *gorm.DB, m *entity.Member) error {
	return tx.Create(m).Error
}

func (r *OrganizationRepository) FindByID(id string) (*entity.Organization, error) {
	var org entity.Organization
	if err := r.DB.First(&org, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// FindByAgentID resolves the tenant bound to a voice agent. agent_id is an
// indexed column, so this is a single lookup rather than a scan of every
// organization's metadata.
func (r *OrganizationRepository) FindByAgentID(agentID string) (*entity.Organization, error) {
	var org entity.Organization
	if err := r.DB.Where("agent_id = ?", agentID).First(&org).Error; err != nil {
		return nil, err
	}
	return &org, nil
}

// ListForUser returns the organizations the user is a member of.
func (r *OrganizationRepository) ListForUser(userID string) ([]entity.Organization, error) {
	var orgs []entity.Organization
	err := r.DB.
		Joins("JOIN members ON members.organization_id = organizations.id").
		Where("members.user_id = ?", userID).
		Find(&orgs).Error
	return orgs, err
}

// IsMember reports whether the user belongs to the organization.
func (r *OrganizationRepository) IsMember(orgID, userID string) (bool, error) {
	var count int64
	err := r.DB.Model(&entity.Member{}).
		Where("organization_id = ? AND user_id = ?", orgID, userID).
		Count(&count).Error
	return count > 0, err
}

func (r *OrganizationRepository) Update(org *entity.Organization) error {
	return r.DB.Save(org).Error
}

func (r *OrganizationRepository) SetAgentID(orgID, agentID string) error {
	return r.DB.Model(&entity.Organization{}).
		Where("id = ?", orgID).
		Update("agent_id", agentID).Error
}
