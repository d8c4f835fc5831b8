package services

import (
	"strings"
	"time"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/repository"
	"github.com/ahmadnurfadilah/chattable/utils"
	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	userRepo  *repository.UserRepository
	orgRepo   *repository.OrganizationRepository
	jwtSecret string
	jwtTTL    time.Duration
}

func NewAuthService(userRepo *repository.UserRepository, orgRepo *repository.OrganizationRepository, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		orgRepo:   orgRepo,
		jwtSecret: secret,
		jwtTTL:    ttl,
	}
}

// Register creates a new user; duplicate emails are rejected.
func (s *AuthService) Register(name, email, password string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	count, err := s.userRepo.CountByEmail(email)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entity.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hashed),
		Role:     "user",
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// Login verifies credentials and issues a token. The user's first
// organization (if any) becomes the token's active organization; a brand-new
// user gets a token with no organization and an empty dashboard.
func (s *AuthService) Login(email, password string) (string, *entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		return "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", nil, ErrInvalidCredentials
	}

	activeOrgID := ""
	if orgs, err := s.orgRepo.ListForUser(user.ID); err == nil && len(orgs) > 0 {
		activeOrgID = orgs[0].ID
	}

	token, err := utils.GenerateToken(user.ID, activeOrgID, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// ActivateOrganization re-issues a token scoped to another organization the
// user belongs to.
func (s *AuthService) ActivateOrganization(userID, orgID string) (string, error) {
	ok, err := s.orgRepo.IsMember(orgID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrForbidden
	}
	return utils.GenerateToken(userID, orgID, s.jwtSecret, s.jwtTTL)
}

// Me returns the user's profile.
func (s *AuthService) Me(userID string) (*entity.User, error) {
	u, err := s.userRepo.FindByID(userID)
	if err != nil {
		return nil, ErrNotFound
	}
	return u, nil
}
