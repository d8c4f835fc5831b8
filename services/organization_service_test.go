package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/repository"
	"gorm.io/gorm"
)

func newOrgService(db *gorm.DB) *OrganizationService {
	return NewOrganizationService(db, repository.NewOrganizationRepository(db))
}

func TestCreateOrganizationMakesCreatorOwner(t *testing.T) {
	db := newTestDB(t)
	user := &entity.User{Name: "Alice", Email: "alice@example.com", Password: "x", Role: "user"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := newOrgService(db)
	org, err := svc.Create(user.ID, "Pizza Place", "Neapolitan pizza")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !strings.HasPrefix(org.Slug, "pizza-place-") {
		t.Errorf("slug = %q, want pizza-place-<suffix>", org.Slug)
	}

	var member entity.Member
	if err := db.Where("organization_id = ? AND user_id = ?", org.ID, user.ID).First(&member).Error; err != nil {
		t.Fatalf("owner member missing: %v", err)
	}
	if member.Role != "owner" {
		t.Errorf("role = %q, want owner", member.Role)
	}

	listed, err := svc.ListForUser(user.ID)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != org.ID {
		t.Errorf("listed = %v, want just %s", listed, org.ID)
	}
}

func TestCreateOrganizationSlugsCollide(t *testing.T) {
	db := newTestDB(t)
	user := &entity.User{Name: "Alice", Email: "alice@example.com", Password: "x", Role: "user"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}

	svc := newOrgService(db)
	a, err := svc.Create(user.ID, "Pizza Place", "")
	if err != nil {
		t.Fatalf("first create: %v", err)
	}
	b, err := svc.Create(user.ID, "Pizza Place", "")
	if err != nil {
		t.Fatalf("second create with same name: %v", err)
	}
	if a.Slug == b.Slug {
		t.Errorf("two tenants share slug %q", a.Slug)
	}
}

func TestBindAgent(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "")
	svc := newOrgService(db)

	if err := svc.BindAgent(org.ID, "agent-42"); err != nil {
		t.Fatalf("BindAgent: %v", err)
	}

	got, err := repository.NewOrganizationRepository(db).FindByAgentID("agent-42")
	if err != nil {
		t.Fatalf("FindByAgentID: %v", err)
	}
	if got.ID != org.ID {
		t.Errorf("agent resolved to %s, want %s", got.ID, org.ID)
	}

	if err := svc.BindAgent(org.ID, "  "); !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("blank agent err = %v, want ErrInvalidPayload", err)
	}
	if err := svc.BindAgent("00000000-0000-0000-0000-000000000000", "agent-9"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown org err = %v, want ErrNotFound", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	db := newTestDB(t)
	org := seedOrganization(t, db, "pasta-place", "agent-1")
	svc := newOrgService(db)

	updated, err := svc.UpdateSettings(org.ID, "Pasta Palace", "Fresh pasta daily", "logo.png")
	if err != nil {
		t.Fatalf("UpdateSettings: %v", err)
	}
	if updated.Name != "Pasta Palace" || updated.Description != "Fresh pasta daily" || updated.Logo != "logo.png" {
		t.Errorf("updated = %+v", updated)
	}
	// slug and agent binding survive a settings update
	if updated.Slug != org.Slug {
		t.Errorf("slug changed from %q to %q", org.Slug, updated.Slug)
	}
	if updated.AgentID != "agent-1" {
		t.Errorf("agent id changed to %q", updated.AgentID)
	}
}
