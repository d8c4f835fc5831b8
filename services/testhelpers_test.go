package services

import (
	"testing"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&entity.User{}, &entity.Organization{}, &entity.Member{},
		&entity.MenuCategory{}, &entity.Menu{},
		&entity.Order{}, &entity.OrderItem{},
		&entity.Source{}, &entity.Document{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedOrganization(t *testing.T, db *gorm.DB, slug, agentID string) *entity.Organization {
	t.Helper()
	org := &entity.Organization{Name: slug, Slug: slug, AgentID: agentID}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("seed organization: %v", err)
	}
	return org
}

func seedCategory(t *testing.T, db *gorm.DB, orgID, name string, rank int) *entity.MenuCategory {
	t.Helper()
	cat := &entity.MenuCategory{OrganizationID: orgID, Name: name, OrderColumn: rank}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	return cat
}

func seedMenu(t *testing.T, db *gorm.DB, orgID, categoryID, name, price string, available bool) *entity.Menu {
	t.Helper()
	p, err := decimal.NewFromString(price)
	if err != nil {
		t.Fatalf("bad price %q: %v", price, err)
	}
	m := &entity.Menu{
		OrganizationID: orgID,
		CategoryID:     categoryID,
		Name:           name,
		Price:          p,
		IsAvailable:    available,
	}
	if err := db.Create(m).Error; err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	// the column default would override a zero-value false on insert
	if !available {
		if err := db.Model(m).Update("is_available", false).Error; err != nil {
			t.Fatalf("seed menu availability: %v", err)
		}
	}
	return m
}

func newOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewMenuRepository(db),
		repository.NewOrganizationRepository(db),
		nil,
		zap.NewNop(),
	)
}
