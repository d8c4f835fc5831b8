package repository

import (
	"time"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository struct {
	DB *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{DB: db}
}

func (r *OrderRepository) CreateOrder(tx *gorm.DB, o *entity.Order) error {
	return tx.Create(o).Error
}

func (r *OrderRepository) CreateOrderItem(tx *gorm.DB, oi *entity.OrderItem) error {
	return tx.Create(oi).Error
}

// ListByOrganization returns the organization's orders, newest first, with
// items and their menus preloaded. status filters on exact match when
// non-empty; day restricts to that calendar day in server-local time,
// inclusive of both midnight and 23:59:59.999.
func (r *OrderRepository) ListByOrganization(orgID string, status string, day *time.Time) ([]entity.Order, error) {
	db := r.DB.Preload("Items").Preload("Items.Menu").
		Where("organization_id = ?", orgID)
	if status != "" {
		db = db.Where("status = ?", status)
	}
	if day != nil {
		start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
		end := start.Add(24*time.Hour - time.Millisecond)
		db = db.Where("created_at BETWEEN ? AND ?", start, end)
	}
	var orders []entity.Order
	err := db.Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) GetForOrganization(orgID, orderID string) (*entity.Order, error) {
	var o entity.Order
	err := r.DB.Preload("Items").Preload("Items.Menu").
		Where("id = ? AND organization_id = ?", orderID, orgID).
		First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// UpdateStatus sets the status and keeps completed_at in lockstep: stamped
// when the new status is completed, cleared for everything else.
func (r *OrderRepository) UpdateStatus(orgID, orderID, status string, completedAt *time.Time) (int64, error) {
	res := r.DB.Model(&entity.Order{}).
		Where("id = ? AND organization_id = ?", orderID, orgID).
		Updates(map[string]any{
			"status":       status,
			"completed_at": completedAt,
		})
	return res.RowsAffected, res.Error
}

// ---------------- Aggregates (dashboard) ----------------

func (r *OrderRepository) CountByOrganization(orgID string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Order{}).Where("organization_id = ?", orgID).Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountPending(orgID string) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Order{}).
		Where("organization_id = ? AND status IN ?", orgID,
			[]string{entity.OrderStatusNew, entity.OrderStatusCooking, entity.OrderStatusReady}).
		Count(&count).Error
	return count, err
}

func (r *OrderRepository) CountCreatedSince(orgID string, since time.Time) (int64, error) {
	var count int64
	err := r.DB.Model(&entity.Order{}).
		Where("organization_id = ? AND created_at >= ?", orgID, since).
		Count(&count).Error
	return count, err
}

// CompletedTotals fetches the totals of completed orders so the caller can
// sum them as decimals; SQL SUM over a numeric-as-text column would round
// through binary floats.
func (r *OrderRepository) CompletedTotals(orgID string, since *time.Time) ([]decimal.Decimal, error) {
	db := r.DB.Model(&entity.Order{}).
		Where("organization_id = ? AND status = ?", orgID, entity.OrderStatusCompleted)
	if since != nil {
		db = db.Where("created_at >= ?", *since)
	}
	var totals []decimal.Decimal
	err := db.Pluck("total", &totals).Error
	return totals, err
}
