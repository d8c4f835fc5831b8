package services

import (
	"time"

	"github.com/ahmadnurfadilah/chattable/repository"
	"github.com/shopspring/decimal"
)

type DashboardService struct {
	OrderRepo *repository.OrderRepository
	MenuRepo  *repository.MenuRepository
}

func NewDashboardService(orderRepo *repository.OrderRepository, menuRepo *repository.MenuRepository) *DashboardService {
	return &DashboardService{OrderRepo: orderRepo, MenuRepo: menuRepo}
}

type DashboardStats struct {
	TotalOrders    int64           `json:"totalOrders"`
	TotalRevenue   decimal.Decimal `json:"totalRevenue"`
	TodayOrders    int64           `json:"todayOrders"`
	TodayRevenue   decimal.Decimal `json:"todayRevenue"`
	PendingOrders  int64           `json:"pendingOrders"`
	MenuItemsCount int64           `json:"menuItemsCount"`
}

// Stats rolls up the organization's orders and menu. Revenue counts only
// completed orders — recognized at completion, never at creation. An empty
// orgID (a tenant with no active organization yet) yields the zero struct
// rather than an error.
func (s *DashboardService) Stats(orgID string) (*DashboardStats, error) {
	stats := &DashboardStats{
		TotalRevenue: decimal.Zero,
		TodayRevenue: decimal.Zero,
	}
	if orgID == "" {
		return stats, nil
	}

	var err error
	if stats.TotalOrders, err = s.OrderRepo.CountByOrganization(orgID); err != nil {
		return nil, err
	}
	if stats.PendingOrders, err = s.OrderRepo.CountPending(orgID); err != nil {
		return nil, err
	}
	if stats.MenuItemsCount, err = s.MenuRepo.CountByOrganization(orgID); err != nil {
		return nil, err
	}

	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if stats.TodayOrders, err = s.OrderRepo.CountCreatedSince(orgID, todayStart); err != nil {
		return nil, err
	}

	// Totals are summed as decimals in Go; SQL SUM over numeric-as-text
	// detours through binary floats.
	allTotals, err := s.OrderRepo.CompletedTotals(orgID, nil)
	if err != nil {
		return nil, err
	}
	for _, t := range allTotals {
		stats.TotalRevenue = stats.TotalRevenue.Add(t)
	}

	todayTotals, err := s.OrderRepo.CompletedTotals(orgID, &todayStart)
	if err != nil {
		return nil, err
	}
	for _, t := range todayTotals {
		stats.TodayRevenue = stats.TodayRevenue.Add(t)
	}

	return stats, nil
}
