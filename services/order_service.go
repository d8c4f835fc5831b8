package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/pkg/elevenlabs"
	"github.com/ahmadnurfadilah/chattable/repository"
	"github.com/ahmadnurfadilah/chattable/utils"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// orderCodeAttempts bounds collision retries on the generated order code.
const orderCodeAttempts = 5

// OrderFeed receives order events for live kitchen displays. Implemented by
// ws.OrderHub; nil disables broadcasting.
type OrderFeed interface {
	BroadcastOrder(organizationID, event string, order *entity.Order)
}

type OrderService struct {
	DB       *gorm.DB
	Repo     *repository.OrderRepository
	MenuRepo *repository.MenuRepository
	OrgRepo  *repository.OrganizationRepository

	Feed OrderFeed
	Log  *zap.Logger
}

func NewOrderService(
	db *gorm.DB,
	repo *repository.OrderRepository,
	menuRepo *repository.MenuRepository,
	orgRepo *repository.OrganizationRepository,
	feed OrderFeed,
	log *zap.Logger,
) *OrderService {
	return &OrderService{DB: db, Repo: repo, MenuRepo: menuRepo, OrgRepo: orgRepo, Feed: feed, Log: log}
}

// requestedItem is one element of the voice agent's JSON item list.
type requestedItem struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Notes    *string `json:"notes"`
}

// CreateFromWebhook turns a finished voice conversation's collected fields
// into a priced order. The whole operation is all-or-nothing: an unknown or
// unavailable item aborts it, and the header and lines are inserted in one
// transaction.
func (s *OrderService) CreateFromWebhook(agentID string, results *elevenlabs.DataCollectionResults) (*entity.Order, error) {
	org, err := s.OrgRepo.FindByAgentID(agentID)
	if err != nil {
		return nil, fmt.Errorf("%w: organization for agent %s", ErrNotFound, agentID)
	}

	customerName := "Guest"
	if results.Name != nil && strings.TrimSpace(results.Name.Value) != "" {
		customerName = strings.TrimSpace(results.Name.Value)
	}
	orderType := entity.OrderTypeTakeaway
	if results.OrderType != nil && results.OrderType.Value == entity.OrderTypeDineIn {
		orderType = entity.OrderTypeDineIn
	}

	if results.Items == nil || results.Items.Value == "" {
		return nil, fmt.Errorf("%w: no items in data collection results", ErrInvalidPayload)
	}

	var items []requestedItem
	if err := json.Unmarshal([]byte(results.Items.Value), &items); err != nil {
		return nil, fmt.Errorf("%w: items is not valid JSON: %v", ErrInvalidPayload, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: items must be a non-empty array", ErrInvalidPayload)
	}
	for _, it := range items {
		if it.ID == "" || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: item needs an id and a positive quantity", ErrInvalidPayload)
		}
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	menus, err := s.MenuRepo.FindByIDsForOrganization(org.ID, ids)
	if err != nil {
		return nil, err
	}
	menuByID := make(map[string]entity.Menu, len(menus))
	for _, m := range menus {
		menuByID[m.ID] = m
	}
	for _, it := range items {
		m, ok := menuByID[it.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMenuItem, it.ID)
		}
		if !m.IsAvailable {
			return nil, fmt.Errorf("%w: %s", ErrItemUnavailable, m.Name)
		}
	}

	total := decimal.Zero
	lines := make([]entity.OrderItem, 0, len(items))
	for _, it := range items {
		m := menuByID[it.ID]
		lineTotal := m.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(lineTotal)

		notes := ""
		if it.Notes != nil {
			notes = *it.Notes
		}
		lines = append(lines, entity.OrderItem{
			MenuID:   m.ID,
			Quantity: it.Quantity,
			Price:    m.Price,
			Total:    lineTotal,
			Notes:    notes,
			Status:   entity.OrderStatusNew,
		})
	}

	order, err := s.insertOrder(org.ID, orderType, customerName, total, lines)
	if err != nil {
		return nil, err
	}

	s.Log.Info("order created from webhook",
		zap.String("orderId", order.ID),
		zap.String("organizationId", org.ID),
		zap.String("total", order.Total.String()),
		zap.Int("items", len(order.Items)))

	if s.Feed != nil {
		s.Feed.BroadcastOrder(org.ID, "order.created", order)
	}
	return order, nil
}

// insertOrder persists the header and lines in one transaction. A collision
// on the generated code rolls the whole attempt back and tries a fresh code;
// retrying the entire transaction keeps postgres happy, where a failed
// statement poisons the rest of the transaction.
func (s *OrderService) insertOrder(orgID, orderType, customerName string, total decimal.Decimal, lines []entity.OrderItem) (*entity.Order, error) {
	var lastErr error
	for attempt := 0; attempt < orderCodeAttempts; attempt++ {
		code, err := utils.GenerateOrderCode()
		if err != nil {
			return nil, err
		}

		order := entity.Order{
			ID:             code,
			OrganizationID: orgID,
			Type:           orderType,
			CustomerName:   customerName,
			PaymentType:    "cash",
			Total:          total,
			Status:         entity.OrderStatusNew,
		}
		err = s.DB.Transaction(func(tx *gorm.DB) error {
			if err := s.Repo.CreateOrder(tx, &order); err != nil {
				return err
			}
			for i := range lines {
				lines[i].OrderID = order.ID
				lines[i].ID = ""
				if err := s.Repo.CreateOrderItem(tx, &lines[i]); err != nil {
					return err
				}
			}
			return nil
		})
		if err != nil {
			if isUniqueViolation(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		order.Items = lines
		return &order, nil
	}
	return nil, fmt.Errorf("order code collision persisted after %d attempts: %w", orderCodeAttempts, lastErr)
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}

// OrderItemView flattens a line with its menu name for list responses.
type OrderItemView struct {
	ID       string          `json:"id"`
	MenuID   string          `json:"menuId"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	Notes    string          `json:"notes"`
}

type OrderView struct {
	ID           string          `json:"id"`
	CustomerName string          `json:"name"`
	Type         string          `json:"orderType"`
	TableNumber  string          `json:"tableNumber"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	ItemCount    int             `json:"itemCount"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
	CompletedAt  *time.Time      `json:"completedAt"`
	Items        []OrderItemView `json:"items"`
}

// List returns the organization's orders newest first. status "" or "all"
// means no status filter; day nil means no date filter.
func (s *OrderService) List(orgID string, status string, day *time.Time) ([]OrderView, error) {
	if status == "all" {
		status = ""
	}
	if status != "" && !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	orders, err := s.Repo.ListByOrganization(orgID, status, day)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, toOrderView(&o))
	}
	return views, nil
}

func toOrderView(o *entity.Order) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemView{
			ID:       it.ID,
			MenuID:   it.MenuID,
			Name:     it.Menu.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
			Total:    it.Total,
			Notes:    it.Notes,
		})
	}
	return OrderView{
		ID:           o.ID,
		CustomerName: o.CustomerName,
		Type:         o.Type,
		TableNumber:  o.TableNumber,
		Status:       o.Status,
		Total:        o.Total,
		ItemCount:    len(items),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		CompletedAt:  o.CompletedAt,
		Items:        items,
	}
}

// UpdateStatus sets the order status. Any of the four statuses may follow
// any other; kitchen staff use backwards moves to correct mistakes.
// completed_at is stamped exactly when the new status is completed and
// cleared otherwise.
func (s *OrderService) UpdateStatus(orgID, orderID, status string) (*entity.Order, error) {
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	var completedAt *time.Time
	if status == entity.OrderStatusCompleted {
		now := time.Now()
		completedAt = &now
	}

	affected, err := s.Repo.UpdateStatus(orgID, orderID, status, completedAt)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}

	order, err := s.Repo.GetForOrganization(orgID, orderID)
	if err != nil {
		return nil, err
	}

	s.Log.Info("order status updated",
		zap.String("orderId", orderID),
		zap.String("organizationId", orgID),
		zap.String("status", status))

	if s.Feed != nil {
		s.Feed.BroadcastOrder(orgID, "order.status", order)
	}
	return order, nil
}

// Get returns one order with its items, scoped to the organization.
func (s *OrderService) Get(orgID, orderID string) (*OrderView, error) {
	o, err := s.Repo.GetForOrganization(orgID, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: order %s", ErrNotFound, orderID)
	}
	v := toOrderView(o)
	return &v, nil
}
