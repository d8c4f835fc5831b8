package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ahmadnurfadilah/chattable/entity"
	"github.com/ahmadnurfadilah/chattable/pkg/elevenlabs"
	"github.com/ahmadnurfadilah/chattable/repository"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const webhookSecret = "whsec_test"

func setupWebhookRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	err = db.AutoMigrate(
		&entity.Organization{}, &entity.MenuCategory{}, &entity.Menu{},
		&entity.Order{}, &entity.OrderItem{},
	)
	if err != nil {
		t.Fatalf("migrate: %v", err)
	}

	orderSvc := services.NewOrderService(
		db,
		repository.NewOrderRepository(db),
		repository.NewMenuRepository(db),
		repository.NewOrganizationRepository(db),
		nil,
		zap.NewNop(),
	)
	ctrl := NewWebhookController(orderSvc, webhookSecret, zap.NewNop())

	r := gin.New()
	r.GET("/webhook/elevenlabs", ctrl.Liveness)
	r.POST("/webhook/elevenlabs", ctrl.Receive)
	return r, db
}

func seedWebhookMenu(t *testing.T, db *gorm.DB) *entity.Menu {
	t.Helper()
	org := &entity.Organization{Name: "Pasta Place", Slug: "pasta-place", AgentID: "agent-1"}
	if err := db.Create(org).Error; err != nil {
		t.Fatalf("seed org: %v", err)
	}
	cat := &entity.MenuCategory{OrganizationID: org.ID, Name: "Mains", OrderColumn: 1}
	if err := db.Create(cat).Error; err != nil {
		t.Fatalf("seed category: %v", err)
	}
	price, _ := decimal.NewFromString("8.00")
	menu := &entity.Menu{
		OrganizationID: org.ID, CategoryID: cat.ID,
		Name: "Pizza", Price: price, IsAvailable: true,
	}
	if err := db.Create(menu).Error; err != nil {
		t.Fatalf("seed menu: %v", err)
	}
	return menu
}

func transcriptionBody(agentID, status, itemsJSON string) []byte {
	payload := map[string]any{
		"type":            "post_call_transcription",
		"event_timestamp": time.Now().Unix(),
		"data": map[string]any{
			"agent_id":        agentID,
			"conversation_id": "conv-1",
			"status":          status,
			"analysis": map[string]any{
				"data_collection_results": map[string]any{
					"name":      map[string]string{"value": "Alice"},
					"orderType": map[string]string{"value": "takeaway"},
					"items":     map[string]string{"value": itemsJSON},
				},
			},
		},
	}
	body, _ := json.Marshal(payload)
	return body
}

func postWebhook(r *gin.Engine, body []byte, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/elevenlabs", bytes.NewReader(body))
	if header != "" {
		req.Header.Set(elevenlabs.SignatureHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWebhookLiveness(t *testing.T) {
	r, _ := setupWebhookRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/webhook/elevenlabs", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["status"] != "webhook listening" {
		t.Errorf("body = %v", resp)
	}
}

func TestWebhookCreatesOrder(t *testing.T) {
	r, db := setupWebhookRouter(t)
	menu := seedWebhookMenu(t, db)

	body := transcriptionBody("agent-1", "done", fmt.Sprintf(`[{"id":%q,"quantity":2}]`, menu.ID))
	w := postWebhook(r, body, elevenlabs.Sign(body, webhookSecret, time.Now()))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body %s", w.Code, w.Body)
	}
	var resp map[string]bool
	json.Unmarshal(w.Body.Bytes(), &resp)
	if !resp["received"] {
		t.Errorf("body = %s, want received:true", w.Body)
	}

	var order entity.Order
	if err := db.Preload("Items").First(&order).Error; err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if got := order.Total.String(); got != "16" {
		t.Errorf("total = %s, want 16", got)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Errorf("items = %+v", order.Items)
	}
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	r, db := setupWebhookRouter(t)
	menu := seedWebhookMenu(t, db)

	body := transcriptionBody("agent-1", "done", fmt.Sprintf(`[{"id":%q,"quantity":1}]`, menu.ID))

	if w := postWebhook(r, body, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing signature status = %d, want 401", w.Code)
	}
	if w := postWebhook(r, body, elevenlabs.Sign(body, "wrong-secret", time.Now())); w.Code != http.StatusUnauthorized {
		t.Errorf("wrong secret status = %d, want 401", w.Code)
	}

	var count int64
	db.Model(&entity.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("orders persisted = %d, want 0", count)
	}
}

func TestWebhookAcknowledgesUnprocessableEvents(t *testing.T) {
	r, db := setupWebhookRouter(t)
	seedWebhookMenu(t, db)

	cases := []struct {
		name string
		body []byte
	}{
		{"status not done", transcriptionBody("agent-1", "failed", `[{"id":"x","quantity":1}]`)},
		{"unknown agent", transcriptionBody("agent-unknown", "done", `[{"id":"x","quantity":1}]`)},
		{"unknown item", transcriptionBody("agent-1", "done", `[{"id":"nonexistent","quantity":1}]`)},
		{"other event type", []byte(`{"type":"voice_cloned","data":{}}`)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postWebhook(r, tc.body, elevenlabs.Sign(tc.body, webhookSecret, time.Now()))
			// verified events are always acknowledged so the platform stops
			// redelivering them
			if w.Code != http.StatusOK {
				t.Errorf("status = %d, want 200; body %s", w.Code, w.Body)
			}
		})
	}

	var count int64
	db.Model(&entity.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("orders persisted = %d, want 0", count)
	}
}
