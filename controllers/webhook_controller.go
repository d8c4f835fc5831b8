package controllers

import (
	"io"
	"net/http"

	"github.com/ahmadnurfadilah/chattable/pkg/elevenlabs"
	"github.com/ahmadnurfadilah/chattable/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookController receives post-call transcription events from the voice
// platform and turns completed conversations into orders.
type WebhookController struct {
	Orders *services.OrderService
	Secret string
	Log    *zap.Logger
}

func NewWebhookController(orders *services.OrderService, secret string, log *zap.Logger) *WebhookController {
	return &WebhookController{Orders: orders, Secret: secret, Log: log}
}

// Liveness answers GET probes from the webhook configuration UI.
func (wc *WebhookController) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "webhook listening"})
}

// Receive verifies the signature and dispatches the event. Verification
// failures get a 401 so the sender retries; everything after verification is
// acknowledged with 200 regardless of outcome, because the platform would
// otherwise redeliver an event we can never process.
func (wc *WebhookController) Receive(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable body"})
		return
	}

	event, err := elevenlabs.ConstructEvent(body, c.GetHeader(elevenlabs.SignatureHeader), wc.Secret)
	if err != nil {
		wc.Log.Warn("webhook signature rejected", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	if event.Type == elevenlabs.EventTypePostCallTranscription &&
		event.Data.Status == "done" &&
		event.Data.Analysis != nil &&
		event.Data.Analysis.DataCollectionResults != nil {
		if _, err := wc.Orders.CreateFromWebhook(event.Data.AgentID, event.Data.Analysis.DataCollectionResults); err != nil {
			// acknowledged anyway; the conversation cannot be replayed into a
			// valid order by redelivery
			wc.Log.Warn("webhook order ingestion failed",
				zap.String("agentId", event.Data.AgentID),
				zap.String("conversationId", event.Data.ConversationID),
				zap.Error(err))
		}
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
