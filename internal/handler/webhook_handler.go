// internal/handler/webhook_handler.go
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/propertyops/tenant-sms-backend/internal/reply"
	"github.com/propertyops/tenant-sms-backend/internal/service"
)

type WebhookHandler struct {
	Service *service.WebhookService
}

func NewWebhookHandler(svc *service.WebhookService) *WebhookHandler {
	return &WebhookHandler{Service: svc}
}

// gatewayReplyPayload is the shape the SMS gateway posts for inbound
// replies. Timestamp is unix seconds; zero means "now".
type gatewayReplyPayload struct {
	TextID     string  `json:"textId"`
	FromNumber string  `json:"fromNumber"`
	Text       string  `json:"text"`
	Timestamp  float64 `json:"timestamp"`
}

func (h *WebhookHandler) SMSReply(w http.ResponseWriter, r *http.Request) {
	var payload gatewayReplyPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid webhook payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if payload.TextID == "" || payload.FromNumber == "" {
		http.Error(w, "textId and fromNumber are required", http.StatusBadRequest)
		return
	}

	receivedAt := time.Now()
	if payload.Timestamp > 0 {
		receivedAt = time.Unix(int64(payload.Timestamp), 0)
	}

	ev := reply.Event{
		GatewayTextID: payload.TextID,
		FromNumber:    payload.FromNumber,
		Text:          payload.Text,
		ReceivedAt:    receivedAt,
	}

	result, err := h.Service.HandleReply(r.Context(), ev)
	if err != nil {
		log.Println("⚠️ error processing SMS reply:", err)
		if result != nil && result.Status == service.ReplyStatusError {
			// Ambiguous or persistence failures: the gateway should not retry.
			writeJSON(w, http.StatusOK, result)
			return
		}
		http.Error(w, "failed to process webhook", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
