// internal/handler/message_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/propertyops/tenant-sms-backend/internal/repository"
	"github.com/propertyops/tenant-sms-backend/internal/service"
	"github.com/propertyops/tenant-sms-backend/internal/targeting"
)

type MessageHandler struct {
	Service *service.MessageService
	Repo    repository.MessageRepositoryInterface
}

func NewMessageHandler(svc *service.MessageService, repo repository.MessageRepositoryInterface) *MessageHandler {
	return &MessageHandler{Service: svc, Repo: repo}
}

// SendBulk queues a message to every tenant matching the condition.
func (h *MessageHandler) SendBulk(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Condition string `json:"condition"`
		Template  string `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	result, err := h.Service.SendBulk(body.Condition, body.Template)
	if err != nil {
		if _, ok := err.(*targeting.ConditionError); ok {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Preview renders a template against one tenant without sending.
func (h *MessageHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		TenantID int    `json:"tenant_id"`
		Template string `json:"template"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	rendered, err := h.Service.RenderPreview(body.TenantID, body.Template)
	if err != nil {
		if _, ok := err.(*targeting.TemplateError); ok {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"rendered_message": rendered,
		"tenant_id":        body.TenantID,
	})
}

func (h *MessageHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50)
	offset := parseQueryInt(r, "offset", 0)

	msgs, err := h.Repo.ListRecent(limit, offset)
	if err != nil {
		http.Error(w, "failed to fetch messages: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": msgs})
}

func (h *MessageHandler) ListByTenant(w http.ResponseWriter, r *http.Request) {
	tenantID, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid tenant id", http.StatusBadRequest)
		return
	}
	limit := parseQueryInt(r, "limit", 50)

	msgs, err := h.Repo.ListByTenant(tenantID, limit)
	if err != nil {
		http.Error(w, "failed to fetch messages: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": msgs})
}

func (h *MessageHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Repo.StatusCounts()
	if err != nil {
		http.Error(w, "failed to fetch stats: "+err.Error(), http.StatusInternalServerError)
		return
	}

	total := 0
	for _, n := range stats {
		total += n
	}
	stats["total"] = total
	writeJSON(w, http.StatusOK, stats)
}

func parseQueryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
