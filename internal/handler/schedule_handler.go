// internal/handler/schedule_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/propertyops/tenant-sms-backend/internal/errors"
	"github.com/propertyops/tenant-sms-backend/internal/repository"
	"github.com/propertyops/tenant-sms-backend/internal/service"
)

type ScheduleHandler struct {
	Service *service.ScheduleService
	Repo    repository.ScheduleRepositoryInterface
}

func NewScheduleHandler(svc *service.ScheduleService, repo repository.ScheduleRepositoryInterface) *ScheduleHandler {
	return &ScheduleHandler{Service: svc, Repo: repo}
}

func (h *ScheduleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name            string `json:"name"`
		MessageTemplate string `json:"message_template"`
		ScheduleType    string `json:"schedule_type"`
		ScheduleValue   string `json:"schedule_value"`
		Condition       string `json:"condition"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}

	sched, err := h.Service.CreateSchedule(body.Name, body.MessageTemplate, body.ScheduleType, body.ScheduleValue, body.Condition)
	if err != nil {
		// Bad name, template, condition or timing value.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, sched)
}

func (h *ScheduleHandler) List(w http.ResponseWriter, r *http.Request) {
	schedules, err := h.Repo.ListAll()
	if err != nil {
		http.Error(w, "failed to fetch schedules: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": schedules})
}

func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}

	sched, err := h.Repo.GetByID(id)
	if err != nil {
		if _, notFound := err.(*appErrors.ErrScheduleNotFound); notFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, sched)
}

func (h *ScheduleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}

	if err := h.Repo.Delete(id); err != nil {
		if _, notFound := err.(*appErrors.ErrScheduleNotFound); notFound {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) Pause(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Pause(id); err != nil {
		scheduleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "paused"})
}

func (h *ScheduleHandler) Resume(w http.ResponseWriter, r *http.Request) {
	id, ok := scheduleID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Resume(id); err != nil {
		scheduleError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": "active"})
}

func scheduleID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid schedule id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func scheduleError(w http.ResponseWriter, err error) {
	if _, notFound := err.(*appErrors.ErrScheduleNotFound); notFound {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
