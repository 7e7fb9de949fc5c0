// internal/handler/scheduler_handler.go
package handler

import (
	"net/http"

	"github.com/propertyops/tenant-sms-backend/internal/scheduler"
)

type SchedulerHandler struct {
	Sched *scheduler.Scheduler
}

func NewSchedulerHandler(s *scheduler.Scheduler) *SchedulerHandler {
	return &SchedulerHandler{Sched: s}
}

func (h *SchedulerHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *SchedulerHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"running": h.Sched.IsRunning()})
}

func (h *SchedulerHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.Sched.Start()
	writeJSON(w, http.StatusOK, map[string]any{"running": h.Sched.IsRunning()})
}

func (h *SchedulerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.Sched.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"running": h.Sched.IsRunning()})
}
