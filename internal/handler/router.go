// internal/handler/router.go
package handler

import (
	"github.com/go-chi/chi/v5"
)

// Router assembles all HTTP routes.
func Router(tenants *TenantHandler, messages *MessageHandler, schedules *ScheduleHandler, webhooks *WebhookHandler, sched *SchedulerHandler) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", sched.Health)

	// Tenant routes
	r.Post("/tenants", tenants.Create)
	r.Get("/tenants", tenants.List)
	r.Get("/tenants/{id}", tenants.Get)
	r.Put("/tenants/{id}", tenants.Update)
	r.Delete("/tenants/{id}", tenants.Delete)
	r.Patch("/tenants/{id}/payment", tenants.UpdatePayment)
	r.Get("/tenants/{id}/messages", messages.ListByTenant)

	// Message routes
	r.Get("/messages", messages.List)
	r.Get("/messages/stats", messages.Stats)
	r.Post("/messages/send", messages.SendBulk)
	r.Post("/messages/preview", messages.Preview)

	// Schedule routes
	r.Post("/schedules", schedules.Create)
	r.Get("/schedules", schedules.List)
	r.Get("/schedules/{id}", schedules.Get)
	r.Delete("/schedules/{id}", schedules.Delete)
	r.Post("/schedules/{id}/pause", schedules.Pause)
	r.Post("/schedules/{id}/resume", schedules.Resume)

	// Scheduler control
	r.Get("/scheduler/status", sched.Status)
	r.Post("/scheduler/start", sched.Start)
	r.Post("/scheduler/stop", sched.Stop)

	// Gateway callbacks
	r.Post("/webhooks/sms-reply", webhooks.SMSReply)

	return r
}
