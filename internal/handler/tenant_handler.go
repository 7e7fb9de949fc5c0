// internal/handler/tenant_handler.go
package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/propertyops/tenant-sms-backend/internal/errors"
	"github.com/propertyops/tenant-sms-backend/internal/model"
	"github.com/propertyops/tenant-sms-backend/internal/phone"
	"github.com/propertyops/tenant-sms-backend/internal/repository"
)

// TenantHandler holds the dependencies for tenant-related HTTP handlers
type TenantHandler struct {
	Repo repository.TenantRepositoryInterface
}

func NewTenantHandler(repo repository.TenantRepositoryInterface) *TenantHandler {
	return &TenantHandler{Repo: repo}
}

func (h *TenantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Name                   string `json:"name"`
		Phone                  string `json:"phone"`
		Unit                   string `json:"unit"`
		Building               string `json:"building"`
		Rent                   int    `json:"rent"`
		DueDate                string `json:"due_date"`
		TenantType             string `json:"tenant_type"`
		IsCurrentMonthRentPaid bool   `json:"is_current_month_rent_paid"`
		LateFeeApplicable      bool   `json:"late_fee_applicable"`
		Notes                  string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if len(phone.Normalize(payload.Phone)) < 10 {
		http.Error(w, "phone must contain at least 10 digits", http.StatusBadRequest)
		return
	}
	if len(payload.Name) < 2 {
		http.Error(w, "name must be at least 2 characters", http.StatusBadRequest)
		return
	}

	tenant := &model.Tenant{
		Name:                   payload.Name,
		Phone:                  payload.Phone,
		Unit:                   payload.Unit,
		Building:               payload.Building,
		Rent:                   payload.Rent,
		DueDate:                payload.DueDate,
		TenantType:             payload.TenantType,
		Active:                 true,
		IsCurrentMonthRentPaid: payload.IsCurrentMonthRentPaid,
		LateFeeApplicable:      payload.LateFeeApplicable,
		SMSOptInStatus:         model.OptInPending,
		Notes:                  payload.Notes,
	}
	if err := h.Repo.Create(tenant); err != nil {
		http.Error(w, "failed to create tenant: "+err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, tenant)
}

func (h *TenantHandler) List(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.Repo.ListActive()
	if err != nil {
		http.Error(w, "failed to fetch tenants: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": tenants, "count": len(tenants)})
}

func (h *TenantHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid tenant id", http.StatusBadRequest)
		return
	}

	tenant, err := h.Repo.GetByID(id)
	if err != nil {
		if _, ok := err.(*appErrors.ErrTenantNotFound); ok {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to fetch tenant: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

func (h *TenantHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid tenant id", http.StatusBadRequest)
		return
	}

	tenant, err := h.Repo.GetByID(id)
	if err != nil {
		if _, ok := err.(*appErrors.ErrTenantNotFound); ok {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := json.NewDecoder(r.Body).Decode(tenant); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	tenant.ID = id

	if err := h.Repo.Update(tenant); err != nil {
		http.Error(w, "failed to update tenant: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, tenant)
}

// Delete soft-deletes: the tenant stays for message history but leaves
// every targeting snapshot.
func (h *TenantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid tenant id", http.StatusBadRequest)
		return
	}

	if err := h.Repo.Deactivate(id); err != nil {
		if _, ok := err.(*appErrors.ErrTenantNotFound); ok {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		http.Error(w, "failed to delete tenant: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UpdatePayment flips the rent-paid and late-fee flags used by the
// targeting shortcuts.
func (h *TenantHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid tenant id", http.StatusBadRequest)
		return
	}

	var payload struct {
		IsCurrentMonthRentPaid bool `json:"is_current_month_rent_paid"`
		LateFeeApplicable      bool `json:"late_fee_applicable"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.Repo.UpdatePaymentFlags(id, payload.IsCurrentMonthRentPaid, payload.LateFeeApplicable); err != nil {
		http.Error(w, "failed to update payment flags: "+err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "updated": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
