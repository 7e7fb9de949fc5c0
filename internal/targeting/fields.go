package targeting

import (
	"strconv"

	"github.com/propertyops/tenant-sms-backend/internal/model"
)

// fieldValue resolves a condition field name to the tenant's value.
// Nullable timestamps surface as nil for is_null checks.
func fieldValue(t *model.Tenant, field string) (any, bool) {
	switch field {
	case "name":
		return t.Name, true
	case "phone":
		return t.Phone, true
	case "unit":
		return t.Unit, true
	case "building":
		return t.Building, true
	case "rent":
		return t.Rent, true
	case "due_date":
		return t.DueDate, true
	case "tenant_type":
		return t.TenantType, true
	case "active":
		return t.Active, true
	case "notes":
		return t.Notes, true
	case "is_current_month_rent_paid":
		return t.IsCurrentMonthRentPaid, true
	case "late_fee_applicable":
		return t.LateFeeApplicable, true
	case "sms_opt_in_status":
		return t.SMSOptInStatus, true
	case "last_payment_date":
		if t.LastPaymentDate == nil {
			return nil, true
		}
		return *t.LastPaymentDate, true
	case "sms_opt_in_date":
		if t.SMSOptInDate == nil {
			return nil, true
		}
		return *t.SMSOptInDate, true
	case "sms_opt_out_date":
		if t.SMSOptOutDate == nil {
			return nil, true
		}
		return *t.SMSOptOutDate, true
	}
	return nil, false
}

// placeholderValue resolves a template placeholder to its display string.
// The placeholder vocabulary is a superset of the condition fields, with
// the aliases tenants already use in message templates.
func placeholderValue(t *model.Tenant, name string) (string, bool) {
	switch name {
	case "name", "tenant_name":
		return t.Name, true
	case "phone", "tenant_phone":
		return t.Phone, true
	case "unit":
		return t.Unit, true
	case "building":
		return t.Building, true
	case "rent", "rent_amount":
		return strconv.Itoa(t.Rent), true
	case "due_date":
		return t.DueDate, true
	case "tenant_type":
		return t.TenantType, true
	case "notes":
		return t.Notes, true
	}
	return "", false
}
