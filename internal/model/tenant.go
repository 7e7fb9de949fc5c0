package model

import "time"

// SMS opt-in states driven by reply keywords.
const (
	OptInPending = "pending"
	OptedIn      = "opted_in"
	OptedOut     = "opted_out"
)

type Tenant struct {
	ID         int    `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	Phone      string `db:"phone" json:"phone"`
	Unit       string `db:"unit" json:"unit"`
	Building   string `db:"building" json:"building"`
	Rent       int    `db:"rent" json:"rent"`
	DueDate    string `db:"due_date" json:"due_date"`
	TenantType string `db:"tenant_type" json:"tenant_type"`
	Active     bool   `db:"active" json:"active"`

	// Payment tracking
	IsCurrentMonthRentPaid bool       `db:"is_current_month_rent_paid" json:"is_current_month_rent_paid"`
	LastPaymentDate        *time.Time `db:"last_payment_date" json:"last_payment_date,omitempty"`
	LateFeeApplicable      bool       `db:"late_fee_applicable" json:"late_fee_applicable"`

	// SMS consent tracking
	SMSOptInStatus string     `db:"sms_opt_in_status" json:"sms_opt_in_status"`
	SMSOptInDate   *time.Time `db:"sms_opt_in_date" json:"sms_opt_in_date,omitempty"`
	SMSOptOutDate  *time.Time `db:"sms_opt_out_date" json:"sms_opt_out_date,omitempty"`

	Notes     string     `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
