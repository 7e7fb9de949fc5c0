package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/propertyops/tenant-sms-backend/internal/errors"
	"github.com/propertyops/tenant-sms-backend/internal/model"
)

// TenantRepositoryInterface defines methods used by services
type TenantRepositoryInterface interface {
	Create(t *model.Tenant) error
	GetByID(id int) (*model.Tenant, error)
	Update(t *model.Tenant) error
	Deactivate(id int) error
	ListActive() ([]model.Tenant, error)
	UpdateOptInStatus(id int, status string, optInDate, optOutDate *time.Time) error
	UpdatePaymentFlags(id int, rentPaid, lateFee bool) error
}

// TenantRepository is the concrete implementation
type TenantRepository struct {
	DB *sql.DB
}

const tenantColumns = `id, name, phone, unit, building, rent, due_date, tenant_type, active,
        is_current_month_rent_paid, last_payment_date, late_fee_applicable,
        sms_opt_in_status, sms_opt_in_date, sms_opt_out_date, notes, created_at, updated_at`

func scanTenant(row interface{ Scan(...any) error }, t *model.Tenant) error {
	return row.Scan(
		&t.ID, &t.Name, &t.Phone, &t.Unit, &t.Building, &t.Rent, &t.DueDate, &t.TenantType, &t.Active,
		&t.IsCurrentMonthRentPaid, &t.LastPaymentDate, &t.LateFeeApplicable,
		&t.SMSOptInStatus, &t.SMSOptInDate, &t.SMSOptOutDate, &t.Notes, &t.CreatedAt, &t.UpdatedAt,
	)
}

func (r *TenantRepository) Create(t *model.Tenant) error {
	t.CreatedAt = time.Now()
	if t.SMSOptInStatus == "" {
		t.SMSOptInStatus = model.OptInPending
	}
	if t.TenantType == "" {
		t.TenantType = "residential"
	}
	query := `
        INSERT INTO tenants (name, phone, unit, building, rent, due_date, tenant_type, active,
            is_current_month_rent_paid, late_fee_applicable, sms_opt_in_status, notes, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8, $9, $10, $11, $12)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		t.Name, t.Phone, t.Unit, t.Building, t.Rent, t.DueDate, t.TenantType,
		t.IsCurrentMonthRentPaid, t.LateFeeApplicable, t.SMSOptInStatus, t.Notes, t.CreatedAt,
	).Scan(&t.ID)
}

func (r *TenantRepository) GetByID(id int) (*model.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id=$1`
	var t model.Tenant
	if err := scanTenant(r.DB.QueryRow(query, id), &t); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewTenantNotFound(id)
		}
		return nil, err
	}
	return &t, nil
}

func (r *TenantRepository) Update(t *model.Tenant) error {
	query := `
        UPDATE tenants
        SET name=$1, phone=$2, unit=$3, building=$4, rent=$5, due_date=$6, tenant_type=$7,
            is_current_month_rent_paid=$8, late_fee_applicable=$9, notes=$10, updated_at=NOW()
        WHERE id=$11
    `
	_, err := r.DB.Exec(query,
		t.Name, t.Phone, t.Unit, t.Building, t.Rent, t.DueDate, t.TenantType,
		t.IsCurrentMonthRentPaid, t.LateFeeApplicable, t.Notes, t.ID,
	)
	return err
}

// Deactivate soft-deletes a tenant; messaging only ever targets active rows.
func (r *TenantRepository) Deactivate(id int) error {
	query := `UPDATE tenants SET active=FALSE, updated_at=NOW() WHERE id=$1`
	res, err := r.DB.Exec(query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewTenantNotFound(id)
	}
	return nil
}

func (r *TenantRepository) ListActive() ([]model.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE active=TRUE ORDER BY id`
	rows, err := r.DB.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tenants := []model.Tenant{}
	for rows.Next() {
		var t model.Tenant
		if err := scanTenant(rows, &t); err != nil {
			return nil, err
		}
		tenants = append(tenants, t)
	}
	return tenants, rows.Err()
}

func (r *TenantRepository) UpdateOptInStatus(id int, status string, optInDate, optOutDate *time.Time) error {
	query := `
        UPDATE tenants
        SET sms_opt_in_status=$1, sms_opt_in_date=$2, sms_opt_out_date=$3, updated_at=NOW()
        WHERE id=$4
    `
	_, err := r.DB.Exec(query, status, optInDate, optOutDate, id)
	return err
}

func (r *TenantRepository) UpdatePaymentFlags(id int, rentPaid, lateFee bool) error {
	query := `
        UPDATE tenants
        SET is_current_month_rent_paid=$1, late_fee_applicable=$2,
            last_payment_date=CASE WHEN $1 THEN NOW() ELSE last_payment_date END,
            updated_at=NOW()
        WHERE id=$3
    `
	_, err := r.DB.Exec(query, rentPaid, lateFee, id)
	return err
}

var _ TenantRepositoryInterface = (*TenantRepository)(nil)
