// internal/errors/errors.go
package appErrors

import "fmt"

// ErrTenantNotFound is a sentinel error
type ErrTenantNotFound struct {
	TenantID int
}

func (e *ErrTenantNotFound) Error() string {
	return fmt.Sprintf("tenant with ID %d not found", e.TenantID)
}

// Helper constructor
func NewTenantNotFound(id int) error {
	return &ErrTenantNotFound{TenantID: id}
}

// ErrScheduleNotFound is a sentinel error
type ErrScheduleNotFound struct {
	ScheduleID int
}

func (e *ErrScheduleNotFound) Error() string {
	return fmt.Sprintf("schedule with ID %d not found", e.ScheduleID)
}

func NewScheduleNotFound(id int) error {
	return &ErrScheduleNotFound{ScheduleID: id}
}
