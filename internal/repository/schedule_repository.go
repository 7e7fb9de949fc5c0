package repository

import (
	"database/sql"
	"time"

	appErrors "github.com/propertyops/tenant-sms-backend/internal/errors"
	"github.com/propertyops/tenant-sms-backend/internal/model"
)

type ScheduleRepositoryInterface interface {
	Create(s *model.Schedule) error
	GetByID(id int) (*model.Schedule, error)
	Update(s *model.Schedule) error
	UpdateStatus(id int, status string) error
	Delete(id int) error
	ListAll() ([]model.Schedule, error)
	ListDue(now time.Time) ([]model.Schedule, error)
	RecordRun(id int, ranAt time.Time, nextRun *time.Time, succeeded bool) error
}

type ScheduleRepository struct {
	DB *sql.DB
}

const scheduleColumns = `id, name, message_template, schedule_type, schedule_value, condition, status,
        last_run, next_run, run_count, success_count, failure_count, created_at, updated_at`

func scanSchedule(row interface{ Scan(...any) error }, s *model.Schedule) error {
	return row.Scan(
		&s.ID, &s.Name, &s.MessageTemplate, &s.ScheduleType, &s.ScheduleValue, &s.Condition, &s.Status,
		&s.LastRun, &s.NextRun, &s.RunCount, &s.SuccessCount, &s.FailureCount, &s.CreatedAt, &s.UpdatedAt,
	)
}

func (r *ScheduleRepository) Create(s *model.Schedule) error {
	s.CreatedAt = time.Now()
	if s.Status == "" {
		s.Status = model.ScheduleActive
	}
	query := `
        INSERT INTO schedules (name, message_template, schedule_type, schedule_value, condition, status, next_run, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id
    `
	return r.DB.QueryRow(query,
		s.Name, s.MessageTemplate, s.ScheduleType, s.ScheduleValue, s.Condition, s.Status, s.NextRun, s.CreatedAt,
	).Scan(&s.ID)
}

func (r *ScheduleRepository) GetByID(id int) (*model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules WHERE id=$1`
	var s model.Schedule
	if err := scanSchedule(r.DB.QueryRow(query, id), &s); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.NewScheduleNotFound(id)
		}
		return nil, err
	}
	return &s, nil
}

func (r *ScheduleRepository) Update(s *model.Schedule) error {
	query := `
        UPDATE schedules
        SET name=$1, message_template=$2, schedule_type=$3, schedule_value=$4, condition=$5, next_run=$6, updated_at=NOW()
        WHERE id=$7
    `
	_, err := r.DB.Exec(query, s.Name, s.MessageTemplate, s.ScheduleType, s.ScheduleValue, s.Condition, s.NextRun, s.ID)
	return err
}

func (r *ScheduleRepository) UpdateStatus(id int, status string) error {
	res, err := r.DB.Exec(`UPDATE schedules SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewScheduleNotFound(id)
	}
	return nil
}

func (r *ScheduleRepository) Delete(id int) error {
	res, err := r.DB.Exec(`DELETE FROM schedules WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return appErrors.NewScheduleNotFound(id)
	}
	return nil
}

func (r *ScheduleRepository) ListAll() ([]model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules ORDER BY id`
	return r.querySchedules(query)
}

// ListDue returns active schedules whose next_run is at or before now.
func (r *ScheduleRepository) ListDue(now time.Time) ([]model.Schedule, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedules
        WHERE status=$1 AND next_run IS NOT NULL AND next_run <= $2 ORDER BY id`
	return r.querySchedules(query, model.ScheduleActive, now)
}

func (r *ScheduleRepository) querySchedules(query string, args ...any) ([]model.Schedule, error) {
	rows, err := r.DB.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	schedules := []model.Schedule{}
	for rows.Next() {
		var s model.Schedule
		if err := scanSchedule(rows, &s); err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

func (r *ScheduleRepository) RecordRun(id int, ranAt time.Time, nextRun *time.Time, succeeded bool) error {
	query := `
        UPDATE schedules
        SET last_run=$1, next_run=$2, run_count=run_count+1,
            success_count=success_count + CASE WHEN $3 THEN 1 ELSE 0 END,
            failure_count=failure_count + CASE WHEN $3 THEN 0 ELSE 1 END,
            updated_at=NOW()
        WHERE id=$4
    `
	_, err := r.DB.Exec(query, ranAt, nextRun, succeeded, id)
	return err
}

var _ ScheduleRepositoryInterface = (*ScheduleRepository)(nil)
