package model

import "time"

// Schedule types and statuses.
const (
	ScheduleDaily   = "daily"
	ScheduleWeekly  = "weekly"
	ScheduleMonthly = "monthly"

	ScheduleActive = "active"
	SchedulePaused = "paused"
)

type Schedule struct {
	ID              int    `db:"id" json:"id"`
	Name            string `db:"name" json:"name"`
	MessageTemplate string `db:"message_template" json:"message_template"`

	// ScheduleValue depends on ScheduleType:
	// daily "15:04", weekly "monday 15:04", monthly "5 15:04" (day-of-month first).
	ScheduleType  string `db:"schedule_type" json:"schedule_type"`
	ScheduleValue string `db:"schedule_value" json:"schedule_value"`

	// Condition is either a shortcut name (all, unpaid, paid, late_fee)
	// or a JSON condition tree.
	Condition string `db:"condition" json:"condition"`

	Status string `db:"status" json:"status"`

	LastRun      *time.Time `db:"last_run" json:"last_run,omitempty"`
	NextRun      *time.Time `db:"next_run" json:"next_run,omitempty"`
	RunCount     int        `db:"run_count" json:"run_count"`
	SuccessCount int        `db:"success_count" json:"success_count"`
	FailureCount int        `db:"failure_count" json:"failure_count"`

	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}
