package service

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/propertyops/tenant-sms-backend/internal/model"
	"github.com/propertyops/tenant-sms-backend/internal/repository"
	"github.com/propertyops/tenant-sms-backend/internal/targeting"
)

type ScheduleService struct {
	ScheduleRepo repository.ScheduleRepositoryInterface
	Messages     *MessageService
}

// CreateSchedule validates the schedule's condition and timing and
// stores it with its first run time computed.
func (s *ScheduleService) CreateSchedule(name, template, scheduleType, scheduleValue, condition string) (*model.Schedule, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("schedule name cannot be empty")
	}
	if strings.TrimSpace(template) == "" {
		return nil, fmt.Errorf("message template cannot be empty")
	}
	if _, err := targeting.Parse(condition); err != nil {
		return nil, err
	}

	next, err := NextRun(scheduleType, scheduleValue, time.Now())
	if err != nil {
		return nil, err
	}

	sched := &model.Schedule{
		Name:            name,
		MessageTemplate: template,
		ScheduleType:    scheduleType,
		ScheduleValue:   scheduleValue,
		Condition:       condition,
		Status:          model.ScheduleActive,
		NextRun:         &next,
	}
	if err := s.ScheduleRepo.Create(sched); err != nil {
		return nil, err
	}
	return sched, nil
}

// RunDue executes every active schedule whose next run time has passed,
// one at a time. A failing schedule records its failure and never stops
// the others.
func (s *ScheduleService) RunDue(ctx context.Context, now time.Time) {
	due, err := s.ScheduleRepo.ListDue(now)
	if err != nil {
		log.Println("⚠️ failed to list due schedules:", err)
		return
	}

	for i := range due {
		sched := &due[i]
		log.Println("executing schedule:", sched.Name)

		sent, failed, err := s.Messages.SendDirect(ctx, sched.Condition, sched.MessageTemplate)
		succeeded := err == nil
		if err != nil {
			log.Println("⚠️ schedule", sched.Name, "failed:", err)
		} else {
			log.Printf("schedule %s: %d sent, %d failed", sched.Name, sent, failed)
		}

		var nextPtr *time.Time
		if next, nerr := NextRun(sched.ScheduleType, sched.ScheduleValue, now); nerr == nil {
			nextPtr = &next
		} else {
			log.Println("⚠️ cannot compute next run for", sched.Name, ":", nerr)
		}

		if err := s.ScheduleRepo.RecordRun(sched.ID, now, nextPtr, succeeded); err != nil {
			log.Println("⚠️ failed to record run for schedule", sched.ID, ":", err)
		}
	}
}

// Pause and Resume flip a schedule's status; a resumed schedule gets a
// fresh next run so it does not fire immediately for missed slots.
func (s *ScheduleService) Pause(id int) error {
	return s.ScheduleRepo.UpdateStatus(id, model.SchedulePaused)
}

func (s *ScheduleService) Resume(id int) error {
	sched, err := s.ScheduleRepo.GetByID(id)
	if err != nil {
		return err
	}
	next, err := NextRun(sched.ScheduleType, sched.ScheduleValue, time.Now())
	if err != nil {
		return err
	}
	sched.NextRun = &next
	if err := s.ScheduleRepo.Update(sched); err != nil {
		return err
	}
	return s.ScheduleRepo.UpdateStatus(id, model.ScheduleActive)
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NextRun computes the first run time strictly after the given instant.
// Value formats: daily "15:04", weekly "monday 15:04", monthly "5 15:04"
// (day of month first, capped at 28 to stay valid in February).
func NextRun(scheduleType, value string, after time.Time) (time.Time, error) {
	switch scheduleType {
	case model.ScheduleDaily:
		hour, minute, err := parseClock(value)
		if err != nil {
			return time.Time{}, err
		}
		next := time.Date(after.Year(), after.Month(), after.Day(), hour, minute, 0, 0, after.Location())
		if !next.After(after) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case model.ScheduleWeekly:
		parts := strings.Fields(value)
		if len(parts) != 2 {
			return time.Time{}, fmt.Errorf("weekly schedule value must be \"<weekday> HH:MM\", got %q", value)
		}
		day, ok := weekdays[strings.ToLower(parts[0])]
		if !ok {
			return time.Time{}, fmt.Errorf("unknown weekday %q", parts[0])
		}
		hour, minute, err := parseClock(parts[1])
		if err != nil {
			return time.Time{}, err
		}
		next := time.Date(after.Year(), after.Month(), after.Day(), hour, minute, 0, 0, after.Location())
		for next.Weekday() != day || !next.After(after) {
			next = next.AddDate(0, 0, 1)
		}
		return next, nil

	case model.ScheduleMonthly:
		parts := strings.Fields(value)
		if len(parts) != 2 {
			return time.Time{}, fmt.Errorf("monthly schedule value must be \"<day> HH:MM\", got %q", value)
		}
		day, err := strconv.Atoi(parts[0])
		if err != nil || day < 1 {
			return time.Time{}, fmt.Errorf("invalid day of month %q", parts[0])
		}
		if day > 28 {
			day = 28
		}
		hour, minute, err := parseClock(parts[1])
		if err != nil {
			return time.Time{}, err
		}
		next := time.Date(after.Year(), after.Month(), day, hour, minute, 0, 0, after.Location())
		if !next.After(after) {
			next = next.AddDate(0, 1, 0)
		}
		return next, nil
	}
	return time.Time{}, fmt.Errorf("unsupported schedule type: %s", scheduleType)
}

func parseClock(value string) (hour, minute int, err error) {
	t, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid time %q, want HH:MM", value)
	}
	return t.Hour(), t.Minute(), nil
}
