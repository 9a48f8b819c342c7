package appointment

import (
	"fmt"
	"time"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
)

// ValidateFuture rejects a new start that is not strictly ahead of now.
func ValidateFuture(newStart, now time.Time) error {
	if !newStart.After(now) {
		return httperr.ErrBusinessMsg("past_time", "New appointment time must be in the future")
	}
	return nil
}

// ValidateCancellationWindow rejects changes once the current appointment is
// closer than the tenant's configured window. Measured from now to the
// CURRENT start, not the new one: the rule exists to stop last-minute churn.
func ValidateCancellationWindow(currentStart, now time.Time, windowHours int) error {
	if windowHours <= 0 {
		return nil
	}
	if currentStart.Sub(now) < time.Duration(windowHours)*time.Hour {
		return httperr.ErrBusinessMsg(
			"within_cancellation_window",
			fmt.Sprintf("Cannot reschedule within %d hours of the appointment", windowHours),
		)
	}
	return nil
}

// WithinSchedule checks a start/end clock pair against the employee's
// working-hours row for that weekday.
func WithinSchedule(sched *models.EmployeeSchedule, startHM, endHM string) error {
	outside := httperr.ErrBusinessMsg(
		"outside_working_hours",
		"New time is outside employee's working hours",
	)

	if sched == nil || !sched.IsActive || sched.StartTime == "" || sched.EndTime == "" {
		return outside
	}

	// "15:04" strings compare correctly as text.
	if startHM < sched.StartTime || endHM > sched.EndTime {
		return outside
	}

	return nil
}
