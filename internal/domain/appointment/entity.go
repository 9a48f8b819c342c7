package appointment

import (
	"time"

	"github.com/salontid/salontid-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Confirm(ap *models.Appointment) error {
	if err := CanConfirm(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusConfirmed)
	return nil
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
	return nil
}

func Complete(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

// StartAt resolves the appointment's wall-clock start in the given location.
func StartAt(ap *models.Appointment, loc *time.Location) time.Time {
	return CombineDateTime(ap.Date, ap.StartTime, loc)
}

// CombineDateTime merges a calendar date with an "15:04" clock string.
func CombineDateTime(date time.Time, hm string, loc *time.Location) time.Time {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(
		date.Year(), date.Month(), date.Day(),
		t.Hour(), t.Minute(), 0, 0,
		loc,
	)
}

// AddMinutes advances an "15:04" clock string.
func AddMinutes(hm string, minutes int) string {
	t, err := time.Parse("15:04", hm)
	if err != nil {
		return hm
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format("15:04")
}
