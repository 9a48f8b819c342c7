package appointment

import "github.com/salontid/salontid-api/internal/httperr"

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCanceled  Status = "canceled"
)

// MaxReschedules caps how many times a booking may be moved.
const MaxReschedules = 2

func IsTerminal(s Status) bool {
	return s == StatusCanceled || s == StatusCompleted
}

// ===============================
// Validations
// ===============================

func CanConfirm(current Status) error {
	if current != StatusPending {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanCancel(current Status) error {
	if IsTerminal(current) {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

func CanComplete(current Status) error {
	if current != StatusPending && current != StatusConfirmed {
		return httperr.ErrBusiness("invalid_state")
	}
	return nil
}

// CanReschedule gates the reschedule transition: terminal states are
// rejected first, then the reschedule cap.
func CanReschedule(current Status, rescheduleCount int) error {
	if current == StatusCanceled {
		return httperr.ErrBusinessMsg("invalid_state", "Cannot reschedule a canceled appointment")
	}
	if current == StatusCompleted {
		return httperr.ErrBusinessMsg("invalid_state", "Cannot reschedule a completed appointment")
	}
	if rescheduleCount >= MaxReschedules {
		return httperr.ErrBusinessMsg("reschedule_limit_reached", "Maximum number of reschedules reached")
	}
	return nil
}

func InitialStatus() Status {
	return StatusPending
}
