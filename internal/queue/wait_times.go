package queue

import (
	"context"

	"github.com/salontid/salontid-api/internal/models"
)

// WaitEstimate is one queue entry's dynamic wait figure. Clients poll this
// on a 30 second interval; nothing is pushed.
type WaitEstimate struct {
	QueueID              uint   `json:"queue_id"`
	EstimatedWaitMinutes int    `json:"estimated_wait_minutes"`
	Color                string `json:"color"`
}

// WaitColor buckets an estimate for display.
func WaitColor(minutes int) string {
	switch {
	case minutes < 15:
		return "green"
	case minutes < 30:
		return "yellow"
	case minutes < 45:
		return "orange"
	default:
		return "red"
	}
}

// EstimateWaits computes the wait for every waiting entry. The work ahead of
// an entry (service durations of everyone before it in priority order) is
// spread over the employees not currently busy with a walk-in; half the
// entry's own duration is added as startup slack.
func (s *Service) EstimateWaits(
	ctx context.Context,
	tenantID string,
) ([]WaitEstimate, error) {

	entries, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var activeEmployees int64
	if err := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("tenant_id = ? AND role = ? AND is_active = ?", tenantID, "employee", true).
		Count(&activeEmployees).Error; err != nil {
		return nil, err
	}

	var busy int
	for _, e := range entries {
		if e.Status == "in_service" {
			busy++
		}
	}

	available := int(activeEmployees) - busy
	if available < 1 {
		available = 1
	}

	estimates := make([]WaitEstimate, 0, len(entries))
	minutesAhead := 0

	for _, e := range entries {
		if e.Status != "waiting" {
			continue
		}

		duration := e.Service.DurationMinutes
		if duration <= 0 {
			duration = 30
		}

		wait := minutesAhead/available + duration/2

		estimates = append(estimates, WaitEstimate{
			QueueID:              e.ID,
			EstimatedWaitMinutes: wait,
			Color:                WaitColor(wait),
		})

		minutesAhead += duration
	}

	return estimates, nil
}
