package queue

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/salontid/salontid-api/internal/httperr"
	"github.com/salontid/salontid-api/internal/models"
)

// Priority ranks: VIP before urgent before normal, ties broken by FIFO
// position.
var priorityRank = map[string]int{
	"vip":    0,
	"urgent": 1,
	"normal": 2,
}

const sortByPriorityThenPosition = `
	CASE priority
		WHEN 'vip' THEN 0
		WHEN 'urgent' THEN 1
		ELSE 2
	END, position ASC`

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	return &Service{db: db, log: log}
}

// ======================================================
// ADD
// ======================================================

type AddInput struct {
	CustomerName        string
	CustomerPhone       string
	ServiceID           uint
	PreferredEmployeeID *uint
	Priority            string
	PriorityReason      string
}

func (s *Service) Add(
	ctx context.Context,
	tenantID string,
	in AddInput,
) (*models.WalkInQueueEntry, error) {

	if _, ok := priorityRank[in.Priority]; !ok {
		in.Priority = "normal"
	}
	if (in.Priority == "urgent" || in.Priority == "vip") && in.PriorityReason == "" {
		return nil, httperr.ErrBusiness("priority_reason_required")
	}

	var svc models.Service
	if err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", in.ServiceID, tenantID).
		First(&svc).Error; err != nil {
		return nil, httperr.ErrBusiness("invalid_request")
	}

	var entry *models.WalkInQueueEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		// New entries join at the tail: position is a plain FIFO counter,
		// the priority band only matters at sort time.
		var maxPos int
		if err := tx.Model(&models.WalkInQueueEntry{}).
			Where("tenant_id = ?", tenantID).
			Select("COALESCE(MAX(position), 0)").
			Scan(&maxPos).Error; err != nil {
			return err
		}

		entry = &models.WalkInQueueEntry{
			TenantID:            tenantID,
			CustomerName:        in.CustomerName,
			CustomerPhone:       in.CustomerPhone,
			ServiceID:           in.ServiceID,
			PreferredEmployeeID: in.PreferredEmployeeID,
			Priority:            in.Priority,
			PriorityReason:      in.PriorityReason,
			Position:            maxPos + 1,
			Status:              "waiting",
			JoinedAt:            time.Now(),
		}

		return tx.Create(entry).Error
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("walk-in added to queue",
		zap.String("tenant_id", tenantID),
		zap.Uint("queue_id", entry.ID),
		zap.String("priority", entry.Priority),
	)

	return entry, nil
}

// ======================================================
// LIST
// ======================================================

func (s *Service) List(
	ctx context.Context,
	tenantID string,
) ([]models.WalkInQueueEntry, error) {

	var entries []models.WalkInQueueEntry
	if err := s.db.WithContext(ctx).
		Preload("Service").
		Where("tenant_id = ?", tenantID).
		Order(sortByPriorityThenPosition).
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ======================================================
// STATE CHANGES
// ======================================================

func (s *Service) StartService(
	ctx context.Context,
	tenantID string,
	queueID uint,
	employeeID uint,
) (*models.WalkInQueueEntry, error) {

	var entry models.WalkInQueueEntry

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("id = ? AND tenant_id = ?", queueID, tenantID).
			First(&entry).Error; err != nil {
			return httperr.ErrBusiness("queue_entry_not_found")
		}

		if entry.Status != "waiting" {
			return httperr.ErrBusiness("invalid_state")
		}

		now := time.Now()
		entry.Status = "in_service"
		entry.EmployeeID = &employeeID
		entry.ServiceStartedAt = &now

		return tx.Save(&entry).Error
	})
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// HandoffContext carries the customer/service context to the point of sale
// when the walk-in's service is done.
type HandoffContext struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	ServiceID     uint   `json:"service_id"`
	EmployeeID    *uint  `json:"employee_id"`
}

func (s *Service) CompleteService(
	ctx context.Context,
	tenantID string,
	queueID uint,
) (*HandoffContext, error) {

	var entry models.WalkInQueueEntry
	if err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", queueID, tenantID).
		First(&entry).Error; err != nil {
		return nil, httperr.ErrBusiness("queue_entry_not_found")
	}

	if entry.Status != "in_service" {
		return nil, httperr.ErrBusiness("invalid_state")
	}

	if err := s.db.WithContext(ctx).Delete(&entry).Error; err != nil {
		return nil, err
	}

	return &HandoffContext{
		CustomerName:  entry.CustomerName,
		CustomerPhone: entry.CustomerPhone,
		ServiceID:     entry.ServiceID,
		EmployeeID:    entry.EmployeeID,
	}, nil
}

func (s *Service) Remove(
	ctx context.Context,
	tenantID string,
	queueID uint,
) error {

	res := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", queueID, tenantID).
		Delete(&models.WalkInQueueEntry{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return httperr.ErrBusiness("queue_entry_not_found")
	}
	return nil
}

func (s *Service) UpdatePriority(
	ctx context.Context,
	tenantID string,
	queueID uint,
	priority string,
	reason string,
) (*models.WalkInQueueEntry, error) {

	if _, ok := priorityRank[priority]; !ok {
		return nil, httperr.ErrBusiness("invalid_request")
	}
	if (priority == "urgent" || priority == "vip") && reason == "" {
		return nil, httperr.ErrBusiness("priority_reason_required")
	}

	var entry models.WalkInQueueEntry
	if err := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", queueID, tenantID).
		First(&entry).Error; err != nil {
		return nil, httperr.ErrBusiness("queue_entry_not_found")
	}

	entry.Priority = priority
	entry.PriorityReason = reason

	if err := s.db.WithContext(ctx).Save(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}
