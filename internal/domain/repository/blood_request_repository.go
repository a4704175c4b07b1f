package repository

import (
	"bloodconnect/internal/domain/entity"

	"gorm.io/gorm"
)

type BloodRequestRepository interface {
	Create(db *gorm.DB, request *entity.BloodRequest) error
	FindByID(db *gorm.DB, id uint) (*entity.BloodRequest, error)
	// FindAll applies the conjunctive filters and always orders by urgency
	// rank (critical first) then creation time descending.
	FindAll(db *gorm.DB, filter *entity.RequestFilter) ([]entity.BloodRequest, error)
	// FindCritical returns pending critical requests oldest-created-first,
	// the inverse of the default ordering: the oldest unresolved critical
	// case is the most urgent to resolve.
	FindCritical(db *gorm.DB) ([]entity.BloodRequest, error)
	// FindHistory returns the donor's fulfilled requests, most recently
	// fulfilled first.
	FindHistory(db *gorm.DB, donorID uint) ([]entity.BloodRequest, error)
	// UpdateFieldsWhileStatus applies updates only while the row still holds
	// fromStatus, and reports the number of rows affected. Zero rows means
	// the request transitioned concurrently (or does not exist).
	UpdateFieldsWhileStatus(db *gorm.DB, id uint, fromStatus entity.RequestStatus, updates map[string]interface{}) (int64, error)
	Delete(db *gorm.DB, id uint) error
	Stats(db *gorm.DB) (*entity.RequestStats, error)
}

type AuditLogRepository interface {
	Create(db *gorm.DB, log *entity.AuditLog) error
	FindByID(db *gorm.DB, id int64) (*entity.AuditLog, error)
	FindByUser(db *gorm.DB, userID string, limit int) ([]entity.AuditLog, error)
	FindRecent(db *gorm.DB, limit int) ([]entity.AuditLog, error)
}
