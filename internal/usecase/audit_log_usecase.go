package usecase

import (
	"context"
	"errors"

	"bloodconnect/internal/converter"
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAuditLogNotFound = errors.New("audit log not found")
)

// defaultAuditLimit caps the recent-logs listing
const defaultAuditLimit = 100

type AuditLogUsecase interface {
	GetRecent(ctx context.Context, limit int) (*dto.AuditLogListResponse, error)
	GetByUser(ctx context.Context, userID string, limit int) (*dto.AuditLogListResponse, error)
	GetByID(ctx context.Context, id int64) (*dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetRecent(ctx context.Context, limit int) (*dto.AuditLogListResponse, error) {
	if limit < 1 || limit > defaultAuditLimit {
		limit = defaultAuditLimit
	}

	logs, err := u.auditLogRepo.FindRecent(u.db.WithContext(ctx), limit)
	if err != nil {
		u.log.Warnf("Failed to find recent audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetByUser(ctx context.Context, userID string, limit int) (*dto.AuditLogListResponse, error) {
	if limit < 1 || limit > defaultAuditLimit {
		limit = defaultAuditLimit
	}

	logs, err := u.auditLogRepo.FindByUser(u.db.WithContext(ctx), userID, limit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}

func (u *auditLogUsecase) GetByID(ctx context.Context, id int64) (*dto.AuditLogResponse, error) {
	auditLog, err := u.auditLogRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find audit log %d: %+v", id, err)
		return nil, err
	}
	if auditLog == nil {
		return nil, ErrAuditLogNotFound
	}

	return converter.AuditLogToResponse(auditLog), nil
}
