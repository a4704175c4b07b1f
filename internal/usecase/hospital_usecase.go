package usecase

import (
	"context"
	"errors"
	"fmt"

	"bloodconnect/internal/converter"
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/delivery/http/middleware"
	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/domain/repository"
	"bloodconnect/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrHospitalNotFound = errors.New("hospital not found")

type HospitalUsecase interface {
	Create(ctx context.Context, req *dto.CreateHospitalRequest) (*dto.HospitalResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.HospitalResponse, error)
	GetAll(ctx context.Context, filter *repository.PlaceFilter) (*dto.HospitalListResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateHospitalRequest) (*dto.HospitalResponse, error)
	Delete(ctx context.Context, id uint) error
	GetStats(ctx context.Context) (*dto.HospitalStatsResponse, error)
}

type hospitalUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	hospitalRepo repository.HospitalRepository
	audit        service.AuditService
}

func NewHospitalUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	hospitalRepo repository.HospitalRepository,
	audit service.AuditService,
) HospitalUsecase {
	return &hospitalUsecase{
		db:           db,
		log:          log,
		hospitalRepo: hospitalRepo,
		audit:        audit,
	}
}

func (u *hospitalUsecase) Create(ctx context.Context, req *dto.CreateHospitalRequest) (*dto.HospitalResponse, error) {
	hospital := &entity.Hospital{
		Name:             req.Name,
		Address:          req.Address,
		City:             req.City,
		Phone:            req.Phone,
		Email:            req.Email,
		Latitude:         req.Latitude,
		Longitude:        req.Longitude,
		EmergencyContact: req.EmergencyContact,
	}

	if err := u.hospitalRepo.Create(u.db.WithContext(ctx), hospital); err != nil {
		u.log.Warnf("Failed to create hospital: %+v", err)
		return nil, err
	}

	return converter.HospitalToResponse(hospital), nil
}

func (u *hospitalUsecase) GetByID(ctx context.Context, id uint) (*dto.HospitalResponse, error) {
	hospital, err := u.hospitalRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find hospital %d: %+v", id, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	return converter.HospitalToResponse(hospital), nil
}

func (u *hospitalUsecase) GetAll(ctx context.Context, filter *repository.PlaceFilter) (*dto.HospitalListResponse, error) {
	hospitals, err := u.hospitalRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list hospitals: %+v", err)
		return nil, err
	}

	return &dto.HospitalListResponse{
		Hospitals: converter.HospitalsToResponses(hospitals),
		Total:     len(hospitals),
	}, nil
}

func (u *hospitalUsecase) Update(ctx context.Context, id uint, req *dto.UpdateHospitalRequest) (*dto.HospitalResponse, error) {
	hospital, err := u.hospitalRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find hospital %d: %+v", id, err)
		return nil, err
	}
	if hospital == nil {
		return nil, ErrHospitalNotFound
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.EmergencyContact != nil {
		updates["emergency_contact"] = *req.EmergencyContact
	}

	if len(updates) == 0 {
		return converter.HospitalToResponse(hospital), nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.hospitalRepo.UpdateFields(tx, id, updates); err != nil {
		u.log.Warnf("Failed to update hospital %d: %+v", id, err)
		return nil, err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogUpdate(ctx, tx, &userID, entity.AuditActionHospitalUpdate, "hospital", fmt.Sprintf("%d", id), hospital, updates)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	updated, err := u.hospitalRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload hospital %d: %+v", id, err)
		return converter.HospitalToResponse(hospital), nil
	}

	return converter.HospitalToResponse(updated), nil
}

func (u *hospitalUsecase) Delete(ctx context.Context, id uint) error {
	hospital, err := u.hospitalRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find hospital %d: %+v", id, err)
		return err
	}
	if hospital == nil {
		return ErrHospitalNotFound
	}

	return u.hospitalRepo.Delete(u.db.WithContext(ctx), id)
}

func (u *hospitalUsecase) GetStats(ctx context.Context) (*dto.HospitalStatsResponse, error) {
	stats, err := u.hospitalRepo.Stats(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to compute hospital stats: %+v", err)
		return nil, err
	}

	return converter.HospitalStatsToResponse(stats), nil
}
