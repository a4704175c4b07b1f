package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"bloodconnect/internal/converter"
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/delivery/http/middleware"
	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/domain/repository"
	"bloodconnect/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrDonorNotFound     = errors.New("donor not found")
	ErrInvalidBloodType  = errors.New("invalid blood type")
	ErrInvalidDateFormat = errors.New("invalid date format, use YYYY-MM-DD")
)

type DonorUsecase interface {
	Create(ctx context.Context, req *dto.CreateDonorRequest) (*dto.DonorResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.DonorResponse, error)
	GetAll(ctx context.Context, filter *repository.DonorFilter) (*dto.DonorListResponse, error)
	GetByBloodType(ctx context.Context, bloodType string) (*dto.DonorListResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateDonorRequest) (*dto.DonorResponse, error)
	Delete(ctx context.Context, id uint) error
	// FindMatches returns available donors of the request's exact blood type,
	// nearest first when both request and donor are geocoded.
	FindMatches(ctx context.Context, requestID uint) (*dto.DonorListResponse, error)
	GetStats(ctx context.Context) (*dto.DonorStatsResponse, error)
}

type donorUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	donorRepo    repository.DonorRepository
	requestRepo  repository.BloodRequestRepository
	hospitalRepo repository.HospitalRepository
	audit        service.AuditService
}

func NewDonorUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	donorRepo repository.DonorRepository,
	requestRepo repository.BloodRequestRepository,
	hospitalRepo repository.HospitalRepository,
	audit service.AuditService,
) DonorUsecase {
	return &donorUsecase{
		db:           db,
		log:          log,
		donorRepo:    donorRepo,
		requestRepo:  requestRepo,
		hospitalRepo: hospitalRepo,
		audit:        audit,
	}
}

func (u *donorUsecase) Create(ctx context.Context, req *dto.CreateDonorRequest) (*dto.DonorResponse, error) {
	bloodType := entity.BloodType(req.BloodType)
	if !bloodType.IsValid() {
		return nil, ErrInvalidBloodType
	}

	donor := &entity.Donor{
		Name:      req.Name,
		BloodType: bloodType,
		Phone:     req.Phone,
		Email:     req.Email,
		City:      req.City,
		Address:   req.Address,
		Available: true,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
	}

	if req.Available != nil {
		donor.Available = *req.Available
	}

	if req.LastDonation != nil {
		parsed, err := time.Parse("2006-01-02", *req.LastDonation)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		donor.LastDonation = &parsed
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.donorRepo.Create(tx, donor); err != nil {
		u.log.Warnf("Failed to create donor: %+v", err)
		return nil, err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogCreate(ctx, tx, &userID, entity.AuditActionDonorCreate, "donor", fmt.Sprintf("%d", donor.ID), donor)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.DonorToResponse(donor), nil
}

func (u *donorUsecase) GetByID(ctx context.Context, id uint) (*dto.DonorResponse, error) {
	donor, err := u.donorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find donor %d: %+v", id, err)
		return nil, err
	}
	if donor == nil {
		return nil, ErrDonorNotFound
	}

	return converter.DonorToResponse(donor), nil
}

func (u *donorUsecase) GetAll(ctx context.Context, filter *repository.DonorFilter) (*dto.DonorListResponse, error) {
	if filter != nil && filter.BloodType != "" && !filter.BloodType.IsValid() {
		return nil, ErrInvalidBloodType
	}

	donors, err := u.donorRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list donors: %+v", err)
		return nil, err
	}

	return &dto.DonorListResponse{
		Donors: converter.DonorsToResponses(donors),
		Total:  len(donors),
	}, nil
}

func (u *donorUsecase) GetByBloodType(ctx context.Context, bloodType string) (*dto.DonorListResponse, error) {
	bt := entity.BloodType(bloodType)
	if !bt.IsValid() {
		return nil, ErrInvalidBloodType
	}

	donors, err := u.donorRepo.FindAvailableByType(u.db.WithContext(ctx), bt)
	if err != nil {
		u.log.Warnf("Failed to find donors by blood type %s: %+v", bt, err)
		return nil, err
	}

	return &dto.DonorListResponse{
		Donors: converter.DonorsToResponses(donors),
		Total:  len(donors),
	}, nil
}

func (u *donorUsecase) Update(ctx context.Context, id uint, req *dto.UpdateDonorRequest) (*dto.DonorResponse, error) {
	donor, err := u.donorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find donor %d: %+v", id, err)
		return nil, err
	}
	if donor == nil {
		return nil, ErrDonorNotFound
	}

	// Only the provided fields change
	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.BloodType != nil {
		bt := entity.BloodType(*req.BloodType)
		if !bt.IsValid() {
			return nil, ErrInvalidBloodType
		}
		updates["blood_type"] = bt
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Available != nil {
		updates["available"] = *req.Available
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.LastDonation != nil {
		parsed, err := time.Parse("2006-01-02", *req.LastDonation)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		updates["last_donation"] = parsed
	}

	if len(updates) == 0 {
		return converter.DonorToResponse(donor), nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.donorRepo.UpdateFields(tx, id, updates); err != nil {
		u.log.Warnf("Failed to update donor %d: %+v", id, err)
		return nil, err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogUpdate(ctx, tx, &userID, entity.AuditActionDonorUpdate, "donor", fmt.Sprintf("%d", id), donor, updates)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	updated, err := u.donorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload donor %d: %+v", id, err)
		return converter.DonorToResponse(donor), nil
	}

	return converter.DonorToResponse(updated), nil
}

func (u *donorUsecase) Delete(ctx context.Context, id uint) error {
	donor, err := u.donorRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find donor %d: %+v", id, err)
		return err
	}
	if donor == nil {
		return ErrDonorNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.donorRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete donor %d: %+v", id, err)
		return err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogDelete(ctx, tx, &userID, entity.AuditActionDonorDelete, "donor", fmt.Sprintf("%d", id), donor)
	}

	return tx.Commit().Error
}

func (u *donorUsecase) FindMatches(ctx context.Context, requestID uint) (*dto.DonorListResponse, error) {
	request, err := u.requestRepo.FindByID(u.db.WithContext(ctx), requestID)
	if err != nil {
		u.log.Warnf("Failed to find request %d: %+v", requestID, err)
		return nil, err
	}
	if request == nil {
		return nil, ErrRequestNotFound
	}

	donors, err := u.donorRepo.FindAvailableByType(u.db.WithContext(ctx), request.BloodType)
	if err != nil {
		u.log.Warnf("Failed to find matching donors for request %d: %+v", requestID, err)
		return nil, err
	}

	// Rank by distance from the requesting hospital when both sides are
	// geocoded. Donors without coordinates keep their relative order at
	// the end of the list.
	if ref := u.referencePoint(ctx, request); ref != nil {
		sort.SliceStable(donors, func(i, j int) bool {
			di, okI := donorDistance(&donors[i], ref)
			dj, okJ := donorDistance(&donors[j], ref)
			if okI && okJ {
				return di < dj
			}
			return okI && !okJ
		})
	}

	return &dto.DonorListResponse{
		Donors: converter.DonorsToResponses(donors),
		Total:  len(donors),
	}, nil
}

func (u *donorUsecase) GetStats(ctx context.Context) (*dto.DonorStatsResponse, error) {
	stats, err := u.donorRepo.Stats(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to compute donor stats: %+v", err)
		return nil, err
	}

	return converter.DonorStatsToResponse(stats), nil
}

type geoPoint struct {
	lat float64
	lng float64
}

func (u *donorUsecase) referencePoint(ctx context.Context, request *entity.BloodRequest) *geoPoint {
	hospital := request.Hospital
	if hospital == nil && request.HospitalID != nil {
		var err error
		hospital, err = u.hospitalRepo.FindByID(u.db.WithContext(ctx), *request.HospitalID)
		if err != nil {
			u.log.Warnf("Failed to load hospital %d for match ranking: %+v", *request.HospitalID, err)
			return nil
		}
	}
	if hospital == nil || hospital.Latitude == nil || hospital.Longitude == nil {
		return nil
	}
	return &geoPoint{lat: *hospital.Latitude, lng: *hospital.Longitude}
}

func donorDistance(donor *entity.Donor, ref *geoPoint) (float64, bool) {
	if !donor.HasCoordinates() {
		return 0, false
	}
	return haversineKm(ref.lat, ref.lng, *donor.Latitude, *donor.Longitude), true
}

// haversineKm computes the great-circle distance between two points in km
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0

	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
