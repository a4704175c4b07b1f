package repository

import (
	"errors"

	"bloodconnect/internal/domain/entity"
	domainRepo "bloodconnect/internal/domain/repository"

	"gorm.io/gorm"
)

// urgencyRank sorts critical before urgent before normal
const urgencyRank = "CASE urgency WHEN 'critical' THEN 1 WHEN 'urgent' THEN 2 ELSE 3 END"

type bloodRequestRepository struct{}

func NewBloodRequestRepository() domainRepo.BloodRequestRepository {
	return &bloodRequestRepository{}
}

func (r *bloodRequestRepository) Create(db *gorm.DB, request *entity.BloodRequest) error {
	return db.Create(request).Error
}

func (r *bloodRequestRepository) FindByID(db *gorm.DB, id uint) (*entity.BloodRequest, error) {
	var request entity.BloodRequest
	err := db.Preload("Hospital").Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

func (r *bloodRequestRepository) FindAll(db *gorm.DB, filter *entity.RequestFilter) ([]entity.BloodRequest, error) {
	query := db.Model(&entity.BloodRequest{}).Preload("Hospital")

	if filter != nil {
		if filter.Status != "" {
			query = query.Where("status = ?", filter.Status)
		}
		if filter.Urgency != "" {
			query = query.Where("urgency = ?", filter.Urgency)
		}
		if filter.BloodType != "" {
			query = query.Where("blood_type = ?", filter.BloodType)
		}
		if filter.HospitalID != nil {
			query = query.Where("hospital_id = ?", *filter.HospitalID)
		}
	}

	var requests []entity.BloodRequest
	err := query.Order(urgencyRank + ", created_at DESC").Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *bloodRequestRepository) FindCritical(db *gorm.DB) ([]entity.BloodRequest, error) {
	var requests []entity.BloodRequest
	err := db.Preload("Hospital").
		Where("status = ? AND urgency = ?", entity.RequestStatusPending, entity.UrgencyCritical).
		Order("created_at ASC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *bloodRequestRepository) FindHistory(db *gorm.DB, donorID uint) ([]entity.BloodRequest, error) {
	var requests []entity.BloodRequest
	err := db.Preload("Hospital").
		Where("donor_id = ? AND status = ?", donorID, entity.RequestStatusFulfilled).
		Order("fulfilled_at DESC").
		Find(&requests).Error
	if err != nil {
		return nil, err
	}
	return requests, nil
}

// UpdateFieldsWhileStatus is the status CAS: the write lands only if the row
// still holds fromStatus, so two concurrent fulfill calls cannot both win.
func (r *bloodRequestRepository) UpdateFieldsWhileStatus(db *gorm.DB, id uint, fromStatus entity.RequestStatus, updates map[string]interface{}) (int64, error) {
	result := db.Model(&entity.BloodRequest{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	return result.RowsAffected, result.Error
}

func (r *bloodRequestRepository) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&entity.BloodRequest{}, id).Error
}

func (r *bloodRequestRepository) Stats(db *gorm.DB) (*entity.RequestStats, error) {
	stats := &entity.RequestStats{ByBloodType: map[string]int64{}}

	model := func() *gorm.DB { return db.Model(&entity.BloodRequest{}) }

	if err := model().Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := model().Where("status = ?", entity.RequestStatusPending).Count(&stats.Pending).Error; err != nil {
		return nil, err
	}
	if err := model().Where("status = ?", entity.RequestStatusFulfilled).Count(&stats.Fulfilled).Error; err != nil {
		return nil, err
	}
	if err := model().Where("status = ?", entity.RequestStatusCancelled).Count(&stats.Cancelled).Error; err != nil {
		return nil, err
	}
	if err := model().
		Where("status = ? AND urgency = ?", entity.RequestStatusPending, entity.UrgencyCritical).
		Count(&stats.Critical).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		BloodType string
		Count     int64
	}
	err := model().
		Select("blood_type, COUNT(*) as count").
		Where("status = ?", entity.RequestStatusPending).
		Group("blood_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByBloodType[row.BloodType] = row.Count
	}

	return stats, nil
}
