package repository

import (
	"errors"

	"bloodconnect/internal/domain/entity"
	domainRepo "bloodconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type hospitalRepository struct{}

func NewHospitalRepository() domainRepo.HospitalRepository {
	return &hospitalRepository{}
}

func (r *hospitalRepository) Create(db *gorm.DB, hospital *entity.Hospital) error {
	return db.Create(hospital).Error
}

func (r *hospitalRepository) FindByID(db *gorm.DB, id uint) (*entity.Hospital, error) {
	var hospital entity.Hospital
	err := db.Where("id = ?", id).First(&hospital).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hospital, nil
}

func (r *hospitalRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Hospital, error) {
	var hospital entity.Hospital
	err := db.Where("user_id = ?", userID).First(&hospital).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &hospital, nil
}

func (r *hospitalRepository) FindAll(db *gorm.DB, filter *domainRepo.PlaceFilter) ([]entity.Hospital, error) {
	query := db.Model(&entity.Hospital{})

	if filter != nil {
		if filter.City != "" {
			query = query.Where("city LIKE ?", "%"+filter.City+"%")
		}
		if filter.Search != "" {
			query = query.Where("name LIKE ? OR address LIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	}

	var hospitals []entity.Hospital
	err := query.Order("name ASC").Find(&hospitals).Error
	if err != nil {
		return nil, err
	}
	return hospitals, nil
}

func (r *hospitalRepository) UpdateFields(db *gorm.DB, id uint, updates map[string]interface{}) error {
	return db.Model(&entity.Hospital{}).Where("id = ?", id).Updates(updates).Error
}

func (r *hospitalRepository) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&entity.Hospital{}, id).Error
}

func (r *hospitalRepository) Stats(db *gorm.DB) (*entity.HospitalStats, error) {
	stats := &entity.HospitalStats{}

	if err := db.Model(&entity.Hospital{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	err := db.Model(&entity.Hospital{}).
		Select("city, COUNT(*) as count").
		Group("city").
		Order("count DESC").
		Scan(&stats.ByCity).Error
	if err != nil {
		return nil, err
	}

	return stats, nil
}
