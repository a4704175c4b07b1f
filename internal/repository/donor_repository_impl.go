package repository

import (
	"errors"

	"bloodconnect/internal/domain/entity"
	domainRepo "bloodconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type donorRepository struct{}

func NewDonorRepository() domainRepo.DonorRepository {
	return &donorRepository{}
}

func (r *donorRepository) Create(db *gorm.DB, donor *entity.Donor) error {
	return db.Create(donor).Error
}

func (r *donorRepository) FindByID(db *gorm.DB, id uint) (*entity.Donor, error) {
	var donor entity.Donor
	err := db.Where("id = ?", id).First(&donor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Donor, error) {
	var donor entity.Donor
	err := db.Where("user_id = ?", userID).First(&donor).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &donor, nil
}

func (r *donorRepository) FindAll(db *gorm.DB, filter *domainRepo.DonorFilter) ([]entity.Donor, error) {
	query := db.Model(&entity.Donor{})

	if filter != nil {
		if filter.BloodType != "" {
			query = query.Where("blood_type = ?", filter.BloodType)
		}
		if filter.City != "" {
			query = query.Where("city LIKE ?", "%"+filter.City+"%")
		}
		if filter.Available != nil {
			query = query.Where("available = ?", *filter.Available)
		}
	}

	var donors []entity.Donor
	err := query.Order("created_at DESC").Find(&donors).Error
	if err != nil {
		return nil, err
	}
	return donors, nil
}

func (r *donorRepository) FindAvailableByType(db *gorm.DB, bloodType entity.BloodType) ([]entity.Donor, error) {
	var donors []entity.Donor
	err := db.Where("blood_type = ? AND available = ?", bloodType, true).Find(&donors).Error
	if err != nil {
		return nil, err
	}
	return donors, nil
}

func (r *donorRepository) UpdateFields(db *gorm.DB, id uint, updates map[string]interface{}) error {
	return db.Model(&entity.Donor{}).Where("id = ?", id).Updates(updates).Error
}

func (r *donorRepository) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&entity.Donor{}, id).Error
}

func (r *donorRepository) Stats(db *gorm.DB) (*entity.DonorStats, error) {
	stats := &entity.DonorStats{ByType: map[string]int64{}}

	if err := db.Model(&entity.Donor{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&entity.Donor{}).Where("available = ?", true).Count(&stats.Available).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		BloodType string
		Count     int64
	}
	err := db.Model(&entity.Donor{}).
		Select("blood_type, COUNT(*) as count").
		Where("available = ?", true).
		Group("blood_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		stats.ByType[row.BloodType] = row.Count
	}

	return stats, nil
}
