package repository

import (
	"bloodconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DonorFilter holds the optional donor listing filters
type DonorFilter struct {
	BloodType entity.BloodType
	City      string
	Available *bool
}

type DonorRepository interface {
	Create(db *gorm.DB, donor *entity.Donor) error
	FindByID(db *gorm.DB, id uint) (*entity.Donor, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Donor, error)
	FindAll(db *gorm.DB, filter *DonorFilter) ([]entity.Donor, error)
	// FindAvailableByType returns available donors of the exact blood type.
	// No ABO/Rh compatibility substitution is applied.
	FindAvailableByType(db *gorm.DB, bloodType entity.BloodType) ([]entity.Donor, error)
	UpdateFields(db *gorm.DB, id uint, updates map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
	Stats(db *gorm.DB) (*entity.DonorStats, error)
}
