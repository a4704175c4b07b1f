package repository

import (
	"bloodconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaceFilter holds the optional listing filters shared by hospitals and
// blood banks: a city substring and a free-text name/address search.
type PlaceFilter struct {
	City   string
	Search string
}

type HospitalRepository interface {
	Create(db *gorm.DB, hospital *entity.Hospital) error
	FindByID(db *gorm.DB, id uint) (*entity.Hospital, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.Hospital, error)
	FindAll(db *gorm.DB, filter *PlaceFilter) ([]entity.Hospital, error)
	UpdateFields(db *gorm.DB, id uint, updates map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
	Stats(db *gorm.DB) (*entity.HospitalStats, error)
}
