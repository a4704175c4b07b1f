package repository

import (
	"bloodconnect/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BloodBankRepository interface {
	Create(db *gorm.DB, bank *entity.BloodBank) error
	FindByID(db *gorm.DB, id uint) (*entity.BloodBank, error)
	FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.BloodBank, error)
	FindAll(db *gorm.DB, filter *PlaceFilter) ([]entity.BloodBank, error)
	UpdateFields(db *gorm.DB, id uint, updates map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
}

type BloodBatchRepository interface {
	Create(db *gorm.DB, batch *entity.BloodBatch) error
	FindByID(db *gorm.DB, id uint) (*entity.BloodBatch, error)
	// FindByBank returns the bank's batches ordered by expiry date ascending,
	// soonest-to-expire first.
	FindByBank(db *gorm.DB, bankID uint) ([]entity.BloodBatch, error)
	UpdateFields(db *gorm.DB, id uint, updates map[string]interface{}) error
	Delete(db *gorm.DB, id uint) error
	// SumUnits computes the live total over all batches for the pair,
	// zero when no batches exist.
	SumUnits(db *gorm.DB, bankID uint, bloodType entity.BloodType) (int, error)
}

// TypeTotal is one row of the cross-bank inventory summary
type TypeTotal struct {
	BloodType  entity.BloodType `json:"blood_type"`
	TotalUnits int              `json:"total_units"`
}

// BankStock is a bank joined with its held units of one blood type
type BankStock struct {
	entity.BloodBank
	Units int `json:"units"`
}

type BloodInventoryRepository interface {
	// InitBank seeds a zero inventory row for every recognized blood type.
	InitBank(db *gorm.DB, bankID uint) error
	// Upsert writes the derived total for the pair, refreshing updated_at.
	Upsert(db *gorm.DB, bankID uint, bloodType entity.BloodType, units int) error
	FindByBank(db *gorm.DB, bankID uint) ([]entity.BloodInventory, error)
	// TotalByType aggregates across all banks, grouped and ordered by type.
	TotalByType(db *gorm.DB) ([]TypeTotal, error)
	// FindBanksWithStock returns banks holding at least minUnits of the type,
	// best-stocked first.
	FindBanksWithStock(db *gorm.DB, bloodType entity.BloodType, minUnits int) ([]BankStock, error)
	DeleteByBank(db *gorm.DB, bankID uint) error
}
