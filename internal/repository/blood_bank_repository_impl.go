package repository

import (
	"errors"
	"time"

	"bloodconnect/internal/domain/entity"
	domainRepo "bloodconnect/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type bloodBankRepository struct{}

func NewBloodBankRepository() domainRepo.BloodBankRepository {
	return &bloodBankRepository{}
}

func (r *bloodBankRepository) Create(db *gorm.DB, bank *entity.BloodBank) error {
	return db.Create(bank).Error
}

func (r *bloodBankRepository) FindByID(db *gorm.DB, id uint) (*entity.BloodBank, error) {
	var bank entity.BloodBank
	err := db.Where("id = ?", id).First(&bank).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bank, nil
}

func (r *bloodBankRepository) FindByUserID(db *gorm.DB, userID uuid.UUID) (*entity.BloodBank, error) {
	var bank entity.BloodBank
	err := db.Where("user_id = ?", userID).First(&bank).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &bank, nil
}

func (r *bloodBankRepository) FindAll(db *gorm.DB, filter *domainRepo.PlaceFilter) ([]entity.BloodBank, error) {
	query := db.Model(&entity.BloodBank{})

	if filter != nil {
		if filter.City != "" {
			query = query.Where("city LIKE ?", "%"+filter.City+"%")
		}
		if filter.Search != "" {
			query = query.Where("name LIKE ? OR address LIKE ?", "%"+filter.Search+"%", "%"+filter.Search+"%")
		}
	}

	var banks []entity.BloodBank
	err := query.Order("name ASC").Find(&banks).Error
	if err != nil {
		return nil, err
	}
	return banks, nil
}

func (r *bloodBankRepository) UpdateFields(db *gorm.DB, id uint, updates map[string]interface{}) error {
	return db.Model(&entity.BloodBank{}).Where("id = ?", id).Updates(updates).Error
}

func (r *bloodBankRepository) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&entity.BloodBank{}, id).Error
}

// Batch repository

type bloodBatchRepository struct{}

func NewBloodBatchRepository() domainRepo.BloodBatchRepository {
	return &bloodBatchRepository{}
}

func (r *bloodBatchRepository) Create(db *gorm.DB, batch *entity.BloodBatch) error {
	return db.Create(batch).Error
}

func (r *bloodBatchRepository) FindByID(db *gorm.DB, id uint) (*entity.BloodBatch, error) {
	var batch entity.BloodBatch
	err := db.Where("id = ?", id).First(&batch).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &batch, nil
}

func (r *bloodBatchRepository) FindByBank(db *gorm.DB, bankID uint) ([]entity.BloodBatch, error) {
	var batches []entity.BloodBatch
	err := db.Where("blood_bank_id = ?", bankID).Order("expiry_date ASC").Find(&batches).Error
	if err != nil {
		return nil, err
	}
	return batches, nil
}

func (r *bloodBatchRepository) UpdateFields(db *gorm.DB, id uint, updates map[string]interface{}) error {
	return db.Model(&entity.BloodBatch{}).Where("id = ?", id).Updates(updates).Error
}

func (r *bloodBatchRepository) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&entity.BloodBatch{}, id).Error
}

func (r *bloodBatchRepository) SumUnits(db *gorm.DB, bankID uint, bloodType entity.BloodType) (int, error) {
	var total int
	err := db.Model(&entity.BloodBatch{}).
		Select("COALESCE(SUM(units), 0)").
		Where("blood_bank_id = ? AND blood_type = ?", bankID, bloodType).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	return total, nil
}

// Inventory repository

type bloodInventoryRepository struct{}

func NewBloodInventoryRepository() domainRepo.BloodInventoryRepository {
	return &bloodInventoryRepository{}
}

func (r *bloodInventoryRepository) InitBank(db *gorm.DB, bankID uint) error {
	rows := make([]entity.BloodInventory, 0, len(entity.BloodTypes))
	for _, bt := range entity.BloodTypes {
		rows = append(rows, entity.BloodInventory{
			BloodBankID: bankID,
			BloodType:   bt,
			Units:       0,
		})
	}
	return db.Create(&rows).Error
}

func (r *bloodInventoryRepository) Upsert(db *gorm.DB, bankID uint, bloodType entity.BloodType, units int) error {
	row := entity.BloodInventory{
		BloodBankID: bankID,
		BloodType:   bloodType,
		Units:       units,
	}
	return db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "blood_bank_id"}, {Name: "blood_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"units":      units,
			"updated_at": time.Now(),
		}),
	}).Create(&row).Error
}

func (r *bloodInventoryRepository) FindByBank(db *gorm.DB, bankID uint) ([]entity.BloodInventory, error) {
	var rows []entity.BloodInventory
	err := db.Where("blood_bank_id = ?", bankID).Order("blood_type ASC").Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *bloodInventoryRepository) TotalByType(db *gorm.DB) ([]domainRepo.TypeTotal, error) {
	var totals []domainRepo.TypeTotal
	err := db.Model(&entity.BloodInventory{}).
		Select("blood_type, SUM(units) as total_units").
		Group("blood_type").
		Order("blood_type ASC").
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

func (r *bloodInventoryRepository) FindBanksWithStock(db *gorm.DB, bloodType entity.BloodType, minUnits int) ([]domainRepo.BankStock, error) {
	var stocks []domainRepo.BankStock
	err := db.Model(&entity.BloodBank{}).
		Select("blood_banks.*, blood_inventory.units").
		Joins("JOIN blood_inventory ON blood_inventory.blood_bank_id = blood_banks.id").
		Where("blood_inventory.blood_type = ? AND blood_inventory.units >= ?", bloodType, minUnits).
		Order("blood_inventory.units DESC").
		Scan(&stocks).Error
	if err != nil {
		return nil, err
	}
	return stocks, nil
}

func (r *bloodInventoryRepository) DeleteByBank(db *gorm.DB, bankID uint) error {
	return db.Where("blood_bank_id = ?", bankID).Delete(&entity.BloodInventory{}).Error
}
