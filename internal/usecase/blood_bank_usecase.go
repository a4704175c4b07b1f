package usecase

import (
	"context"
	"errors"
	"fmt"
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
	ErrBloodBankNotFound = errors.New("blood bank not found")
	ErrBatchNotFound     = errors.New("blood batch not found")
	ErrBatchNotOwned     = errors.New("batch does not belong to this blood bank")
)

type BloodBankUsecase interface {
	Create(ctx context.Context, req *dto.CreateBloodBankRequest) (*dto.BloodBankResponse, error)
	GetByID(ctx context.Context, id uint) (*dto.BloodBankResponse, error)
	GetAll(ctx context.Context, filter *repository.PlaceFilter) (*dto.BloodBankListResponse, error)
	Update(ctx context.Context, id uint, req *dto.UpdateBloodBankRequest) (*dto.BloodBankResponse, error)
	Delete(ctx context.Context, id uint) error

	AddBatch(ctx context.Context, bankID uint, req *dto.AddBatchRequest) (*dto.BatchResponse, error)
	UpdateBatch(ctx context.Context, bankID, batchID uint, req *dto.UpdateBatchRequest) (*dto.BatchResponse, error)
	DeleteBatch(ctx context.Context, bankID, batchID uint) error
	GetBatches(ctx context.Context, bankID uint) (*dto.BatchListResponse, error)

	GetInventory(ctx context.Context, bankID uint) ([]dto.InventoryResponse, error)
	GetTotalInventory(ctx context.Context) (*dto.TotalInventoryResponse, error)
	FindByBloodType(ctx context.Context, bloodType string, minUnits int) (*dto.BankStockListResponse, error)
	OverrideInventory(ctx context.Context, bankID uint, req *dto.OverrideInventoryRequest) ([]dto.InventoryResponse, error)
}

type bloodBankUsecase struct {
	db        *gorm.DB
	log       *logrus.Logger
	bankRepo  repository.BloodBankRepository
	batchRepo repository.BloodBatchRepository
	inventory repository.BloodInventoryRepository
	audit     service.AuditService
}

func NewBloodBankUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	bankRepo repository.BloodBankRepository,
	batchRepo repository.BloodBatchRepository,
	inventory repository.BloodInventoryRepository,
	audit service.AuditService,
) BloodBankUsecase {
	return &bloodBankUsecase{
		db:        db,
		log:       log,
		bankRepo:  bankRepo,
		batchRepo: batchRepo,
		inventory: inventory,
		audit:     audit,
	}
}

func (u *bloodBankUsecase) Create(ctx context.Context, req *dto.CreateBloodBankRequest) (*dto.BloodBankResponse, error) {
	bank := &entity.BloodBank{
		Name:           req.Name,
		Address:        req.Address,
		City:           req.City,
		Phone:          req.Phone,
		Email:          req.Email,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		OperatingHours: req.OperatingHours,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.bankRepo.Create(tx, bank); err != nil {
		u.log.Warnf("Failed to create blood bank: %+v", err)
		return nil, err
	}

	// Seed a zero inventory row per blood type so reads never have to
	// special-case missing rows
	if err := u.inventory.InitBank(tx, bank.ID); err != nil {
		u.log.Warnf("Failed to seed inventory for bank %d: %+v", bank.ID, err)
		return nil, err
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.BloodBankToResponse(bank), nil
}

func (u *bloodBankUsecase) GetByID(ctx context.Context, id uint) (*dto.BloodBankResponse, error) {
	bank, err := u.bankRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find blood bank %d: %+v", id, err)
		return nil, err
	}
	if bank == nil {
		return nil, ErrBloodBankNotFound
	}

	response := converter.BloodBankToResponse(bank)

	rows, err := u.inventory.FindByBank(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to load inventory for bank %d: %+v", id, err)
		return nil, err
	}
	response.Inventory = converter.InventoryToResponses(rows)

	return response, nil
}

func (u *bloodBankUsecase) GetAll(ctx context.Context, filter *repository.PlaceFilter) (*dto.BloodBankListResponse, error) {
	banks, err := u.bankRepo.FindAll(u.db.WithContext(ctx), filter)
	if err != nil {
		u.log.Warnf("Failed to list blood banks: %+v", err)
		return nil, err
	}

	return &dto.BloodBankListResponse{
		Banks: converter.BloodBanksToResponses(banks),
		Total: len(banks),
	}, nil
}

func (u *bloodBankUsecase) Update(ctx context.Context, id uint, req *dto.UpdateBloodBankRequest) (*dto.BloodBankResponse, error) {
	bank, err := u.bankRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find blood bank %d: %+v", id, err)
		return nil, err
	}
	if bank == nil {
		return nil, ErrBloodBankNotFound
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
	if req.OperatingHours != nil {
		updates["operating_hours"] = *req.OperatingHours
	}

	if len(updates) == 0 {
		return converter.BloodBankToResponse(bank), nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.bankRepo.UpdateFields(tx, id, updates); err != nil {
		u.log.Warnf("Failed to update blood bank %d: %+v", id, err)
		return nil, err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogUpdate(ctx, tx, &userID, entity.AuditActionBankUpdate, "blood_bank", fmt.Sprintf("%d", id), bank, updates)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	updated, err := u.bankRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload blood bank %d: %+v", id, err)
		return converter.BloodBankToResponse(bank), nil
	}

	return converter.BloodBankToResponse(updated), nil
}

func (u *bloodBankUsecase) Delete(ctx context.Context, id uint) error {
	bank, err := u.bankRepo.FindByID(u.db.WithContext(ctx), id)
	if err != nil {
		u.log.Warnf("Failed to find blood bank %d: %+v", id, err)
		return err
	}
	if bank == nil {
		return ErrBloodBankNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.inventory.DeleteByBank(tx, id); err != nil {
		u.log.Warnf("Failed to delete inventory for bank %d: %+v", id, err)
		return err
	}

	if err := u.bankRepo.Delete(tx, id); err != nil {
		u.log.Warnf("Failed to delete blood bank %d: %+v", id, err)
		return err
	}

	return tx.Commit().Error
}

func (u *bloodBankUsecase) AddBatch(ctx context.Context, bankID uint, req *dto.AddBatchRequest) (*dto.BatchResponse, error) {
	bloodType := entity.BloodType(req.BloodType)
	if !bloodType.IsValid() {
		return nil, ErrInvalidBloodType
	}

	expiry, err := time.Parse("2006-01-02", req.ExpiryDate)
	if err != nil {
		return nil, ErrInvalidDateFormat
	}

	bank, err := u.bankRepo.FindByID(u.db.WithContext(ctx), bankID)
	if err != nil {
		u.log.Warnf("Failed to find blood bank %d: %+v", bankID, err)
		return nil, err
	}
	if bank == nil {
		return nil, ErrBloodBankNotFound
	}

	batch := &entity.BloodBatch{
		BloodBankID: bankID,
		BloodType:   bloodType,
		Units:       req.Units,
		ExpiryDate:  expiry,
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.batchRepo.Create(tx, batch); err != nil {
		u.log.Warnf("Failed to create batch for bank %d: %+v", bankID, err)
		return nil, err
	}

	if err := u.syncInventory(tx, bankID, bloodType); err != nil {
		return nil, err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogCreate(ctx, tx, &userID, entity.AuditActionBatchCreate, "blood_batch", fmt.Sprintf("%d", batch.ID), batch)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	return converter.BatchToResponse(batch), nil
}

func (u *bloodBankUsecase) UpdateBatch(ctx context.Context, bankID, batchID uint, req *dto.UpdateBatchRequest) (*dto.BatchResponse, error) {
	batch, err := u.batchRepo.FindByID(u.db.WithContext(ctx), batchID)
	if err != nil {
		u.log.Warnf("Failed to find batch %d: %+v", batchID, err)
		return nil, err
	}
	if batch == nil {
		return nil, ErrBatchNotFound
	}
	if batch.BloodBankID != bankID {
		return nil, ErrBatchNotOwned
	}

	updates := map[string]interface{}{}
	if req.Units != nil {
		updates["units"] = *req.Units
	}
	if req.ExpiryDate != nil {
		expiry, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			return nil, ErrInvalidDateFormat
		}
		updates["expiry_date"] = expiry
	}

	if len(updates) == 0 {
		return converter.BatchToResponse(batch), nil
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.batchRepo.UpdateFields(tx, batchID, updates); err != nil {
		u.log.Warnf("Failed to update batch %d: %+v", batchID, err)
		return nil, err
	}

	if err := u.syncInventory(tx, batch.BloodBankID, batch.BloodType); err != nil {
		return nil, err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogUpdate(ctx, tx, &userID, entity.AuditActionBatchUpdate, "blood_batch", fmt.Sprintf("%d", batchID), batch, updates)
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	updated, err := u.batchRepo.FindByID(u.db.WithContext(ctx), batchID)
	if err != nil || updated == nil {
		u.log.Warnf("Failed to reload batch %d: %+v", batchID, err)
		return converter.BatchToResponse(batch), nil
	}

	return converter.BatchToResponse(updated), nil
}

// DeleteBatch removes a batch and resyncs the pair's inventory. Deleting a
// batch that is already gone is a no-op, not an error.
func (u *bloodBankUsecase) DeleteBatch(ctx context.Context, bankID, batchID uint) error {
	batch, err := u.batchRepo.FindByID(u.db.WithContext(ctx), batchID)
	if err != nil {
		u.log.Warnf("Failed to find batch %d: %+v", batchID, err)
		return err
	}
	if batch == nil {
		return nil
	}
	if batch.BloodBankID != bankID {
		return ErrBatchNotOwned
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.batchRepo.Delete(tx, batchID); err != nil {
		u.log.Warnf("Failed to delete batch %d: %+v", batchID, err)
		return err
	}

	if err := u.syncInventory(tx, batch.BloodBankID, batch.BloodType); err != nil {
		return err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogDelete(ctx, tx, &userID, entity.AuditActionBatchDelete, "blood_batch", fmt.Sprintf("%d", batchID), batch)
	}

	return tx.Commit().Error
}

func (u *bloodBankUsecase) GetBatches(ctx context.Context, bankID uint) (*dto.BatchListResponse, error) {
	bank, err := u.bankRepo.FindByID(u.db.WithContext(ctx), bankID)
	if err != nil {
		u.log.Warnf("Failed to find blood bank %d: %+v", bankID, err)
		return nil, err
	}
	if bank == nil {
		return nil, ErrBloodBankNotFound
	}

	batches, err := u.batchRepo.FindByBank(u.db.WithContext(ctx), bankID)
	if err != nil {
		u.log.Warnf("Failed to list batches for bank %d: %+v", bankID, err)
		return nil, err
	}

	return &dto.BatchListResponse{
		Batches: converter.BatchesToResponses(batches),
		Total:   len(batches),
	}, nil
}

func (u *bloodBankUsecase) GetInventory(ctx context.Context, bankID uint) ([]dto.InventoryResponse, error) {
	bank, err := u.bankRepo.FindByID(u.db.WithContext(ctx), bankID)
	if err != nil {
		u.log.Warnf("Failed to find blood bank %d: %+v", bankID, err)
		return nil, err
	}
	if bank == nil {
		return nil, ErrBloodBankNotFound
	}

	rows, err := u.inventory.FindByBank(u.db.WithContext(ctx), bankID)
	if err != nil {
		u.log.Warnf("Failed to load inventory for bank %d: %+v", bankID, err)
		return nil, err
	}

	return converter.InventoryToResponses(rows), nil
}

func (u *bloodBankUsecase) GetTotalInventory(ctx context.Context) (*dto.TotalInventoryResponse, error) {
	totals, err := u.inventory.TotalByType(u.db.WithContext(ctx))
	if err != nil {
		u.log.Warnf("Failed to compute total inventory: %+v", err)
		return nil, err
	}

	return converter.TypeTotalsToResponse(totals), nil
}

func (u *bloodBankUsecase) FindByBloodType(ctx context.Context, bloodType string, minUnits int) (*dto.BankStockListResponse, error) {
	bt := entity.BloodType(bloodType)
	if !bt.IsValid() {
		return nil, ErrInvalidBloodType
	}
	if minUnits < 1 {
		minUnits = 1
	}

	stocks, err := u.inventory.FindBanksWithStock(u.db.WithContext(ctx), bt, minUnits)
	if err != nil {
		u.log.Warnf("Failed to find banks with %s stock: %+v", bt, err)
		return nil, err
	}

	return &dto.BankStockListResponse{
		Banks: converter.BankStocksToResponses(stocks),
		Total: len(stocks),
	}, nil
}

// OverrideInventory writes an operator-supplied units figure directly to the
// inventory row, bypassing batch-derived truth. The aggregate stays desynced
// from its batches until the next batch mutation resyncs the pair.
func (u *bloodBankUsecase) OverrideInventory(ctx context.Context, bankID uint, req *dto.OverrideInventoryRequest) ([]dto.InventoryResponse, error) {
	bloodType := entity.BloodType(req.BloodType)
	if !bloodType.IsValid() {
		return nil, ErrInvalidBloodType
	}

	bank, err := u.bankRepo.FindByID(u.db.WithContext(ctx), bankID)
	if err != nil {
		u.log.Warnf("Failed to find blood bank %d: %+v", bankID, err)
		return nil, err
	}
	if bank == nil {
		return nil, ErrBloodBankNotFound
	}

	tx := u.db.WithContext(ctx).Begin()
	defer tx.Rollback()

	if err := u.inventory.Upsert(tx, bankID, bloodType, *req.Units); err != nil {
		u.log.Warnf("Failed to override inventory for bank %d type %s: %+v", bankID, bloodType, err)
		return nil, err
	}

	if userID, ok := middleware.GetUserIDFromContext(ctx); ok {
		u.audit.LogUpdate(ctx, tx, &userID, entity.AuditActionInventoryManual, "blood_inventory",
			fmt.Sprintf("%d:%s", bankID, bloodType), nil, map[string]interface{}{"units": *req.Units})
	}

	if err := tx.Commit().Error; err != nil {
		u.log.Warnf("Failed commit transaction: %+v", err)
		return nil, err
	}

	u.log.Warnf("Manual inventory override: bank=%d type=%s units=%d", bankID, bloodType, *req.Units)

	rows, err := u.inventory.FindByBank(u.db.WithContext(ctx), bankID)
	if err != nil {
		u.log.Warnf("Failed to reload inventory for bank %d: %+v", bankID, err)
		return nil, err
	}

	return converter.InventoryToResponses(rows), nil
}

// syncInventory recomputes the aggregate for one (bank, blood type) pair from
// its batches and upserts the result. Runs inside the caller's transaction so
// a failed resync rolls the batch mutation back with it.
func (u *bloodBankUsecase) syncInventory(tx *gorm.DB, bankID uint, bloodType entity.BloodType) error {
	total, err := u.batchRepo.SumUnits(tx, bankID, bloodType)
	if err != nil {
		u.log.Warnf("Failed to sum batches for bank %d type %s: %+v", bankID, bloodType, err)
		return err
	}

	if err := u.inventory.Upsert(tx, bankID, bloodType, total); err != nil {
		u.log.Warnf("Failed to upsert inventory for bank %d type %s: %+v", bankID, bloodType, err)
		return err
	}

	return nil
}
