package converter

import (
	"bloodconnect/internal/delivery/dto"
	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/domain/repository"
)

// BloodBankToResponse converts a BloodBank entity to BloodBankResponse DTO
func BloodBankToResponse(bank *entity.BloodBank) *dto.BloodBankResponse {
	if bank == nil {
		return nil
	}

	response := &dto.BloodBankResponse{
		ID:             bank.ID,
		UserID:         bank.UserID,
		Name:           bank.Name,
		Address:        bank.Address,
		City:           bank.City,
		Phone:          bank.Phone,
		Email:          bank.Email,
		Latitude:       bank.Latitude,
		Longitude:      bank.Longitude,
		OperatingHours: bank.OperatingHours,
		CreatedAt:      bank.CreatedAt,
		UpdatedAt:      bank.UpdatedAt,
	}

	if len(bank.Inventory) > 0 {
		response.Inventory = InventoryToResponses(bank.Inventory)
	}

	return response
}

// BloodBanksToResponses converts a slice of BloodBank entities to slice of BloodBankResponse DTOs
func BloodBanksToResponses(banks []entity.BloodBank) []dto.BloodBankResponse {
	responses := make([]dto.BloodBankResponse, len(banks))
	for i, bank := range banks {
		resp := BloodBankToResponse(&bank)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// BatchToResponse converts a BloodBatch entity to BatchResponse DTO
func BatchToResponse(batch *entity.BloodBatch) *dto.BatchResponse {
	if batch == nil {
		return nil
	}

	return &dto.BatchResponse{
		ID:          batch.ID,
		BloodBankID: batch.BloodBankID,
		BloodType:   string(batch.BloodType),
		Units:       batch.Units,
		ExpiryDate:  batch.ExpiryDate.Format("2006-01-02"),
		CreatedAt:   batch.CreatedAt,
		UpdatedAt:   batch.UpdatedAt,
	}
}

// BatchesToResponses converts a slice of BloodBatch entities to slice of BatchResponse DTOs
func BatchesToResponses(batches []entity.BloodBatch) []dto.BatchResponse {
	responses := make([]dto.BatchResponse, len(batches))
	for i, batch := range batches {
		resp := BatchToResponse(&batch)
		if resp != nil {
			responses[i] = *resp
		}
	}
	return responses
}

// InventoryToResponses converts BloodInventory rows to InventoryResponse DTOs
func InventoryToResponses(rows []entity.BloodInventory) []dto.InventoryResponse {
	responses := make([]dto.InventoryResponse, len(rows))
	for i, row := range rows {
		responses[i] = dto.InventoryResponse{
			BloodType: string(row.BloodType),
			Units:     row.Units,
			UpdatedAt: row.UpdatedAt,
		}
	}
	return responses
}

// TypeTotalsToResponse converts cross-bank inventory totals to TotalInventoryResponse DTO
func TypeTotalsToResponse(totals []repository.TypeTotal) *dto.TotalInventoryResponse {
	rows := make([]dto.TypeTotalResponse, len(totals))
	for i, total := range totals {
		rows[i] = dto.TypeTotalResponse{
			BloodType:  string(total.BloodType),
			TotalUnits: total.TotalUnits,
		}
	}
	return &dto.TotalInventoryResponse{Totals: rows}
}

// BankStocksToResponses converts bank+stock join rows to BankStockResponse DTOs
func BankStocksToResponses(stocks []repository.BankStock) []dto.BankStockResponse {
	responses := make([]dto.BankStockResponse, len(stocks))
	for i, stock := range stocks {
		bank := BloodBankToResponse(&stock.BloodBank)
		responses[i] = dto.BankStockResponse{
			BloodBankResponse: *bank,
			Units:             stock.Units,
		}
	}
	return responses
}
