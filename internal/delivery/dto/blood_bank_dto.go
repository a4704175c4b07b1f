package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateBloodBankRequest struct {
	Name           string   `json:"name" validate:"required,max=255"`
	Address        string   `json:"address" validate:"required"`
	City           string   `json:"city" validate:"required,max=100"`
	Phone          string   `json:"phone" validate:"required,max=20"`
	Email          *string  `json:"email" validate:"omitempty,email"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	OperatingHours *string  `json:"operating_hours"`
}

type UpdateBloodBankRequest struct {
	Name           *string  `json:"name" validate:"omitempty,max=255"`
	Address        *string  `json:"address"`
	City           *string  `json:"city" validate:"omitempty,max=100"`
	Phone          *string  `json:"phone" validate:"omitempty,max=20"`
	Email          *string  `json:"email" validate:"omitempty,email"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	OperatingHours *string  `json:"operating_hours"`
}

type AddBatchRequest struct {
	BloodType  string `json:"blood_type" validate:"required"`
	Units      int    `json:"units" validate:"gte=0"`
	ExpiryDate string `json:"expiry_date" validate:"required"`
}

// UpdateBatchRequest carries a partial update: only non-nil fields change.
type UpdateBatchRequest struct {
	Units      *int    `json:"units" validate:"omitempty,gte=0"`
	ExpiryDate *string `json:"expiry_date"`
}

// OverrideInventoryRequest is the manual-correction escape hatch. It bypasses
// batch-derived truth; the next batch mutation's resync wins.
type OverrideInventoryRequest struct {
	BloodType string `json:"blood_type" validate:"required"`
	Units     *int   `json:"units" validate:"required,gte=0"`
}

// Response DTOs

type BloodBankResponse struct {
	ID             uint                `json:"id"`
	UserID         *uuid.UUID          `json:"user_id,omitempty"`
	Name           string              `json:"name"`
	Address        string              `json:"address"`
	City           string              `json:"city"`
	Phone          string              `json:"phone"`
	Email          *string             `json:"email,omitempty"`
	Latitude       *float64            `json:"latitude,omitempty"`
	Longitude      *float64            `json:"longitude,omitempty"`
	OperatingHours *string             `json:"operating_hours,omitempty"`
	Inventory      []InventoryResponse `json:"inventory,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

type BloodBankListResponse struct {
	Banks []BloodBankResponse `json:"banks"`
	Total int                 `json:"total"`
}

type BatchResponse struct {
	ID          uint      `json:"id"`
	BloodBankID uint      `json:"blood_bank_id"`
	BloodType   string    `json:"blood_type"`
	Units       int       `json:"units"`
	ExpiryDate  string    `json:"expiry_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BatchListResponse struct {
	Batches []BatchResponse `json:"batches"`
	Total   int             `json:"total"`
}

type InventoryResponse struct {
	BloodType string    `json:"blood_type"`
	Units     int       `json:"units"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TypeTotalResponse struct {
	BloodType  string `json:"blood_type"`
	TotalUnits int    `json:"total_units"`
}

type TotalInventoryResponse struct {
	Totals []TypeTotalResponse `json:"totals"`
}

type BankStockResponse struct {
	BloodBankResponse
	Units int `json:"units"`
}

type BankStockListResponse struct {
	Banks []BankStockResponse `json:"banks"`
	Total int                 `json:"total"`
}
