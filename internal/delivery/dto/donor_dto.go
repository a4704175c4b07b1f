package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateDonorRequest struct {
	Name         string   `json:"name" validate:"required,max=255"`
	BloodType    string   `json:"blood_type" validate:"required"`
	Phone        string   `json:"phone" validate:"required,max=20"`
	City         string   `json:"city" validate:"required,max=100"`
	Email        *string  `json:"email" validate:"omitempty,email"`
	Address      *string  `json:"address"`
	Available    *bool    `json:"available"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	LastDonation *string  `json:"last_donation"`
}

// UpdateDonorRequest carries a partial update: only non-nil fields change.
type UpdateDonorRequest struct {
	Name         *string  `json:"name" validate:"omitempty,max=255"`
	BloodType    *string  `json:"blood_type"`
	Phone        *string  `json:"phone" validate:"omitempty,max=20"`
	City         *string  `json:"city" validate:"omitempty,max=100"`
	Email        *string  `json:"email" validate:"omitempty,email"`
	Address      *string  `json:"address"`
	Available    *bool    `json:"available"`
	Latitude     *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude    *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	LastDonation *string  `json:"last_donation"`
}

// Response DTOs

type DonorResponse struct {
	ID           uint       `json:"id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	Name         string     `json:"name"`
	BloodType    string     `json:"blood_type"`
	Phone        string     `json:"phone"`
	Email        *string    `json:"email,omitempty"`
	City         string     `json:"city"`
	Address      *string    `json:"address,omitempty"`
	Available    bool       `json:"available"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	LastDonation *string    `json:"last_donation,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type DonorListResponse struct {
	Donors []DonorResponse `json:"donors"`
	Total  int             `json:"total"`
}

type DonorStatsResponse struct {
	Total     int64            `json:"total"`
	Available int64            `json:"available"`
	ByType    map[string]int64 `json:"byType"`
}
