package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateHospitalRequest struct {
	Name             string   `json:"name" validate:"required,max=255"`
	Address          string   `json:"address" validate:"required"`
	City             string   `json:"city" validate:"required,max=100"`
	Phone            string   `json:"phone" validate:"required,max=20"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	Latitude         *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	EmergencyContact *string  `json:"emergency_contact"`
}

type UpdateHospitalRequest struct {
	Name             *string  `json:"name" validate:"omitempty,max=255"`
	Address          *string  `json:"address"`
	City             *string  `json:"city" validate:"omitempty,max=100"`
	Phone            *string  `json:"phone" validate:"omitempty,max=20"`
	Email            *string  `json:"email" validate:"omitempty,email"`
	Latitude         *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	EmergencyContact *string  `json:"emergency_contact"`
}

// Response DTOs

type HospitalResponse struct {
	ID               uint       `json:"id"`
	UserID           *uuid.UUID `json:"user_id,omitempty"`
	Name             string     `json:"name"`
	Address          string     `json:"address"`
	City             string     `json:"city"`
	Phone            string     `json:"phone"`
	Email            *string    `json:"email,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	EmergencyContact *string    `json:"emergency_contact,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

type HospitalListResponse struct {
	Hospitals []HospitalResponse `json:"hospitals"`
	Total     int                `json:"total"`
}

type CityCountResponse struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

type HospitalStatsResponse struct {
	Total  int64               `json:"total"`
	ByCity []CityCountResponse `json:"byCity"`
}
