package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type RegisterDonorRequest struct {
	Email     string   `json:"email" validate:"required,email"`
	Password  string   `json:"password" validate:"required,min=8"`
	FullName  string   `json:"full_name" validate:"required,max=255"`
	BloodType string   `json:"blood_type" validate:"required"`
	Phone     string   `json:"phone" validate:"required,max=20"`
	City      string   `json:"city" validate:"required,max=100"`
	Address   *string  `json:"address"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
}

type RegisterHospitalRequest struct {
	Email            string   `json:"email" validate:"required,email"`
	Password         string   `json:"password" validate:"required,min=8"`
	FullName         string   `json:"full_name" validate:"required,max=255"`
	Name             string   `json:"name" validate:"required,max=255"`
	Address          string   `json:"address" validate:"required"`
	City             string   `json:"city" validate:"required,max=100"`
	Phone            string   `json:"phone" validate:"required,max=20"`
	Latitude         *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude        *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	EmergencyContact *string  `json:"emergency_contact"`
}

type RegisterBloodBankRequest struct {
	Email          string   `json:"email" validate:"required,email"`
	Password       string   `json:"password" validate:"required,min=8"`
	FullName       string   `json:"full_name" validate:"required,max=255"`
	Name           string   `json:"name" validate:"required,max=255"`
	Address        string   `json:"address" validate:"required"`
	City           string   `json:"city" validate:"required,max=100"`
	Phone          string   `json:"phone" validate:"required,max=20"`
	Latitude       *float64 `json:"latitude" validate:"omitempty,gte=-90,lte=90"`
	Longitude      *float64 `json:"longitude" validate:"omitempty,gte=-180,lte=180"`
	OperatingHours *string  `json:"operating_hours"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Response DTOs

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}
