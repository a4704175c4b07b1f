package entity

import (
	"time"

	"github.com/google/uuid"
)

// Hospital represents a hospital that raises blood requests
type Hospital struct {
	ID               uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name             string     `gorm:"type:varchar(255);not null" json:"name"`
	Address          string     `gorm:"type:text;not null" json:"address"`
	City             string     `gorm:"type:varchar(100);not null;index" json:"city"`
	Phone            string     `gorm:"type:varchar(20);not null" json:"phone"`
	Email            *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Latitude         *float64   `json:"latitude,omitempty"`
	Longitude        *float64   `json:"longitude,omitempty"`
	EmergencyContact *string    `gorm:"type:varchar(255)" json:"emergency_contact,omitempty"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Hospital) TableName() string {
	return "hospitals"
}

// CityCount is one row of the hospitals-per-city aggregate
type CityCount struct {
	City  string `json:"city"`
	Count int64  `json:"count"`
}

// HospitalStats is the aggregate view over registered hospitals
type HospitalStats struct {
	Total  int64       `json:"total"`
	ByCity []CityCount `json:"byCity"`
}
