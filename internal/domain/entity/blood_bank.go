package entity

import (
	"time"

	"github.com/google/uuid"
)

// BloodBank represents a blood bank holding batches of blood units
type BloodBank struct {
	ID             uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name           string     `gorm:"type:varchar(255);not null" json:"name"`
	Address        string     `gorm:"type:text;not null" json:"address"`
	City           string     `gorm:"type:varchar(100);not null;index" json:"city"`
	Phone          string     `gorm:"type:varchar(20);not null" json:"phone"`
	Email          *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	Latitude       *float64   `json:"latitude,omitempty"`
	Longitude      *float64   `json:"longitude,omitempty"`
	OperatingHours *string    `gorm:"type:varchar(255)" json:"operating_hours,omitempty"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User      *User           `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Batches   []BloodBatch    `gorm:"foreignKey:BloodBankID" json:"batches,omitempty"`
	Inventory []BloodInventory `gorm:"foreignKey:BloodBankID" json:"inventory,omitempty"`
}

func (BloodBank) TableName() string {
	return "blood_banks"
}
