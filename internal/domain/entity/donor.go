package entity

import (
	"time"

	"github.com/google/uuid"
)

// Donor represents a registered blood donor
type Donor struct {
	ID           uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	BloodType    BloodType  `gorm:"type:varchar(3);not null;index" json:"blood_type"`
	Phone        string     `gorm:"type:varchar(20);not null" json:"phone"`
	Email        *string    `gorm:"type:varchar(255)" json:"email,omitempty"`
	City         string     `gorm:"type:varchar(100);not null;index" json:"city"`
	Address      *string    `gorm:"type:text" json:"address,omitempty"`
	// No column default here: gorm skips zero-valued fields on insert when
	// the column carries one, which would silently flip false to true.
	Available    bool       `gorm:"not null;index" json:"available"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	LastDonation *time.Time `gorm:"type:date" json:"last_donation,omitempty"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Donor) TableName() string {
	return "donors"
}

// HasCoordinates reports whether the donor has a geocoded location
func (d *Donor) HasCoordinates() bool {
	return d.Latitude != nil && d.Longitude != nil
}

// DonorStats is the aggregate view over registered donors
type DonorStats struct {
	Total     int64            `json:"total"`
	Available int64            `json:"available"`
	ByType    map[string]int64 `json:"byType"`
}
