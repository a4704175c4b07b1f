package entity

import "time"

// BloodBatch is a discrete lot of blood units with its own expiry date,
// held by exactly one blood bank. A bank may hold many batches per type.
// Every batch mutation must be followed by an inventory resync for the
// batch's (bank, blood type) pair.
type BloodBatch struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BloodBankID uint      `gorm:"not null;index:idx_batches_bank_type_expiry,priority:1" json:"blood_bank_id"`
	BloodType   BloodType `gorm:"type:varchar(3);not null;index:idx_batches_bank_type_expiry,priority:2" json:"blood_type"`
	Units       int       `gorm:"not null;check:units >= 0" json:"units"`
	ExpiryDate  time.Time `gorm:"type:date;not null;index:idx_batches_bank_type_expiry,priority:3" json:"expiry_date"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	BloodBank BloodBank `gorm:"foreignKey:BloodBankID" json:"blood_bank,omitempty"`
}

func (BloodBatch) TableName() string {
	return "blood_batches"
}
