package entity

import "time"

// BloodInventory is the derived per-(bank, blood type) running total of batch
// units. It is a materialized view over blood_batches: its only legitimate
// writer is the resync triggered by a batch mutation. The manual override
// path bypasses batch-derived truth and is expected to be clobbered by the
// next resync.
type BloodInventory struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	BloodBankID uint      `gorm:"not null;uniqueIndex:idx_inventory_bank_type,priority:1" json:"blood_bank_id"`
	BloodType   BloodType `gorm:"type:varchar(3);not null;uniqueIndex:idx_inventory_bank_type,priority:2" json:"blood_type"`
	Units       int       `gorm:"not null;default:0;check:units >= 0" json:"units"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	// Relationships
	BloodBank BloodBank `gorm:"foreignKey:BloodBankID" json:"blood_bank,omitempty"`
}

func (BloodInventory) TableName() string {
	return "blood_inventory"
}
