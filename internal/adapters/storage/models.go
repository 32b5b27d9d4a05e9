package storage

import "time"

// SlotModel is the GORM model for the snapshot_slots table
type SlotModel struct {
	CreatedAt time.Time
	Data      []byte `gorm:"not null"`
	Name      string `gorm:"primaryKey"`
	Revision  int64  `gorm:"not null;default:0"`
	UpdatedAt time.Time
}

// TableName specifies the table name for GORM
func (SlotModel) TableName() string { return "snapshot_slots" }
