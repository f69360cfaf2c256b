package models

import "time"

// Production is an internal production record, owned by the production
// management subsystem. The sync engine only reads it.
type Production struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	OrganizationID uint      `gorm:"not null;index" json:"organization_id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Production) TableName() string {
	return "productions"
}

// Show is one performance of a production, owned by the production
// management subsystem. The sync engine only reads it.
type Show struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductionID uint      `gorm:"not null;index" json:"production_id"`
	Name         string    `gorm:"size:255" json:"name"`
	OccursAt     time.Time `gorm:"not null;index" json:"occurs_at"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Show) TableName() string {
	return "shows"
}
