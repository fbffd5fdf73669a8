package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InventoryItem is a single food entry. A soft-deleted item counts as removed
// (consumed, discarded or shared) and is never considered for alerts.
type InventoryItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	InventoryID uuid.UUID `gorm:"type:uuid;not null;index;column:inventory_id" json:"inventory_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`

	Name     string  `gorm:"not null;column:name" json:"name"`
	Quantity float64 `gorm:"column:quantity" json:"quantity"`
	Unit     string  `gorm:"column:unit" json:"unit,omitempty"`

	ExpiryDate *time.Time `gorm:"column:expiry_date;index" json:"expiry_date,omitempty"`
	AddedAt    time.Time  `gorm:"column:added_at;not null" json:"added_at"`

	// Nutrition per unit as reported by the food lookup at insert time.
	Nutrition datatypes.JSON `gorm:"column:nutrition" json:"nutrition,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (InventoryItem) TableName() string { return "inventory_item" }

func (it *InventoryItem) BeforeCreate(tx *gorm.DB) error {
	if it.ID == uuid.Nil {
		it.ID = uuid.New()
	}
	if it.AddedAt.IsZero() {
		it.AddedAt = time.Now().UTC()
	}
	return nil
}
