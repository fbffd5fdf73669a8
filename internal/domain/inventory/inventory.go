package inventory

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory is a household food store (a fridge, a pantry) owned by one user.
type Inventory struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerUserID uuid.UUID `gorm:"type:uuid;not null;index;column:owner_user_id" json:"owner_user_id"`
	Name        string    `gorm:"not null;column:name" json:"name"`
	// Location is the default weather location key for this inventory (e.g. DHAKA).
	Location string `gorm:"column:location" json:"location,omitempty"`

	CreatedAt time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Inventory) TableName() string { return "inventory" }

func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
