package repos

import (
	"github.com/AASani29/NutriAI-sub001/internal/data/repos/inventory"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
	"gorm.io/gorm"
)

type InventoryRepo = inventory.InventoryRepo
type InventoryItemRepo = inventory.InventoryItemRepo

func NewInventoryRepo(db *gorm.DB, baseLog *logger.Logger) InventoryRepo {
	return inventory.NewInventoryRepo(db, baseLog)
}
func NewInventoryItemRepo(db *gorm.DB, baseLog *logger.Logger) InventoryItemRepo {
	return inventory.NewInventoryItemRepo(db, baseLog)
}
