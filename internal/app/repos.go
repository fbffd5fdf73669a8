package app

import (
	"gorm.io/gorm"

	"github.com/AASani29/NutriAI-sub001/internal/data/repos"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

type Repos struct {
	Inventory     repos.InventoryRepo
	InventoryItem repos.InventoryItemRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Inventory:     repos.NewInventoryRepo(db, log),
		InventoryItem: repos.NewInventoryItemRepo(db, log),
	}
}
