package domain

import "github.com/AASani29/NutriAI-sub001/internal/domain/inventory"

type Inventory = inventory.Inventory
type InventoryItem = inventory.InventoryItem

// Models lists every persisted type, in migration order.
func Models() []any {
	return []any{
		&inventory.Inventory{},
		&inventory.InventoryItem{},
	}
}
