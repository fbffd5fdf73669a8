package inventory

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/AASani29/NutriAI-sub001/internal/domain"
	"github.com/AASani29/NutriAI-sub001/internal/pkg/dbctx"
	pkgerrors "github.com/AASani29/NutriAI-sub001/internal/pkg/errors"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

type InventoryItemRepo interface {
	Create(dbc dbctx.Context, items []*types.InventoryItem) ([]*types.InventoryItem, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.InventoryItem, error)
	ListByInventory(dbc dbctx.Context, inventoryID uuid.UUID) ([]*types.InventoryItem, error)
	// ListActiveByUser returns non-removed items with an expiry date at or after expiringAfter.
	ListActiveByUser(dbc dbctx.Context, userID uuid.UUID, expiringAfter time.Time) ([]*types.InventoryItem, error)
	ListActiveByInventory(dbc dbctx.Context, inventoryID uuid.UUID, expiringAfter time.Time) ([]*types.InventoryItem, error)
	Remove(dbc dbctx.Context, id uuid.UUID) error
}

type inventoryItemRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInventoryItemRepo(db *gorm.DB, baseLog *logger.Logger) InventoryItemRepo {
	return &inventoryItemRepo{db: db, log: baseLog.With("repo", "InventoryItemRepo")}
}

func (r *inventoryItemRepo) Create(dbc dbctx.Context, items []*types.InventoryItem) ([]*types.InventoryItem, error) {
	if len(items) == 0 {
		return []*types.InventoryItem{}, nil
	}
	if err := dbc.DB(r.db).Create(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *inventoryItemRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.InventoryItem, error) {
	var out types.InventoryItem
	err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("inventory item %s: %w", id, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *inventoryItemRepo) ListByInventory(dbc dbctx.Context, inventoryID uuid.UUID) ([]*types.InventoryItem, error) {
	var results []*types.InventoryItem
	if err := dbc.DB(r.db).
		Where("inventory_id = ?", inventoryID).
		Order("added_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *inventoryItemRepo) ListActiveByUser(dbc dbctx.Context, userID uuid.UUID, expiringAfter time.Time) ([]*types.InventoryItem, error) {
	var results []*types.InventoryItem
	if err := dbc.DB(r.db).
		Where("user_id = ?", userID).
		Where("expiry_date IS NOT NULL AND expiry_date >= ?", expiringAfter.UTC()).
		Order("expiry_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *inventoryItemRepo) ListActiveByInventory(dbc dbctx.Context, inventoryID uuid.UUID, expiringAfter time.Time) ([]*types.InventoryItem, error) {
	var results []*types.InventoryItem
	if err := dbc.DB(r.db).
		Where("inventory_id = ?", inventoryID).
		Where("expiry_date IS NOT NULL AND expiry_date >= ?", expiringAfter.UTC()).
		Order("expiry_date ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *inventoryItemRepo) Remove(dbc dbctx.Context, id uuid.UUID) error {
	res := dbc.DB(r.db).Where("id = ?", id).Delete(&types.InventoryItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("inventory item %s: %w", id, pkgerrors.ErrNotFound)
	}
	return nil
}
