package inventory

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/AASani29/NutriAI-sub001/internal/domain"
	"github.com/AASani29/NutriAI-sub001/internal/pkg/dbctx"
	pkgerrors "github.com/AASani29/NutriAI-sub001/internal/pkg/errors"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
)

type InventoryRepo interface {
	Create(dbc dbctx.Context, inv *types.Inventory) (*types.Inventory, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Inventory, error)
	ListByOwner(dbc dbctx.Context, ownerUserID uuid.UUID) ([]*types.Inventory, error)
}

type inventoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInventoryRepo(db *gorm.DB, baseLog *logger.Logger) InventoryRepo {
	return &inventoryRepo{db: db, log: baseLog.With("repo", "InventoryRepo")}
}

func (r *inventoryRepo) Create(dbc dbctx.Context, inv *types.Inventory) (*types.Inventory, error) {
	if inv == nil {
		return nil, fmt.Errorf("inventory required: %w", pkgerrors.ErrInvalidArgument)
	}
	if err := dbc.DB(r.db).Create(inv).Error; err != nil {
		return nil, err
	}
	return inv, nil
}

func (r *inventoryRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Inventory, error) {
	var out types.Inventory
	err := dbc.DB(r.db).Where("id = ?", id).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("inventory %s: %w", id, pkgerrors.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *inventoryRepo) ListByOwner(dbc dbctx.Context, ownerUserID uuid.UUID) ([]*types.Inventory, error) {
	var results []*types.Inventory
	if err := dbc.DB(r.db).
		Where("owner_user_id = ?", ownerUserID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
