package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/AASani29/NutriAI-sub001/internal/data/repos"
	types "github.com/AASani29/NutriAI-sub001/internal/domain"
	"github.com/AASani29/NutriAI-sub001/internal/pkg/dbctx"
	pkgerrors "github.com/AASani29/NutriAI-sub001/internal/pkg/errors"
	"github.com/AASani29/NutriAI-sub001/internal/platform/apierr"
	"github.com/AASani29/NutriAI-sub001/internal/platform/logger"
	"github.com/AASani29/NutriAI-sub001/internal/weather"
)

type InventoryService interface {
	CreateInventory(ctx context.Context, userID uuid.UUID, in CreateInventoryInput) (*types.Inventory, error)
	ListInventories(ctx context.Context, userID uuid.UUID) ([]*types.Inventory, error)
	AddItem(ctx context.Context, userID, inventoryID uuid.UUID, in AddItemInput) (*types.InventoryItem, error)
	ListItems(ctx context.Context, userID, inventoryID uuid.UUID) ([]*types.InventoryItem, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
}

type CreateInventoryInput struct {
	Name     string `json:"name"`
	Location string `json:"location"`
}

type AddItemInput struct {
	Name       string          `json:"name"`
	Quantity   float64         `json:"quantity"`
	Unit       string          `json:"unit"`
	ExpiryDate *time.Time      `json:"expiry_date"`
	AddedAt    *time.Time      `json:"added_at"`
	Nutrition  json.RawMessage `json:"nutrition"`
}

type inventoryService struct {
	db       *gorm.DB
	log      *logger.Logger
	invRepo  repos.InventoryRepo
	itemRepo repos.InventoryItemRepo
}

func NewInventoryService(db *gorm.DB, log *logger.Logger, invRepo repos.InventoryRepo, itemRepo repos.InventoryItemRepo) InventoryService {
	return &inventoryService{
		db:       db,
		log:      log.With("service", "InventoryService"),
		invRepo:  invRepo,
		itemRepo: itemRepo,
	}
}

func (s *inventoryService) CreateInventory(ctx context.Context, userID uuid.UUID, in CreateInventoryInput) (*types.Inventory, error) {
	if userID == uuid.Nil {
		return nil, invalidArgument("user id required")
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidArgument("inventory name required")
	}
	location := ""
	if strings.TrimSpace(in.Location) != "" {
		loc, err := weather.ResolveLocation(in.Location)
		if err != nil {
			return nil, apierr.BadRequest(apierr.CodeInvalidLocation, err)
		}
		location = loc.Name
	}

	inv, err := s.invRepo.Create(dbctx.Context{Ctx: ctx}, &types.Inventory{
		OwnerUserID: userID,
		Name:        name,
		Location:    location,
	})
	if err != nil {
		return nil, fmt.Errorf("create inventory: %w", err)
	}
	s.log.Info("Inventory created", "user_id", userID.String(), "inventory_id", inv.ID.String())
	return inv, nil
}

func (s *inventoryService) ListInventories(ctx context.Context, userID uuid.UUID) ([]*types.Inventory, error) {
	return s.invRepo.ListByOwner(dbctx.Context{Ctx: ctx}, userID)
}

func (s *inventoryService) AddItem(ctx context.Context, userID, inventoryID uuid.UUID, in AddItemInput) (*types.InventoryItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalidArgument("item name required")
	}
	if in.Quantity < 0 {
		return nil, invalidArgument("quantity must not be negative")
	}
	var nutrition datatypes.JSON
	if len(in.Nutrition) > 0 && string(in.Nutrition) != "null" {
		if !json.Valid(in.Nutrition) {
			return nil, invalidArgument("nutrition must be valid JSON")
		}
		nutrition = datatypes.JSON(in.Nutrition)
	}

	item := &types.InventoryItem{
		InventoryID: inventoryID,
		UserID:      userID,
		Name:        name,
		Quantity:    in.Quantity,
		Unit:        strings.TrimSpace(in.Unit),
		Nutrition:   nutrition,
	}
	if in.ExpiryDate != nil {
		exp := in.ExpiryDate.UTC()
		item.ExpiryDate = &exp
	}
	if in.AddedAt != nil {
		item.AddedAt = in.AddedAt.UTC()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.ownedInventory(dbc, userID, inventoryID); err != nil {
			return err
		}
		_, err := s.itemRepo.Create(dbc, []*types.InventoryItem{item})
		return err
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *inventoryService) ListItems(ctx context.Context, userID, inventoryID uuid.UUID) ([]*types.InventoryItem, error) {
	dbc := dbctx.Context{Ctx: ctx}
	if _, err := s.ownedInventory(dbc, userID, inventoryID); err != nil {
		return nil, err
	}
	return s.itemRepo.ListByInventory(dbc, inventoryID)
}

func (s *inventoryService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	dbc := dbctx.Context{Ctx: ctx}
	item, err := s.itemRepo.GetByID(dbc, itemID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return apierr.NotFound(apierr.CodeItemNotFound, err)
		}
		return err
	}
	if item.UserID != userID {
		return apierr.NotFound(apierr.CodeItemNotFound, fmt.Errorf("inventory item %s: %w", itemID, pkgerrors.ErrNotFound))
	}
	if err := s.itemRepo.Remove(dbc, itemID); err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return apierr.NotFound(apierr.CodeItemNotFound, err)
		}
		return err
	}
	return nil
}

func (s *inventoryService) ownedInventory(dbc dbctx.Context, userID, inventoryID uuid.UUID) (*types.Inventory, error) {
	inv, err := s.invRepo.GetByID(dbc, inventoryID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrNotFound) {
			return nil, apierr.NotFound(apierr.CodeInventoryNotFound, err)
		}
		return nil, err
	}
	if inv.OwnerUserID != userID {
		return nil, apierr.NotFound(apierr.CodeInventoryNotFound, fmt.Errorf("inventory %s: %w", inventoryID, pkgerrors.ErrNotFound))
	}
	return inv, nil
}

func invalidArgument(msg string) error {
	return apierr.BadRequest(apierr.CodeInvalidArgument, fmt.Errorf("%s: %w", msg, pkgerrors.ErrInvalidArgument))
}
