package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/AASani29/NutriAI-sub001/internal/data/repos"
	"github.com/AASani29/NutriAI-sub001/internal/data/repos/testutil"
	pkgerrors "github.com/AASani29/NutriAI-sub001/internal/pkg/errors"
	"github.com/AASani29/NutriAI-sub001/internal/platform/apierr"
)

func newInventoryService(t *testing.T) InventoryService {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)
	return NewInventoryService(db, log, repos.NewInventoryRepo(db, log), repos.NewInventoryItemRepo(db, log))
}

func TestInventoryServiceLifecycle(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()

	inv, err := svc.CreateInventory(ctx, owner, CreateInventoryInput{Name: " Fridge ", Location: "sylhet"})
	if err != nil {
		t.Fatalf("CreateInventory: %v", err)
	}
	if inv.Name != "Fridge" || inv.Location != "SYLHET" || inv.OwnerUserID != owner {
		t.Fatalf("unexpected inventory %+v", inv)
	}

	expiry := time.Now().Add(72 * time.Hour)
	item, err := svc.AddItem(ctx, owner, inv.ID, AddItemInput{
		Name:       "Hilsa Fish",
		Quantity:   2,
		Unit:       "kg",
		ExpiryDate: &expiry,
		Nutrition:  json.RawMessage(`{"calories":310}`),
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if item.ID == uuid.Nil || item.AddedAt.IsZero() || item.ExpiryDate == nil || item.UserID != owner {
		t.Fatalf("unexpected item %+v", item)
	}

	items, err := svc.ListItems(ctx, owner, inv.ID)
	if err != nil {
		t.Fatalf("ListItems: %v", err)
	}
	if len(items) != 1 || items[0].Name != "Hilsa Fish" || string(items[0].Nutrition) != `{"calories":310}` {
		t.Fatalf("unexpected items %+v", items)
	}

	if _, err := svc.ListItems(ctx, stranger, inv.ID); apierr.From(err).Code != apierr.CodeInventoryNotFound {
		t.Fatalf("stranger ListItems: expected INVENTORY_NOT_FOUND, got %v", err)
	}
	if _, err := svc.AddItem(ctx, stranger, inv.ID, AddItemInput{Name: "Milk"}); apierr.From(err).Code != apierr.CodeInventoryNotFound {
		t.Fatalf("stranger AddItem: expected INVENTORY_NOT_FOUND, got %v", err)
	}
	if err := svc.RemoveItem(ctx, stranger, item.ID); apierr.From(err).Code != apierr.CodeItemNotFound {
		t.Fatalf("stranger RemoveItem: expected ITEM_NOT_FOUND, got %v", err)
	}

	if err := svc.RemoveItem(ctx, owner, item.ID); err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	items, err = svc.ListItems(ctx, owner, inv.ID)
	if err != nil || len(items) != 0 {
		t.Fatalf("removed item still listed: %v %v", items, err)
	}
	err = svc.RemoveItem(ctx, owner, item.ID)
	if ae := apierr.From(err); ae.Status != http.StatusNotFound || ae.Code != apierr.CodeItemNotFound {
		t.Fatalf("second RemoveItem: expected ITEM_NOT_FOUND, got %v", err)
	}

	invs, err := svc.ListInventories(ctx, owner)
	if err != nil || len(invs) != 1 {
		t.Fatalf("ListInventories: %v %v", invs, err)
	}
}

func TestInventoryServiceValidation(t *testing.T) {
	svc := newInventoryService(t)
	ctx := context.Background()
	owner := uuid.New()

	cases := []struct {
		name string
		err  error
		code string
	}{
		{"missing inventory name", second(svc.CreateInventory(ctx, owner, CreateInventoryInput{Name: "  "})), apierr.CodeInvalidArgument},
		{"nil owner", second(svc.CreateInventory(ctx, uuid.Nil, CreateInventoryInput{Name: "Pantry"})), apierr.CodeInvalidArgument},
		{"bad location", second(svc.CreateInventory(ctx, owner, CreateInventoryInput{Name: "Pantry", Location: "ATLANTIS"})), apierr.CodeInvalidLocation},
		{"missing item name", second(svc.AddItem(ctx, owner, uuid.New(), AddItemInput{})), apierr.CodeInvalidArgument},
		{"negative quantity", second(svc.AddItem(ctx, owner, uuid.New(), AddItemInput{Name: "Rice", Quantity: -1})), apierr.CodeInvalidArgument},
		{"bad nutrition", second(svc.AddItem(ctx, owner, uuid.New(), AddItemInput{Name: "Rice", Nutrition: json.RawMessage(`{`)})), apierr.CodeInvalidArgument},
		{"unknown inventory", second(svc.AddItem(ctx, owner, uuid.New(), AddItemInput{Name: "Rice"})), apierr.CodeInventoryNotFound},
	}
	for _, tc := range cases {
		if tc.err == nil {
			t.Errorf("%s: expected error", tc.name)
			continue
		}
		if got := apierr.From(tc.err).Code; got != tc.code {
			t.Errorf("%s: code %s want %s (%v)", tc.name, got, tc.code, tc.err)
		}
	}
	if err := second(svc.CreateInventory(ctx, owner, CreateInventoryInput{Name: ""})); !errors.Is(err, pkgerrors.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument in chain, got %v", err)
	}
}

func second[T any](_ T, err error) error { return err }
