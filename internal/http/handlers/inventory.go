package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AASani29/NutriAI-sub001/internal/http/response"
	"github.com/AASani29/NutriAI-sub001/internal/services"
)

type InventoryHandler struct {
	inventory services.InventoryService
}

func NewInventoryHandler(inventory services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventory: inventory}
}

// POST /api/users/:userId/inventories
func (h *InventoryHandler) CreateInventory(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var in services.CreateInventoryInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondAPIError(c, badBody(err))
		return
	}
	inv, err := h.inventory.CreateInventory(c.Request.Context(), userID, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"inventory": inv})
}

// GET /api/users/:userId/inventories
func (h *InventoryHandler) ListInventories(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	list, err := h.inventory.ListInventories(c.Request.Context(), userID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"inventories": list})
}

// POST /api/users/:userId/inventories/:inventoryId/items
func (h *InventoryHandler) AddItem(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	inventoryID, err := uuidParam(c, "inventoryId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	var in services.AddItemInput
	if err := c.ShouldBindJSON(&in); err != nil {
		response.RespondAPIError(c, badBody(err))
		return
	}
	item, err := h.inventory.AddItem(c.Request.Context(), userID, inventoryID, in)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"item": item})
}

// GET /api/users/:userId/inventories/:inventoryId/items
func (h *InventoryHandler) ListItems(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	inventoryID, err := uuidParam(c, "inventoryId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	items, err := h.inventory.ListItems(c.Request.Context(), userID, inventoryID)
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"items": items})
}

// DELETE /api/users/:userId/items/:itemId
func (h *InventoryHandler) RemoveItem(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	itemID, err := uuidParam(c, "itemId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	if err := h.inventory.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
		response.RespondAPIError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
