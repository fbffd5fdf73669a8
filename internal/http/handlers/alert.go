package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/AASani29/NutriAI-sub001/internal/alerts"
	"github.com/AASani29/NutriAI-sub001/internal/http/response"
)

type AlertHandler struct {
	alerts alerts.Service
}

func NewAlertHandler(alerts alerts.Service) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// GET /api/users/:userId/alerts?location=
func (h *AlertHandler) ListUserAlerts(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	list, err := h.alerts.GenerateForUser(c.Request.Context(), userID, c.Query("location"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alerts": list, "count": len(list)})
}

// GET /api/users/:userId/alerts/stats?location=
func (h *AlertHandler) GetStats(c *gin.Context) {
	userID, err := uuidParam(c, "userId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	stats, err := h.alerts.Statistics(c.Request.Context(), userID, c.Query("location"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}

// GET /api/users/:userId/inventories/:inventoryId/alerts?location=
func (h *AlertHandler) ListInventoryAlerts(c *gin.Context) {
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
	list, err := h.alerts.GenerateForInventory(c.Request.Context(), userID, inventoryID, c.Query("location"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"alerts": list, "count": len(list)})
}

// GET /api/items/:itemId/urgency?location=
func (h *AlertHandler) CheckItemUrgency(c *gin.Context) {
	itemID, err := uuidParam(c, "itemId")
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	res, err := h.alerts.CheckItemUrgency(c.Request.Context(), itemID, c.Query("location"))
	if err != nil {
		response.RespondAPIError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"urgency": res})
}
