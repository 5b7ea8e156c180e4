// internal/handlers/inventory.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/javajoker/brewhouse-backend/internal/apperrors"
	"github.com/javajoker/brewhouse-backend/internal/i18n"
	"github.com/javajoker/brewhouse-backend/internal/services"
	"github.com/javajoker/brewhouse-backend/internal/utils"
)

type InventoryHandler struct {
	inventoryService *services.InventoryService
}

func NewInventoryHandler(inventoryService *services.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
	}
}

// POST /inventory/:productId/operations
func (h *InventoryHandler) ApplyOperation(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	productID, ok := uuidParam(c, "productId", "product")
	if !ok {
		return
	}

	operatorID, _, ok := currentUser(c)
	if !ok {
		return
	}

	var req services.ApplyOperationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	record, err := h.inventoryService.ApplyOperation(c.Request.Context(), productID, operatorID, &req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyInventoryApplied),
		"record":  record,
	})
}

// GET /inventory/:productId/history
func (h *InventoryHandler) GetHistory(c *gin.Context) {
	productID, ok := uuidParam(c, "productId", "product")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	entries, total, err := h.inventoryService.GetHistory(c.Request.Context(), productID, params)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(entries, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /inventory/:productId/verify
func (h *InventoryHandler) VerifyLedger(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	productID, ok := uuidParam(c, "productId", "product")
	if !ok {
		return
	}

	report, err := h.inventoryService.VerifyLedger(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, apperrors.ErrDataIntegrity) {
			utils.ErrorResponse(c, http.StatusConflict, string(apperrors.KindDataIntegrity),
				i18n.T(lang, i18n.KeyInventoryMismatch), report)
			return
		}
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyInventoryConsistent),
		"report":  report,
	})
}

// POST /admin/inventory/audit
func (h *InventoryHandler) AuditAll(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	failures, err := h.inventoryService.AuditAll(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message":    i18n.T(lang, i18n.KeyInventoryAuditDone),
		"consistent": len(failures) == 0,
		"failures":   failures,
	})
}
