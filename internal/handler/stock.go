package handler

import (
	"net/http"

	"github.com/sefedemircan/triz-pos/internal/apierror"
	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/middleware"
	"github.com/sefedemircan/triz-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockHandler exposes the inventory surface: items, categories, the movement
// ledger, alerts, and the critical-items report.
type StockHandler struct {
	inventory service.InventoryService
	stock     service.StockService
}

func NewStockHandler(inventory service.InventoryService, stock service.StockService) *StockHandler {
	return &StockHandler{inventory: inventory, stock: stock}
}

// ── Items ────────────────────────────────────────────────────────────────────

// CreateItem godoc
// @Summary      Create stock item
// @Description  Registers an inventory item. A non-zero opening stock is journaled as an "in" movement.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateStockItemRequest true "Stock item"
// @Success      201  {object} dto.StockItemResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/stock/items [post]
func (h *StockHandler) CreateItem(c *gin.Context) {
	var req dto.CreateStockItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.inventory.CreateStockItem(c.Request.Context(), req, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListItems godoc
// @Summary      List stock items
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        name        query string false "Name search (ILIKE)"
// @Param        category_id query string false "Stock category UUID"
// @Param        active      query string false "false | all (default: active only)"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Page size (default 50)"
// @Success      200 {object} dto.StockItemListResponse
// @Router       /v1/stock/items [get]
func (h *StockHandler) ListItems(c *gin.Context) {
	var filter dto.StockItemFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.inventory.ListStockItems(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list stock items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetItem godoc
// @Summary      Get one stock item
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Stock item UUID"
// @Success      200 {object} dto.StockItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/stock/items/{id} [get]
func (h *StockHandler) GetItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.inventory.GetStockItem(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateItem godoc
// @Summary      Update stock item metadata
// @Description  Updates descriptive fields and thresholds. Quantity changes must go through the movements endpoint.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Stock item UUID"
// @Param        body body dto.UpdateStockItemRequest true "Fields to update"
// @Success      200  {object} dto.StockItemResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/stock/items/{id} [put]
func (h *StockHandler) UpdateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateStockItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.inventory.UpdateStockItem(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeactivateItem godoc
// @Summary      Deactivate stock item
// @Tags         stock
// @Security     BearerAuth
// @Param        id path string true "Stock item UUID"
// @Success      204
// @Router       /v1/stock/items/{id} [delete]
func (h *StockHandler) DeactivateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.inventory.DeactivateStockItem(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReactivateItem godoc
// @Summary      Reactivate stock item
// @Tags         stock
// @Security     BearerAuth
// @Param        id path string true "Stock item UUID"
// @Success      204
// @Router       /v1/stock/items/{id}/reactivate [patch]
func (h *StockHandler) ReactivateItem(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.inventory.ReactivateStockItem(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Categories ───────────────────────────────────────────────────────────────

// CreateCategory godoc
// @Summary      Create stock category
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateStockCategoryRequest true "Stock category"
// @Success      201  {object} dto.StockCategoryResponse
// @Router       /v1/stock/categories [post]
func (h *StockHandler) CreateCategory(c *gin.Context) {
	var req dto.CreateStockCategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.inventory.CreateStockCategory(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCategories godoc
// @Summary      List stock categories
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StockCategoryResponse
// @Router       /v1/stock/categories [get]
func (h *StockHandler) ListCategories(c *gin.Context) {
	resp, err := h.inventory.ListStockCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list stock categories"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Movements ────────────────────────────────────────────────────────────────

// RecordMovement godoc
// @Summary      Record a manual stock movement
// @Description  Registers a purchase receipt, waste, or inventory count. "in"/"out" apply the quantity as a delta; "adjustment" sets stock to the counted level. Outbound movements that would drive stock negative are rejected with 409.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecordMovementRequest true "Movement"
// @Success      201  {object} dto.MovementResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/stock/movements [post]
func (h *StockHandler) RecordMovement(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.stock.RecordMovement(c.Request.Context(), req, userID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListMovements godoc
// @Summary      List the movement ledger
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        stock_item_id  query string false "Stock item UUID"
// @Param        type           query string false "in | out | adjustment"
// @Param        reference_type query string false "order | purchase | manual | usage | waste | expired | return | transfer | order_cancel"
// @Param        page           query int    false "Page (default 1)"
// @Param        limit          query int    false "Page size (default 100)"
// @Success      200 {object} dto.MovementListResponse
// @Router       /v1/stock/movements [get]
func (h *StockHandler) ListMovements(c *gin.Context) {
	var filter dto.MovementFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.inventory.ListMovements(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list movements"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ── Alerts / reports ─────────────────────────────────────────────────────────

// CriticalItems godoc
// @Summary      Items at or below their minimum level
// @Description  Sorted lowest stock first; is_critical marks items at zero.
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.StockRequirement
// @Router       /v1/stock/critical [get]
func (h *StockHandler) CriticalItems(c *gin.Context) {
	resp, err := h.stock.CriticalItems(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list critical items"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAlerts godoc
// @Summary      List open stock alerts
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        include_acknowledged query bool false "Include acknowledged alerts"
// @Success      200 {array} dto.StockAlertResponse
// @Router       /v1/stock/alerts [get]
func (h *StockHandler) ListAlerts(c *gin.Context) {
	includeAcknowledged := c.Query("include_acknowledged") == "true"
	resp, err := h.inventory.ListAlerts(c.Request.Context(), includeAcknowledged)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list alerts"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AcknowledgeAlert godoc
// @Summary      Acknowledge a stock alert
// @Tags         stock
// @Security     BearerAuth
// @Param        id path string true "Alert UUID"
// @Success      204
// @Router       /v1/stock/alerts/{id}/acknowledge [patch]
func (h *StockHandler) AcknowledgeAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	if err := h.inventory.AcknowledgeAlert(c.Request.Context(), id, userID); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
