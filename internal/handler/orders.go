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

type OrdersHandler struct{ svc service.OrderService }

func NewOrdersHandler(svc service.OrderService) *OrdersHandler { return &OrdersHandler{svc: svc} }

// Create godoc
// @Summary      Open an order on a table
// @Description  Creates the order and deducts ingredient stock in one transaction. Fails with 409 and the shortfall list when stock cannot cover the order.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateOrderRequest true "Order lines"
// @Success      201  {object} dto.OrderResponse
// @Failure      409  {object} apierror.APIError
// @Router       /v1/orders [post]
func (h *OrdersHandler) Create(c *gin.Context) {
	var req dto.CreateOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	resp, err := h.svc.CreateOrder(c.Request.Context(), userID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        status   query string false "active | ready | completed | cancelled"
// @Param        table_id query string false "Table UUID"
// @Param        page     query int    false "Page (default 1)"
// @Param        limit    query int    false "Page size (default 50)"
// @Success      200 {object} dto.OrderListResponse
// @Router       /v1/orders [get]
func (h *OrdersHandler) List(c *gin.Context) {
	var filter dto.OrderFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.ListOrders(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list orders"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      200 {object} dto.OrderResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/orders/{id} [get]
func (h *OrdersHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetOrder(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CheckStock godoc
// @Summary      Pre-flight availability check
// @Description  Answers whether the given lines could be fulfilled right now. Read-only and advisory — the order transaction re-checks under locks.
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.StockCheckRequest true "Prospective order lines"
// @Success      200  {object} dto.StockCheckResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/orders/check-stock [post]
func (h *OrdersHandler) CheckStock(c *gin.Context) {
	var req dto.StockCheckRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CheckStock(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// MarkReady godoc
// @Summary      Mark order ready (kitchen)
// @Tags         orders
// @Security     BearerAuth
// @Param        id path string true "Order UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/orders/{id}/ready [patch]
func (h *OrdersHandler) MarkReady(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.MarkReady(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Complete godoc
// @Summary      Complete order and capture payment
// @Tags         orders
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string true "Order UUID"
// @Param        body body dto.CompleteOrderRequest true "Payment method"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/orders/{id}/complete [patch]
func (h *OrdersHandler) Complete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.CompleteOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.CompleteOrder(c.Request.Context(), id, req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Cancel godoc
// @Summary      Cancel order and restore stock
// @Description  Restores every ingredient deducted for this order and frees the table. Idempotent — cancelling twice is a no-op.
// @Tags         orders
// @Accept       json
// @Security     BearerAuth
// @Param        id   path string true "Order UUID"
// @Param        body body dto.CancelOrderRequest true "Cancellation reason"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/orders/{id} [delete]
func (h *OrdersHandler) Cancel(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.CancelOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}
	claims := middleware.GetClaims(c)
	userID, _ := uuid.Parse(claims.UserID)

	if err := h.svc.CancelOrder(c.Request.Context(), id, userID, req); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
