package handler

import (
	"net/http"

	"github.com/sefedemircan/triz-pos/internal/apierror"
	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type TablesHandler struct{ svc service.TableService }

func NewTablesHandler(svc service.TableService) *TablesHandler { return &TablesHandler{svc: svc} }

// Create godoc
// @Summary      Create table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateTableRequest true "Table"
// @Success      201  {object} dto.TableResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/tables [post]
func (h *TablesHandler) Create(c *gin.Context) {
	var req dto.CreateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateTable(c.Request.Context(), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List tables with their open orders
// @Tags         tables
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.TableResponse
// @Router       /v1/tables [get]
func (h *TablesHandler) List(c *gin.Context) {
	resp, err := h.svc.ListTables(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to list tables"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Get godoc
// @Summary      Get one table
// @Tags         tables
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Table UUID"
// @Success      200 {object} dto.TableResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/tables/{id} [get]
func (h *TablesHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.GetTable(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update table
// @Tags         tables
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Table UUID"
// @Param        body body dto.UpdateTableRequest true "Fields to update"
// @Success      200  {object} dto.TableResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/tables/{id} [put]
func (h *TablesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateTableRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateTable(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Delete godoc
// @Summary      Delete table
// @Tags         tables
// @Security     BearerAuth
// @Param        id path string true "Table UUID"
// @Success      204
// @Failure      409 {object} apierror.APIError
// @Router       /v1/tables/{id} [delete]
func (h *TablesHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.DeleteTable(c.Request.Context(), id); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
