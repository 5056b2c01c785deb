package handler

import (
	"net/http"

	"github.com/sefedemircan/triz-pos/internal/apierror"
	"github.com/sefedemircan/triz-pos/internal/dto"
	"github.com/sefedemircan/triz-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type RecipesHandler struct{ svc service.RecipeService }

func NewRecipesHandler(svc service.RecipeService) *RecipesHandler { return &RecipesHandler{svc: svc} }

// Add godoc
// @Summary      Add ingredient to a product's recipe
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Product UUID"
// @Param        body body dto.CreateRecipeItemRequest true "Ingredient row"
// @Success      201  {object} dto.RecipeItemResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/products/{id}/recipe [post]
func (h *RecipesHandler) Add(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.CreateRecipeItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddRecipeItem(c.Request.Context(), productID, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// List godoc
// @Summary      List a product's recipe
// @Tags         recipes
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {array} dto.RecipeItemResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id}/recipe [get]
func (h *RecipesHandler) List(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	resp, err := h.svc.ListRecipe(c.Request.Context(), productID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Update godoc
// @Summary      Update a recipe row
// @Tags         recipes
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string true "Recipe row UUID"
// @Param        body body dto.UpdateRecipeItemRequest true "Fields to update"
// @Success      200  {object} dto.RecipeItemResponse
// @Failure      422  {object} apierror.APIError
// @Router       /v1/recipes/{id} [put]
func (h *RecipesHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	var req dto.UpdateRecipeItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateRecipeItem(c.Request.Context(), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Remove godoc
// @Summary      Remove a recipe row
// @Tags         recipes
// @Security     BearerAuth
// @Param        id path string true "Recipe row UUID"
// @Success      204
// @Router       /v1/recipes/{id} [delete]
func (h *RecipesHandler) Remove(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid ID"))
		return
	}
	if err := h.svc.RemoveRecipeItem(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
