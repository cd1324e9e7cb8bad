// internal/handlers/category.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

type CategoryHandler struct {
	store *store.Store
}

func NewCategoryHandler(st *store.Store) *CategoryHandler {
	return &CategoryHandler{store: st}
}

type CreateCategoryRequest struct {
	Name          string `json:"name" validate:"required"`
	Description   string `json:"description,omitempty"`
	BarcodePrefix string `json:"barcodePrefix,omitempty"`
}

// GET /categories
func (h *CategoryHandler) List(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"categories": h.store.Categories()})
}

// GET /categories/:id
func (h *CategoryHandler) Get(c *gin.Context) {
	category, ok := h.store.GetCategory(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, "Category")
		return
	}
	utils.SuccessResponse(c, category)
}

// POST /categories
func (h *CategoryHandler) Create(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	category := h.store.AddCategory(models.Category{
		Name:          req.Name,
		Description:   req.Description,
		BarcodePrefix: req.BarcodePrefix,
	})
	utils.CreatedResponse(c, category)
}

// PUT /categories/:id
func (h *CategoryHandler) Update(c *gin.Context) {
	var fields utils.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	category, ok := h.store.UpdateCategory(c.Param("id"), fields)
	if !ok {
		utils.NotFoundResponse(c, "Category")
		return
	}
	utils.SuccessResponse(c, category)
}

// DELETE /categories/:id
func (h *CategoryHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.store.RemoveCategory(id)
	utils.SuccessResponse(c, gin.H{"deleted": id})
}
