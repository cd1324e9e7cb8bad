// internal/handlers/attribute.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

type AttributeHandler struct {
	store *store.Store
}

func NewAttributeHandler(st *store.Store) *AttributeHandler {
	return &AttributeHandler{store: st}
}

type CreateAttributeRequest struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values,omitempty"`
}

type AddAttributeValueRequest struct {
	Value string `json:"value" validate:"required"`
}

// GET /attributes
func (h *AttributeHandler) List(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"attributes": h.store.Attributes()})
}

// GET /attributes/:id
func (h *AttributeHandler) Get(c *gin.Context) {
	attribute, ok := h.store.GetAttribute(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, "Attribute")
		return
	}
	utils.SuccessResponse(c, attribute)
}

// POST /attributes
func (h *AttributeHandler) Create(c *gin.Context) {
	var req CreateAttributeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	attribute := h.store.AddAttribute(models.Attribute{
		Name:   req.Name,
		Values: req.Values,
	})
	utils.CreatedResponse(c, attribute)
}

// PUT /attributes/:id
func (h *AttributeHandler) Update(c *gin.Context) {
	var fields utils.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	attribute, ok := h.store.UpdateAttribute(c.Param("id"), fields)
	if !ok {
		utils.NotFoundResponse(c, "Attribute")
		return
	}
	utils.SuccessResponse(c, attribute)
}

// POST /attributes/:id/values. The catalog's value set is append-only;
// growing it is an ordinary mutation that syncs like any other field.
func (h *AttributeHandler) AddValue(c *gin.Context) {
	var req AddAttributeValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	attribute, ok := h.store.GetAttribute(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, "Attribute")
		return
	}

	for _, v := range attribute.Values {
		if v == req.Value {
			utils.ConflictResponse(c, "Value already exists")
			return
		}
	}

	updated, _ := h.store.UpdateAttribute(attribute.ID, utils.Fields{
		"values": append(attribute.Values, req.Value),
	})
	utils.SuccessResponse(c, updated)
}

// DELETE /attributes/:id
func (h *AttributeHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.store.RemoveAttribute(id)
	utils.SuccessResponse(c, gin.H{"deleted": id})
}
