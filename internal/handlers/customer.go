// internal/handlers/customer.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

type CustomerHandler struct {
	store *store.Store
}

func NewCustomerHandler(st *store.Store) *CustomerHandler {
	return &CustomerHandler{store: st}
}

type CreateCustomerRequest struct {
	Name    string `json:"name" validate:"required"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// GET /customers
func (h *CustomerHandler) List(c *gin.Context) {
	utils.SuccessResponse(c, gin.H{"customers": h.store.Customers()})
}

// GET /customers/:id
func (h *CustomerHandler) Get(c *gin.Context) {
	customer, ok := h.store.GetCustomer(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, "Customer")
		return
	}
	utils.SuccessResponse(c, customer)
}

// POST /customers
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	customer := h.store.AddCustomer(models.Customer{
		Name:    req.Name,
		Phone:   req.Phone,
		Address: req.Address,
	})
	utils.CreatedResponse(c, customer)
}

// PUT /customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	var fields utils.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	customer, ok := h.store.UpdateCustomer(c.Param("id"), fields)
	if !ok {
		utils.NotFoundResponse(c, "Customer")
		return
	}
	utils.SuccessResponse(c, customer)
}

// DELETE /customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	// Customers with invoice history are kept; the denormalized snapshot on
	// invoices is not a substitute for the record in the customer list.
	for _, inv := range h.store.Invoices() {
		if inv.CustomerID == id {
			utils.ConflictResponse(c, "Customer has invoices and cannot be deleted")
			return
		}
	}

	h.store.RemoveCustomer(id)
	utils.SuccessResponse(c, gin.H{"deleted": id})
}
