// internal/handlers/invoice.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/services"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

type InvoiceHandler struct {
	store          *store.Store
	invoiceService *services.InvoiceService
}

func NewInvoiceHandler(st *store.Store, invoiceService *services.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		store:          st,
		invoiceService: invoiceService,
	}
}

// GET /invoices
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices := h.store.Invoices()

	if customerID := c.Query("customerId"); customerID != "" {
		filtered := make([]models.Invoice, 0, len(invoices))
		for _, inv := range invoices {
			if inv.CustomerID == customerID {
				filtered = append(filtered, inv)
			}
		}
		invoices = filtered
	}

	utils.SuccessResponse(c, gin.H{"invoices": invoices})
}

// GET /invoices/:id
func (h *InvoiceHandler) Get(c *gin.Context) {
	invoice, ok := h.store.GetInvoice(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, "Invoice")
		return
	}
	utils.SuccessResponse(c, gin.H{
		"invoice":      invoice,
		"customerName": h.invoiceService.CustomerDisplayName(invoice),
	})
}

// POST /invoices
func (h *InvoiceHandler) Create(c *gin.Context) {
	var req services.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	invoice, err := h.invoiceService.Create(&req)
	if err != nil {
		var validationErrs validator.ValidationErrors
		switch {
		case errors.As(err, &validationErrs):
			utils.ValidationErrorResponse(c, utils.GetValidationErrors(err))
		case errors.Is(err, services.ErrCustomerNotFound),
			errors.Is(err, services.ErrProductNotFound),
			errors.Is(err, services.ErrVariantNotFound):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}
	utils.CreatedResponse(c, invoice)
}

// PUT /invoices/:id
func (h *InvoiceHandler) Update(c *gin.Context) {
	var fields utils.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	invoice, ok := h.store.UpdateInvoice(c.Param("id"), fields)
	if !ok {
		utils.NotFoundResponse(c, "Invoice")
		return
	}
	utils.SuccessResponse(c, invoice)
}

// DELETE /invoices/:id
func (h *InvoiceHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.store.RemoveInvoice(id)
	utils.SuccessResponse(c, gin.H{"deleted": id})
}
