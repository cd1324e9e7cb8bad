// internal/handlers/product.go
package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/services"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

type ProductHandler struct {
	store          *store.Store
	productService *services.ProductService
}

func NewProductHandler(st *store.Store, productService *services.ProductService) *ProductHandler {
	return &ProductHandler{
		store:          st,
		productService: productService,
	}
}

type CreateProductRequest struct {
	Name               string                     `json:"name" validate:"required"`
	BasePrice          float64                    `json:"basePrice" validate:"gte=0"`
	SalePrice          float64                    `json:"salePrice,omitempty" validate:"gte=0"`
	Barcode            string                     `json:"barcode,omitempty"`
	CategoryID         string                     `json:"categoryId,omitempty"`
	SelectedAttributes []models.SelectedAttribute `json:"selectedAttributes,omitempty"`
	Variants           []models.Variant           `json:"variants,omitempty"`
}

// GET /products
func (h *ProductHandler) List(c *gin.Context) {
	products := h.store.Products()

	if categoryID := c.Query("categoryId"); categoryID != "" {
		filtered := make([]models.Product, 0, len(products))
		for _, p := range products {
			if p.CategoryID == categoryID {
				filtered = append(filtered, p)
			}
		}
		products = filtered
	}

	utils.SuccessResponse(c, gin.H{"products": products})
}

// GET /products/:id
func (h *ProductHandler) Get(c *gin.Context) {
	product, ok := h.store.GetProduct(c.Param("id"))
	if !ok {
		utils.NotFoundResponse(c, "Product")
		return
	}
	utils.SuccessResponse(c, product)
}

// POST /products
func (h *ProductHandler) Create(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	barcode := req.Barcode
	if barcode == "" {
		barcode = h.productService.GenerateBarcode(req.CategoryID)
	}

	product := h.store.AddProduct(models.Product{
		Name:               req.Name,
		BasePrice:          req.BasePrice,
		SalePrice:          req.SalePrice,
		Barcode:            barcode,
		CategoryID:         req.CategoryID,
		SelectedAttributes: req.SelectedAttributes,
		Variants:           req.Variants,
	})
	utils.CreatedResponse(c, product)
}

// PUT /products/:id
func (h *ProductHandler) Update(c *gin.Context) {
	var fields utils.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	product, ok := h.store.UpdateProduct(c.Param("id"), fields)
	if !ok {
		utils.NotFoundResponse(c, "Product")
		return
	}
	utils.SuccessResponse(c, product)
}

// POST /products/:id/variants/generate
func (h *ProductHandler) GenerateVariants(c *gin.Context) {
	product, err := h.productService.GenerateVariantsFor(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrProductNotFound):
			utils.NotFoundResponse(c, "Product")
		case errors.Is(err, services.ErrNoVariationValues):
			utils.BadRequestResponse(c, err.Error(), nil)
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}
	utils.SuccessResponse(c, product)
}

// DELETE /products/:id
func (h *ProductHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	h.store.RemoveProduct(id)
	utils.SuccessResponse(c, gin.H{"deleted": id})
}
