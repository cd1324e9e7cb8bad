// internal/services/invoice_service.go
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

const (
	invoiceDateLayout = "20060102"
	invoiceSeqDigits  = 6
)

var (
	ErrCustomerNotFound = errors.New("customer not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrVariantNotFound  = errors.New("variant not found")
)

type InvoiceService struct {
	store *store.Store
}

func NewInvoiceService(st *store.Store) *InvoiceService {
	return &InvoiceService{store: st}
}

type LineItemRequest struct {
	ProductID       string            `json:"productId" validate:"required"`
	VariantID       string            `json:"variantId,omitempty"`
	Quantity        int               `json:"quantity" validate:"required,min=1"`
	UnitPrice       *float64          `json:"unitPrice,omitempty"` // overrides the catalog price
	Discount        float64           `json:"discount,omitempty" validate:"gte=0"`
	ExtraCharge     float64           `json:"extraCharge,omitempty" validate:"gte=0"`
	Note            string            `json:"note,omitempty"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
}

type CreateInvoiceRequest struct {
	CustomerID string              `json:"customerId" validate:"required"`
	Date       *time.Time          `json:"date,omitempty"` // defaults to now, may be backdated
	Items      []LineItemRequest   `json:"items" validate:"required,min=1,dive"`
	Deposit    float64             `json:"deposit,omitempty" validate:"gte=0"`
	Discount   float64             `json:"discount,omitempty" validate:"gte=0"`
	Delivery   models.DeliveryInfo `json:"delivery,omitempty"`
	Note       string              `json:"note,omitempty"`
}

// Create builds an invoice with a date-sequenced id and a denormalized
// customer snapshot, then commits it to the store.
func (s *InvoiceService) Create(req *CreateInvoiceRequest) (models.Invoice, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return models.Invoice{}, err
	}

	customer, ok := s.store.GetCustomer(req.CustomerID)
	if !ok {
		return models.Invoice{}, ErrCustomerNotFound
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}

	items := make([]models.LineItem, 0, len(req.Items))
	total := 0.0
	for _, line := range req.Items {
		item, err := s.buildLineItem(line)
		if err != nil {
			return models.Invoice{}, err
		}
		items = append(items, item)
		total += item.Total()
	}
	total += req.Delivery.Fee - req.Discount

	inv := models.Invoice{
		ID:              NextInvoiceNumber(date, s.store.Invoices()),
		CustomerID:      customer.ID,
		CustomerName:    customer.Name,
		CustomerPhone:   customer.Phone,
		CustomerAddress: customer.Address,
		Date:            date,
		Items:           items,
		Total:           total,
		Deposit:         req.Deposit,
		Discount:        req.Discount,
		Delivery:        req.Delivery,
		Note:            req.Note,
	}

	return s.store.AddInvoice(inv), nil
}

func (s *InvoiceService) buildLineItem(line LineItemRequest) (models.LineItem, error) {
	product, ok := s.store.GetProduct(line.ProductID)
	if !ok {
		return models.LineItem{}, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
	}

	item := models.LineItem{
		ProductID:       product.ID,
		Name:            product.Name,
		Quantity:        line.Quantity,
		Discount:        line.Discount,
		ExtraCharge:     line.ExtraCharge,
		Note:            line.Note,
		SelectedOptions: line.SelectedOptions,
	}

	price := preferSale(product.BasePrice, product.SalePrice)
	if line.VariantID != "" {
		variant, found := findVariant(product, line.VariantID)
		if !found {
			return models.LineItem{}, fmt.Errorf("%w: %s", ErrVariantNotFound, line.VariantID)
		}
		item.VariantID = variant.ID
		item.VariantAttributes = variant.Attributes
		price = preferSale(variant.Price, variant.SalePrice)
	}
	if line.UnitPrice != nil {
		price = *line.UnitPrice
	}
	item.UnitPrice = price

	return item, nil
}

func findVariant(p models.Product, id string) (models.Variant, bool) {
	for _, v := range p.Variants {
		if v.ID == id {
			return v, true
		}
	}
	return models.Variant{}, false
}

func preferSale(base, sale float64) float64 {
	if sale > 0 {
		return sale
	}
	return base
}

// CustomerDisplayName resolves the name to show for an invoice whose
// customer reference may have been orphaned by a sync from another device.
func (s *InvoiceService) CustomerDisplayName(inv models.Invoice) string {
	if inv.CustomerName != "" {
		return inv.CustomerName
	}
	if c, ok := s.store.GetCustomer(inv.CustomerID); ok {
		return c.Name
	}
	return models.UnknownCustomerName
}

// NextInvoiceNumber computes the id for an invoice dated on the given day:
// the YYYYMMDD prefix plus a zero-padded sequence one past the highest
// sequence already used that day. An unparseable suffix counts as 0.
//
// Two invoices created concurrently can compute the same sequence; the app
// is single-writer on one device, so this race is accepted rather than
// papered over with locking that could not cover a second device anyway.
func NextInvoiceNumber(day time.Time, existing []models.Invoice) string {
	prefix := day.Format(invoiceDateLayout)

	max := 0
	for _, inv := range existing {
		if !strings.HasPrefix(inv.ID, prefix) {
			continue
		}
		seq, err := strconv.Atoi(inv.ID[len(prefix):])
		if err != nil {
			seq = 0
		}
		if seq > max {
			max = seq
		}
	}

	return fmt.Sprintf("%s%0*d", prefix, invoiceSeqDigits, max+1)
}
