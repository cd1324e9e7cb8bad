// internal/models/invoice.go
package models

import "time"

// LineItem is one sold row on an invoice. Product and variant references
// are weak; the name and price are snapshotted so later catalog edits do
// not rewrite history.
type LineItem struct {
	ProductID         string            `json:"productId"`
	VariantID         string            `json:"variantId,omitempty"`
	Name              string            `json:"name"`
	UnitPrice         float64           `json:"unitPrice"`
	Quantity          int               `json:"quantity"`
	Discount          float64           `json:"discount,omitempty"`
	ExtraCharge       float64           `json:"extraCharge,omitempty"`
	Note              string            `json:"note,omitempty"`
	SelectedOptions   map[string]string `json:"selectedOptions,omitempty"`
	VariantAttributes map[string]string `json:"variantAttributes,omitempty"`
}

// Total is the line's contribution to the invoice total.
func (li LineItem) Total() float64 {
	return li.UnitPrice*float64(li.Quantity) - li.Discount + li.ExtraCharge
}

type DeliveryInfo struct {
	Method  string  `json:"method,omitempty"`
	Fee     float64 `json:"fee,omitempty"`
	Address string  `json:"address,omitempty"`
}

// Invoice. The ID doubles as the human-readable invoice number: an 8-digit
// date prefix plus a 6-digit per-day sequence, so ids sort by creation date.
// Customer fields are denormalized at creation time.
type Invoice struct {
	ID              string       `json:"id"`
	CustomerID      string       `json:"customerId,omitempty"`
	CustomerName    string       `json:"customerName"`
	CustomerPhone   string       `json:"customerPhone,omitempty"`
	CustomerAddress string       `json:"customerAddress,omitempty"`
	Date            time.Time    `json:"date"`
	Items           []LineItem   `json:"items"`
	Total           float64      `json:"total"`
	Deposit         float64      `json:"deposit,omitempty"`
	Discount        float64      `json:"discount,omitempty"`
	Delivery        DeliveryInfo `json:"delivery,omitempty"`
	Note            string       `json:"note,omitempty"`
}
