// internal/models/product.go
package models

// SelectedAttribute is an attribute as attached to one product: the full
// value set copied from the catalog plus the subset the user picked for
// this product. Order of Values and SelectedValues is meaningful: variant
// generation enumerates them in place.
type SelectedAttribute struct {
	AttributeID    string   `json:"attributeId"`
	Name           string   `json:"name"`
	Values         []string `json:"values"`
	UseAsVariation bool     `json:"useAsVariation"`
	SelectedValues []string `json:"selectedValues"`
}

// Variant is one concrete, independently priced combination of variation
// attribute values. Prices start as copies of the product's base prices and
// are editable afterwards.
type Variant struct {
	ID         string            `json:"id"`
	Attributes map[string]string `json:"attributes"` // attribute name -> value
	Price      float64           `json:"price"`
	SalePrice  float64           `json:"salePrice"`
	Name       string            `json:"name"` // display name, values joined by " / "
}

type Product struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	BasePrice          float64             `json:"basePrice"`
	SalePrice          float64             `json:"salePrice"`
	Barcode            string              `json:"barcode,omitempty"`
	CategoryID         string              `json:"categoryId,omitempty"` // weak reference, may be orphaned
	SelectedAttributes []SelectedAttribute `json:"selectedAttributes,omitempty"`
	Variants           []Variant           `json:"variants,omitempty"`
}
