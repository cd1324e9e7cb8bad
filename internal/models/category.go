// internal/models/category.go
package models

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	// BarcodePrefix, when set, is prepended to barcodes generated for
	// products filed under this category.
	BarcodePrefix string `json:"barcodePrefix,omitempty"`
}
