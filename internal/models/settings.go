// internal/models/settings.go
package models

type DeliveryOption struct {
	Name string  `json:"name"`
	Fee  float64 `json:"fee"`
}

// ShopSettings is a singleton: it is merged and updated, never deleted.
// Unlike record collections it syncs remote-wins (see the sync service).
type ShopSettings struct {
	Name           string           `json:"name"`
	Address        string           `json:"address,omitempty"`
	Phone          string           `json:"phone,omitempty"`
	Logo           string           `json:"logo,omitempty"`
	CurrencyCode   string           `json:"currencyCode"`
	CurrencySymbol string           `json:"currencySymbol"`
	DeliveryOpts   []DeliveryOption `json:"deliveryOptions,omitempty"`
	UpdateCheckURL string           `json:"updateCheckUrl,omitempty"`
	LabelWidthMM   float64          `json:"labelWidthMm,omitempty"`
	LabelHeightMM  float64          `json:"labelHeightMm,omitempty"`
}

// DefaultShopSettings are the values a fresh install starts from before the
// first remote merge.
func DefaultShopSettings() ShopSettings {
	return ShopSettings{
		CurrencyCode:   "USD",
		CurrencySymbol: "$",
		LabelWidthMM:   40,
		LabelHeightMM:  30,
	}
}
