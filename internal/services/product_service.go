// internal/services/product_service.go
package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shoplite-agent/internal/models"
	"shoplite-agent/internal/store"
	"shoplite-agent/internal/utils"
)

// ErrNoVariationValues is returned when a variation attribute has no
// selected values: the Cartesian product would silently be empty, which is
// never what the user meant.
var ErrNoVariationValues = errors.New("select at least one value for each variation attribute")

type ProductService struct {
	store *store.Store
}

func NewProductService(st *store.Store) *ProductService {
	return &ProductService{store: st}
}

// GenerateVariants computes the Cartesian product of the selected values of
// every variation attribute, in attribute declaration order (first
// attribute outermost), and returns one priced variant per combination.
// Non-variation attributes contribute nothing. Prices start as copies of
// the base prices and are independently editable afterwards.
func GenerateVariants(attrs []models.SelectedAttribute, basePrice, salePrice float64) ([]models.Variant, error) {
	var axes []models.SelectedAttribute
	for _, attr := range attrs {
		if !attr.UseAsVariation {
			continue
		}
		if len(attr.SelectedValues) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoVariationValues, attr.Name)
		}
		axes = append(axes, attr)
	}
	if len(axes) == 0 {
		return nil, nil
	}

	combos := [][]string{{}}
	for _, axis := range axes {
		next := make([][]string, 0, len(combos)*len(axis.SelectedValues))
		for _, combo := range combos {
			for _, value := range axis.SelectedValues {
				extended := make([]string, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, value))
			}
		}
		combos = next
	}

	variants := make([]models.Variant, 0, len(combos))
	for _, combo := range combos {
		assignment := make(map[string]string, len(axes))
		for i, axis := range axes {
			assignment[axis.Name] = combo[i]
		}
		variants = append(variants, models.Variant{
			ID:         utils.NewToken(),
			Attributes: assignment,
			Price:      basePrice,
			SalePrice:  salePrice,
			Name:       strings.Join(combo, " / "),
		})
	}
	return variants, nil
}

// GenerateVariantsFor appends generated variants to a stored product.
// Generated variants are added alongside any manually created ones; no
// de-duplication is attempted, matching the app's historical behavior.
func (s *ProductService) GenerateVariantsFor(productID string) (models.Product, error) {
	product, ok := s.store.GetProduct(productID)
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}

	generated, err := GenerateVariants(product.SelectedAttributes, product.BasePrice, product.SalePrice)
	if err != nil {
		return models.Product{}, err
	}

	updated, ok := s.store.UpdateProduct(productID, utils.Fields{
		"variants": append(product.Variants, generated...),
	})
	if !ok {
		return models.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return updated, nil
}

// GenerateBarcode mints a barcode for a product, prepending the category's
// barcode prefix when the category defines one.
func (s *ProductService) GenerateBarcode(categoryID string) string {
	prefix := ""
	if category, ok := s.store.GetCategory(categoryID); ok {
		prefix = category.BarcodePrefix
	}
	return fmt.Sprintf("%s%d", prefix, time.Now().UnixMilli())
}
