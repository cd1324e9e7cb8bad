// internal/services/product_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoplite-agent/internal/models"
)

func variantNames(variants []models.Variant) []string {
	names := make([]string, len(variants))
	for i, v := range variants {
		names[i] = v.Name
	}
	return names
}

func TestGenerateVariantsCartesianProduct(t *testing.T) {
	attrs := []models.SelectedAttribute{
		{Name: "Color", UseAsVariation: true, SelectedValues: []string{"Red", "Blue"}},
		{Name: "Size", UseAsVariation: true, SelectedValues: []string{"S", "M"}},
	}

	variants, err := GenerateVariants(attrs, 100, 80)
	require.NoError(t, err)
	require.Len(t, variants, 4)

	// First attribute is the outermost loop.
	assert.Equal(t, []string{"Red / S", "Red / M", "Blue / S", "Blue / M"}, variantNames(variants))

	for _, v := range variants {
		assert.NotEmpty(t, v.ID)
		assert.Equal(t, 100.0, v.Price)
		assert.Equal(t, 80.0, v.SalePrice)
	}
	assert.Equal(t, "Red", variants[0].Attributes["Color"])
	assert.Equal(t, "S", variants[0].Attributes["Size"])
	assert.Equal(t, "Blue", variants[3].Attributes["Color"])
	assert.Equal(t, "M", variants[3].Attributes["Size"])
}

func TestGenerateVariantsIgnoresNonVariationAttributes(t *testing.T) {
	attrs := []models.SelectedAttribute{
		{Name: "Color", UseAsVariation: true, SelectedValues: []string{"Red", "Blue"}},
		{Name: "Material", UseAsVariation: false, SelectedValues: []string{"silk"}},
	}

	variants, err := GenerateVariants(attrs, 50, 0)
	require.NoError(t, err)
	require.Len(t, variants, 2)
	assert.Equal(t, []string{"Red", "Blue"}, variantNames(variants))

	for _, v := range variants {
		_, hasMaterial := v.Attributes["Material"]
		assert.False(t, hasMaterial)
	}
}

func TestGenerateVariantsSingleAxis(t *testing.T) {
	attrs := []models.SelectedAttribute{
		{Name: "Size", UseAsVariation: true, SelectedValues: []string{"S", "M", "L"}},
	}

	variants, err := GenerateVariants(attrs, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"S", "M", "L"}, variantNames(variants))
}

func TestGenerateVariantsErrorsOnEmptySelection(t *testing.T) {
	attrs := []models.SelectedAttribute{
		{Name: "Color", UseAsVariation: true, SelectedValues: []string{"Red"}},
		{Name: "Size", UseAsVariation: true, SelectedValues: nil},
	}

	_, err := GenerateVariants(attrs, 10, 0)
	assert.ErrorIs(t, err, ErrNoVariationValues)
	assert.Contains(t, err.Error(), "Size")
}

func TestGenerateVariantsNoAxes(t *testing.T) {
	variants, err := GenerateVariants(nil, 10, 0)
	require.NoError(t, err)
	assert.Nil(t, variants)

	variants, err = GenerateVariants([]models.SelectedAttribute{
		{Name: "Material", UseAsVariation: false, SelectedValues: []string{"silk"}},
	}, 10, 0)
	require.NoError(t, err)
	assert.Nil(t, variants)
}

func TestGenerateVariantsForAppendsWithoutDeduplication(t *testing.T) {
	st := newTestStore(t)
	svc := NewProductService(st)

	st.AddProduct(models.Product{
		ID:        "p-1",
		Name:      "Shirt",
		BasePrice: 100,
		SelectedAttributes: []models.SelectedAttribute{
			{Name: "Color", UseAsVariation: true, SelectedValues: []string{"Red", "Blue"}},
		},
		Variants: []models.Variant{
			{ID: "manual", Name: "Red", Price: 90},
		},
	})

	updated, err := svc.GenerateVariantsFor("p-1")
	require.NoError(t, err)

	// The manual "Red" stays and a generated "Red" is appended alongside.
	require.Len(t, updated.Variants, 3)
	assert.Equal(t, "manual", updated.Variants[0].ID)
	assert.Equal(t, []string{"Red", "Red", "Blue"}, variantNames(updated.Variants))
	assert.Equal(t, 100.0, updated.Variants[1].Price)
}

func TestGenerateVariantsForUnknownProduct(t *testing.T) {
	st := newTestStore(t)
	svc := NewProductService(st)

	_, err := svc.GenerateVariantsFor("missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestGenerateBarcodeUsesCategoryPrefix(t *testing.T) {
	st := newTestStore(t)
	svc := NewProductService(st)

	st.AddCategory(models.Category{ID: "cat-1", Name: "Shirts", BarcodePrefix: "SH-"})

	withPrefix := svc.GenerateBarcode("cat-1")
	assert.Regexp(t, `^SH-\d+$`, withPrefix)

	bare := svc.GenerateBarcode("no-such-category")
	assert.Regexp(t, `^\d+$`, bare)
}
