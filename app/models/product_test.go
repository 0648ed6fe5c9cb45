package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/supermart/app/models"
)

func TestProductPatchFromBodyCoercesNumbers(t *testing.T) {
	patch, err := models.ProductPatchFromBody(map[string]interface{}{
		"name":     "Milk",
		"price":    float64(2.5),
		"quantity": "10", // numeric string coerces
		"inStock":  true,
	})
	require.NoError(t, err)

	require.NotNil(t, patch.Price)
	assert.Equal(t, 2.5, *patch.Price)
	require.NotNil(t, patch.Quantity)
	assert.Equal(t, float64(10), *patch.Quantity)
	require.NotNil(t, patch.InStock)
	assert.True(t, *patch.InStock)
	assert.Nil(t, patch.Description, "absent fields stay nil")
}

func TestProductPatchFromBodyRejectsBadNumber(t *testing.T) {
	_, err := models.ProductPatchFromBody(map[string]interface{}{
		"price": "abc",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `cast to Number failed`)
	assert.Contains(t, err.Error(), `"price"`)
}

func TestProductPatchFromBodyRejectsBadBoolean(t *testing.T) {
	_, err := models.ProductPatchFromBody(map[string]interface{}{
		"inStock": "yes",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cast to Boolean failed")
}

func TestProductPatchValidateRequiresEveryField(t *testing.T) {
	errs := models.ProductPatch{}.Validate()
	for _, field := range []string{"name", "description", "price", "category", "quantity", "inStock", "supplier"} {
		assert.Contains(t, errs, field)
	}
}

func TestProductPatchValidatePartialChecksOnlySupplied(t *testing.T) {
	blank := ""
	errs := models.ProductPatch{Name: &blank}.ValidatePartial()
	assert.Contains(t, errs, "name")
	assert.NotContains(t, errs, "price")
}

func TestProductPatchApply(t *testing.T) {
	name := "Bread"
	price := 1.2
	prod := models.Product{Name: "Old", Price: 9, Supplier: "Acme"}

	models.ProductPatch{Name: &name, Price: &price}.Apply(&prod)

	assert.Equal(t, "Bread", prod.Name)
	assert.Equal(t, 1.2, prod.Price)
	assert.Equal(t, "Acme", prod.Supplier, "untouched fields survive")
}

func TestHasNumberDetectsPresenceNotType(t *testing.T) {
	body := map[string]interface{}{"price": "abc", "quantity": nil}
	assert.True(t, models.HasNumber(body, "price"))
	assert.True(t, models.HasNumber(body, "quantity"))
	assert.False(t, models.HasNumber(body, "name"))
	assert.False(t, models.IsNumeric(body["price"]))
	assert.True(t, models.IsNumeric("15"))
	assert.True(t, models.IsNumeric(float64(3)))
}
