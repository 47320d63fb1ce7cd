package catalog_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
)

func payload(t *testing.T, body string) catalog.ProductPayload {
	t.Helper()
	var p catalog.ProductPayload
	require.NoError(t, json.Unmarshal([]byte(body), &p))
	return p
}

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	var ve *catalog.ValidationError
	require.ErrorAs(t, err, &ve)
	return ve.Fields
}

func TestValidateProductAcceptsNumberAndText(t *testing.T) {
	in, err := catalog.ValidateProduct(payload(t,
		`{"name":"Desk Lamp","price":89.99,"category":"Home & Living","stock_status":"In Stock"}`))
	require.NoError(t, err)
	assert.Equal(t, models.ProductInput{
		Name: "Desk Lamp", Price: 89.99, Category: "Home & Living", StockStatus: models.InStock,
	}, in)

	in, err = catalog.ValidateProduct(payload(t,
		`{"name":"Desk Lamp","price":" 19.5 ","category":"Home & Living","stock_status":"Low Stock"}`))
	require.NoError(t, err)
	assert.Equal(t, 19.5, in.Price)
	assert.Equal(t, models.LowStock, in.StockStatus)
}

func TestValidateProductPriceBoundaries(t *testing.T) {
	cases := map[string]bool{
		`0.01`:     true,
		`"0.01"`:   true,
		`1e2`:      true,
		`"+3"`:     true,
		`0`:        false,
		`-5`:       false,
		`"0"`:      false,
		`"-0.5"`:   false,
		`""`:       false,
		`"abc"`:    false,
		`"NaN"`:    false,
		`"Inf"`:    false,
		`"0x1p-2"`: false,
		`"1_000"`:  false,
		`"1e400"`:  false,
		`1e400`:    false,
		`true`:     false,
		`null`:     false,
		`[1]`:      false,
		`{"v":1}`:  false,
	}
	for raw, ok := range cases {
		t.Run(raw, func(t *testing.T) {
			_, err := catalog.ValidateProduct(payload(t,
				`{"name":"n","price":`+raw+`,"category":"c","stock_status":"In Stock"}`))
			if ok {
				assert.NoError(t, err)
				return
			}
			assert.Contains(t, fieldErrors(t, err), "price")
		})
	}
}

func TestValidateProductMissingPrice(t *testing.T) {
	_, err := catalog.ValidateProduct(payload(t, `{"name":"n","category":"c","stock_status":"In Stock"}`))
	assert.Equal(t, "The price field is required.", fieldErrors(t, err)["price"])
}

func TestValidateProductNameBoundaries(t *testing.T) {
	base := catalog.ProductPayload{Price: catalog.PriceOf(1), Category: "c", StockStatus: "In Stock"}

	base.Name = ""
	_, err := catalog.ValidateProduct(base)
	assert.Contains(t, fieldErrors(t, err), "name")

	base.Name = strings.Repeat("x", catalog.MaxNameLength)
	_, err = catalog.ValidateProduct(base)
	assert.NoError(t, err)

	base.Name = strings.Repeat("é", catalog.MaxNameLength)
	_, err = catalog.ValidateProduct(base)
	assert.NoError(t, err, "length is counted in characters")

	base.Name = strings.Repeat("x", catalog.MaxNameLength+1)
	_, err = catalog.ValidateProduct(base)
	assert.Contains(t, fieldErrors(t, err), "name")
}

func TestValidateProductStockStatusIsExact(t *testing.T) {
	for _, s := range []string{"", "in stock", "In  Stock", "Sold Out"} {
		_, err := catalog.ValidateProduct(catalog.ProductPayload{
			Name: "n", Price: catalog.PriceOf(1), Category: "c", StockStatus: s,
		})
		assert.Contains(t, fieldErrors(t, err), "stock_status", "status %q", s)
	}
}

func TestValidateProductReportsAllFields(t *testing.T) {
	_, err := catalog.ValidateProduct(catalog.ProductPayload{})
	fields := fieldErrors(t, err)
	assert.Len(t, fields, 4)
	assert.Contains(t, err.Error(), "category:")
}

func TestValidateProductReportsMistypedFields(t *testing.T) {
	_, err := catalog.ValidateProduct(payload(t,
		`{"name":5,"price":10,"category":["x"],"stock_status":1}`))
	assert.Equal(t, map[string]string{
		"name":         "The name must be a string.",
		"category":     "The category must be a string.",
		"stock_status": "The stock_status must be a string.",
	}, fieldErrors(t, err))

	_, err = catalog.ValidateProduct(payload(t,
		`{"name":{"en":"Lamp"},"price":true,"category":"c","stock_status":"In Stock"}`))
	fields := fieldErrors(t, err)
	assert.Equal(t, "The name must be a string.", fields["name"])
	assert.Contains(t, fields, "price")
	assert.Len(t, fields, 2)
}

func TestProductPayloadNullFieldsAreMissing(t *testing.T) {
	_, err := catalog.ValidateProduct(payload(t,
		`{"name":null,"price":10,"category":"c","stock_status":"In Stock"}`))
	assert.Equal(t, map[string]string{"name": "The name field is required."}, fieldErrors(t, err))
}

func TestProductPayloadRejectsNonObjectBody(t *testing.T) {
	var p catalog.ProductPayload
	err := json.Unmarshal([]byte(`[1, 2]`), &p)
	require.Error(t, err)
	assert.Equal(t, "the body must be a JSON object", err.Error())
	assert.NotContains(t, err.Error(), "Go")
}

func TestCheckInput(t *testing.T) {
	assert.NoError(t, catalog.CheckInput(models.ProductInput{
		Name: "ok", Price: 2, Category: "c", StockStatus: models.OutOfStock,
	}))
	assert.Error(t, catalog.CheckInput(models.ProductInput{
		Name: "bad", Price: 0, Category: "c", StockStatus: models.OutOfStock,
	}))
}

func TestPriceText(t *testing.T) {
	in, err := catalog.ValidateProduct(catalog.ProductPayload{
		Name: "n", Price: catalog.PriceText("12.50"), Category: "c", StockStatus: "In Stock",
	})
	require.NoError(t, err)
	assert.Equal(t, 12.5, in.Price)
}
