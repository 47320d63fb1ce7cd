package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRouteList(t *testing.T) {
	out, err := execute(t, "route:list")
	require.NoError(t, err)

	for _, want := range []string{"/api/products", "/api/products/{id}", "products.store", "/graphql", "/metrics", "/health"} {
		assert.Contains(t, out, want)
	}
}

func TestProductsAgainstSeededMemoryStore(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SEED_ON_BOOT", "true")
	t.Setenv("STORAGE_DISK", "local")

	out, err := execute(t, "products", "--search", "wireless", "--limit", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "Wireless Keyboard")
	assert.Contains(t, out, "Wireless Ergonomic Mouse")
	assert.NotContains(t, out, "Wireless Bluetooth Speaker")
	assert.Contains(t, out, "Showing 2 of 3 products")
}

func TestUserCreateValidates(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("SEED_ON_BOOT", "false")

	_, err := execute(t, "user:create", "--username", "x", "--password", "short")
	var ve *catalog.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "username")
	assert.Contains(t, ve.Fields, "password")
}

func TestPrintProducts(t *testing.T) {
	at := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	page := catalog.Page{
		Items: []models.Product{
			{ID: 2, Name: "Yoga Mat Pro", Price: 59.99, Category: "Sports & Fitness", StockStatus: models.InStock, CreatedAt: at},
			{ID: 1, Name: "Running Shoes", Price: 119.99, Category: "Sports & Fitness", StockStatus: models.LowStock, CreatedAt: at},
		},
		Total: 7,
	}

	var buf bytes.Buffer
	require.NoError(t, printProducts(&buf, page))
	out := buf.String()

	assert.Contains(t, out, "Yoga Mat Pro")
	assert.Contains(t, out, "119.99")
	assert.Contains(t, out, "2026-02-03 04:05:06")
	assert.Contains(t, out, "Showing 2 of 7 products")
	assert.Contains(t, out, "Sports & Fitness     2")
}
