package seeders

import (
	"context"
	"fmt"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/store"
	"github.com/shashiranjanraj/catalog/pkg/logger"
)

func init() {
	Register("products", SeedProducts)
}

// SampleProducts is the demo catalogue, in insertion order.
var SampleProducts = []models.ProductInput{
	{Name: "Wireless Bluetooth Speaker", Price: 79.99, Category: "Electronics", StockStatus: models.InStock},
	{Name: "Premium Leather Laptop Bag", Price: 129.99, Category: "Accessories", StockStatus: models.InStock},
	{Name: "Insulated Water Bottle", Price: 24.99, Category: "Home & Living", StockStatus: models.LowStock},
	{Name: "Wireless Ergonomic Mouse", Price: 49.99, Category: "Electronics", StockStatus: models.InStock},
	{Name: "Modern Desk Lamp", Price: 89.99, Category: "Home & Living", StockStatus: models.InStock},
	{Name: "Smart Fitness Tracker", Price: 149.99, Category: "Sports & Fitness", StockStatus: models.OutOfStock},
	{Name: "Noise Cancelling Headphones", Price: 199.99, Category: "Electronics", StockStatus: models.InStock},
	{Name: "Portable Phone Charger", Price: 39.99, Category: "Electronics", StockStatus: models.LowStock},
	{Name: "Yoga Mat Pro", Price: 59.99, Category: "Sports & Fitness", StockStatus: models.InStock},
	{Name: "Stainless Steel Coffee Mug", Price: 19.99, Category: "Home & Living", StockStatus: models.InStock},
	{Name: "Wireless Keyboard", Price: 69.99, Category: "Electronics", StockStatus: models.InStock},
	{Name: "Running Shoes", Price: 119.99, Category: "Sports & Fitness", StockStatus: models.LowStock},
}

// SeedProducts inserts SampleProducts into an empty store. A store that
// already holds products is left untouched.
func SeedProducts(ctx context.Context, s store.Store) error {
	none := 0
	existing, err := s.GetProducts(ctx, catalog.Query{Limit: &none})
	if err != nil {
		return err
	}
	if existing.Total > 0 {
		logger.Info("seed: products already present", "total", existing.Total)
		return nil
	}

	for _, in := range SampleProducts {
		if _, err := s.CreateProduct(ctx, in); err != nil {
			return fmt.Errorf("create %q: %w", in.Name, err)
		}
	}
	logger.Info("seed: products inserted", "count", len(SampleProducts))
	return nil
}
