// Package listeners subscribes the application's reactions to domain events.
package listeners

import (
	"context"
	"sync"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/services"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

var once sync.Once

// Register subscribes every listener. Repeated calls are no-ops.
func Register() {
	once.Do(func() {
		event.Listen(services.EventProductCreated, ProductCreated)
	})
}

// ProductCreated logs the new product and counts it.
func ProductCreated(ctx context.Context, payload interface{}) {
	p, ok := payload.(models.Product)
	if !ok {
		return
	}
	metrics.ProductsCreated.Inc()
	logger.WithCtx(ctx).Info("product created",
		"id", p.ID,
		"name", p.Name,
		"category", p.Category,
	)
}
