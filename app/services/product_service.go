package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/store"
	"github.com/shashiranjanraj/catalog/pkg/cache"
	"github.com/shashiranjanraj/catalog/pkg/event"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
)

// EventProductCreated fires with the stored models.Product after every
// successful create.
const EventProductCreated = "product.created"

// ProductService runs the product use-cases on top of a store.
type ProductService struct {
	store    store.Store
	cacheTTL time.Duration
}

// NewProductService builds the service. A positive cacheTTL keeps products
// fetched by id in Redis; products never change once stored.
func NewProductService(s store.Store, cacheTTL time.Duration) *ProductService {
	return &ProductService{store: s, cacheTTL: cacheTTL}
}

// Create validates payload and stores the product.
func (s *ProductService) Create(ctx context.Context, payload catalog.ProductPayload) (models.Product, error) {
	in, err := catalog.ValidateProduct(payload)
	if err != nil {
		var ve *catalog.ValidationError
		if errors.As(err, &ve) {
			for field := range ve.Fields {
				metrics.ValidationFailures.WithLabelValues(field).Inc()
			}
		}
		return models.Product{}, err
	}

	p, err := s.store.CreateProduct(ctx, in)
	if err != nil {
		return models.Product{}, catalog.Unexpected("products.create", err)
	}

	event.Fire(ctx, EventProductCreated, p)
	s.remember(ctx, p)
	return p, nil
}

// Find returns the product with id or a catalog.ErrNotFound error.
func (s *ProductService) Find(ctx context.Context, id int64) (models.Product, error) {
	var p models.Product
	if s.cacheTTL > 0 && cache.Enabled() {
		if cache.Get(ctx, productKey(id), &p) {
			metrics.CacheHits.WithLabelValues("product").Inc()
			return p, nil
		}
		metrics.CacheMisses.WithLabelValues("product").Inc()
	}

	p, ok, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		return models.Product{}, catalog.Unexpected("products.find", err)
	}
	if !ok {
		return models.Product{}, catalog.NotFound("product", id)
	}

	s.remember(ctx, p)
	return p, nil
}

// List returns one page of the catalogue.
func (s *ProductService) List(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	page, err := s.store.GetProducts(ctx, q)
	if err != nil {
		return catalog.Page{}, catalog.Unexpected("products.list", err)
	}
	return page, nil
}

// Categories lists the distinct categories in the catalogue.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	page, err := s.store.GetProducts(ctx, catalog.Query{})
	if err != nil {
		return nil, catalog.Unexpected("products.categories", err)
	}
	return catalog.Categories(page.Items), nil
}

func (s *ProductService) remember(ctx context.Context, p models.Product) {
	if s.cacheTTL <= 0 {
		return
	}
	if err := cache.Set(ctx, productKey(p.ID), p, s.cacheTTL); err != nil {
		logger.WithCtx(ctx).Warn("products: cache set failed", "id", p.ID, "error", err)
	}
}

func productKey(id int64) string {
	return "catalog:product:" + strconv.FormatInt(id, 10)
}
