package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	appctx "github.com/shashiranjanraj/catalog/pkg/ctx"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/resource"
)

type ProductController struct {
	products  *services.ProductService
	presenter resources.ProductResource
}

func NewProductController(products *services.ProductService, presenter resources.ProductResource) *ProductController {
	return &ProductController{products: products, presenter: presenter}
}

// Index handles GET /api/products?category=&search=&limit=&offset=.
func (pc *ProductController) Index(c *appctx.Context) {
	q := catalog.Query{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}
	if n, ok := c.QueryInt("limit"); ok && n >= 0 {
		q.Limit = &n
	}
	if n, ok := c.QueryInt("offset"); ok && n >= 0 {
		q.Offset = &n
	}

	page, err := pc.products.List(c.Context(), q)
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.Map{
		"items": pc.presenter.Render(c.Context(), page.Items),
		"total": page.Total,
	})
}

// Show handles GET /api/products/{id}.
func (pc *ProductController) Show(c *appctx.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.Error(http.StatusBadRequest, "Invalid product id")
		return
	}

	p, err := pc.products.Find(c.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		c.NotFound("Product not found")
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resource.One(c.Context(), pc.presenter, p))
}

// Store handles POST /api/products.
func (pc *ProductController) Store(c *appctx.Context) {
	var payload catalog.ProductPayload
	if !c.BindJSON(&payload) {
		return
	}

	p, err := pc.products.Create(c.Context(), payload)
	if err != nil {
		fail(c, err)
		return
	}

	c.Created(resource.One(c.Context(), pc.presenter, p))
}

// Categories handles GET /api/categories.
func (pc *ProductController) Categories(c *appctx.Context) {
	cats, err := pc.products.Categories(c.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, resource.Map{"items": cats})
}

// Health handles GET /health.
func Health(c *appctx.Context) {
	c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// fail maps the catalog error taxonomy onto HTTP statuses.
func fail(c *appctx.Context, err error) {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		c.ValidationError(ve.Fields)
	case errors.Is(err, catalog.ErrNotFound):
		c.NotFound()
	default:
		logger.WithCtx(c.Context()).Error("request failed", "path", c.R.URL.Path, "error", err)
		c.Error(http.StatusInternalServerError, "Internal Server Error")
	}
}
