package routes

import (
	"net/http"

	"github.com/shashiranjanraj/catalog/app/controllers"
	catalogql "github.com/shashiranjanraj/catalog/app/graphql"
	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	appctx "github.com/shashiranjanraj/catalog/pkg/ctx"
	gql "github.com/shashiranjanraj/catalog/pkg/graphql"
	"github.com/shashiranjanraj/catalog/pkg/metrics"
	"github.com/shashiranjanraj/catalog/pkg/response"
	"github.com/shashiranjanraj/catalog/pkg/router"
)

// Deps carries what the routes dispatch to.
type Deps struct {
	Products  *services.ProductService
	Presenter resources.ProductResource
}

func RegisterAPI(r *router.Router, d Deps) error {
	products := controllers.NewProductController(d.Products, d.Presenter)

	api := r.Group("/api")
	api.Get("/products", "products.index", appctx.Wrap(products.Index))
	api.Get("/products/{id}", "products.show", appctx.Wrap(products.Show))
	api.Post("/products", "products.store", appctx.Wrap(products.Store))
	api.Get("/categories", "categories.index", appctx.Wrap(products.Categories))

	schema, err := catalogql.NewSchema(d.Products, d.Presenter)
	if err != nil {
		return err
	}
	r.Post("/graphql", "graphql", gql.Handler(schema))

	r.Get("/health", "health", appctx.Wrap(controllers.Health))
	r.Handle(http.MethodGet, "/metrics", "metrics", metrics.Handler())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
	return nil
}
