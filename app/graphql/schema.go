// Package graphql exposes the product catalogue as a GraphQL schema.
package graphql

import (
	"errors"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/app/resources"
	"github.com/shashiranjanraj/catalog/app/services"
	gql "github.com/shashiranjanraj/catalog/pkg/graphql"
	"github.com/shashiranjanraj/catalog/pkg/logger"
	"github.com/shashiranjanraj/catalog/pkg/resource"
)

// NewSchema builds the catalogue schema:
//
//	products(category, search, limit, offset) { items total }
//	product(id)
//	categories
//	createProduct(name, price, category, stockStatus)
func NewSchema(products *services.ProductService, presenter resources.ProductResource) (graphql.Schema, error) {
	productType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Product",
		Fields: graphql.Fields{
			"id":          &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
			"name":        &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"price":       &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
			"category":    &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"stockStatus": &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: key("stock_status")},
			"createdAt":   &graphql.Field{Type: graphql.NewNonNull(graphql.String), Resolve: key("created_at")},
			"image":       &graphql.Field{Type: graphql.String},
		},
	})

	pageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "ProductPage",
		Fields: graphql.Fields{
			"items": &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(productType)))},
			"total": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	render := func(p graphql.ResolveParams, items ...models.Product) []resource.Map {
		return presenter.Render(p.Context, items)
	}

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"products": &graphql.Field{
				Type: graphql.NewNonNull(pageType),
				Args: graphql.FieldConfigArgument{
					"category": &graphql.ArgumentConfig{Type: graphql.String},
					"search":   &graphql.ArgumentConfig{Type: graphql.String},
					"limit":    &graphql.ArgumentConfig{Type: graphql.Int},
					"offset":   &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					q := catalog.Query{}
					q.Category, _ = p.Args["category"].(string)
					q.Search, _ = p.Args["search"].(string)
					if n, ok := p.Args["limit"].(int); ok && n >= 0 {
						q.Limit = &n
					}
					if n, ok := p.Args["offset"].(int); ok && n >= 0 {
						q.Offset = &n
					}

					page, err := products.List(p.Context, q)
					if err != nil {
						return nil, translate(p, err)
					}
					return resource.Map{"items": render(p, page.Items...), "total": page.Total}, nil
				},
			},
			"product": &graphql.Field{
				Type: productType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Int)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					id, _ := p.Args["id"].(int)
					prod, err := products.Find(p.Context, int64(id))
					if err != nil {
						return nil, translate(p, err)
					}
					return render(p, prod)[0], nil
				},
			},
			"categories": &graphql.Field{
				Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(graphql.String))),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					cats, err := products.Categories(p.Context)
					if err != nil {
						return nil, translate(p, err)
					}
					return cats, nil
				},
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createProduct": &graphql.Field{
				Type: graphql.NewNonNull(productType),
				Args: graphql.FieldConfigArgument{
					"name":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"price":       &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"category":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"stockStatus": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					payload := catalog.ProductPayload{}
					payload.Name, _ = p.Args["name"].(string)
					payload.Category, _ = p.Args["category"].(string)
					payload.StockStatus, _ = p.Args["stockStatus"].(string)
					price, _ := p.Args["price"].(float64)
					payload.Price = catalog.PriceOf(price)

					prod, err := products.Create(p.Context, payload)
					if err != nil {
						return nil, translate(p, err)
					}
					return render(p, prod)[0], nil
				},
			},
		},
	})

	return gql.NewSchema(query, mutation)
}

// key resolves a field from a differently named resource.Map entry.
func key(name string) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		m, ok := p.Source.(resource.Map)
		if !ok {
			return nil, nil
		}
		switch v := m[name].(type) {
		case time.Time:
			return v.UTC().Format(time.RFC3339Nano), nil
		case models.StockStatus:
			return string(v), nil
		default:
			return v, nil
		}
	}
}

// translate maps the catalog error taxonomy onto coded GraphQL errors.
func translate(p graphql.ResolveParams, err error) error {
	var ve *catalog.ValidationError
	switch {
	case errors.As(err, &ve):
		e := gql.NewError("VALIDATION_FAILED", "Validation failed")
		e.Ext["details"] = ve.Fields
		return e
	case errors.Is(err, catalog.ErrNotFound):
		return gql.NewError("NOT_FOUND", "Product not found")
	default:
		logger.WithCtx(p.Context).Error("graphql resolver failed", "field", p.Info.FieldName, "error", err)
		return gql.NewError("INTERNAL", "Internal Server Error")
	}
}
