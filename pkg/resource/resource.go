// Package resource provides API resource transformers.
//
// Define a Resource to control exactly what JSON shape your API returns:
//
//	type ProductResource struct{}
//	func (r ProductResource) ToArray(ctx context.Context, p models.Product) resource.Map {
//	    return resource.Map{
//	        "id":   p.ID,
//	        "name": p.Name,
//	    }
//	}
//
// Render:
//
//	c.JSON(http.StatusOK, resource.One(ctx, ProductResource{}, product))
//	c.JSON(http.StatusOK, resource.Map{"items": resource.Many(ctx, ProductResource{}, products)})
package resource

import "context"

// Map is a convenient alias for the output of ToArray.
type Map = map[string]interface{}

// Transformer defines the single method a Resource must implement.
type Transformer[T any] interface {
	// ToArray converts one model instance into a Map.
	ToArray(ctx context.Context, v T) Map
}

// One transforms a single model.
func One[T any](ctx context.Context, t Transformer[T], v T) Map {
	return t.ToArray(ctx, v)
}

// Many transforms items in order. The result is never nil, so an empty
// collection renders as [].
func Many[T any](ctx context.Context, t Transformer[T], items []T) []Map {
	out := make([]Map, 0, len(items))
	for _, v := range items {
		out = append(out, t.ToArray(ctx, v))
	}
	return out
}
