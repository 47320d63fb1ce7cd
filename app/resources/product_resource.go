// Package resources maps stored records to the shapes the API returns.
package resources

import (
	"context"
	"strings"
	"unicode"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/resource"
	"github.com/shashiranjanraj/catalog/pkg/storage"
	"github.com/shashiranjanraj/catalog/pkg/workerpool"
)

// ProductResource renders a product and, when Disk holds one, a link to its
// image. A nil Disk renders products without images. With a Pool, Render
// looks images up concurrently.
type ProductResource struct {
	Disk storage.Disk
	Pool *workerpool.Pool
}

func (r ProductResource) ToArray(ctx context.Context, p models.Product) resource.Map {
	url, ok := r.Image(ctx, p)
	return render(p, url, ok)
}

// Render transforms a page of products, never returning nil.
func (r ProductResource) Render(ctx context.Context, items []models.Product) []resource.Map {
	if r.Pool == nil || r.Disk == nil || len(items) < 2 {
		return resource.Many[models.Product](ctx, r, items)
	}

	out := make([]resource.Map, len(items))
	r.Pool.Each(ctx, len(items), func(i int) {
		url, ok := r.Image(ctx, items[i])
		out[i] = render(items[i], url, ok)
	})
	return out
}

func render(p models.Product, image string, hasImage bool) resource.Map {
	out := resource.Map{
		"id":           p.ID,
		"name":         p.Name,
		"price":        p.Price,
		"category":     p.Category,
		"stock_status": p.StockStatus,
		"created_at":   p.CreatedAt,
	}
	if hasImage {
		out["image"] = image
	}
	return out
}

// Image returns the public URL of the product's image, if one exists.
func (r ProductResource) Image(ctx context.Context, p models.Product) (string, bool) {
	if r.Disk == nil {
		return "", false
	}
	path := ImagePath(p.Name)
	if path == "" || !r.Disk.Exists(ctx, path) {
		return "", false
	}
	return r.Disk.URL(path), true
}

// ImagePath is where a product's image lives on the disk:
// "Modern Desk Lamp" → "products/modern-desk-lamp.png".
func ImagePath(name string) string {
	slug := Slug(name)
	if slug == "" {
		return ""
	}
	return "products/" + slug + ".png"
}

// Slug lowercases name and collapses every run of other characters into a
// single dash.
func Slug(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
