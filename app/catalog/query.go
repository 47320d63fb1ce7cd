// Package catalog holds the product query pipeline, the creation validator
// and the error taxonomy shared by every record store backend.
package catalog

import (
	"sort"
	"strings"

	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/collection"
)

// AllCategories is the category sentinel that disables category filtering.
const AllCategories = "all"

// Query selects one page of products. Nil Limit means "everything after
// Offset"; nil Offset means 0.
type Query struct {
	Category string
	Search   string
	Limit    *int
	Offset   *int
}

// Page is one slice of the filtered, sorted catalogue. Total counts every
// match, not just the returned items.
type Page struct {
	Items []models.Product `json:"items"`
	Total int              `json:"total"`
}

// HasCategory reports whether the query filters by category.
func (q Query) HasCategory() bool {
	c := strings.TrimSpace(q.Category)
	return c != "" && c != AllCategories
}

// HasSearch reports whether the query filters by search text.
func (q Query) HasSearch() bool {
	return strings.TrimSpace(q.Search) != ""
}

// Bounds resolves the pagination window against total matches. A negative
// Limit or Offset is treated as absent.
func (q Query) Bounds(total int) (start, end int) {
	if q.Offset != nil && *q.Offset > 0 {
		start = *q.Offset
	}
	if start > total {
		start = total
	}

	end = total
	if q.Limit != nil && *q.Limit >= 0 && *q.Limit < total-start {
		end = start + *q.Limit
	}
	return start, end
}

// Matches reports whether p passes the category and search filters.
func (q Query) Matches(p models.Product) bool {
	if q.HasCategory() && p.Category != q.Category {
		return false
	}
	if q.HasSearch() {
		needle := strings.ToLower(q.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle) {
			return false
		}
	}
	return true
}

// Newer orders products newest first, breaking created_at ties by the
// higher (more recently assigned) id.
func Newer(a, b models.Product) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID > b.ID
}

// Run filters, sorts and paginates products. The input slice is not modified.
func Run(products []models.Product, q Query) Page {
	matched := collection.Filter(products, q.Matches)
	sort.SliceStable(matched, func(i, j int) bool { return Newer(matched[i], matched[j]) })

	total := len(matched)
	start, end := q.Bounds(total)

	items := make([]models.Product, end-start)
	copy(items, matched[start:end])
	return Page{Items: items, Total: total}
}

// PageCount returns how many pages of size limit hold total items.
func PageCount(total, limit int) (int, error) {
	if limit <= 0 {
		return 0, ErrInvalidPageSize
	}
	return (total + limit - 1) / limit, nil
}

// Categories returns the distinct categories of products in ascending order.
func Categories(products []models.Product) []string {
	names := collection.Unique(collection.Map(products, func(p models.Product) string { return p.Category }))
	sort.Strings(names)
	if names == nil {
		return []string{}
	}
	return names
}
