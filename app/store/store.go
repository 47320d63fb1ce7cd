// Package store holds the record store backends. Each backend owns its
// records exclusively, assigns product ids and creation times, and hands out
// copies only.
package store

import (
	"context"
	"time"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
)

// Store is the record store contract shared by every backend.
type Store interface {
	// CreateProduct assigns the next id and created_at and returns the stored record.
	CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error)
	// GetProductByID reports ok == false when no product has id.
	GetProductByID(ctx context.Context, id int64) (p models.Product, ok bool, err error)
	// GetProducts runs the catalog query pipeline over the stored products.
	GetProducts(ctx context.Context, q catalog.Query) (catalog.Page, error)
	// CreateUser assigns a fresh UUID. A taken username fails with
	// catalog.ErrDuplicateUsername.
	CreateUser(ctx context.Context, in models.UserInput) (models.User, error)
	GetUserByUsername(ctx context.Context, username string) (u models.User, ok bool, err error)
	Close() error
}

// Pinger is implemented by backends that can report whether their server
// is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Ping checks s when it is a Pinger. Other stores are always reachable.
func Ping(ctx context.Context, s Store) error {
	if p, ok := s.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// Option configures a backend.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of created_at.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
