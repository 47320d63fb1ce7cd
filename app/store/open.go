package store

import (
	"context"

	"github.com/shashiranjanraj/catalog/config"
	"github.com/shashiranjanraj/catalog/pkg/database"
)

// Open builds the backend selected by STORE_DRIVER. The sql backend reuses
// database.DB when it is already connected.
func Open(ctx context.Context, opts ...Option) (Store, error) {
	switch config.StoreDriver() {
	case "sql":
		if database.DB == nil {
			if err := database.Connect(); err != nil {
				return nil, err
			}
		}
		return NewSQL(database.DB, opts...), nil
	case "mongo":
		return ConnectMongo(ctx, config.MongoURI(), config.MongoDatabase(), opts...)
	default:
		return NewMemory(opts...), nil
	}
}
