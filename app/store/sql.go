package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/orm"
	"gorm.io/gorm"
)

// newestFirst mirrors catalog.Newer.
const newestFirst = "created_at DESC, id DESC"

// likeEscaper escapes LIKE wildcards with '!', which needs no quoting in any
// supported dialect. '[' is a wildcard on SQL Server.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_", "[", "![")

// SQL stores records through gorm. Product ids come from the table's
// auto-increment key. The tables must exist (see database/migrations).
type SQL struct {
	db   *gorm.DB
	opts options
}

func NewSQL(db *gorm.DB, opts ...Option) *SQL {
	return &SQL{db: db, opts: buildOptions(opts)}
}

func (s *SQL) query(ctx context.Context) *orm.Query {
	return orm.On(s.db).WithContext(ctx)
}

func (s *SQL) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if err := catalog.CheckInput(in); err != nil {
		return models.Product{}, err
	}

	p := models.Product{
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		StockStatus: in.StockStatus,
		// Postgres timestamps and MySQL datetime(6) keep microseconds.
		CreatedAt: s.opts.now().UTC().Truncate(time.Microsecond),
	}
	if err := s.query(ctx).Create(&p); err != nil {
		return models.Product{}, catalog.Unexpected("sql.create_product", err)
	}
	return p, nil
}

func (s *SQL) GetProductByID(ctx context.Context, id int64) (models.Product, bool, error) {
	var p models.Product
	found, err := s.query(ctx).Where("id = ?", id).First(&p)
	if err != nil {
		return models.Product{}, false, catalog.Unexpected("sql.get_product", err)
	}
	return p, found, nil
}

func (s *SQL) GetProducts(ctx context.Context, q catalog.Query) (catalog.Page, error) {
	filtered := s.filter(s.query(ctx).Model(&models.Product{}), q)

	var total int64
	if err := filtered.Count(&total); err != nil {
		return catalog.Page{}, catalog.Unexpected("sql.count_products", err)
	}

	page := catalog.Page{Items: []models.Product{}, Total: int(total)}
	start, end := q.Bounds(page.Total)
	if start >= end {
		return page, nil
	}

	// Both bounds are always set: MySQL rejects OFFSET without LIMIT.
	err := s.filter(s.query(ctx).Model(&models.Product{}), q).
		Order(newestFirst).
		Offset(start).
		Limit(end - start).
		Get(&page.Items)
	if err != nil {
		return catalog.Page{}, catalog.Unexpected("sql.list_products", err)
	}
	return page, nil
}

func (s *SQL) filter(tx *orm.Query, q catalog.Query) *orm.Query {
	if q.HasCategory() {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.HasSearch() {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(q.Search)) + "%"
		tx = tx.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(category) LIKE ? ESCAPE '!')", pattern, pattern)
	}
	return tx
}

func (s *SQL) CreateUser(ctx context.Context, in models.UserInput) (models.User, error) {
	u := models.User{ID: uuid.NewString(), Username: in.Username, Password: in.Password}

	err := s.query(ctx).Transaction(func(tx *orm.Query) error {
		var existing models.User
		taken, err := tx.Where("username = ?", in.Username).First(&existing)
		if err != nil {
			return err
		}
		if taken {
			return catalog.ErrDuplicateUsername
		}
		return tx.Create(&u)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = catalog.ErrDuplicateUsername
	}
	if err != nil {
		return models.User{}, catalog.Unexpected("sql.create_user", err)
	}
	return u, nil
}

func (s *SQL) GetUserByUsername(ctx context.Context, username string) (models.User, bool, error) {
	var u models.User
	found, err := s.query(ctx).Where("username = ?", username).First(&u)
	if err != nil {
		return models.User{}, false, catalog.Unexpected("sql.get_user", err)
	}
	return u, found, nil
}

func (s *SQL) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQL) Close() error {
	return database.Close(s.db)
}
