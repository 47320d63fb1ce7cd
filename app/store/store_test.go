package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
	_ "github.com/shashiranjanraj/catalog/database/migrations"
	"github.com/shashiranjanraj/catalog/pkg/database"
	"github.com/shashiranjanraj/catalog/pkg/migration"
)

// stepClock returns a clock that advances one minute per call.
func stepClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

// frozenClock returns the same instant on every call.
func frozenClock() func() time.Time {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

type factory func(t *testing.T, opts ...Option) Store

func backends() map[string]factory {
	m := map[string]factory{
		"memory": func(t *testing.T, opts ...Option) Store {
			return NewMemory(opts...)
		},
		"sql": func(t *testing.T, opts ...Option) Store {
			db, err := database.Open("sqlite", ":memory:")
			require.NoError(t, err)
			require.NoError(t, migration.New(db).Run())
			s := NewSQL(db, opts...)
			t.Cleanup(func() { _ = s.Close() })
			return s
		},
	}
	// TEST_SQL_DRIVER and TEST_SQL_DSN add a live server, e.g. mysql.
	if driver, dsn := os.Getenv("TEST_SQL_DRIVER"), os.Getenv("TEST_SQL_DSN"); driver != "" && dsn != "" {
		m["sql-"+driver] = func(t *testing.T, opts ...Option) Store {
			db, err := database.Open(driver, dsn)
			require.NoError(t, err)
			runner := migration.New(db)
			runner.Out = io.Discard
			require.NoError(t, runner.Run())
			s := NewSQL(db, opts...)
			t.Cleanup(func() {
				_ = runner.Rollback()
				_ = s.Close()
			})
			return s
		}
	}
	return m
}

func input(name, category string) models.ProductInput {
	return models.ProductInput{Name: name, Price: 10, Category: category, StockStatus: models.InStock}
}

func intp(n int) *int { return &n }

func forEachBackend(t *testing.T, fn func(t *testing.T, newStore factory)) {
	for name, f := range backends() {
		t.Run(name, func(t *testing.T) { fn(t, f) })
	}
}

func TestCreateAssignsIncreasingIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, WithClock(stepClock()))

		var last int64
		for i := 0; i < 5; i++ {
			p, err := s.CreateProduct(ctx, input(fmt.Sprintf("p%d", i), "c"))
			require.NoError(t, err)
			assert.Greater(t, p.ID, last)
			last = p.ID
		}
		assert.Equal(t, int64(5), last)
	})
}

func TestCreateThenFetchRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, WithClock(stepClock()))

		created, err := s.CreateProduct(ctx, models.ProductInput{
			Name: "Desk Lamp", Price: 89.99, Category: "Home & Living", StockStatus: models.LowStock,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), created.ID)
		assert.False(t, created.CreatedAt.IsZero())

		got, ok, err := s.GetProductByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, created.ID, got.ID)
		assert.Equal(t, created.Name, got.Name)
		assert.Equal(t, created.Price, got.Price)
		assert.Equal(t, created.Category, got.Category)
		assert.Equal(t, created.StockStatus, got.StockStatus)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", created.CreatedAt, got.CreatedAt)
	})
}

func TestCreatedAtSurvivesRoundTripAtSubMillisecondPrecision(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 123456789, time.UTC)
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, WithClock(func() time.Time { return at }))

		created, err := s.CreateProduct(ctx, input("Desk Lamp", "Home & Living"))
		require.NoError(t, err)
		got, ok, err := s.GetProductByID(ctx, created.ID)
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt), "created_at %v != %v", created.CreatedAt, got.CreatedAt)
		assert.Equal(t, created.CreatedAt.Format(time.RFC3339Nano), got.CreatedAt.UTC().Format(time.RFC3339Nano))
	})
}

func TestPing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		assert.NoError(t, Ping(context.Background(), newStore(t)))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Ping(ctx, NewMemory()), context.Canceled)

	db, err := database.Open("sqlite", ":memory:")
	require.NoError(t, err)
	s := NewSQL(db)
	require.NoError(t, s.Close())
	assert.Error(t, Ping(context.Background(), s), "closed pool")
}

func TestGetProductByIDMissing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		_, ok, err := newStore(t).GetProductByID(context.Background(), 42)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestCreateRejectsInvalidInput(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t)

		_, err := s.CreateProduct(ctx, models.ProductInput{Name: "x", Price: -1, Category: "c", StockStatus: models.InStock})
		var ve *catalog.ValidationError
		require.ErrorAs(t, err, &ve)

		page, err := s.GetProducts(ctx, catalog.Query{})
		require.NoError(t, err)
		assert.Zero(t, page.Total, "no partial insert")
	})
}

func TestGetProductsPipeline(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, WithClock(stepClock()))

		for _, in := range []models.ProductInput{
			input("Wireless Speaker", "Electronics"),
			input("Leather Bag", "Accessories"),
			input("Wireless Mouse", "Electronics"),
			input("Desk Lamp", "Home & Living"),
			input("Headphones", "Electronics"),
			input("50% Off Mug", "Home & Living"),
			input("Wireless_Keyboard", "Electronics"),
		} {
			_, err := s.CreateProduct(ctx, in)
			require.NoError(t, err)
		}

		page, err := s.GetProducts(ctx, catalog.Query{})
		require.NoError(t, err)
		assert.Equal(t, 7, page.Total)
		assert.Equal(t, []int64{7, 6, 5, 4, 3, 2, 1}, idsOf(page.Items), "newest first")

		page, err = s.GetProducts(ctx, catalog.Query{Category: "Electronics"})
		require.NoError(t, err)
		assert.Equal(t, []int64{7, 5, 3, 1}, idsOf(page.Items))

		page, err = s.GetProducts(ctx, catalog.Query{Category: "all", Search: "WIRELESS"})
		require.NoError(t, err)
		assert.Equal(t, []int64{7, 3, 1}, idsOf(page.Items))

		page, err = s.GetProducts(ctx, catalog.Query{Search: "living"})
		require.NoError(t, err)
		assert.Equal(t, 2, page.Total, "search matches category too")

		page, err = s.GetProducts(ctx, catalog.Query{Search: "%"})
		require.NoError(t, err)
		assert.Equal(t, []int64{6}, idsOf(page.Items), "wildcards match literally")

		page, err = s.GetProducts(ctx, catalog.Query{Search: "s_"})
		require.NoError(t, err)
		assert.Equal(t, []int64{7}, idsOf(page.Items))

		page, err = s.GetProducts(ctx, catalog.Query{Limit: intp(2), Offset: intp(6)})
		require.NoError(t, err)
		assert.Equal(t, 7, page.Total)
		assert.Equal(t, []int64{1}, idsOf(page.Items))

		page, err = s.GetProducts(ctx, catalog.Query{Offset: intp(3)})
		require.NoError(t, err)
		assert.Equal(t, []int64{4, 3, 2, 1}, idsOf(page.Items))

		page, err = s.GetProducts(ctx, catalog.Query{Limit: intp(0)})
		require.NoError(t, err)
		assert.Equal(t, 7, page.Total)
		assert.Empty(t, page.Items)
		assert.NotNil(t, page.Items)

		page, err = s.GetProducts(ctx, catalog.Query{Offset: intp(100)})
		require.NoError(t, err)
		assert.Equal(t, 7, page.Total)
		assert.Empty(t, page.Items)
	})
}

func TestGetProductsTiesBreakByNewestID(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t, WithClock(frozenClock()))
		for i := 0; i < 3; i++ {
			_, err := s.CreateProduct(ctx, input(fmt.Sprintf("p%d", i), "c"))
			require.NoError(t, err)
		}
		page, err := s.GetProducts(ctx, catalog.Query{})
		require.NoError(t, err)
		assert.Equal(t, []int64{3, 2, 1}, idsOf(page.Items))
	})
}

func TestUsers(t *testing.T) {
	forEachBackend(t, func(t *testing.T, newStore factory) {
		ctx := context.Background()
		s := newStore(t)

		u, err := s.CreateUser(ctx, models.UserInput{Username: "ada", Password: "hash"})
		require.NoError(t, err)
		assert.Len(t, u.ID, 36)

		_, err = s.CreateUser(ctx, models.UserInput{Username: "ada", Password: "other"})
		assert.ErrorIs(t, err, catalog.ErrDuplicateUsername)

		got, ok, err := s.GetUserByUsername(ctx, "ada")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, u, got)

		_, ok, err = s.GetUserByUsername(ctx, "ADA")
		require.NoError(t, err)
		assert.False(t, ok, "usernames match exactly")
	})
}

func TestMemoryConcurrentCreatesGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()

	const n = 50
	ids := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			p, err := s.CreateProduct(ctx, input(fmt.Sprintf("p%d", i), "c"))
			if assert.NoError(t, err) {
				ids <- p.ID
			}
		}(i)
	}
	wg.Wait()
	close(ids)

	seen := map[int64]bool{}
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, n)
}

func TestMemoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewMemory()
	_, err := s.CreateProduct(ctx, input("Lamp", "c"))
	require.NoError(t, err)

	page, err := s.GetProducts(ctx, catalog.Query{})
	require.NoError(t, err)
	page.Items[0].Name = "changed"

	got, _, err := s.GetProductByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Lamp", got.Name)
}

func TestMemoryHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemory().CreateProduct(ctx, input("Lamp", "c"))
	var ue *catalog.UnexpectedError
	assert.ErrorAs(t, err, &ue)
}

func TestProductFilter(t *testing.T) {
	assert.Empty(t, productFilter(catalog.Query{Category: "all", Search: "  "}))

	f := productFilter(catalog.Query{Category: "Electronics", Search: "a.b"})
	assert.Equal(t, "Electronics", f["category"])

	or, ok := f["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	assert.Contains(t, fmt.Sprint(or[0]), `a\.b`, "search text is quoted")
	assert.True(t, strings.Contains(fmt.Sprint(or[1]), "category"))
}

func idsOf(items []models.Product) []int64 {
	out := make([]int64, len(items))
	for i, p := range items {
		out[i] = p.ID
	}
	return out
}
