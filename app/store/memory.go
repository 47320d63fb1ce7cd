package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/shashiranjanraj/catalog/app/catalog"
	"github.com/shashiranjanraj/catalog/app/models"
)

// Memory keeps every record in process memory. Nothing survives a restart.
type Memory struct {
	mu       sync.RWMutex
	products []models.Product // insertion order
	index    map[int64]int
	users    map[string]models.User
	nextID   int64
	opts     options
}

func NewMemory(opts ...Option) *Memory {
	return &Memory{
		index:  make(map[int64]int),
		users:  make(map[string]models.User),
		nextID: 1,
		opts:   buildOptions(opts),
	}
}

func (m *Memory) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	if err := catalog.CheckInput(in); err != nil {
		return models.Product{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Product{}, catalog.Unexpected("memory.create_product", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := models.Product{
		ID:          m.nextID,
		Name:        in.Name,
		Price:       in.Price,
		Category:    in.Category,
		StockStatus: in.StockStatus,
		CreatedAt:   m.opts.now().UTC(),
	}
	m.nextID++
	m.index[p.ID] = len(m.products)
	m.products = append(m.products, p)
	return p, nil
}

func (m *Memory) GetProductByID(_ context.Context, id int64) (models.Product, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i, ok := m.index[id]
	if !ok {
		return models.Product{}, false, nil
	}
	return m.products[i], true, nil
}

func (m *Memory) GetProducts(_ context.Context, q catalog.Query) (catalog.Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return catalog.Run(m.products, q), nil
}

func (m *Memory) CreateUser(_ context.Context, in models.UserInput) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.users[in.Username]; taken {
		return models.User{}, catalog.ErrDuplicateUsername
	}
	u := models.User{ID: uuid.NewString(), Username: in.Username, Password: in.Password}
	m.users[u.Username] = u
	return u, nil
}

func (m *Memory) GetUserByUsername(_ context.Context, username string) (models.User, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[username]
	return u, ok, nil
}

func (m *Memory) Ping(ctx context.Context) error { return ctx.Err() }

func (m *Memory) Close() error { return nil }
