package tests

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"

	"healthcare/pkg/cart/domain/model"
	"healthcare/pkg/common/domain"
)

var errStoreUnavailable = errors.New("store unavailable")

type mockProductRepository struct {
	store   map[uuid.UUID]*model.Product
	updates int
	// beforeUpdate runs ahead of the version check so tests can interleave
	// a competing writer.
	beforeUpdate func(id uuid.UUID)
}

func newMockProductRepository() *mockProductRepository {
	return &mockProductRepository{store: make(map[uuid.UUID]*model.Product)}
}

func (m *mockProductRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }
func (m *mockProductRepository) Create(p *model.Product) error {
	clone := *p
	m.store[p.ID] = &clone
	return nil
}
func (m *mockProductRepository) Update(p *model.Product) error {
	if m.beforeUpdate != nil {
		m.beforeUpdate(p.ID)
	}
	existing, ok := m.store[p.ID]
	if !ok {
		return model.ErrProductNotFound
	}
	if existing.Version != p.Version-1 {
		return model.ErrProductConflict
	}
	m.updates++
	clone := *p
	m.store[p.ID] = &clone
	return nil
}
func (m *mockProductRepository) Find(id uuid.UUID) (*model.Product, error) {
	if p, ok := m.store[id]; ok {
		clone := *p
		return &clone, nil
	}
	return nil, model.ErrProductNotFound
}
func (m *mockProductRepository) List() ([]model.Product, error) {
	products := make([]model.Product, 0, len(m.store))
	for _, p := range m.store {
		if p.Status != model.Archived {
			products = append(products, *p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}
func (m *mockProductRepository) stock(id uuid.UUID) int {
	return m.store[id].StockQuantity
}

type mockCartRepository struct {
	store     map[uuid.UUID]*model.Cart
	failStore bool
	// crashStore panics instead of storing, standing in for a process that
	// dies between the stock write and the cart write.
	crashStore bool
}

func newMockCartRepository() *mockCartRepository {
	return &mockCartRepository{store: make(map[uuid.UUID]*model.Cart)}
}

func (m *mockCartRepository) Find(userID uuid.UUID) (*model.Cart, error) {
	if c, ok := m.store[userID]; ok {
		return cloneCart(c), nil
	}
	return nil, model.ErrCartNotFound
}
func (m *mockCartRepository) Store(c *model.Cart) error {
	if m.crashStore {
		panic("cart store crashed")
	}
	if m.failStore {
		return errStoreUnavailable
	}
	m.store[c.UserID] = cloneCart(c)
	return nil
}
func (m *mockCartRepository) List() ([]*model.Cart, error) {
	carts := make([]*model.Cart, 0, len(m.store))
	for _, c := range m.store {
		carts = append(carts, cloneCart(c))
	}
	return carts, nil
}

type mockStockMovementRepository struct {
	store map[uuid.UUID]model.StockMovement
}

func newMockStockMovementRepository() *mockStockMovementRepository {
	return &mockStockMovementRepository{store: make(map[uuid.UUID]model.StockMovement)}
}

func (m *mockStockMovementRepository) NextID() (uuid.UUID, error) { return uuid.New(), nil }
func (m *mockStockMovementRepository) Create(movement *model.StockMovement) error {
	m.store[movement.ID] = *movement
	return nil
}
func (m *mockStockMovementRepository) Delete(id uuid.UUID) error {
	delete(m.store, id)
	return nil
}
func (m *mockStockMovementRepository) List(before time.Time) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	for _, movement := range m.store {
		if movement.CreatedAt.Before(before) {
			movements = append(movements, movement)
		}
	}
	sort.Slice(movements, func(i, j int) bool { return movements[i].CreatedAt.Before(movements[j].CreatedAt) })
	return movements, nil
}

// age backdates every journaled movement by d.
func (m *mockStockMovementRepository) age(d time.Duration) {
	for id, movement := range m.store {
		movement.CreatedAt = movement.CreatedAt.Add(-d)
		m.store[id] = movement
	}
}

func cloneCart(c *model.Cart) *model.Cart {
	clone := *c
	clone.Items = append([]model.Item{}, c.Items...)
	return &clone
}

type mockEventDispatcher struct {
	events []domain.Event
}

func (m *mockEventDispatcher) Dispatch(event domain.Event) error {
	m.events = append(m.events, event)
	return nil
}
func (m *mockEventDispatcher) Reset() {
	m.events = nil
}
