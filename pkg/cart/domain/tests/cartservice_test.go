package tests

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare/pkg/cart/domain/model"
	"healthcare/pkg/cart/domain/service"
	"healthcare/pkg/common/domain"
)

type cartFixture struct {
	carts      service.CartService
	products   *mockProductRepository
	cartRepo   *mockCartRepository
	movements  *mockStockMovementRepository
	dispatcher *mockEventDispatcher
	userID     uuid.UUID
}

func setupCart(t *testing.T) *cartFixture {
	t.Helper()
	products := newMockProductRepository()
	cartRepo := newMockCartRepository()
	movements := newMockStockMovementRepository()
	dispatcher := &mockEventDispatcher{}
	ledger := service.NewInventoryLedger(products, dispatcher)
	return &cartFixture{
		carts:      service.NewCartService(cartRepo, products, movements, ledger, dispatcher),
		products:   products,
		cartRepo:   cartRepo,
		movements:  movements,
		dispatcher: dispatcher,
		userID:     uuid.New(),
	}
}

func (f *cartFixture) addProduct(t *testing.T, priceCents int64, stock int) uuid.UUID {
	t.Helper()
	product := &model.Product{ID: uuid.New(), Name: "Product", PriceCents: priceCents, StockQuantity: stock, Status: model.Available}
	require.NoError(t, f.products.Create(product))
	return product.ID
}

func assertTotal(t *testing.T, cart *model.Cart) {
	t.Helper()
	var expected int64
	for _, item := range cart.Items {
		expected += int64(item.Quantity) * item.PriceCents
	}
	assert.Equal(t, expected, cart.TotalPriceCents)
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	f := setupCart(t)

	cart, err := f.carts.GetCart(f.userID)

	require.NoError(t, err)
	assert.Equal(t, f.userID, cart.UserID)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPriceCents)
	assert.Contains(t, f.cartRepo.store, f.userID)
}

func TestAddItemReservesStock(t *testing.T) {
	f := setupCart(t)
	productID := f.addProduct(t, 1000, 5)

	cart, err := f.carts.AddItem(f.userID, productID, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, f.products.stock(productID))
	assert.Equal(t, int64(3000), cart.TotalPriceCents)

	_, err = f.carts.AddItem(f.userID, productID, 3)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.products.stock(productID))

	stored, _ := f.cartRepo.Find(f.userID)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, 3, stored.Items[0].Quantity)
}

func TestAddItemMergesLines(t *testing.T) {
	f := setupCart(t)
	productID := f.addProduct(t, 250, 10)

	_, err := f.carts.AddItem(f.userID, productID, 2)
	require.NoError(t, err)

	// The line keeps the price it was first added at.
	f.products.store[productID].PriceCents = 999
	cart, err := f.carts.AddItem(f.userID, productID, 1)

	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, int64(250), cart.Items[0].PriceCents)
	assertTotal(t, cart)
	assert.Equal(t, 7, f.products.stock(productID))
}

func TestAddItemValidation(t *testing.T) {
	f := setupCart(t)
	productID := f.addProduct(t, 100, 1)

	_, err := f.carts.AddItem(f.userID, productID, 0)
	assert.ErrorIs(t, err, model.ErrInvalidQuantity)

	_, err = f.carts.AddItem(f.userID, uuid.New(), 1)
	assert.ErrorIs(t, err, model.ErrProductNotFound)

	f.products.store[productID].Status = model.Unavailable
	_, err = f.carts.AddItem(f.userID, productID, 1)
	assert.ErrorIs(t, err, model.ErrProductNotAvailable)
	assert.Equal(t, 1, f.products.stock(productID))
}

func TestRemoveItemScenario(t *testing.T) {
	f := setupCart(t)
	first := f.addProduct(t, 10, 5)
	second := f.addProduct(t, 5, 5)

	_, err := f.carts.AddItem(f.userID, first, 2)
	require.NoError(t, err)
	cart, err := f.carts.AddItem(f.userID, second, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(25), cart.TotalPriceCents)
	assert.Equal(t, 3, f.products.stock(first))

	cart, err = f.carts.RemoveItem(f.userID, first)

	require.NoError(t, err)
	assert.Equal(t, int64(5), cart.TotalPriceCents)
	assert.Equal(t, 5, f.products.stock(first))
	require.Len(t, cart.Items, 1)
	assert.Equal(t, second, cart.Items[0].ProductID)
}

func TestRemoveItemWithDeletedProduct(t *testing.T) {
	f := setupCart(t)
	productID := f.addProduct(t, 10, 5)
	_, err := f.carts.AddItem(f.userID, productID, 2)
	require.NoError(t, err)
	delete(f.products.store, productID)

	cart, err := f.carts.RemoveItem(f.userID, productID)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPriceCents)
}

func TestRemoveItemErrors(t *testing.T) {
	f := setupCart(t)

	_, err := f.carts.RemoveItem(f.userID, uuid.New())
	assert.ErrorIs(t, err, model.ErrCartNotFound)

	_, err = f.carts.GetCart(f.userID)
	require.NoError(t, err)
	_, err = f.carts.RemoveItem(f.userID, uuid.New())
	assert.ErrorIs(t, err, model.ErrCartItemNotFound)
}

func TestSetItemQuantity(t *testing.T) {
	f := setupCart(t)
	productID := f.addProduct(t, 300, 10)
	_, err := f.carts.AddItem(f.userID, productID, 2)
	require.NoError(t, err)

	t.Run("Increase reserves the difference", func(t *testing.T) {
		cart, err := f.carts.SetItemQuantity(f.userID, productID, 6)

		require.NoError(t, err)
		assert.Equal(t, 4, f.products.stock(productID))
		assert.Equal(t, int64(1800), cart.TotalPriceCents)
	})

	t.Run("Decrease releases the difference", func(t *testing.T) {
		cart, err := f.carts.SetItemQuantity(f.userID, productID, 1)

		require.NoError(t, err)
		assert.Equal(t, 9, f.products.stock(productID))
		assertTotal(t, cart)
	})

	t.Run("Increase beyond stock fails", func(t *testing.T) {
		_, err := f.carts.SetItemQuantity(f.userID, productID, 11)

		assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		assert.Equal(t, 9, f.products.stock(productID))
		stored, _ := f.cartRepo.Find(f.userID)
		assert.Equal(t, 1, stored.Items[0].Quantity)
	})

	t.Run("Same quantity is a no-op", func(t *testing.T) {
		f.dispatcher.Reset()
		_, err := f.carts.SetItemQuantity(f.userID, productID, 1)

		require.NoError(t, err)
		assert.Empty(t, f.dispatcher.events)
	})

	t.Run("Invalid quantity", func(t *testing.T) {
		_, err := f.carts.SetItemQuantity(f.userID, productID, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestClearReleasesEveryLine(t *testing.T) {
	f := setupCart(t)
	first := f.addProduct(t, 10, 5)
	second := f.addProduct(t, 20, 5)
	_, err := f.carts.AddItem(f.userID, first, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.userID, second, 4)
	require.NoError(t, err)
	f.dispatcher.Reset()

	cart, err := f.carts.Clear(f.userID)

	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.TotalPriceCents)
	assert.Equal(t, 5, f.products.stock(first))
	assert.Equal(t, 5, f.products.stock(second))

	last := f.dispatcher.events[len(f.dispatcher.events)-1].(model.CartCleared)
	assert.Equal(t, 2, last.Items)
}

func TestFailedCartWriteRevertsStock(t *testing.T) {
	f := setupCart(t)
	productID := f.addProduct(t, 100, 5)

	t.Run("Add", func(t *testing.T) {
		f.cartRepo.failStore = true
		defer func() { f.cartRepo.failStore = false }()

		_, err := f.carts.AddItem(f.userID, productID, 3)

		assert.ErrorIs(t, err, errStoreUnavailable)
		assert.Equal(t, 5, f.products.stock(productID))
		assert.Empty(t, f.movements.store)
	})

	_, err := f.carts.AddItem(f.userID, productID, 2)
	require.NoError(t, err)

	t.Run("Set quantity", func(t *testing.T) {
		f.cartRepo.failStore = true
		defer func() { f.cartRepo.failStore = false }()

		_, err := f.carts.SetItemQuantity(f.userID, productID, 4)

		assert.ErrorIs(t, err, errStoreUnavailable)
		assert.Equal(t, 3, f.products.stock(productID))
		assert.Empty(t, f.movements.store)
	})

	t.Run("Remove", func(t *testing.T) {
		f.cartRepo.failStore = true
		defer func() { f.cartRepo.failStore = false }()

		_, err := f.carts.RemoveItem(f.userID, productID)

		assert.ErrorIs(t, err, errStoreUnavailable)
		assert.Equal(t, 3, f.products.stock(productID))
		assert.Empty(t, f.movements.store)
	})
}

func TestStockNeverNegative(t *testing.T) {
	f := setupCart(t)
	productID := f.addProduct(t, 100, 4)
	users := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	reserved := 0
	for _, userID := range users {
		if _, err := f.carts.AddItem(userID, productID, 2); err == nil {
			reserved += 2
		} else {
			assert.ErrorIs(t, err, model.ErrInsufficientStock)
		}
	}

	assert.Equal(t, 4, reserved)
	assert.Equal(t, 0, f.products.stock(productID))
}

func TestStockMovementsAreSettled(t *testing.T) {
	f := setupCart(t)
	first := f.addProduct(t, 100, 5)
	second := f.addProduct(t, 200, 5)

	_, err := f.carts.AddItem(f.userID, first, 2)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.userID, second, 1)
	require.NoError(t, err)
	_, err = f.carts.SetItemQuantity(f.userID, first, 3)
	require.NoError(t, err)
	_, err = f.carts.RemoveItem(f.userID, second)
	require.NoError(t, err)
	_, err = f.carts.Clear(f.userID)
	require.NoError(t, err)
	_, err = f.carts.AddItem(f.userID, first, 10)
	require.ErrorIs(t, err, model.ErrInsufficientStock)

	assert.Empty(t, f.movements.store)
}

func TestCrashAfterStockWriteLeavesMovement(t *testing.T) {
	f := setupCart(t)
	productID := f.addProduct(t, 100, 5)
	f.cartRepo.crashStore = true

	assert.Panics(t, func() { _, _ = f.carts.AddItem(f.userID, productID, 2) })

	assert.Equal(t, 3, f.products.stock(productID))
	require.Len(t, f.movements.store, 1)
	for _, movement := range f.movements.store {
		assert.Equal(t, f.userID, movement.UserID)
		assert.Equal(t, productID, movement.ProductID)
		assert.Equal(t, -2, movement.Delta)
		assert.Equal(t, 2, movement.CartQuantity)
	}
}
