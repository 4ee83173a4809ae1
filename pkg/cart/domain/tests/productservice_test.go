package tests

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcare/pkg/cart/domain/model"
	"healthcare/pkg/cart/domain/service"
)

func setupProducts(t *testing.T) (service.ProductService, *mockProductRepository, *mockEventDispatcher) {
	t.Helper()
	repo := newMockProductRepository()
	dispatcher := &mockEventDispatcher{}
	return service.NewProductService(repo, dispatcher), repo, dispatcher
}

func TestCreateProduct(t *testing.T) {
	productService, repo, dispatcher := setupProducts(t)

	product, err := productService.CreateProduct(" Protein bar ", "Chocolate", 250, 40)

	require.NoError(t, err)
	assert.Equal(t, "Protein bar", product.Name)
	assert.Equal(t, 40, product.StockQuantity)
	assert.Equal(t, model.Available, product.Status)
	assert.Contains(t, repo.store, product.ID)
	require.Len(t, dispatcher.events, 1)
	assert.IsType(t, model.ProductCreated{}, dispatcher.events[0])

	_, err = productService.CreateProduct("", "", 100, 1)
	assert.ErrorIs(t, err, service.ErrInvalidProduct)
	_, err = productService.CreateProduct("Bar", "", -1, 1)
	assert.ErrorIs(t, err, model.ErrNegativePrice)
	_, err = productService.CreateProduct("Bar", "", 1, -1)
	assert.ErrorIs(t, err, service.ErrInvalidProduct)
}

func TestReceiveStock(t *testing.T) {
	productService, repo, dispatcher := setupProducts(t)
	product, _ := productService.CreateProduct("Shaker", "", 900, 1)
	dispatcher.Reset()

	require.NoError(t, productService.ReceiveStock(product.ID, 9))

	assert.Equal(t, 10, repo.stock(product.ID))
	event := dispatcher.events[0].(model.ProductStockChanged)
	assert.Equal(t, 9, event.ChangeAmount)
	assert.Equal(t, 10, event.NewQuantity)

	assert.ErrorIs(t, productService.ReceiveStock(product.ID, 0), model.ErrInvalidQuantity)
	assert.ErrorIs(t, productService.ReceiveStock(uuid.New(), 1), model.ErrProductNotFound)
}

func TestChangeProductPrice(t *testing.T) {
	productService, repo, dispatcher := setupProducts(t)
	product, _ := productService.CreateProduct("Mat", "", 1500, 3)
	dispatcher.Reset()

	require.NoError(t, productService.ChangeProductPrice(product.ID, 1200))

	assert.Equal(t, int64(1200), repo.store[product.ID].PriceCents)
	event := dispatcher.events[0].(model.ProductPriceChanged)
	assert.Equal(t, int64(1500), event.OldPriceCents)
	assert.ErrorIs(t, productService.ChangeProductPrice(product.ID, -5), model.ErrNegativePrice)
}

func TestAvailabilityAndArchive(t *testing.T) {
	productService, repo, dispatcher := setupProducts(t)
	product, _ := productService.CreateProduct("Bands", "", 700, 3)
	dispatcher.Reset()

	require.NoError(t, productService.SetAvailability(product.ID, false))
	assert.Equal(t, model.Unavailable, repo.store[product.ID].Status)

	require.NoError(t, productService.SetAvailability(product.ID, false))
	assert.Len(t, dispatcher.events, 1)

	require.NoError(t, productService.ArchiveProduct(product.ID))
	assert.ErrorIs(t, productService.SetAvailability(product.ID, true), model.ErrProductNotAvailable)
	assert.ErrorIs(t, productService.ReceiveStock(product.ID, 1), model.ErrProductNotAvailable)

	products, err := productService.ListProducts()
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestUnchangedStatusIsNotStored(t *testing.T) {
	productService, repo, dispatcher := setupProducts(t)
	product, _ := productService.CreateProduct("Rope", "", 900, 2)
	updatedAt := repo.store[product.ID].UpdatedAt
	dispatcher.Reset()

	require.NoError(t, productService.SetAvailability(product.ID, true))

	assert.Zero(t, repo.updates)
	assert.Equal(t, updatedAt, repo.store[product.ID].UpdatedAt)
	assert.Equal(t, 1, repo.store[product.ID].Version)
	assert.Empty(t, dispatcher.events)

	require.NoError(t, productService.ArchiveProduct(product.ID))
	require.NoError(t, productService.ArchiveProduct(product.ID))
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, 2, repo.store[product.ID].Version)
}

func TestReceiveStockKeepsConcurrentChange(t *testing.T) {
	productService, repo, _ := setupProducts(t)
	product, _ := productService.CreateProduct("Kettlebell", "", 4500, 4)
	raced := false
	repo.beforeUpdate = func(id uuid.UUID) {
		if !raced {
			raced = true
			repo.store[id].StockQuantity--
			repo.store[id].Version++
		}
	}

	require.NoError(t, productService.ReceiveStock(product.ID, 5))

	assert.Equal(t, 8, repo.stock(product.ID))
	assert.Equal(t, 3, repo.store[product.ID].Version)
}
