package service

import (
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"healthcare/pkg/cart/domain/model"
	"healthcare/pkg/common/domain"
)

// InventoryLedger is the only path through which cart changes move product
// stock. Every call persists the product before returning, so callers must
// write the cart afterwards: product first, cart second.
type InventoryLedger interface {
	Reserve(productID uuid.UUID, quantity int) (*model.Product, error)
	Adjust(productID uuid.UUID, delta int) (*model.Product, error)
	Release(productID uuid.UUID, quantity int) (*model.Product, error)
}

func NewInventoryLedger(repo model.ProductRepository, dispatcher domain.EventDispatcher) InventoryLedger {
	return &inventoryLedger{repo: repo, dispatcher: dispatcher}
}

type inventoryLedger struct {
	repo       model.ProductRepository
	dispatcher domain.EventDispatcher
}

func (l *inventoryLedger) Reserve(productID uuid.UUID, quantity int) (*model.Product, error) {
	return l.executeOnProduct(productID, func(p *model.Product) error {
		if p.Status != model.Available {
			return model.ErrProductNotAvailable
		}
		return p.Reserve(quantity)
	})
}

func (l *inventoryLedger) Adjust(productID uuid.UUID, delta int) (*model.Product, error) {
	return l.executeOnProduct(productID, func(p *model.Product) error {
		if delta < 0 && p.Status != model.Available {
			return model.ErrProductNotAvailable
		}
		return p.Adjust(delta)
	})
}

func (l *inventoryLedger) Release(productID uuid.UUID, quantity int) (*model.Product, error) {
	return l.executeOnProduct(productID, func(p *model.Product) error {
		p.Release(quantity)
		return nil
	})
}

// executeOnProduct replays the whole read-modify-write when another writer
// moved the product in between, so a concurrent change is never overwritten.
func (l *inventoryLedger) executeOnProduct(productID uuid.UUID, action func(p *model.Product) error) (*model.Product, error) {
	var product *model.Product
	var before int
	err := retryOnConflict(func() error {
		var err error
		product, err = l.repo.Find(productID)
		if err != nil {
			return err
		}

		before = product.StockQuantity
		if err := action(product); err != nil {
			return err
		}
		if product.StockQuantity == before {
			return nil
		}
		return updateProduct(l.repo, product)
	})
	if err != nil {
		return nil, err
	}
	if product.StockQuantity == before {
		return product, nil
	}

	dispatchEvents(l.dispatcher, model.ProductStockChanged{
		ProductID:    productID,
		ChangeAmount: product.StockQuantity - before,
		NewQuantity:  product.StockQuantity,
	})
	return product, nil
}

func dispatchEvents(dispatcher domain.EventDispatcher, events ...domain.Event) {
	for _, event := range events {
		if err := dispatcher.Dispatch(event); err != nil {
			log.WithError(err).WithField("event", event.Type()).Error("failed to dispatch event")
		}
	}
}
