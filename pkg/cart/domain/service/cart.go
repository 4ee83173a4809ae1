package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"healthcare/pkg/cart/domain/model"
	"healthcare/pkg/common/domain"
)

// CartService mutates carts and moves product stock by the exact opposite
// amount through the InventoryLedger. Every stock change is journaled as a
// StockMovement first, then stock is written and the cart last. The entry is
// dropped once the cart is stored or the stock change has been reverted, so
// whatever remains after a crash is picked up by reconciliation.
type CartService interface {
	GetCart(userID uuid.UUID) (*model.Cart, error)
	AddItem(userID, productID uuid.UUID, quantity int) (*model.Cart, error)
	SetItemQuantity(userID, productID uuid.UUID, quantity int) (*model.Cart, error)
	RemoveItem(userID, productID uuid.UUID) (*model.Cart, error)
	Clear(userID uuid.UUID) (*model.Cart, error)
}

func NewCartService(
	carts model.CartRepository,
	products model.ProductRepository,
	movements model.StockMovementRepository,
	ledger InventoryLedger,
	dispatcher domain.EventDispatcher,
) CartService {
	return &cartService{
		carts:      carts,
		products:   products,
		movements:  movements,
		ledger:     ledger,
		dispatcher: dispatcher,
	}
}

type cartService struct {
	carts      model.CartRepository
	products   model.ProductRepository
	movements  model.StockMovementRepository
	ledger     InventoryLedger
	dispatcher domain.EventDispatcher
}

// GetCart returns the user's cart, creating an empty one on first access.
func (s *cartService) GetCart(userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.carts.Find(userID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, model.ErrCartNotFound) {
		return nil, err
	}

	cart = model.NewCart(userID)
	if err := s.carts.Store(cart); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *cartService) AddItem(userID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	product, err := s.products.Find(productID)
	if err != nil {
		return nil, err
	}
	if product.Status != model.Available {
		return nil, model.ErrProductNotAvailable
	}

	cart, err := s.carts.Find(userID)
	if errors.Is(err, model.ErrCartNotFound) {
		cart, err = model.NewCart(userID), nil
	}
	if err != nil {
		return nil, err
	}

	lineQuantity := quantity
	if item, ok := cart.Item(productID); ok {
		lineQuantity += item.Quantity
	}
	movementID, err := s.journal(userID, productID, -quantity, lineQuantity)
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.Reserve(productID, quantity); err != nil {
		s.settle(movementID)
		return nil, err
	}

	cart.AddItem(productID, quantity, product.PriceCents)
	if err := s.storeCart(cart); err != nil {
		if s.revertStock(userID, productID, quantity) {
			s.settle(movementID)
		}
		return nil, err
	}
	s.settle(movementID)

	dispatchEvents(s.dispatcher, model.CartItemAdded{UserID: userID, ProductID: productID, Quantity: quantity})
	return cart, nil
}

func (s *cartService) SetItemQuantity(userID, productID uuid.UUID, quantity int) (*model.Cart, error) {
	if quantity < 1 {
		return nil, model.ErrInvalidQuantity
	}

	cart, err := s.carts.Find(userID)
	if err != nil {
		return nil, err
	}
	item, ok := cart.Item(productID)
	if !ok {
		return nil, model.ErrCartItemNotFound
	}

	diff := quantity - item.Quantity
	if diff == 0 {
		return cart, nil
	}
	movementID, err := s.journal(userID, productID, -diff, quantity)
	if err != nil {
		return nil, err
	}
	if _, err := s.ledger.Adjust(productID, -diff); err != nil {
		s.settle(movementID)
		return nil, err
	}

	if err := cart.SetQuantity(productID, quantity); err != nil {
		return nil, err
	}
	if err := s.storeCart(cart); err != nil {
		if s.revertStock(userID, productID, diff) {
			s.settle(movementID)
		}
		return nil, err
	}
	s.settle(movementID)

	dispatchEvents(s.dispatcher, model.CartItemQuantityChanged{
		UserID:      userID,
		ProductID:   productID,
		OldQuantity: item.Quantity,
		NewQuantity: quantity,
	})
	return cart, nil
}

// RemoveItem drops one line and returns its quantity to stock. Lines whose
// product no longer exists are dropped without touching stock.
func (s *cartService) RemoveItem(userID, productID uuid.UUID) (*model.Cart, error) {
	cart, err := s.carts.Find(userID)
	if err != nil {
		return nil, err
	}
	item, ok := cart.Item(productID)
	if !ok {
		return nil, model.ErrCartItemNotFound
	}

	movementID, err := s.journal(userID, productID, item.Quantity, 0)
	if err != nil {
		return nil, err
	}
	released, err := s.release(item)
	if err != nil || !released {
		s.settle(movementID)
	}
	if err != nil {
		return nil, err
	}

	if _, err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}
	if err := s.storeCart(cart); err != nil {
		if released && s.revertStock(userID, productID, -item.Quantity) {
			s.settle(movementID)
		}
		return nil, err
	}
	if released {
		s.settle(movementID)
	}

	dispatchEvents(s.dispatcher, model.CartItemRemoved{UserID: userID, ProductID: productID, Quantity: item.Quantity})
	return cart, nil
}

// Clear empties the cart, returning every line's quantity to stock. The cart
// record itself is kept.
func (s *cartService) Clear(userID uuid.UUID) (*model.Cart, error) {
	cart, err := s.carts.Find(userID)
	if err != nil {
		return nil, err
	}

	items := append([]model.Item(nil), cart.Items...)
	var movementIDs []uuid.UUID
	for _, item := range items {
		movementID, err := s.journal(userID, item.ProductID, item.Quantity, 0)
		if err == nil {
			_, err = s.release(item)
			if err != nil {
				s.settle(movementID)
			}
		}
		if err != nil {
			// Lines released so far are already back in stock; drop them so
			// the stored cart matches.
			if storeErr := s.storeCart(cart); storeErr != nil {
				log.WithError(storeErr).WithField("userID", userID).Error("failed to store partially cleared cart")
			} else {
				s.settle(movementIDs...)
			}
			return nil, err
		}
		movementIDs = append(movementIDs, movementID)
		_, _ = cart.RemoveItem(item.ProductID)
	}

	if err := s.storeCart(cart); err != nil {
		log.WithError(err).WithField("userID", userID).Error("stock released but cart was not cleared")
		return nil, err
	}
	s.settle(movementIDs...)

	dispatchEvents(s.dispatcher, model.CartCleared{UserID: userID, Items: len(items)})
	return cart, nil
}

func (s *cartService) release(item model.Item) (bool, error) {
	_, err := s.ledger.Release(item.ProductID, item.Quantity)
	if errors.Is(err, model.ErrProductNotFound) {
		return false, nil
	}
	return err == nil, err
}

// revertStock undoes a ledger change after the cart write failed and reports
// whether the revert went through.
func (s *cartService) revertStock(userID, productID uuid.UUID, delta int) bool {
	if _, err := s.ledger.Adjust(productID, delta); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"userID":    userID,
			"productID": productID,
			"delta":     delta,
		}).Error("failed to revert stock after cart write failure")
		return false
	}
	return true
}

func (s *cartService) journal(userID, productID uuid.UUID, delta, cartQuantity int) (uuid.UUID, error) {
	id, err := s.movements.NextID()
	if err != nil {
		return uuid.Nil, err
	}
	movement := &model.StockMovement{
		ID:           id,
		UserID:       userID,
		ProductID:    productID,
		Delta:        delta,
		CartQuantity: cartQuantity,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.movements.Create(movement); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

// settle drops journal entries whose stock change is accounted for. A failed
// delete leaves an entry that reconciliation recognizes as already applied.
func (s *cartService) settle(ids ...uuid.UUID) {
	for _, id := range ids {
		if err := s.movements.Delete(id); err != nil {
			log.WithError(err).WithField("movementID", id).Warn("failed to drop stock movement")
		}
	}
}

func (s *cartService) storeCart(cart *model.Cart) error {
	cart.RecalculateTotal()
	cart.UpdatedAt = time.Now().UTC()
	return s.carts.Store(cart)
}
