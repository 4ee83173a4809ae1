package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	cartmodel "healthcare/pkg/cart/domain/model"
	"healthcare/pkg/common/domain"
	"healthcare/pkg/order/domain/model"
)

// OrderService turns carts into orders. Stock was reserved when the lines
// were added, so checkout empties the cart without returning anything to
// stock.
type OrderService interface {
	Checkout(userID uuid.UUID) (*model.Order, error)
	ListOrders(userID uuid.UUID) ([]model.Order, error)
}

func NewOrderService(orders model.OrderRepository, carts cartmodel.CartRepository, dispatcher domain.EventDispatcher) OrderService {
	return &orderService{orders: orders, carts: carts, dispatcher: dispatcher}
}

type orderService struct {
	orders     model.OrderRepository
	carts      cartmodel.CartRepository
	dispatcher domain.EventDispatcher
}

func (s *orderService) Checkout(userID uuid.UUID) (*model.Order, error) {
	cart, err := s.carts.Find(userID)
	if errors.Is(err, cartmodel.ErrCartNotFound) {
		return nil, model.ErrEmptyCart
	}
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, model.ErrEmptyCart
	}

	orderID, err := s.orders.NextID()
	if err != nil {
		return nil, err
	}
	order := &model.Order{
		ID:        orderID,
		UserID:    userID,
		Items:     make([]model.Item, 0, len(cart.Items)),
		Status:    model.Processing,
		CreatedAt: time.Now().UTC(),
	}
	for _, item := range cart.Items {
		order.Items = append(order.Items, model.Item{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
		order.TotalPriceCents += int64(item.Quantity) * item.PriceCents
	}

	if err := s.orders.Create(order); err != nil {
		return nil, err
	}

	cart.Clear()
	cart.RecalculateTotal()
	cart.UpdatedAt = time.Now().UTC()
	if err := s.carts.Store(cart); err != nil {
		if deleteErr := s.orders.Delete(orderID); deleteErr != nil {
			log.WithError(deleteErr).WithFields(log.Fields{
				"userID":  userID,
				"orderID": orderID,
			}).Error("order placed but cart was not emptied")
		}
		return nil, err
	}

	if err := s.dispatcher.Dispatch(model.OrderPlaced{
		OrderID:         orderID,
		UserID:          userID,
		Items:           len(order.Items),
		TotalPriceCents: order.TotalPriceCents,
	}); err != nil {
		log.WithError(err).WithField("orderID", orderID).Error("failed to dispatch event")
	}
	return order, nil
}

func (s *orderService) ListOrders(userID uuid.UUID) ([]model.Order, error) {
	return s.orders.ListByUser(userID)
}
