package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"healthcare/pkg/common/domain"
)

var (
	ErrOrderNotFound = errors.WithMessage(domain.ErrNotFound, "order")
	ErrEmptyCart     = errors.WithMessage(domain.ErrInvalidInput, "cannot check out an empty cart")
)

type OrderStatus string

const Processing OrderStatus = "Processing"

// Order is a snapshot of a checked out cart. Lines keep the price the cart
// held, not the current product price.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Items           []Item
	TotalPriceCents int64
	Status          OrderStatus
	CreatedAt       time.Time
}

type Item struct {
	ProductID  uuid.UUID
	Quantity   int
	PriceCents int64
}

type OrderRepository interface {
	NextID() (uuid.UUID, error)
	Create(order *Order) error
	Delete(id uuid.UUID) error
	// ListByUser returns the user's orders, newest first.
	ListByUser(userID uuid.UUID) ([]Order, error)
}
