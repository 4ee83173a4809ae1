package model

import (
	"time"

	"github.com/google/uuid"
)

// StockMovement journals a stock change made on behalf of a cart before the
// cart itself is written. An entry that outlives its request marks a stock
// change whose cart write never happened.
type StockMovement struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	ProductID uuid.UUID
	// Delta is the change applied to product stock: negative reserves,
	// positive releases.
	Delta int
	// CartQuantity is the quantity the cart line holds once the cart write
	// succeeds; zero when the line is removed.
	CartQuantity int
	CreatedAt    time.Time
}

type StockMovementRepository interface {
	NextID() (uuid.UUID, error)
	Create(movement *StockMovement) error
	Delete(id uuid.UUID) error
	// List returns movements created before the given time, oldest first.
	List(before time.Time) ([]StockMovement, error)
}
