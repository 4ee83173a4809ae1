package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"healthcare/pkg/common/domain"
)

var (
	ErrProductNotFound     = errors.WithMessage(domain.ErrNotFound, "product")
	ErrInsufficientStock   = errors.WithMessage(domain.ErrInsufficientStock, "product stock")
	ErrInvalidQuantity     = errors.WithMessage(domain.ErrInvalidInput, "quantity must be a positive number")
	ErrNegativePrice       = errors.WithMessage(domain.ErrInvalidInput, "price cannot be negative")
	ErrProductNotAvailable = errors.WithMessage(domain.ErrInvalidInput, "operation cannot be performed on an unavailable or archived product")
	ErrProductConflict     = errors.WithMessage(domain.ErrConflict, "product has been modified by another transaction")
)

type ProductStatus int

const (
	Available ProductStatus = iota
	Unavailable
	Archived
)

type Product struct {
	ID            uuid.UUID
	Name          string
	Description   string
	PriceCents    int64
	StockQuantity int
	Status        ProductStatus
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reserve takes quantity units out of stock.
func (p *Product) Reserve(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.StockQuantity {
		return errors.Wrapf(ErrInsufficientStock, "requested %d of %q, %d left", quantity, p.Name, p.StockQuantity)
	}
	p.StockQuantity -= quantity
	return nil
}

// Adjust applies a signed stock change: positive releases, negative reserves.
func (p *Product) Adjust(delta int) error {
	switch {
	case delta < 0:
		return p.Reserve(-delta)
	case delta > 0:
		p.Release(delta)
	}
	return nil
}

// Release puts quantity units back into stock. Non-positive quantities are
// ignored so stock never goes negative.
func (p *Product) Release(quantity int) {
	if quantity <= 0 {
		return
	}
	p.StockQuantity += quantity
}

type ProductRepository interface {
	NextID() (uuid.UUID, error)
	Create(product *Product) error
	// Update stores product only if the stored row still carries
	// product.Version-1 and fails with ErrProductConflict otherwise.
	Update(product *Product) error
	Find(id uuid.UUID) (*Product, error)
	List() ([]Product, error)
}
