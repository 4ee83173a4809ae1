package model

import "github.com/google/uuid"

type ProductCreated struct {
	ProductID uuid.UUID
	Name      string
}

func (e ProductCreated) Type() string { return "ProductCreated" }

type ProductPriceChanged struct {
	ProductID     uuid.UUID
	OldPriceCents int64
	NewPriceCents int64
}

func (e ProductPriceChanged) Type() string { return "ProductPriceChanged" }

type ProductStockChanged struct {
	ProductID    uuid.UUID
	ChangeAmount int // positive: returned to stock, negative: reserved
	NewQuantity  int
}

func (e ProductStockChanged) Type() string { return "ProductStockChanged" }

type ProductStatusChanged struct {
	ProductID uuid.UUID
	OldStatus ProductStatus
	NewStatus ProductStatus
}

func (e ProductStatusChanged) Type() string { return "ProductStatusChanged" }

type CartItemAdded struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

func (e CartItemAdded) Type() string { return "CartItemAdded" }

type CartItemQuantityChanged struct {
	UserID      uuid.UUID
	ProductID   uuid.UUID
	OldQuantity int
	NewQuantity int
}

func (e CartItemQuantityChanged) Type() string { return "CartItemQuantityChanged" }

type CartItemRemoved struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

func (e CartItemRemoved) Type() string { return "CartItemRemoved" }

type CartCleared struct {
	UserID uuid.UUID
	Items  int
}

func (e CartCleared) Type() string { return "CartCleared" }
