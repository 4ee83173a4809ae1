package model

import "github.com/google/uuid"

type OrderPlaced struct {
	OrderID         uuid.UUID
	UserID          uuid.UUID
	Items           int
	TotalPriceCents int64
}

func (e OrderPlaced) Type() string { return "OrderPlaced" }
