package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"healthcare/pkg/common/domain"
)

var (
	ErrCartNotFound     = errors.WithMessage(domain.ErrNotFound, "cart")
	ErrCartItemNotFound = errors.WithMessage(domain.ErrNotFound, "cart item")
)

// Item is one cart line. PriceCents is the product price at the time the
// line was first added.
type Item struct {
	ProductID  uuid.UUID
	Quantity   int
	PriceCents int64
}

// Cart belongs to exactly one user and holds at most one line per product.
// TotalPriceCents always equals the sum of Quantity*PriceCents over Items.
type Cart struct {
	UserID          uuid.UUID
	Items           []Item
	TotalPriceCents int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func NewCart(userID uuid.UUID) *Cart {
	now := time.Now().UTC()
	return &Cart{
		UserID:    userID,
		Items:     []Item{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (c *Cart) Item(productID uuid.UUID) (Item, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// AddItem merges quantity into an existing line or appends a new one.
func (c *Cart) AddItem(productID uuid.UUID, quantity int, priceCents int64) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, Item{ProductID: productID, Quantity: quantity, PriceCents: priceCents})
	}
	c.RecalculateTotal()
}

func (c *Cart) SetQuantity(productID uuid.UUID, quantity int) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrCartItemNotFound
	}
	c.Items[i].Quantity = quantity
	c.RecalculateTotal()
	return nil
}

func (c *Cart) RemoveItem(productID uuid.UUID) (Item, error) {
	i := c.indexOf(productID)
	if i < 0 {
		return Item{}, ErrCartItemNotFound
	}
	removed := c.Items[i]
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	c.RecalculateTotal()
	return removed, nil
}

// Clear empties the cart and returns the lines it held.
func (c *Cart) Clear() []Item {
	removed := c.Items
	c.Items = []Item{}
	c.RecalculateTotal()
	return removed
}

func (c *Cart) RecalculateTotal() {
	var total int64
	for _, item := range c.Items {
		total += int64(item.Quantity) * item.PriceCents
	}
	c.TotalPriceCents = total
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i, item := range c.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

type CartRepository interface {
	Find(userID uuid.UUID) (*Cart, error)
	Store(cart *Cart) error
	List() ([]*Cart, error)
}
