package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"healthcare/pkg/cart/domain/model"
	domainservice "healthcare/pkg/cart/domain/service"
)

// OrphanLine is a cart line whose product no longer exists.
type OrphanLine struct {
	UserID    uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// TotalDrift is a cart whose stored total disagrees with its lines.
type TotalDrift struct {
	UserID   uuid.UUID
	Stored   int64
	Expected int64
}

// PendingMovement is a journaled stock change whose cart write never landed:
// the cart line does not hold the quantity the movement was made for.
type PendingMovement struct {
	MovementID   uuid.UUID
	UserID       uuid.UUID
	ProductID    uuid.UUID
	Delta        int
	CartQuantity int
	LineQuantity int
}

type Report struct {
	CartsChecked int
	Drifts       []TotalDrift
	Orphans      []OrphanLine
	Pending      []PendingMovement
	Fixed        int
	// Reverted counts pending movements whose stock change was undone.
	Reverted int
	// Settled counts stale journal entries whose cart write had landed.
	Settled int
}

func (r Report) Consistent() bool {
	return len(r.Drifts) == 0 && len(r.Orphans) == 0 && len(r.Pending) == 0
}

// ConsistencyChecker is the repair path for carts and stock left inconsistent
// by a failure between the stock write and the cart write.
type ConsistencyChecker interface {
	Check(fix bool) (Report, error)
}

// NewConsistencyChecker builds a checker that ignores journal entries younger
// than grace, which may still belong to requests in flight.
func NewConsistencyChecker(
	carts model.CartRepository,
	products model.ProductRepository,
	movements model.StockMovementRepository,
	ledger domainservice.InventoryLedger,
	grace time.Duration,
) ConsistencyChecker {
	return &consistencyChecker{
		carts:     carts,
		products:  products,
		movements: movements,
		ledger:    ledger,
		grace:     grace,
	}
}

type consistencyChecker struct {
	carts     model.CartRepository
	products  model.ProductRepository
	movements model.StockMovementRepository
	ledger    domainservice.InventoryLedger
	grace     time.Duration
}

func (c *consistencyChecker) Check(fix bool) (Report, error) {
	var report Report
	if err := c.checkMovements(&report, fix); err != nil {
		return report, err
	}

	carts, err := c.carts.List()
	if err != nil {
		return report, err
	}

	for _, cart := range carts {
		report.CartsChecked++

		stored := cart.TotalPriceCents
		cart.RecalculateTotal()
		dirty := cart.TotalPriceCents != stored
		if dirty {
			report.Drifts = append(report.Drifts, TotalDrift{
				UserID:   cart.UserID,
				Stored:   stored,
				Expected: cart.TotalPriceCents,
			})
		}

		for _, item := range append([]model.Item(nil), cart.Items...) {
			_, err := c.products.Find(item.ProductID)
			if err == nil {
				continue
			}
			if !errors.Is(err, model.ErrProductNotFound) {
				return report, err
			}
			report.Orphans = append(report.Orphans, OrphanLine{
				UserID:    cart.UserID,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
			_, _ = cart.RemoveItem(item.ProductID)
			dirty = true
		}

		if fix && dirty {
			if err := c.carts.Store(cart); err != nil {
				return report, err
			}
			report.Fixed++
			log.WithField("userID", cart.UserID).Info("cart repaired")
		}
	}
	return report, nil
}

func (c *consistencyChecker) checkMovements(report *Report, fix bool) error {
	movements, err := c.movements.List(time.Now().UTC().Add(-c.grace))
	if err != nil {
		return err
	}

	for _, movement := range movements {
		lineQuantity, err := c.lineQuantity(movement.UserID, movement.ProductID)
		if err != nil {
			return err
		}

		if lineQuantity == movement.CartQuantity {
			if fix {
				if err := c.movements.Delete(movement.ID); err != nil {
					return err
				}
				report.Settled++
			}
			continue
		}

		report.Pending = append(report.Pending, PendingMovement{
			MovementID:   movement.ID,
			UserID:       movement.UserID,
			ProductID:    movement.ProductID,
			Delta:        movement.Delta,
			CartQuantity: movement.CartQuantity,
			LineQuantity: lineQuantity,
		})
		if !fix {
			continue
		}

		fields := log.Fields{
			"userID":    movement.UserID,
			"productID": movement.ProductID,
			"delta":     -movement.Delta,
		}
		_, err = c.ledger.Adjust(movement.ProductID, -movement.Delta)
		if err != nil && !errors.Is(err, model.ErrProductNotFound) {
			log.WithError(err).WithFields(fields).Warn("cannot revert stock movement")
			continue
		}
		if err := c.movements.Delete(movement.ID); err != nil {
			return err
		}
		report.Reverted++
		log.WithFields(fields).Info("stock movement reverted")
	}
	return nil
}

func (c *consistencyChecker) lineQuantity(userID, productID uuid.UUID) (int, error) {
	cart, err := c.carts.Find(userID)
	if errors.Is(err, model.ErrCartNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if item, ok := cart.Item(productID); ok {
		return item.Quantity, nil
	}
	return 0, nil
}
