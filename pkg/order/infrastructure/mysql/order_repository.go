package mysql

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"healthcare/pkg/order/domain/model"
)

type orderRow struct {
	ID              uuid.UUID `db:"id"`
	UserID          uuid.UUID `db:"user_id"`
	TotalPriceCents int64     `db:"total_price_cents"`
	Status          string    `db:"status"`
	CreatedAt       time.Time `db:"created_at"`
}

type orderItemRow struct {
	OrderID    uuid.UUID `db:"order_id"`
	ProductID  uuid.UUID `db:"product_id"`
	Position   int       `db:"position"`
	Quantity   int       `db:"quantity"`
	PriceCents int64     `db:"price_cents"`
}

func NewOrderRepository(db *sqlx.DB) model.OrderRepository {
	return &orderRepository{db: db}
}

type orderRepository struct {
	db *sqlx.DB
}

func (r *orderRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

// Create inserts the order and its lines in one transaction.
func (r *orderRepository) Create(order *model.Order) (err error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin order transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.NamedExec(
		`INSERT INTO customer_order (id, user_id, total_price_cents, status, created_at)
		VALUES (:id, :user_id, :total_price_cents, :status, :created_at)`,
		orderRow{
			ID:              order.ID,
			UserID:          order.UserID,
			TotalPriceCents: order.TotalPriceCents,
			Status:          string(order.Status),
			CreatedAt:       order.CreatedAt,
		},
	)
	if err != nil {
		return errors.Wrapf(err, "insert order %s", order.ID)
	}

	for i, item := range order.Items {
		_, err = tx.NamedExec(
			`INSERT INTO customer_order_item (order_id, product_id, position, quantity, price_cents)
			VALUES (:order_id, :product_id, :position, :quantity, :price_cents)`,
			orderItemRow{
				OrderID:    order.ID,
				ProductID:  item.ProductID,
				Position:   i,
				Quantity:   item.Quantity,
				PriceCents: item.PriceCents,
			},
		)
		if err != nil {
			return errors.Wrapf(err, "insert order item %s", item.ProductID)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit order transaction")
	}
	return nil
}

// Delete removes the order; its lines go with it through the foreign key.
func (r *orderRepository) Delete(id uuid.UUID) error {
	res, err := r.db.Exec(`DELETE FROM customer_order WHERE id = ?`, id)
	if err != nil {
		return errors.Wrapf(err, "delete order %s", id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if n == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *orderRepository) ListByUser(userID uuid.UUID) ([]model.Order, error) {
	var rows []orderRow
	err := r.db.Select(&rows,
		`SELECT id, user_id, total_price_cents, status, created_at FROM customer_order
		WHERE user_id = ? ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "list orders of user %s", userID)
	}

	var items []orderItemRow
	err = r.db.Select(&items,
		`SELECT i.order_id, i.product_id, i.position, i.quantity, i.price_cents
		FROM customer_order_item i JOIN customer_order o ON o.id = i.order_id
		WHERE o.user_id = ? ORDER BY i.order_id, i.position`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "list order items of user %s", userID)
	}

	byOrder := make(map[uuid.UUID][]model.Item, len(rows))
	for _, item := range items {
		byOrder[item.OrderID] = append(byOrder[item.OrderID], model.Item{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}

	orders := make([]model.Order, 0, len(rows))
	for _, row := range rows {
		orders = append(orders, model.Order{
			ID:              row.ID,
			UserID:          row.UserID,
			Items:           byOrder[row.ID],
			TotalPriceCents: row.TotalPriceCents,
			Status:          model.OrderStatus(row.Status),
			CreatedAt:       row.CreatedAt,
		})
	}
	return orders, nil
}
