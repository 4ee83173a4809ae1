package mysql

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"healthcare/pkg/cart/domain/model"
)

type cartRow struct {
	UserID          uuid.UUID `db:"user_id"`
	TotalPriceCents int64     `db:"total_price_cents"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type cartItemRow struct {
	UserID     uuid.UUID `db:"user_id"`
	ProductID  uuid.UUID `db:"product_id"`
	Position   int       `db:"position"`
	Quantity   int       `db:"quantity"`
	PriceCents int64     `db:"price_cents"`
}

func NewCartRepository(db *sqlx.DB) model.CartRepository {
	return &cartRepository{db: db}
}

type cartRepository struct {
	db *sqlx.DB
}

func (r *cartRepository) Find(userID uuid.UUID) (*model.Cart, error) {
	var row cartRow
	err := r.db.Get(&row, `SELECT user_id, total_price_cents, created_at, updated_at FROM cart WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrCartNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find cart of user %s", userID)
	}

	var items []cartItemRow
	err = r.db.Select(&items,
		`SELECT user_id, product_id, position, quantity, price_cents FROM cart_item WHERE user_id = ? ORDER BY position`,
		userID,
	)
	if err != nil {
		return nil, errors.Wrapf(err, "find cart items of user %s", userID)
	}
	return assembleCart(row, items), nil
}

// Store replaces the cart and all of its lines in one transaction.
func (r *cartRepository) Store(cart *model.Cart) (err error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return errors.Wrap(err, "begin cart transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.Exec(
		`INSERT INTO cart (user_id, total_price_cents, created_at, updated_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE total_price_cents = VALUES(total_price_cents), updated_at = VALUES(updated_at)`,
		cart.UserID, cart.TotalPriceCents, cart.CreatedAt, cart.UpdatedAt,
	)
	if err != nil {
		return errors.Wrapf(err, "upsert cart of user %s", cart.UserID)
	}

	if _, err = tx.Exec(`DELETE FROM cart_item WHERE user_id = ?`, cart.UserID); err != nil {
		return errors.Wrapf(err, "delete cart items of user %s", cart.UserID)
	}

	for i, item := range cart.Items {
		_, err = tx.NamedExec(
			`INSERT INTO cart_item (user_id, product_id, position, quantity, price_cents)
			VALUES (:user_id, :product_id, :position, :quantity, :price_cents)`,
			cartItemRow{
				UserID:     cart.UserID,
				ProductID:  item.ProductID,
				Position:   i,
				Quantity:   item.Quantity,
				PriceCents: item.PriceCents,
			},
		)
		if err != nil {
			return errors.Wrapf(err, "insert cart item %s", item.ProductID)
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit cart transaction")
	}
	return nil
}

func (r *cartRepository) List() ([]*model.Cart, error) {
	var rows []cartRow
	if err := r.db.Select(&rows, `SELECT user_id, total_price_cents, created_at, updated_at FROM cart ORDER BY user_id`); err != nil {
		return nil, errors.Wrap(err, "list carts")
	}

	var items []cartItemRow
	if err := r.db.Select(&items, `SELECT user_id, product_id, position, quantity, price_cents FROM cart_item ORDER BY user_id, position`); err != nil {
		return nil, errors.Wrap(err, "list cart items")
	}

	byUser := make(map[uuid.UUID][]cartItemRow, len(rows))
	for _, item := range items {
		byUser[item.UserID] = append(byUser[item.UserID], item)
	}

	carts := make([]*model.Cart, 0, len(rows))
	for _, row := range rows {
		carts = append(carts, assembleCart(row, byUser[row.UserID]))
	}
	return carts, nil
}

func assembleCart(row cartRow, items []cartItemRow) *model.Cart {
	cart := &model.Cart{
		UserID:          row.UserID,
		Items:           make([]model.Item, 0, len(items)),
		TotalPriceCents: row.TotalPriceCents,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	for _, item := range items {
		cart.Items = append(cart.Items, model.Item{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}
	return cart
}
