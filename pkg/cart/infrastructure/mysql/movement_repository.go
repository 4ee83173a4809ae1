package mysql

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"healthcare/pkg/cart/domain/model"
)

type stockMovementRow struct {
	ID           uuid.UUID `db:"id"`
	UserID       uuid.UUID `db:"user_id"`
	ProductID    uuid.UUID `db:"product_id"`
	Delta        int       `db:"delta"`
	CartQuantity int       `db:"cart_quantity"`
	CreatedAt    time.Time `db:"created_at"`
}

const stockMovementColumns = `id, user_id, product_id, delta, cart_quantity, created_at`

func NewStockMovementRepository(db *sqlx.DB) model.StockMovementRepository {
	return &stockMovementRepository{db: db}
}

type stockMovementRepository struct {
	db *sqlx.DB
}

func (r *stockMovementRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *stockMovementRepository) Create(movement *model.StockMovement) error {
	_, err := r.db.NamedExec(
		`INSERT INTO stock_movement (`+stockMovementColumns+`)
		VALUES (:id, :user_id, :product_id, :delta, :cart_quantity, :created_at)`,
		stockMovementRow(*movement),
	)
	return errors.Wrapf(err, "insert stock movement %s", movement.ID)
}

// Delete is idempotent: removing a settled movement twice is not an error.
func (r *stockMovementRepository) Delete(id uuid.UUID) error {
	_, err := r.db.Exec(`DELETE FROM stock_movement WHERE id = ?`, id)
	return errors.Wrapf(err, "delete stock movement %s", id)
}

func (r *stockMovementRepository) List(before time.Time) ([]model.StockMovement, error) {
	var rows []stockMovementRow
	err := r.db.Select(&rows,
		`SELECT `+stockMovementColumns+` FROM stock_movement WHERE created_at < ? ORDER BY created_at`,
		before,
	)
	if err != nil {
		return nil, errors.Wrap(err, "list stock movements")
	}
	movements := make([]model.StockMovement, 0, len(rows))
	for _, row := range rows {
		movements = append(movements, model.StockMovement(row))
	}
	return movements, nil
}
