package mysql

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"healthcare/pkg/cart/domain/model"
)

type productRow struct {
	ID            uuid.UUID `db:"id"`
	Name          string    `db:"name"`
	Description   string    `db:"description"`
	PriceCents    int64     `db:"price_cents"`
	StockQuantity int       `db:"stock_quantity"`
	Status        int       `db:"status"`
	Version       int       `db:"version"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

const productColumns = `id, name, description, price_cents, stock_quantity, status, version, created_at, updated_at`

func NewProductRepository(db *sqlx.DB) model.ProductRepository {
	return &productRepository{db: db}
}

type productRepository struct {
	db *sqlx.DB
}

func (r *productRepository) NextID() (uuid.UUID, error) {
	return uuid.NewRandom()
}

func (r *productRepository) Create(product *model.Product) error {
	_, err := r.db.NamedExec(
		`INSERT INTO product (`+productColumns+`)
		VALUES (:id, :name, :description, :price_cents, :stock_quantity, :status, :version, :created_at, :updated_at)`,
		toProductRow(product),
	)
	return errors.Wrapf(err, "insert product %s", product.ID)
}

func (r *productRepository) Update(product *model.Product) error {
	res, err := r.db.NamedExec(
		`UPDATE product SET
			name = :name,
			description = :description,
			price_cents = :price_cents,
			stock_quantity = :stock_quantity,
			status = :status,
			version = :version,
			updated_at = :updated_at
		WHERE id = :id AND version = :version - 1`,
		toProductRow(product),
	)
	if err != nil {
		return errors.Wrapf(err, "update product %s", product.ID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "read affected rows")
	}
	if n > 0 {
		return nil
	}

	var exists bool
	if err := r.db.Get(&exists, `SELECT EXISTS(SELECT 1 FROM product WHERE id = ?)`, product.ID); err != nil {
		return errors.Wrapf(err, "check product %s", product.ID)
	}
	if !exists {
		return model.ErrProductNotFound
	}
	return errors.Wrapf(model.ErrProductConflict, "product %s version %d", product.ID, product.Version-1)
}

func (r *productRepository) Find(id uuid.UUID) (*model.Product, error) {
	var row productRow
	err := r.db.Get(&row, `SELECT `+productColumns+` FROM product WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrProductNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "find product %s", id)
	}
	product := fromProductRow(row)
	return &product, nil
}

func (r *productRepository) List() ([]model.Product, error) {
	var rows []productRow
	if err := r.db.Select(&rows, `SELECT `+productColumns+` FROM product WHERE status <> ? ORDER BY name`, int(model.Archived)); err != nil {
		return nil, errors.Wrap(err, "list products")
	}
	products := make([]model.Product, 0, len(rows))
	for _, row := range rows {
		products = append(products, fromProductRow(row))
	}
	return products, nil
}

func toProductRow(p *model.Product) productRow {
	return productRow{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		PriceCents:    p.PriceCents,
		StockQuantity: p.StockQuantity,
		Status:        int(p.Status),
		Version:       p.Version,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func fromProductRow(row productRow) model.Product {
	return model.Product{
		ID:            row.ID,
		Name:          row.Name,
		Description:   row.Description,
		PriceCents:    row.PriceCents,
		StockQuantity: row.StockQuantity,
		Status:        model.ProductStatus(row.Status),
		Version:       row.Version,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
