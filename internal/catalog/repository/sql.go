package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stock/internal/catalog/dto"
	"github.com/fekuna/omnipos-stock/internal/database"
	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/jmoiron/sqlx"
)

const variantColumns = `id, product_id, barcode, name, size, quantity, price, created_at, updated_at`

// (product_id, size) is the display order; id keeps pages disjoint when two
// rows tie.
const variantOrder = ` ORDER BY product_id, size, id`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) ext(ctx context.Context) sqlx.ExtContext {
	return database.Executor(ctx, r.DB)
}

func (r *SQLRepository) FindByID(ctx context.Context, id int64) (*model.Variant, error) {
	q := r.ext(ctx)
	var v model.Variant
	err := sqlx.GetContext(ctx, q, &v, q.Rebind(`SELECT `+variantColumns+` FROM products WHERE id = ?`), id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *SQLRepository) FindByBarcode(ctx context.Context, barcode string) (*model.Variant, error) {
	q := r.ext(ctx)
	var v model.Variant
	err := sqlx.GetContext(ctx, q, &v, q.Rebind(`SELECT `+variantColumns+` FROM products WHERE barcode = ?`), barcode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *SQLRepository) FindByProductID(ctx context.Context, productID string) ([]model.Variant, error) {
	q := r.ext(ctx)
	items := []model.Variant{}
	err := sqlx.SelectContext(ctx, q, &items,
		q.Rebind(`SELECT `+variantColumns+` FROM products WHERE product_id = ? ORDER BY size, id`), productID)
	return items, err
}

func (r *SQLRepository) Search(ctx context.Context, term string, mode dto.SearchMode, limit int) ([]model.Variant, error) {
	var where string
	args := []interface{}{term}

	switch mode {
	case dto.SearchProductID:
		where = "product_id = ?"
	case dto.SearchBarcode:
		where = "barcode = ?"
	case dto.SearchName:
		where = "name = ?"
	case dto.SearchAll, "":
		where = "product_id = ? OR barcode = ? OR name = ?"
		args = append(args, term, term)
	default:
		return nil, fmt.Errorf("unknown search mode %q", mode)
	}
	args = append(args, limit)

	q := r.ext(ctx)
	items := []model.Variant{}
	query := `SELECT ` + variantColumns + ` FROM products WHERE ` + where + variantOrder + ` LIMIT ?`
	err := sqlx.SelectContext(ctx, q, &items, q.Rebind(query), args...)
	return items, err
}

func (r *SQLRepository) FindAll(ctx context.Context, page, perPage int) ([]model.Variant, int, error) {
	q := r.ext(ctx)

	var count int
	if err := sqlx.GetContext(ctx, q, &count, `SELECT COUNT(*) FROM products`); err != nil {
		return nil, 0, err
	}

	items := []model.Variant{}
	offset := (page - 1) * perPage
	query := `SELECT ` + variantColumns + ` FROM products` + variantOrder + ` LIMIT ? OFFSET ?`
	if err := sqlx.SelectContext(ctx, q, &items, q.Rebind(query), perPage, offset); err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

func (r *SQLRepository) Upsert(ctx context.Context, v *model.Variant) error {
	query := `
        INSERT INTO products (product_id, barcode, name, size, quantity, price, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT (barcode)
        DO UPDATE SET
            quantity = products.quantity + excluded.quantity,
            updated_at = excluded.updated_at
        RETURNING id, quantity
    `
	// an existing row keeps its name, size and price
	q := r.ext(ctx)
	row := q.QueryRowxContext(ctx, q.Rebind(query),
		v.ProductID, v.Barcode, v.Name, v.Size, v.Quantity, v.Price, v.CreatedAt, v.UpdatedAt)
	return row.Scan(&v.ID, &v.Quantity)
}

func (r *SQLRepository) DecrementStock(ctx context.Context, barcode string, qty int64, at time.Time) (int64, bool, error) {
	query := `
        UPDATE products
        SET quantity = quantity - ?, updated_at = ?
        WHERE barcode = ? AND quantity >= ?
        RETURNING quantity
    `
	q := r.ext(ctx)
	var remaining int64
	err := q.QueryRowxContext(ctx, q.Rebind(query), qty, at, barcode, qty).Scan(&remaining)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// unknown barcode or not enough on hand
			return 0, false, nil
		}
		return 0, false, err
	}
	return remaining, true, nil
}

func (r *SQLRepository) Update(ctx context.Context, id int64, p *dto.VariantPatch, at time.Time) (int64, error) {
	sets := []string{}
	args := map[string]interface{}{
		"id":         id,
		"updated_at": at,
	}

	if p.ProductID != nil {
		sets = append(sets, "product_id = :product_id")
		args["product_id"] = *p.ProductID
	}
	if p.Barcode != nil {
		sets = append(sets, "barcode = :barcode")
		args["barcode"] = *p.Barcode
	}
	if p.Name != nil {
		sets = append(sets, "name = :name")
		args["name"] = *p.Name
	}
	if p.Size != nil {
		sets = append(sets, "size = :size")
		args["size"] = *p.Size
	}
	if p.Quantity != nil {
		sets = append(sets, "quantity = :quantity")
		args["quantity"] = *p.Quantity
	}
	if p.Price != nil {
		sets = append(sets, "price = :price")
		args["price"] = *p.Price
	}
	sets = append(sets, "updated_at = :updated_at")

	query := "UPDATE products SET " + strings.Join(sets, ", ") + " WHERE id = :id"
	res, err := sqlx.NamedExecContext(ctx, r.ext(ctx), query, args)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLRepository) UpdatePriceByProductID(ctx context.Context, productID string, price float64, at time.Time) (int64, error) {
	q := r.ext(ctx)
	res, err := q.ExecContext(ctx,
		q.Rebind(`UPDATE products SET price = ?, updated_at = ? WHERE product_id = ?`), price, at, productID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLRepository) Delete(ctx context.Context, id int64) (int64, error) {
	q := r.ext(ctx)
	res, err := q.ExecContext(ctx, q.Rebind(`DELETE FROM products WHERE id = ?`), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *SQLRepository) TotalValue(ctx context.Context) (float64, error) {
	var total float64
	err := sqlx.GetContext(ctx, r.ext(ctx), &total, `SELECT COALESCE(SUM(quantity * price), 0.0) FROM products`)
	return total, err
}

func (r *SQLRepository) TotalQuantity(ctx context.Context) (int64, error) {
	var total int64
	err := sqlx.GetContext(ctx, r.ext(ctx), &total, `SELECT COALESCE(SUM(quantity), 0) FROM products`)
	return total, err
}
