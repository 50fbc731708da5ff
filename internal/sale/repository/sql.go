package repository

import (
	"context"

	"github.com/fekuna/omnipos-stock/internal/database"
	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/fekuna/omnipos-stock/internal/sale/dto"
	"github.com/jmoiron/sqlx"
)

const saleColumns = `id, sale_date, total_amount, payment_method, items_json, created_at`

type SQLRepository struct {
	DB *sqlx.DB
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db}
}

func (r *SQLRepository) ext(ctx context.Context) sqlx.ExtContext {
	return database.Executor(ctx, r.DB)
}

// Create inserts s and sets s.ID. created_at is written in UTC.
func (r *SQLRepository) Create(ctx context.Context, s *model.Sale) error {
	query := `
        INSERT INTO sales (sale_date, total_amount, payment_method, items_json, created_at)
        VALUES (?, ?, ?, ?, ?)
        RETURNING id
    `
	q := r.ext(ctx)
	return q.QueryRowxContext(ctx, q.Rebind(query),
		s.SaleDate, s.TotalAmount, string(s.PaymentMethod), s.Items, s.CreatedAt.UTC()).Scan(&s.ID)
}

func (r *SQLRepository) FindByDate(ctx context.Context, date string) ([]model.Sale, error) {
	q := r.ext(ctx)
	sales := []model.Sale{}
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_date = ? ORDER BY created_at DESC, id DESC`
	err := sqlx.SelectContext(ctx, q, &sales, q.Rebind(query), date)
	return sales, err
}

func (r *SQLRepository) SummaryByDate(ctx context.Context, date string) ([]dto.MethodTotal, error) {
	query := `
        SELECT payment_method, COUNT(*) AS count, COALESCE(SUM(total_amount), 0.0) AS total
        FROM sales
        WHERE sale_date = ?
        GROUP BY payment_method
        ORDER BY payment_method
    `
	q := r.ext(ctx)
	totals := []dto.MethodTotal{}
	err := sqlx.SelectContext(ctx, q, &totals, q.Rebind(query), date)
	return totals, err
}
