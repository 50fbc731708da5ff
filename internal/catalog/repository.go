package catalog

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-stock/internal/catalog/dto"
	"github.com/fekuna/omnipos-stock/internal/model"
)

type Repository interface {
	FindByID(ctx context.Context, id int64) (*model.Variant, error)
	FindByBarcode(ctx context.Context, barcode string) (*model.Variant, error)
	FindByProductID(ctx context.Context, productID string) ([]model.Variant, error)
	Search(ctx context.Context, term string, mode dto.SearchMode, limit int) ([]model.Variant, error)
	FindAll(ctx context.Context, page, perPage int) ([]model.Variant, int, error)

	// Upsert inserts v or adds v.Quantity to the existing row with the same
	// barcode; v.ID and v.Quantity are set from the stored row.
	Upsert(ctx context.Context, v *model.Variant) error
	DecrementStock(ctx context.Context, barcode string, qty int64, at time.Time) (remaining int64, ok bool, err error)

	Update(ctx context.Context, id int64, patch *dto.VariantPatch, at time.Time) (int64, error)
	UpdatePriceByProductID(ctx context.Context, productID string, price float64, at time.Time) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)

	TotalValue(ctx context.Context) (float64, error)
	TotalQuantity(ctx context.Context) (int64, error)
}
