package catalog

import (
	"context"

	"github.com/fekuna/omnipos-stock/internal/catalog/dto"
	"github.com/fekuna/omnipos-stock/internal/model"
)

type UseCase interface {
	AddOrRestock(ctx context.Context, input *dto.AddStockInput) (*dto.StockResult, error)
	RemoveStock(ctx context.Context, input *dto.RemoveStockInput) (*dto.StockResult, error)
	UpdateVariant(ctx context.Context, id int64, patch *dto.VariantPatch) (*model.Variant, error)
	UpdatePriceByProductID(ctx context.Context, productID string, price float64) (int64, error)
	DeleteVariant(ctx context.Context, id int64) error

	FindByBarcode(ctx context.Context, barcode string) (*model.Variant, error)
	FindByProductID(ctx context.Context, productID string) ([]model.Variant, error)
	Search(ctx context.Context, input *dto.SearchInput) ([]model.Variant, error)
	ListPaged(ctx context.Context, page, perPage int) ([]model.Variant, int, error)
	ProductSummary(ctx context.Context, productID string) (*dto.ProductSummary, error)

	TotalStockValue(ctx context.Context) (float64, error)
	TotalStockQuantity(ctx context.Context) (int64, error)
}
