package sale

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/fekuna/omnipos-stock/internal/sale/dto"
)

type UseCase interface {
	CompleteSale(ctx context.Context, input *dto.CompleteSaleInput) (*dto.SaleResult, error)
	DailySummary(ctx context.Context, date time.Time) (*dto.DailySummary, error)
	DailySales(ctx context.Context, date time.Time) ([]model.Sale, error)
}
