package sale

import (
	"context"

	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/fekuna/omnipos-stock/internal/sale/dto"
)

type Repository interface {
	// Create inserts s and sets s.ID.
	Create(ctx context.Context, s *model.Sale) error
	FindByDate(ctx context.Context, date string) ([]model.Sale, error)
	SummaryByDate(ctx context.Context, date string) ([]dto.MethodTotal, error)
}
