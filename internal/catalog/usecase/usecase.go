package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/fekuna/omnipos-stock/internal/apperror"
	"github.com/fekuna/omnipos-stock/internal/cache"
	"github.com/fekuna/omnipos-stock/internal/catalog"
	"github.com/fekuna/omnipos-stock/internal/catalog/dto"
	"github.com/fekuna/omnipos-stock/internal/database"
	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/fekuna/omnipos-stock/internal/validation"
	"github.com/fekuna/omnipos-stock/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	cachePattern    = "catalog:*"
	cacheKeyTotals  = "catalog:totals"
	cacheKeyListFmt = "catalog:list:%d:%d"
)

type Option func(*catalogUseCase)

// WithClock replaces time.Now for created_at/updated_at stamps.
func WithClock(now func() time.Time) Option {
	return func(uc *catalogUseCase) { uc.now = now }
}

type catalogUseCase struct {
	repo   catalog.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
	now    func() time.Time
}

// NewCatalogUseCase wires the catalog. cache may be nil.
func NewCatalogUseCase(repo catalog.Repository, cache *cache.RedisClient, log logger.ZapLogger, opts ...Option) catalog.UseCase {
	uc := &catalogUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *catalogUseCase) AddOrRestock(ctx context.Context, input *dto.AddStockInput) (*dto.StockResult, error) {
	if err := validation.Struct(apperror.KindInvalidInput, input); err != nil {
		return nil, err
	}

	existing, err := uc.repo.FindByBarcode(ctx, input.Barcode)
	if err != nil {
		return nil, apperror.Storage("find product by barcode", err)
	}

	now := uc.now()
	v := &model.Variant{
		ProductID: input.ProductID,
		Barcode:   input.Barcode,
		Name:      input.Name,
		Size:      input.Size,
		Quantity:  input.Quantity,
		Price:     input.Price,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// restocks in place if the barcode appeared since the lookup
	if err := uc.repo.Upsert(ctx, v); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperror.DuplicateBarcode(input.Barcode)
		}
		return nil, apperror.Storage("upsert product", err)
	}

	stored, err := uc.repo.FindByID(ctx, v.ID)
	if err != nil {
		return nil, apperror.Storage("reload product", err)
	}
	if stored == nil {
		return nil, apperror.NotFound("product %d disappeared after upsert", v.ID)
	}

	uc.invalidate(ctx)

	created := existing == nil
	uc.logger.Info("stock added",
		zap.String("barcode", stored.Barcode),
		zap.Int64("added", input.Quantity),
		zap.Int64("quantity", stored.Quantity),
		zap.Bool("created", created),
	)

	return &dto.StockResult{Variant: *stored, Created: created}, nil
}

func (uc *catalogUseCase) RemoveStock(ctx context.Context, input *dto.RemoveStockInput) (*dto.StockResult, error) {
	if err := validation.Struct(apperror.KindInvalidInput, input); err != nil {
		return nil, err
	}

	_, ok, err := uc.repo.DecrementStock(ctx, input.Barcode, input.Quantity, uc.now())
	if err != nil {
		return nil, apperror.Storage("decrement stock", err)
	}

	v, err := uc.repo.FindByBarcode(ctx, input.Barcode)
	if err != nil {
		return nil, apperror.Storage("find product by barcode", err)
	}
	if v == nil {
		return nil, apperror.NotFound("product with barcode %q not found", input.Barcode)
	}
	if !ok {
		uc.logger.Warn("insufficient stock",
			zap.String("barcode", input.Barcode),
			zap.Int64("requested", input.Quantity),
			zap.Int64("available", v.Quantity),
		)
		return nil, apperror.InsufficientStock(input.Barcode, v.Quantity)
	}

	uc.invalidate(ctx)

	uc.logger.Info("stock removed",
		zap.String("barcode", v.Barcode),
		zap.Int64("removed", input.Quantity),
		zap.Int64("quantity", v.Quantity),
	)

	return &dto.StockResult{Variant: *v}, nil
}

func (uc *catalogUseCase) UpdateVariant(ctx context.Context, id int64, patch *dto.VariantPatch) (*model.Variant, error) {
	if patch.IsEmpty() {
		return nil, apperror.InvalidInput("no fields provided to update")
	}
	if err := validation.Struct(apperror.KindInvalidInput, patch); err != nil {
		return nil, err
	}

	current, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage("find product", err)
	}
	if current == nil {
		return nil, apperror.NotFound("product %d not found", id)
	}

	if patch.Barcode != nil && *patch.Barcode != current.Barcode {
		other, err := uc.repo.FindByBarcode(ctx, *patch.Barcode)
		if err != nil {
			return nil, apperror.Storage("find product by barcode", err)
		}
		if other != nil && other.ID != id {
			return nil, apperror.DuplicateBarcode(*patch.Barcode)
		}
	}

	affected, err := uc.repo.Update(ctx, id, patch, uc.now())
	if err != nil {
		if database.IsUniqueViolation(err) && patch.Barcode != nil {
			return nil, apperror.DuplicateBarcode(*patch.Barcode)
		}
		return nil, apperror.Storage("update product", err)
	}
	if affected == 0 {
		return nil, apperror.NotFound("product %d not found", id)
	}

	updated, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apperror.Storage("reload product", err)
	}
	if updated == nil {
		return nil, apperror.NotFound("product %d not found", id)
	}

	uc.invalidate(ctx)
	uc.logger.Info("product updated", zap.Int64("id", id), zap.String("barcode", updated.Barcode))

	return updated, nil
}

func (uc *catalogUseCase) UpdatePriceByProductID(ctx context.Context, productID string, price float64) (int64, error) {
	if productID == "" {
		return 0, apperror.InvalidInput("product_id is required")
	}
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, apperror.InvalidInput("price must be a finite number")
	}
	if price < 0 {
		return 0, apperror.InvalidInput("price must be at least 0")
	}

	affected, err := uc.repo.UpdatePriceByProductID(ctx, productID, price, uc.now())
	if err != nil {
		return 0, apperror.Storage("update price", err)
	}
	if affected == 0 {
		return 0, apperror.NotFound("no products with product_id %q", productID)
	}

	uc.invalidate(ctx)
	uc.logger.Info("price updated",
		zap.String("product_id", productID),
		zap.Float64("price", price),
		zap.Int64("variants", affected),
	)

	return affected, nil
}

func (uc *catalogUseCase) DeleteVariant(ctx context.Context, id int64) error {
	affected, err := uc.repo.Delete(ctx, id)
	if err != nil {
		return apperror.Storage("delete product", err)
	}
	if affected == 0 {
		return apperror.NotFound("product %d not found", id)
	}

	uc.invalidate(ctx)
	uc.logger.Info("product deleted", zap.Int64("id", id))
	return nil
}

func (uc *catalogUseCase) FindByBarcode(ctx context.Context, barcode string) (*model.Variant, error) {
	v, err := uc.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, apperror.Storage("find product by barcode", err)
	}
	return v, nil
}

func (uc *catalogUseCase) FindByProductID(ctx context.Context, productID string) ([]model.Variant, error) {
	items, err := uc.repo.FindByProductID(ctx, productID)
	if err != nil {
		return nil, apperror.Storage("find products by product_id", err)
	}
	return items, nil
}

func (uc *catalogUseCase) Search(ctx context.Context, input *dto.SearchInput) ([]model.Variant, error) {
	if err := validation.Struct(apperror.KindInvalidInput, input); err != nil {
		return nil, err
	}
	mode := input.Mode
	if mode == "" {
		mode = dto.SearchAll
	}
	if !mode.Valid() {
		return nil, apperror.InvalidInput("unknown search mode %q", mode)
	}

	items, err := uc.repo.Search(ctx, input.Term, mode, dto.SearchLimit)
	if err != nil {
		return nil, apperror.Storage("search products", err)
	}
	return items, nil
}

func (uc *catalogUseCase) ListPaged(ctx context.Context, page, perPage int) ([]model.Variant, int, error) {
	if page < 1 || perPage < 1 {
		return nil, 0, apperror.InvalidInput("page and per_page must be positive")
	}

	cacheKey := fmt.Sprintf(cacheKeyListFmt, page, perPage)
	var cached dto.Page
	if hit, err := uc.cache.GetJSON(ctx, cacheKey, &cached); err != nil {
		uc.logger.Warn("catalog cache read failed", zap.String("key", cacheKey), zap.Error(err))
	} else if hit {
		return cached.Items, cached.Total, nil
	}

	items, total, err := uc.repo.FindAll(ctx, page, perPage)
	if err != nil {
		return nil, 0, apperror.Storage("list products", err)
	}

	if err := uc.cache.SetJSON(ctx, cacheKey, dto.Page{Items: items, Total: total}); err != nil {
		uc.logger.Warn("catalog cache write failed", zap.String("key", cacheKey), zap.Error(err))
	}

	return items, total, nil
}

func (uc *catalogUseCase) ProductSummary(ctx context.Context, productID string) (*dto.ProductSummary, error) {
	variants, err := uc.FindByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(variants) == 0 {
		return nil, catalog.ErrProductNotFound
	}

	summary := &dto.ProductSummary{
		ProductID: productID,
		Name:      variants[0].Name,
		Sizes:     make([]dto.SizeStock, 0, len(variants)),
	}
	value := decimal.Zero
	for _, v := range variants {
		size := v.Size
		if size == "" {
			size = dto.NoSize
		}
		summary.Sizes = append(summary.Sizes, dto.SizeStock{
			Size:     size,
			Quantity: v.Quantity,
			Price:    v.Price,
			Barcode:  v.Barcode,
		})
		summary.TotalQuantity += v.Quantity
		value = value.Add(v.StockValue())
	}
	summary.TotalValue = value.InexactFloat64()

	return summary, nil
}

func (uc *catalogUseCase) TotalStockValue(ctx context.Context) (float64, error) {
	totals, err := uc.totals(ctx)
	if err != nil {
		return 0, err
	}
	return totals.Value, nil
}

func (uc *catalogUseCase) TotalStockQuantity(ctx context.Context) (int64, error) {
	totals, err := uc.totals(ctx)
	if err != nil {
		return 0, err
	}
	return totals.Quantity, nil
}

func (uc *catalogUseCase) totals(ctx context.Context) (*dto.StockTotals, error) {
	var cached dto.StockTotals
	if hit, err := uc.cache.GetJSON(ctx, cacheKeyTotals, &cached); err != nil {
		uc.logger.Warn("catalog cache read failed", zap.String("key", cacheKeyTotals), zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	value, err := uc.repo.TotalValue(ctx)
	if err != nil {
		return nil, apperror.Storage("sum stock value", err)
	}
	quantity, err := uc.repo.TotalQuantity(ctx)
	if err != nil {
		return nil, apperror.Storage("sum stock quantity", err)
	}

	totals := &dto.StockTotals{Value: value, Quantity: quantity}
	if err := uc.cache.SetJSON(ctx, cacheKeyTotals, totals); err != nil {
		uc.logger.Warn("catalog cache write failed", zap.String("key", cacheKeyTotals), zap.Error(err))
	}
	return totals, nil
}

func (uc *catalogUseCase) invalidate(ctx context.Context) {
	if err := uc.cache.DeletePattern(ctx, cachePattern); err != nil {
		uc.logger.Warn("catalog cache invalidation failed", zap.Error(err))
	}
}
