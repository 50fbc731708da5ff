package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fekuna/omnipos-stock/config"
	"github.com/fekuna/omnipos-stock/internal/apperror"
	"github.com/fekuna/omnipos-stock/internal/cache"
	"github.com/fekuna/omnipos-stock/internal/catalog"
	catalogdto "github.com/fekuna/omnipos-stock/internal/catalog/dto"
	"github.com/fekuna/omnipos-stock/internal/database"
	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/fekuna/omnipos-stock/internal/sale"
	"github.com/fekuna/omnipos-stock/internal/sale/dto"
	"github.com/fekuna/omnipos-stock/internal/validation"
	"github.com/fekuna/omnipos-stock/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const cacheKeySummaryFmt = "sales:summary:%s"

// errLinesFailed aborts the checkout transaction after every line has been tried.
var errLinesFailed = errors.New("checkout lines failed")

type Option func(*saleUseCase)

// WithClock replaces time.Now; the sale date is taken from the clock's location.
func WithClock(now func() time.Time) Option {
	return func(uc *saleUseCase) { uc.now = now }
}

// WithAtomicity selects config.AtomicityPartial or config.AtomicityAtomic.
func WithAtomicity(mode string) Option {
	return func(uc *saleUseCase) { uc.atomic = mode == config.AtomicityAtomic }
}

type saleUseCase struct {
	catalog catalog.UseCase
	repo    sale.Repository
	tx      database.Transactor
	cache   *cache.RedisClient
	logger  logger.ZapLogger
	now     func() time.Time
	atomic  bool
}

// NewSaleUseCase wires checkout and reporting. tx is only used in atomic mode;
// cache may be nil.
func NewSaleUseCase(
	cat catalog.UseCase,
	repo sale.Repository,
	tx database.Transactor,
	cache *cache.RedisClient,
	log logger.ZapLogger,
	opts ...Option,
) sale.UseCase {
	uc := &saleUseCase{
		catalog: cat,
		repo:    repo,
		tx:      tx,
		cache:   cache,
		logger:  log,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func (uc *saleUseCase) CompleteSale(ctx context.Context, input *dto.CompleteSaleInput) (*dto.SaleResult, error) {
	if input == nil {
		return nil, apperror.InvalidSale("empty cart")
	}
	if len(input.Lines) == 0 {
		return nil, apperror.InvalidSale("empty cart")
	}
	if err := validation.Struct(apperror.KindInvalidSale, input); err != nil {
		return nil, err
	}

	result := &dto.SaleResult{
		Reference: uuid.NewString(),
		Lines:     make([]dto.LineResult, len(input.Lines)),
	}
	for i, line := range input.Lines {
		result.Lines[i] = dto.LineResult{Barcode: line.Barcode, Quantity: line.Quantity}
	}
	log := uc.logger.With(
		zap.String("reference", result.Reference),
		zap.String("payment_method", string(input.PaymentMethod)),
	)

	if !uc.atomic {
		record, err := uc.checkout(ctx, input, result)
		if err != nil {
			return result, uc.fail(log, result, err)
		}
		return uc.succeed(ctx, log, result, record)
	}

	var record *model.Sale
	err := uc.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		record, err = uc.checkout(ctx, input, result)
		return err
	})
	if err != nil {
		for i := range result.Lines {
			if result.Lines[i].Err == nil && !result.Lines[i].Skipped {
				result.Lines[i].RolledBack = true
			}
		}
		return result, uc.fail(log, result, err)
	}
	return uc.succeed(ctx, log, result, record)
}

// checkout takes stock for every line and, when all of them succeed, writes
// the sale record. Line failures are recorded in result and do not stop the
// remaining lines; a storage failure does.
func (uc *saleUseCase) checkout(ctx context.Context, input *dto.CompleteSaleInput, result *dto.SaleResult) (*model.Sale, error) {
	items := make(model.LineItems, 0, len(input.Lines))
	total := decimal.Zero
	failed := false

	for i, line := range input.Lines {
		lr := &result.Lines[i]
		item, remaining, err := uc.takeLine(ctx, line)
		if err != nil {
			lr.Err = err
			if apperror.KindOf(err) == apperror.KindStorageFailure {
				for j := i + 1; j < len(result.Lines); j++ {
					result.Lines[j].Skipped = true
				}
				return nil, err
			}
			failed = true
			continue
		}

		lr.Remaining = remaining
		items = append(items, item)
		total = total.Add(decimal.NewFromFloat(item.Total))
	}

	if failed {
		return nil, errLinesFailed
	}

	now := uc.now()
	record := &model.Sale{
		SaleDate:      now.Format(model.DateLayout),
		TotalAmount:   total.InexactFloat64(),
		PaymentMethod: input.PaymentMethod,
		Items:         items,
		CreatedAt:     now,
	}
	if err := uc.repo.Create(ctx, record); err != nil {
		return nil, apperror.Storage("record sale", err)
	}
	return record, nil
}

// takeLine snapshots the variant and decrements its stock.
func (uc *saleUseCase) takeLine(ctx context.Context, line dto.CartLine) (model.LineItem, int64, error) {
	v, err := uc.catalog.FindByBarcode(ctx, line.Barcode)
	if err != nil {
		return model.LineItem{}, 0, err
	}
	if v == nil {
		return model.LineItem{}, 0, apperror.NotFound("product with barcode %q not found", line.Barcode)
	}

	res, err := uc.catalog.RemoveStock(ctx, &catalogdto.RemoveStockInput{Barcode: line.Barcode, Quantity: line.Quantity})
	if err != nil {
		return model.LineItem{}, 0, err
	}

	lineTotal := decimal.NewFromFloat(v.Price).Mul(decimal.NewFromInt(line.Quantity))
	return model.LineItem{
		Barcode:  v.Barcode,
		Name:     v.Name,
		Size:     v.Size,
		Quantity: line.Quantity,
		Price:    v.Price,
		Total:    lineTotal.InexactFloat64(),
	}, res.Variant.Quantity, nil
}

func (uc *saleUseCase) fail(log logger.ZapLogger, result *dto.SaleResult, cause error) error {
	var errs error
	for _, l := range result.Failed() {
		errs = multierr.Append(errs, fmt.Errorf("line %s: %w", l.Barcode, l.Err))
	}
	if errs == nil {
		errs = cause
	}

	log.Warn("sale not recorded",
		zap.Int("lines", len(result.Lines)),
		zap.Int("failed", len(result.Failed())),
		zap.Bool("atomic", uc.atomic),
		zap.Error(errs),
	)
	return errs
}

func (uc *saleUseCase) succeed(ctx context.Context, log logger.ZapLogger, result *dto.SaleResult, record *model.Sale) (*dto.SaleResult, error) {
	result.Sale = record

	key := fmt.Sprintf(cacheKeySummaryFmt, record.SaleDate)
	if err := uc.cache.Delete(ctx, key); err != nil {
		log.Warn("sales cache invalidation failed", zap.String("key", key), zap.Error(err))
	}

	log.Info("sale recorded",
		zap.Int64("sale_id", record.ID),
		zap.String("sale_date", record.SaleDate),
		zap.Float64("total", record.TotalAmount),
		zap.Int("lines", len(record.Items)),
	)
	return result, nil
}

func (uc *saleUseCase) DailySummary(ctx context.Context, date time.Time) (*dto.DailySummary, error) {
	day := date.Format(model.DateLayout)
	key := fmt.Sprintf(cacheKeySummaryFmt, day)

	var cached dto.DailySummary
	if hit, err := uc.cache.GetJSON(ctx, key, &cached); err != nil {
		uc.logger.Warn("sales cache read failed", zap.String("key", key), zap.Error(err))
	} else if hit {
		return &cached, nil
	}

	rows, err := uc.repo.SummaryByDate(ctx, day)
	if err != nil {
		return nil, apperror.Storage("summarize sales", err)
	}

	summary := &dto.DailySummary{
		Date:        day,
		DisplayDate: date.Format(dto.DisplayDateLayout),
	}
	cash, card := decimal.Zero, decimal.Zero
	for _, row := range rows {
		switch row.Method {
		case model.PaymentCash:
			cash = cash.Add(decimal.NewFromFloat(row.Total))
			summary.CashCount += row.Count
		case model.PaymentCard:
			card = card.Add(decimal.NewFromFloat(row.Total))
			summary.CardCount += row.Count
		}
	}
	summary.CashTotal = cash.InexactFloat64()
	summary.CardTotal = card.InexactFloat64()
	summary.GrandTotal = cash.Add(card).InexactFloat64()
	summary.TotalSales = summary.CashCount + summary.CardCount

	if err := uc.cache.SetJSON(ctx, key, summary); err != nil {
		uc.logger.Warn("sales cache write failed", zap.String("key", key), zap.Error(err))
	}
	return summary, nil
}

func (uc *saleUseCase) DailySales(ctx context.Context, date time.Time) ([]model.Sale, error) {
	sales, err := uc.repo.FindByDate(ctx, date.Format(model.DateLayout))
	if err != nil {
		return nil, apperror.Storage("list sales", err)
	}
	for i := range sales {
		sales[i].CreatedAt = sales[i].CreatedAt.In(date.Location())
	}
	return sales, nil
}
