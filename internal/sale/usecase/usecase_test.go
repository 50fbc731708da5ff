package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-stock/config"
	"github.com/fekuna/omnipos-stock/internal/apperror"
	"github.com/fekuna/omnipos-stock/internal/cache"
	"github.com/fekuna/omnipos-stock/internal/catalog"
	catalogdto "github.com/fekuna/omnipos-stock/internal/catalog/dto"
	catalogrepo "github.com/fekuna/omnipos-stock/internal/catalog/repository"
	catalogusecase "github.com/fekuna/omnipos-stock/internal/catalog/usecase"
	"github.com/fekuna/omnipos-stock/internal/database"
	"github.com/fekuna/omnipos-stock/internal/database/dbtest"
	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/fekuna/omnipos-stock/internal/sale"
	"github.com/fekuna/omnipos-stock/internal/sale/dto"
	salerepo "github.com/fekuna/omnipos-stock/internal/sale/repository"
	"github.com/fekuna/omnipos-stock/pkg/logger"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var today = time.Date(2026, 10, 17, 14, 30, 0, 0, time.UTC)

var errDisk = errors.New("disk I/O error")

// flakyRepository fails the failOn-th stock decrement.
type flakyRepository struct {
	catalog.Repository
	failOn int
	calls  int
}

func (r *flakyRepository) DecrementStock(ctx context.Context, barcode string, qty int64, at time.Time) (int64, bool, error) {
	r.calls++
	if r.calls == r.failOn {
		return 0, false, errDisk
	}
	return r.Repository.DecrementStock(ctx, barcode, qty, at)
}

type fixture struct {
	catalog catalog.UseCase
	sales   sale.UseCase
	now     time.Time
}

func (f *fixture) clock() time.Time { return f.now }

func newFixture(t *testing.T, c *cache.RedisClient, opts ...Option) *fixture {
	t.Helper()
	return newFixtureWithRepo(t, c, func(r catalog.Repository) catalog.Repository { return r }, opts...)
}

func newFixtureWithRepo(t *testing.T, c *cache.RedisClient, wrap func(catalog.Repository) catalog.Repository, opts ...Option) *fixture {
	t.Helper()
	db := dbtest.New(t)
	f := &fixture{now: today}

	log := logger.NewNop()
	repo := wrap(catalogrepo.NewSQLRepository(db))
	f.catalog = catalogusecase.NewCatalogUseCase(repo, c, log, catalogusecase.WithClock(f.clock))
	opts = append([]Option{WithClock(f.clock)}, opts...)
	f.sales = NewSaleUseCase(f.catalog, salerepo.NewSQLRepository(db), database.NewTxManager(db), c, log, opts...)
	return f
}

func (f *fixture) stock(t *testing.T, barcode, name, size string, qty int64, price float64) {
	t.Helper()
	_, err := f.catalog.AddOrRestock(context.Background(), &catalogdto.AddStockInput{
		ProductID: "M-" + name,
		Barcode:   barcode,
		Name:      name,
		Size:      size,
		Quantity:  qty,
		Price:     price,
	})
	require.NoError(t, err)
}

func (f *fixture) quantity(t *testing.T, barcode string) int64 {
	t.Helper()
	v, err := f.catalog.FindByBarcode(context.Background(), barcode)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v.Quantity
}

func (f *fixture) sell(t *testing.T, method model.PaymentMethod, lines ...dto.CartLine) *dto.SaleResult {
	t.Helper()
	res, err := f.sales.CompleteSale(context.Background(), &dto.CompleteSaleInput{Lines: lines, PaymentMethod: method})
	require.NoError(t, err)
	return res
}

func TestCompleteSaleRecordsSnapshots(t *testing.T) {
	f := newFixture(t, nil)
	f.stock(t, "B1", "Shirt", "M", 5, 10)
	f.stock(t, "B2", "Hat", "", 4, 5)

	res := f.sell(t, model.PaymentCash,
		dto.CartLine{Barcode: "B1", Quantity: 2},
		dto.CartLine{Barcode: "B2", Quantity: 1},
	)

	require.NotNil(t, res.Sale)
	assert.NotEmpty(t, res.Reference)
	assert.NotZero(t, res.Sale.ID)
	assert.Equal(t, 25.0, res.Sale.TotalAmount)
	assert.Equal(t, "2026-10-17", res.Sale.SaleDate)
	assert.Equal(t, model.LineItems{
		{Barcode: "B1", Name: "Shirt", Size: "M", Quantity: 2, Price: 10, Total: 20},
		{Barcode: "B2", Name: "Hat", Size: "", Quantity: 1, Price: 5, Total: 5},
	}, res.Sale.Items)
	assert.Equal(t, int64(3), res.Lines[0].Remaining)
	assert.Equal(t, int64(3), res.Lines[1].Remaining)

	assert.Equal(t, int64(3), f.quantity(t, "B1"))
	assert.Equal(t, int64(3), f.quantity(t, "B2"))

	// later price changes do not rewrite history
	_, err := f.catalog.UpdatePriceByProductID(context.Background(), "M-Shirt", 99)
	require.NoError(t, err)
	sales, err := f.sales.DailySales(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, 10.0, sales[0].Items[0].Price)
}

func TestCompleteSaleRejectsInvalidRequests(t *testing.T) {
	f := newFixture(t, nil)
	f.stock(t, "B1", "Shirt", "M", 5, 10)
	ctx := context.Background()

	cases := map[string]*dto.CompleteSaleInput{
		"nil":           nil,
		"empty cart":    {PaymentMethod: model.PaymentCash},
		"no method":     {Lines: []dto.CartLine{{Barcode: "B1", Quantity: 1}}},
		"bad method":    {Lines: []dto.CartLine{{Barcode: "B1", Quantity: 1}}, PaymentMethod: "cheque"},
		"zero quantity": {Lines: []dto.CartLine{{Barcode: "B1", Quantity: 0}}, PaymentMethod: model.PaymentCard},
		"neg quantity":  {Lines: []dto.CartLine{{Barcode: "B1", Quantity: -2}}, PaymentMethod: model.PaymentCard},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			res, err := f.sales.CompleteSale(ctx, input)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, apperror.ErrInvalidSale)
		})
	}

	assert.Equal(t, int64(5), f.quantity(t, "B1"))
	sales, err := f.sales.DailySales(ctx, today)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestPartialCheckoutKeepsEarlierDecrements(t *testing.T) {
	f := newFixture(t, nil)
	f.stock(t, "B1", "Shirt", "M", 5, 10)
	f.stock(t, "B2", "Hat", "", 1, 5)

	res, err := f.sales.CompleteSale(context.Background(), &dto.CompleteSaleInput{
		Lines: []dto.CartLine{
			{Barcode: "B1", Quantity: 2},
			{Barcode: "B2", Quantity: 3},
		},
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)

	require.NotNil(t, res)
	assert.Nil(t, res.Sale)
	assert.True(t, res.Lines[0].OK())
	assert.Equal(t, int64(3), res.Lines[0].Remaining)
	require.Len(t, res.Failed(), 1)
	assert.Equal(t, "B2", res.Failed()[0].Barcode)

	assert.Equal(t, int64(3), f.quantity(t, "B1"), "first line stays decremented")
	assert.Equal(t, int64(1), f.quantity(t, "B2"))

	sales, err := f.sales.DailySales(context.Background(), today)
	require.NoError(t, err)
	assert.Empty(t, sales, "no record when any line fails")
}

func TestPartialCheckoutReportsEveryFailedLine(t *testing.T) {
	f := newFixture(t, nil)
	f.stock(t, "B1", "Shirt", "M", 1, 10)

	_, err := f.sales.CompleteSale(context.Background(), &dto.CompleteSaleInput{
		Lines: []dto.CartLine{
			{Barcode: "missing", Quantity: 1},
			{Barcode: "B1", Quantity: 2},
		},
		PaymentMethod: model.PaymentCard,
	})
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.ErrorIs(t, errs[0], apperror.ErrNotFound)
	assert.ErrorIs(t, errs[1], apperror.ErrInsufficientStock)
}

func TestAtomicCheckoutRollsBackEveryLine(t *testing.T) {
	f := newFixture(t, nil, WithAtomicity(config.AtomicityAtomic))
	f.stock(t, "B1", "Shirt", "M", 5, 10)
	f.stock(t, "B2", "Hat", "", 1, 5)

	res, err := f.sales.CompleteSale(context.Background(), &dto.CompleteSaleInput{
		Lines: []dto.CartLine{
			{Barcode: "B1", Quantity: 2},
			{Barcode: "B2", Quantity: 3},
		},
		PaymentMethod: model.PaymentCash,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrInsufficientStock)

	assert.Nil(t, res.Sale)
	assert.True(t, res.Lines[0].RolledBack)
	assert.False(t, res.Lines[1].RolledBack)
	assert.Equal(t, int64(5), f.quantity(t, "B1"), "first line restored")
	assert.Equal(t, int64(1), f.quantity(t, "B2"))

	sales, err := f.sales.DailySales(context.Background(), today)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestAtomicCheckoutCommitsOnSuccess(t *testing.T) {
	f := newFixture(t, nil, WithAtomicity(config.AtomicityAtomic))
	f.stock(t, "B1", "Shirt", "M", 5, 10)

	res := f.sell(t, model.PaymentCard, dto.CartLine{Barcode: "B1", Quantity: 5})
	require.NotNil(t, res.Sale)
	assert.Equal(t, 50.0, res.Sale.TotalAmount)
	assert.Zero(t, f.quantity(t, "B1"))

	sales, err := f.sales.DailySales(context.Background(), today)
	require.NoError(t, err)
	assert.Len(t, sales, 1)
}

func TestDailySummary(t *testing.T) {
	f := newFixture(t, nil)
	f.stock(t, "B10", "Ten", "", 10, 10)
	f.stock(t, "B20", "Twenty", "", 10, 20)
	f.stock(t, "B30", "Thirty", "", 10, 30)
	f.stock(t, "B50", "Fifty", "", 10, 50)

	f.sell(t, model.PaymentCash, dto.CartLine{Barcode: "B10", Quantity: 1})
	f.sell(t, model.PaymentCash, dto.CartLine{Barcode: "B20", Quantity: 1})
	f.sell(t, model.PaymentCash, dto.CartLine{Barcode: "B30", Quantity: 1})
	f.sell(t, model.PaymentCard, dto.CartLine{Barcode: "B50", Quantity: 1})

	summary, err := f.sales.DailySummary(context.Background(), today)
	require.NoError(t, err)
	assert.Equal(t, &dto.DailySummary{
		Date:        "2026-10-17",
		DisplayDate: "17.10.2026",
		CashTotal:   60,
		CashCount:   3,
		CardTotal:   50,
		CardCount:   1,
		GrandTotal:  110,
		TotalSales:  4,
	}, summary)
}

func TestDailySummaryZeroFilled(t *testing.T) {
	f := newFixture(t, nil)

	summary, err := f.sales.DailySummary(context.Background(), today.AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", summary.Date)
	assert.Zero(t, summary.GrandTotal)
	assert.Zero(t, summary.TotalSales)
	assert.Zero(t, summary.CashCount)
	assert.Zero(t, summary.CardCount)
}

func TestDailySalesNewestFirstAndScopedToDate(t *testing.T) {
	f := newFixture(t, nil)
	f.stock(t, "B1", "Shirt", "M", 10, 10)

	f.now = today.AddDate(0, 0, -1)
	f.sell(t, model.PaymentCash, dto.CartLine{Barcode: "B1", Quantity: 1})

	f.now = today
	first := f.sell(t, model.PaymentCash, dto.CartLine{Barcode: "B1", Quantity: 1})
	f.now = today.Add(time.Minute)
	second := f.sell(t, model.PaymentCard, dto.CartLine{Barcode: "B1", Quantity: 2})

	sales, err := f.sales.DailySales(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, sales, 2)
	assert.Equal(t, second.Sale.ID, sales[0].ID)
	assert.Equal(t, first.Sale.ID, sales[1].ID)
	assert.Equal(t, "14:31", sales[0].TimeOfDay())
}

func TestSummaryCacheInvalidatedBySale(t *testing.T) {
	mr := miniredis.RunT(t)
	rc := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute)
	t.Cleanup(func() { _ = rc.Close() })

	f := newFixture(t, rc)
	f.stock(t, "B1", "Shirt", "M", 10, 10)
	ctx := context.Background()

	summary, err := f.sales.DailySummary(ctx, today)
	require.NoError(t, err)
	assert.Zero(t, summary.TotalSales)
	assert.True(t, mr.Exists("sales:summary:2026-10-17"))

	f.sell(t, model.PaymentCash, dto.CartLine{Barcode: "B1", Quantity: 1})
	assert.False(t, mr.Exists("sales:summary:2026-10-17"))

	summary, err = f.sales.DailySummary(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalSales)
	assert.Equal(t, 10.0, summary.CashTotal)
}

func threeLineCart() *dto.CompleteSaleInput {
	return &dto.CompleteSaleInput{
		Lines: []dto.CartLine{
			{Barcode: "B1", Quantity: 1},
			{Barcode: "B2", Quantity: 1},
			{Barcode: "B3", Quantity: 1},
		},
		PaymentMethod: model.PaymentCash,
	}
}

func newFlakyFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	f := newFixtureWithRepo(t, nil, func(r catalog.Repository) catalog.Repository {
		return &flakyRepository{Repository: r, failOn: 2}
	}, opts...)
	f.stock(t, "B1", "Shirt", "M", 5, 10)
	f.stock(t, "B2", "Hat", "", 5, 5)
	f.stock(t, "B3", "Scarf", "", 5, 7)
	return f
}

func TestStorageFailureSkipsRemainingLines(t *testing.T) {
	f := newFlakyFixture(t)

	res, err := f.sales.CompleteSale(context.Background(), threeLineCart())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrStorageFailure)
	assert.ErrorIs(t, err, errDisk)

	require.Len(t, res.Lines, 3)
	assert.True(t, res.Lines[0].OK())
	assert.Equal(t, int64(4), res.Lines[0].Remaining)

	assert.False(t, res.Lines[1].OK())
	assert.Error(t, res.Lines[1].Err)
	assert.False(t, res.Lines[1].Skipped)

	assert.False(t, res.Lines[2].OK())
	assert.True(t, res.Lines[2].Skipped)
	assert.NoError(t, res.Lines[2].Err)
	assert.Zero(t, res.Lines[2].Remaining)

	require.Len(t, res.Failed(), 1)
	assert.Equal(t, "B2", res.Failed()[0].Barcode)

	assert.Equal(t, int64(4), f.quantity(t, "B1"))
	assert.Equal(t, int64(5), f.quantity(t, "B2"))
	assert.Equal(t, int64(5), f.quantity(t, "B3"), "never attempted")
	assert.Nil(t, res.Sale)
}

func TestAtomicStorageFailureDoesNotMarkSkippedLinesRolledBack(t *testing.T) {
	f := newFlakyFixture(t, WithAtomicity(config.AtomicityAtomic))

	res, err := f.sales.CompleteSale(context.Background(), threeLineCart())
	require.Error(t, err)
	assert.ErrorIs(t, err, apperror.ErrStorageFailure)

	assert.True(t, res.Lines[0].RolledBack)
	assert.False(t, res.Lines[1].RolledBack)
	assert.True(t, res.Lines[2].Skipped)
	assert.False(t, res.Lines[2].RolledBack)
	for _, l := range res.Lines {
		assert.False(t, l.OK(), l.Barcode)
	}

	assert.Equal(t, int64(5), f.quantity(t, "B1"), "rolled back")
	assert.Equal(t, int64(5), f.quantity(t, "B3"))
}
