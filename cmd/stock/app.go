package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/fekuna/omnipos-stock/config"
	"github.com/fekuna/omnipos-stock/internal/cache"
	"github.com/fekuna/omnipos-stock/internal/catalog"
	catalogRepo "github.com/fekuna/omnipos-stock/internal/catalog/repository"
	catalogUC "github.com/fekuna/omnipos-stock/internal/catalog/usecase"
	"github.com/fekuna/omnipos-stock/internal/database"
	"github.com/fekuna/omnipos-stock/internal/sale"
	saleRepo "github.com/fekuna/omnipos-stock/internal/sale/repository"
	saleUC "github.com/fekuna/omnipos-stock/internal/sale/usecase"
	"github.com/fekuna/omnipos-stock/pkg/logger"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// app holds the resources shared by every command for one invocation.
type app struct {
	cfg     *config.Config
	log     logger.ZapLogger
	db      *sqlx.DB
	cache   *cache.RedisClient
	catalog catalog.UseCase
	sales   sale.UseCase
	loc     *time.Location
	out     io.Writer
}

func newLogger(cfg *config.Config) logger.ZapLogger {
	logConfig := &logger.ZapLoggerConfig{
		IsDevelopment:     false,
		Encoding:          cfg.Logger.Encoding,
		Level:             cfg.Logger.Level,
		DisableCaller:     cfg.Logger.DisableCaller,
		DisableStacktrace: cfg.Logger.DisableStacktrace,
	}
	if cfg.App.AppEnv == "development" {
		logConfig.IsDevelopment = true
		logConfig.Level = "debug"
	}
	return logger.NewZapLogger(logConfig)
}

// applyGlobalFlags lets --driver and --db override the environment.
func applyGlobalFlags(cfg *config.Config, cmd *cli.Command) {
	if driver := cmd.String("driver"); driver != "" {
		cfg.Database.Driver = driver
	}
	if path := cmd.String("db"); path != "" {
		cfg.Database.SQLitePath = path
	}
}

func openApp(cfg *config.Config, log logger.ZapLogger) (*app, error) {
	db, err := database.Open(&cfg.Database)
	if err != nil {
		return nil, err
	}
	log.Debug("database opened", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, cfg.Database.Driver); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	var rc *cache.RedisClient
	if cfg.Redis.Enabled {
		rc, err = cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, running without cache", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			rc = nil
		}
	}

	loc := cfg.App.Location()
	clock := func() time.Time { return time.Now().In(loc) }

	catalogUseCase := catalogUC.NewCatalogUseCase(catalogRepo.NewSQLRepository(db), rc, log, catalogUC.WithClock(clock))
	saleUseCase := saleUC.NewSaleUseCase(
		catalogUseCase,
		saleRepo.NewSQLRepository(db),
		database.NewTxManager(db),
		rc,
		log,
		saleUC.WithClock(clock),
		saleUC.WithAtomicity(cfg.Checkout.Atomicity),
	)

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		cache:   rc,
		catalog: catalogUseCase,
		sales:   saleUseCase,
		loc:     loc,
		out:     os.Stdout,
	}, nil
}

func (a *app) Close() error {
	_ = a.cache.Close()
	return a.db.Close()
}

// withApp opens the store for one command and closes it afterwards.
func withApp(fn func(ctx context.Context, a *app, cmd *cli.Command) error) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		cfg := config.LoadEnv()
		applyGlobalFlags(cfg, cmd)

		log := newLogger(cfg)
		defer log.Sync()

		a, err := openApp(cfg, log)
		if err != nil {
			return err
		}
		defer a.Close()

		return fn(ctx, a, cmd)
	}
}
