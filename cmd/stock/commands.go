package main

import (
	"context"

	"github.com/fekuna/omnipos-stock/config"
	"github.com/fekuna/omnipos-stock/internal/apperror"
	catalogdto "github.com/fekuna/omnipos-stock/internal/catalog/dto"
	"github.com/fekuna/omnipos-stock/internal/database"
	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/fekuna/omnipos-stock/internal/sale/dto"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "Apply database migrations",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg := config.LoadEnv()
			applyGlobalFlags(cfg, cmd)
			log := newLogger(cfg)
			defer log.Sync()

			db, err := database.Open(&cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := database.Migrate(db, cfg.Database.Driver); err != nil {
				return err
			}
			log.Info("migrations applied", zap.String("driver", cfg.Database.Driver))
			return nil
		},
	}
}

func addCommand() *cli.Command {
	return &cli.Command{
		Name:      "add",
		Usage:     "Add a new variant or restock an existing barcode",
		ArgsUsage: "<product_id> <barcode> <name> <size> <qty> <price>",
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			if err := requireArgs(cmd, 6); err != nil {
				return err
			}
			args := cmd.Args()
			qty, err := parseInt("quantity", args.Get(4))
			if err != nil {
				return err
			}
			price, err := parseFloat("price", args.Get(5))
			if err != nil {
				return err
			}

			res, err := a.catalog.AddOrRestock(ctx, &catalogdto.AddStockInput{
				ProductID: args.Get(0),
				Barcode:   args.Get(1),
				Name:      args.Get(2),
				Size:      args.Get(3),
				Quantity:  qty,
				Price:     price,
			})
			if err != nil {
				return err
			}
			printStockResult(a.out, "added", res)
			return nil
		}),
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Take stock out of a barcode",
		ArgsUsage: "<barcode> <qty>",
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}
			qty, err := parseInt("quantity", cmd.Args().Get(1))
			if err != nil {
				return err
			}
			res, err := a.catalog.RemoveStock(ctx, &catalogdto.RemoveStockInput{Barcode: cmd.Args().Get(0), Quantity: qty})
			if err != nil {
				return err
			}
			printStockResult(a.out, "removed", res)
			return nil
		}),
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Change fields of one variant",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "product-id", Usage: "new model code"},
			&cli.StringFlag{Name: "barcode", Usage: "new barcode"},
			&cli.StringFlag{Name: "name", Usage: "new name"},
			&cli.StringFlag{Name: "size", Usage: "new size"},
			&cli.StringFlag{Name: "quantity", Usage: "new on-hand quantity"},
			&cli.StringFlag{Name: "price", Usage: "new unit price"},
		},
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			id, err := parseInt("id", cmd.Args().Get(0))
			if err != nil {
				return err
			}

			patch := &catalogdto.VariantPatch{
				ProductID: optionalString(cmd, "product-id"),
				Barcode:   optionalString(cmd, "barcode"),
				Name:      optionalString(cmd, "name"),
				Size:      optionalString(cmd, "size"),
			}
			if patch.Quantity, err = optionalInt(cmd, "quantity"); err != nil {
				return err
			}
			if patch.Price, err = optionalFloat(cmd, "price"); err != nil {
				return err
			}

			v, err := a.catalog.UpdateVariant(ctx, id, patch)
			if err != nil {
				return err
			}
			printVariants(a.out, []model.Variant{*v})
			return nil
		}),
	}
}

func priceCommand() *cli.Command {
	return &cli.Command{
		Name:      "price",
		Usage:     "Set the price of every size of a model",
		ArgsUsage: "<product_id> <price>",
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			if err := requireArgs(cmd, 2); err != nil {
				return err
			}
			price, err := parseFloat("price", cmd.Args().Get(1))
			if err != nil {
				return err
			}
			n, err := a.catalog.UpdatePriceByProductID(ctx, cmd.Args().Get(0), price)
			if err != nil {
				return err
			}
			printf(a.out, "%d variant(s) of %s now cost %s\n", n, cmd.Args().Get(0), money(price))
			return nil
		}),
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Delete one variant by id",
		ArgsUsage: "<id>",
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			id, err := parseInt("id", cmd.Args().Get(0))
			if err != nil {
				return err
			}
			if err := a.catalog.DeleteVariant(ctx, id); err != nil {
				return err
			}
			printf(a.out, "variant %d deleted\n", id)
			return nil
		}),
	}
}

func findCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Look up a barcode",
		ArgsUsage: "<barcode>",
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			v, err := a.catalog.FindByBarcode(ctx, cmd.Args().Get(0))
			if err != nil {
				return err
			}
			if v == nil {
				printf(a.out, "no product with barcode %s\n", cmd.Args().Get(0))
				return nil
			}
			printVariants(a.out, []model.Variant{*v})
			return nil
		}),
	}
}

func modelCommand() *cli.Command {
	return &cli.Command{
		Name:      "model",
		Usage:     "Show stock per size for a model code",
		ArgsUsage: "<product_id>",
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			summary, err := a.catalog.ProductSummary(ctx, cmd.Args().Get(0))
			if err != nil {
				return err
			}
			printProductSummary(a.out, summary)
			return nil
		}),
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:      "search",
		Usage:     "Exact-match search by model code, barcode or name",
		ArgsUsage: "<term>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "mode", Value: string(catalogdto.SearchAll), Usage: "all, product_id, barcode or name"},
		},
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			if err := requireArgs(cmd, 1); err != nil {
				return err
			}
			items, err := a.catalog.Search(ctx, &catalogdto.SearchInput{
				Term: cmd.Args().Get(0),
				Mode: catalogdto.SearchMode(cmd.String("mode")),
			})
			if err != nil {
				return err
			}
			printVariants(a.out, items)
			return nil
		}),
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the whole catalog a page at a time",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "page", Value: "1"},
			&cli.StringFlag{Name: "per-page", Usage: "defaults to CATALOG_PAGE_SIZE"},
		},
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			page, err := parseInt("page", cmd.String("page"))
			if err != nil {
				return err
			}
			perPage := int64(a.cfg.Catalog.PageSize)
			if cmd.IsSet("per-page") {
				if perPage, err = parseInt("per-page", cmd.String("per-page")); err != nil {
					return err
				}
			}

			items, total, err := a.catalog.ListPaged(ctx, int(page), int(perPage))
			if err != nil {
				return err
			}
			printVariants(a.out, items)
			printf(a.out, "page %d, %d of %d variant(s)\n", page, len(items), total)
			return nil
		}),
	}
}

func totalsCommand() *cli.Command {
	return &cli.Command{
		Name:  "totals",
		Usage: "Show total units and value on hand",
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			qty, err := a.catalog.TotalStockQuantity(ctx)
			if err != nil {
				return err
			}
			value, err := a.catalog.TotalStockValue(ctx)
			if err != nil {
				return err
			}
			printf(a.out, "units: %d\nvalue: %s\n", qty, money(value))
			return nil
		}),
	}
}

func sellCommand() *cli.Command {
	return &cli.Command{
		Name:      "sell",
		Usage:     "Check out a cart",
		ArgsUsage: "<barcode>[:qty]...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "method", Usage: "cash or card"},
		},
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			lines, err := parseCartLines(cmd.Args().Slice())
			if err != nil {
				return err
			}
			cart, err := fillCart(ctx, a.catalog, a.out, lines)
			if err != nil {
				return err
			}
			if cart.IsEmpty() {
				return apperror.InvalidSale("empty cart")
			}

			res, err := a.sales.CompleteSale(ctx, &dto.CompleteSaleInput{
				Lines:         cart.Lines(),
				PaymentMethod: model.PaymentMethod(cmd.String("method")),
			})
			if res != nil {
				printSaleResult(a.out, res)
			}
			return err
		}),
	}
}

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "End-of-day summary and sales list",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "date", Usage: "YYYY-MM-DD, defaults to today"},
		},
		Action: withApp(func(ctx context.Context, a *app, cmd *cli.Command) error {
			day, err := parseDate(cmd.String("date"), a.loc, timeNow())
			if err != nil {
				return err
			}
			summary, err := a.sales.DailySummary(ctx, day)
			if err != nil {
				return err
			}
			sales, err := a.sales.DailySales(ctx, day)
			if err != nil {
				return err
			}
			printDailyReport(a.out, summary, sales)
			return nil
		}),
	}
}
