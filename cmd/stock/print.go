package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	catalogdto "github.com/fekuna/omnipos-stock/internal/catalog/dto"
	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/fekuna/omnipos-stock/internal/sale/dto"
)

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}

func sizeOrDash(size string) string {
	if size == "" {
		return catalogdto.NoSize
	}
	return size
}

func printStockResult(w io.Writer, verb string, res *catalogdto.StockResult) {
	v := res.Variant
	if res.Created {
		printf(w, "new product %s (%s %s) created\n", v.Barcode, v.Name, sizeOrDash(v.Size))
	}
	printf(w, "%s: %s now has %d on hand\n", verb, v.Barcode, v.Quantity)
}

func printVariants(w io.Writer, items []model.Variant) {
	if len(items) == 0 {
		printf(w, "no products\n")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printf(tw, "ID\tMODEL\tBARCODE\tNAME\tSIZE\tQTY\tPRICE\n")
	for _, v := range items {
		printf(tw, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			v.ID, v.ProductID, v.Barcode, v.Name, sizeOrDash(v.Size), v.Quantity, money(v.Price))
	}
	_ = tw.Flush()
}

func printProductSummary(w io.Writer, s *catalogdto.ProductSummary) {
	printf(w, "%s  %s\n", s.ProductID, s.Name)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printf(tw, "SIZE\tQTY\tPRICE\tBARCODE\n")
	for _, size := range s.Sizes {
		printf(tw, "%s\t%d\t%s\t%s\n", size.Size, size.Quantity, money(size.Price), size.Barcode)
	}
	_ = tw.Flush()
	printf(w, "total: %d unit(s), value %s\n", s.TotalQuantity, money(s.TotalValue))
}

func printSaleResult(w io.Writer, res *dto.SaleResult) {
	for _, l := range res.Lines {
		switch {
		case l.Err != nil:
			printf(w, "  x %s x%d: %v\n", l.Barcode, l.Quantity, l.Err)
		case l.Skipped:
			printf(w, "  ? %s x%d: not attempted\n", l.Barcode, l.Quantity)
		case l.RolledBack:
			printf(w, "  - %s x%d: rolled back\n", l.Barcode, l.Quantity)
		default:
			printf(w, "  + %s x%d (%d left)\n", l.Barcode, l.Quantity, l.Remaining)
		}
	}
	if res.Sale == nil {
		printf(w, "sale not recorded (ref %s)\n", res.Reference)
		return
	}
	printf(w, "sale #%d %s %s paid by %s (ref %s)\n",
		res.Sale.ID, res.Sale.TimeOfDay(), money(res.Sale.TotalAmount), res.Sale.PaymentMethod, res.Reference)
}

func printDailyReport(w io.Writer, s *dto.DailySummary, sales []model.Sale) {
	printf(w, "Day end %s\n", s.DisplayDate)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	printf(tw, "cash\t%d\t%s\n", s.CashCount, money(s.CashTotal))
	printf(tw, "card\t%d\t%s\n", s.CardCount, money(s.CardTotal))
	printf(tw, "total\t%d\t%s\n", s.TotalSales, money(s.GrandTotal))
	_ = tw.Flush()

	if len(sales) == 0 {
		printf(w, "no sales\n")
		return
	}
	printf(w, "\n")
	for _, sale := range sales {
		printf(w, "%s  #%d  %s  %s\n", sale.TimeOfDay(), sale.ID, sale.PaymentMethod, money(sale.TotalAmount))
		for _, item := range sale.Items {
			printf(w, "    %s %s %s x%d @ %s = %s\n",
				item.Barcode, item.Name, sizeOrDash(item.Size), item.Quantity, money(item.Price), money(item.Total))
		}
	}
}
