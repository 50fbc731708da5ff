package main

import (
	"context"
	"errors"
	"io"

	"github.com/fekuna/omnipos-stock/internal/apperror"
	"github.com/fekuna/omnipos-stock/internal/catalog"
	"github.com/fekuna/omnipos-stock/internal/sale/dto"
)

// fillCart scans lines into a cart the way the till does: unknown barcodes
// and lines that would take more than is on hand are refused and reported,
// the rest are kept. Only a storage failure aborts.
func fillCart(ctx context.Context, cat catalog.UseCase, w io.Writer, lines []dto.CartLine) (*dto.Cart, error) {
	cart := &dto.Cart{}
	for _, line := range lines {
		v, err := cat.FindByBarcode(ctx, line.Barcode)
		if err != nil {
			return nil, err
		}
		if v == nil {
			printf(w, "  x %s: product not found\n", line.Barcode)
			continue
		}

		if err := cart.Add(*v, line.Quantity); err != nil {
			var appErr *apperror.Error
			if errors.As(err, &appErr) && appErr.Kind == apperror.KindInsufficientStock {
				printf(w, "  x %s x%d: insufficient stock, max %d\n", line.Barcode, line.Quantity, appErr.Available)
				continue
			}
			printf(w, "  x %s: %v\n", line.Barcode, err)
			continue
		}
	}

	if !cart.IsEmpty() {
		printf(w, "cart: %d item(s), %d unit(s), total %s\n",
			cart.ItemCount(), cart.TotalQuantity(), cart.Total().StringFixed(2))
	}
	return cart, nil
}
