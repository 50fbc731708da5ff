package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-stock/internal/apperror"
	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/fekuna/omnipos-stock/internal/sale/dto"
	"github.com/urfave/cli/v3"
)

func requireArgs(cmd *cli.Command, n int) error {
	if cmd.Args().Len() != n {
		return apperror.InvalidInput("expected %d argument(s): %s", n, cmd.ArgsUsage)
	}
	return nil
}

func parseInt(field, s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, apperror.InvalidInput("%s must be a whole number, got %q", field, s)
	}
	return v, nil
}

func parseFloat(field, s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(strings.ReplaceAll(s, ",", ".")), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperror.InvalidInput("%s must be a number, got %q", field, s)
	}
	return v, nil
}

// parseCartLines reads "barcode" or "barcode:qty" arguments in scan order.
func parseCartLines(args []string) ([]dto.CartLine, error) {
	lines := make([]dto.CartLine, 0, len(args))
	for _, arg := range args {
		barcode, qtyText, hasQty := strings.Cut(arg, ":")
		barcode = strings.TrimSpace(barcode)
		if barcode == "" {
			return nil, apperror.InvalidSale("empty barcode in %q", arg)
		}

		qty := int64(1)
		if hasQty {
			v, err := strconv.ParseInt(strings.TrimSpace(qtyText), 10, 64)
			if err != nil {
				return nil, apperror.InvalidSale("quantity in %q must be a whole number", arg)
			}
			qty = v
		}
		lines = append(lines, dto.CartLine{Barcode: barcode, Quantity: qty})
	}
	return lines, nil
}

// parseDate reads YYYY-MM-DD in loc; empty means today.
func parseDate(s string, loc *time.Location, now time.Time) (time.Time, error) {
	if s == "" {
		return now.In(loc), nil
	}
	d, err := time.ParseInLocation(model.DateLayout, s, loc)
	if err != nil {
		return time.Time{}, apperror.InvalidInput("date must look like %s, got %q", model.DateLayout, s)
	}
	return d, nil
}

func optionalString(cmd *cli.Command, name string) *string {
	if !cmd.IsSet(name) {
		return nil
	}
	v := cmd.String(name)
	return &v
}

func optionalInt(cmd *cli.Command, name string) (*int64, error) {
	if !cmd.IsSet(name) {
		return nil, nil
	}
	v, err := parseInt(name, cmd.String(name))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func optionalFloat(cmd *cli.Command, name string) (*float64, error) {
	if !cmd.IsSet(name) {
		return nil, nil
	}
	v, err := parseFloat(name, cmd.String(name))
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
