package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variant is one sellable size of a model, identified by its barcode.
type Variant struct {
	ID        int64     `db:"id" json:"id"`
	ProductID string    `db:"product_id" json:"product_id"` // model code shared by all sizes
	Barcode   string    `db:"barcode" json:"barcode"`
	Name      string    `db:"name" json:"name"`
	Size      string    `db:"size" json:"size"`
	Quantity  int64     `db:"quantity" json:"quantity"`
	Price     float64   `db:"price" json:"price"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func (v Variant) StockValue() decimal.Decimal {
	return decimal.NewFromFloat(v.Price).Mul(decimal.NewFromInt(v.Quantity))
}
