package dto

import "github.com/fekuna/omnipos-stock/internal/model"

const (
	SearchLimit = 100
	// NoSize stands in for an empty size in summaries.
	NoSize = "-"
)

// StockResult is the row after an add or remove. Created is true when the
// add inserted a new barcode rather than restocking an existing one.
type StockResult struct {
	Variant model.Variant `json:"variant"`
	Created bool          `json:"created"`
}

type SizeStock struct {
	Size     string  `json:"size"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Barcode  string  `json:"barcode"`
}

type ProductSummary struct {
	ProductID     string      `json:"product_id"`
	Name          string      `json:"name"`
	TotalQuantity int64       `json:"total_quantity"`
	TotalValue    float64     `json:"total_value"`
	Sizes         []SizeStock `json:"sizes"`
}

type StockTotals struct {
	Value    float64 `json:"value"`
	Quantity int64   `json:"quantity"`
}

type Page struct {
	Items []model.Variant `json:"items"`
	Total int             `json:"total"`
}
