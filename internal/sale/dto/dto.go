package dto

import "github.com/fekuna/omnipos-stock/internal/model"

// DisplayDateLayout is how report dates are shown to the cashier.
const DisplayDateLayout = "02.01.2006"

// LineResult is the outcome of one cart line at checkout. Err is nil when the
// line's stock was taken. RolledBack marks a line whose decrement was undone
// because another line failed inside the same transaction. Skipped marks a
// line never tried because checkout stopped on a storage failure.
type LineResult struct {
	Barcode    string `json:"barcode"`
	Quantity   int64  `json:"quantity"`
	Remaining  int64  `json:"remaining"`
	RolledBack bool   `json:"rolled_back"`
	Skipped    bool   `json:"skipped"`
	Err        error  `json:"-"`
}

func (l LineResult) OK() bool {
	return l.Err == nil && !l.RolledBack && !l.Skipped
}

// SaleResult reports every line. Sale is nil unless all lines succeeded.
type SaleResult struct {
	Reference string       `json:"reference"`
	Lines     []LineResult `json:"lines"`
	Sale      *model.Sale  `json:"sale,omitempty"`
}

func (r *SaleResult) Failed() []LineResult {
	var failed []LineResult
	for _, l := range r.Lines {
		if l.Err != nil {
			failed = append(failed, l)
		}
	}
	return failed
}

// MethodTotal is one row of the per-payment-method aggregate for a day.
type MethodTotal struct {
	Method model.PaymentMethod `db:"payment_method" json:"method"`
	Count  int64               `db:"count" json:"count"`
	Total  float64             `db:"total" json:"total"`
}

type DailySummary struct {
	Date        string  `json:"date"`
	DisplayDate string  `json:"display_date"`
	CashTotal   float64 `json:"cash_total"`
	CashCount   int64   `json:"cash_count"`
	CardTotal   float64 `json:"card_total"`
	CardCount   int64   `json:"card_count"`
	GrandTotal  float64 `json:"grand_total"`
	TotalSales  int64   `json:"total_sales"`
}
