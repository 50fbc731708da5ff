package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the storage format of Sale.SaleDate.
const DateLayout = "2006-01-02"

type PaymentMethod string

const (
	PaymentCash PaymentMethod = "cash"
	PaymentCard PaymentMethod = "card"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentCard
}

// LineItem is the state of a variant at the moment it was sold.
type LineItem struct {
	Barcode  string  `json:"barcode"`
	Name     string  `json:"name"`
	Size     string  `json:"size"`
	Quantity int64   `json:"quantity"`
	Price    float64 `json:"price"`
	Total    float64 `json:"total"`
}

// LineItems is stored as a JSON array in sales.items_json.
type LineItems []LineItem

func (l LineItems) Value() (driver.Value, error) {
	if l == nil {
		l = LineItems{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *LineItems) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*l = LineItems{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("model: cannot scan %T into LineItems", src)
	}
	if len(data) == 0 {
		*l = LineItems{}
		return nil
	}
	return json.Unmarshal(data, l)
}

type Sale struct {
	ID            int64         `db:"id" json:"id"`
	SaleDate      string        `db:"sale_date" json:"sale_date"`
	TotalAmount   float64       `db:"total_amount" json:"total_amount"`
	PaymentMethod PaymentMethod `db:"payment_method" json:"payment_method"`
	Items         LineItems     `db:"items_json" json:"items"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// TimeOfDay is the clock time the sale was recorded at, for receipts and reports.
func (s Sale) TimeOfDay() string {
	return s.CreatedAt.Format("15:04")
}
