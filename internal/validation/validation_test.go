package validation

import (
	"math"
	"testing"

	"github.com/fekuna/omnipos-stock/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Barcode  string   `json:"barcode" validate:"required"`
	Quantity int64    `json:"quantity" validate:"gt=0"`
	Price    float64  `json:"price" validate:"finite,gte=0"`
	Method   string   `json:"payment_method" validate:"oneof=cash card"`
	Tags     []string `json:"tags" validate:"min=1"`
}

func TestStruct(t *testing.T) {
	valid := sample{Barcode: "B1", Quantity: 1, Method: "cash", Tags: []string{"x"}}
	require.NoError(t, Struct(apperror.KindInvalidInput, valid))

	tests := []struct {
		name   string
		mutate func(*sample)
		msg    string
	}{
		{"missing barcode", func(s *sample) { s.Barcode = "" }, "barcode is required"},
		{"zero quantity", func(s *sample) { s.Quantity = 0 }, "quantity must be greater than 0"},
		{"negative price", func(s *sample) { s.Price = -1 }, "price must be at least 0"},
		{"infinite price", func(s *sample) { s.Price = math.Inf(1) }, "price must be a finite number"},
		{"NaN price", func(s *sample) { s.Price = math.NaN() }, "price must be a finite number"},
		{"unknown method", func(s *sample) { s.Method = "cheque" }, "payment_method must be one of [cash card]"},
		{"empty tags", func(s *sample) { s.Tags = nil }, "tags must contain at least 1 item(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := valid
			tt.mutate(&s)

			err := Struct(apperror.KindInvalidSale, s)
			require.Error(t, err)
			assert.ErrorIs(t, err, apperror.ErrInvalidSale)
			assert.Equal(t, tt.msg, err.Error())
		})
	}
}
