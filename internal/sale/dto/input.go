package dto

import "github.com/fekuna/omnipos-stock/internal/model"

type CartLine struct {
	Barcode  string `json:"barcode" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}

type CompleteSaleInput struct {
	Lines         []CartLine          `json:"lines" validate:"min=1,dive"`
	PaymentMethod model.PaymentMethod `json:"payment_method" validate:"oneof=cash card"`
}
