package dto

type AddStockInput struct {
	ProductID string  `json:"product_id" validate:"required"`
	Barcode   string  `json:"barcode" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Size      string  `json:"size"`
	Quantity  int64   `json:"quantity" validate:"gt=0"`
	Price     float64 `json:"price" validate:"finite,gte=0"`
}

type RemoveStockInput struct {
	Barcode  string `json:"barcode" validate:"required"`
	Quantity int64  `json:"quantity" validate:"gt=0"`
}

// VariantPatch carries the fields to change on one variant. A nil field is
// left untouched.
type VariantPatch struct {
	ProductID *string  `json:"product_id"`
	Barcode   *string  `json:"barcode" validate:"omitnil,min=1"`
	Name      *string  `json:"name" validate:"omitnil,min=1"`
	Size      *string  `json:"size"`
	Quantity  *int64   `json:"quantity" validate:"omitnil,gte=0"`
	Price     *float64 `json:"price" validate:"omitnil,finite,gte=0"`
}

func (p *VariantPatch) IsEmpty() bool {
	return p == nil || (p.ProductID == nil && p.Barcode == nil && p.Name == nil &&
		p.Size == nil && p.Quantity == nil && p.Price == nil)
}

type SearchMode string

const (
	SearchAll       SearchMode = "all"
	SearchProductID SearchMode = "product_id"
	SearchBarcode   SearchMode = "barcode"
	SearchName      SearchMode = "name"
)

func (m SearchMode) Valid() bool {
	switch m {
	case SearchAll, SearchProductID, SearchBarcode, SearchName:
		return true
	}
	return false
}

type SearchInput struct {
	Term string     `json:"term" validate:"required"`
	Mode SearchMode `json:"mode"`
}
