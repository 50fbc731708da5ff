package dto

import (
	"github.com/fekuna/omnipos-stock/internal/apperror"
	"github.com/fekuna/omnipos-stock/internal/model"
	"github.com/shopspring/decimal"
)

type CartItem struct {
	Variant  model.Variant `json:"variant"`
	Quantity int64         `json:"quantity"`
}

func (i CartItem) Total() decimal.Decimal {
	return decimal.NewFromFloat(i.Variant.Price).Mul(decimal.NewFromInt(i.Quantity))
}

// Cart collects variants before checkout, in the order they were first
// scanned. Quantities are capped at the stock the variant had when added.
// The zero value is an empty cart.
type Cart struct {
	order []string
	items map[string]*CartItem
}

func (c *Cart) Add(v model.Variant, n int64) error {
	if n <= 0 {
		return apperror.InvalidInput("quantity must be greater than 0")
	}
	if c.items == nil {
		c.items = map[string]*CartItem{}
	}

	item, ok := c.items[v.Barcode]
	current := int64(0)
	if ok {
		current = item.Quantity
	}
	if current+n > v.Quantity {
		return apperror.InsufficientStock(v.Barcode, v.Quantity)
	}

	if !ok {
		item = &CartItem{}
		c.items[v.Barcode] = item
		c.order = append(c.order, v.Barcode)
	}
	item.Variant = v
	item.Quantity = current + n
	return nil
}

// SetQuantity replaces a line's quantity; n <= 0 drops the line.
func (c *Cart) SetQuantity(barcode string, n int64) error {
	item, ok := c.items[barcode]
	if !ok {
		return apperror.NotFound("barcode %q is not in the cart", barcode)
	}
	if n <= 0 {
		c.Remove(barcode)
		return nil
	}
	if n > item.Variant.Quantity {
		return apperror.InsufficientStock(barcode, item.Variant.Quantity)
	}
	item.Quantity = n
	return nil
}

func (c *Cart) Remove(barcode string) bool {
	if _, ok := c.items[barcode]; !ok {
		return false
	}
	delete(c.items, barcode)
	for i, b := range c.order {
		if b == barcode {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

func (c *Cart) Clear() {
	c.order = nil
	c.items = nil
}

func (c *Cart) Items() []CartItem {
	items := make([]CartItem, 0, len(c.order))
	for _, b := range c.order {
		items = append(items, *c.items[b])
	}
	return items
}

// Lines is the checkout request body for the cart's contents.
func (c *Cart) Lines() []CartLine {
	lines := make([]CartLine, 0, len(c.order))
	for _, b := range c.order {
		lines = append(lines, CartLine{Barcode: b, Quantity: c.items[b].Quantity})
	}
	return lines
}

// ItemCount is the number of distinct barcodes.
func (c *Cart) ItemCount() int {
	return len(c.order)
}

func (c *Cart) TotalQuantity() int64 {
	var total int64
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Total())
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.order) == 0
}
