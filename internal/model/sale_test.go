package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLineItemsStoredWithNumericFields(t *testing.T) {
	items := LineItems{{Barcode: "B1", Name: "Shirt", Size: "M", Quantity: 2, Price: 10, Total: 20}}

	v, err := items.Value()
	require.NoError(t, err)

	var raw []map[string]any
	require.NoError(t, json.Unmarshal([]byte(v.(string)), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, float64(2), raw[0]["quantity"])
	assert.Equal(t, float64(10), raw[0]["price"])
	assert.Equal(t, float64(20), raw[0]["total"])
	for _, key := range []string{"barcode", "name", "size", "quantity", "price", "total"} {
		assert.Contains(t, raw[0], key)
	}
}

func TestLineItemsScan(t *testing.T) {
	var items LineItems
	require.NoError(t, items.Scan([]byte(`[{"barcode":"B2","name":"Hat","size":"","quantity":1,"price":5,"total":5}]`)))
	require.Len(t, items, 1)
	assert.Equal(t, "B2", items[0].Barcode)

	require.NoError(t, items.Scan(nil))
	assert.Empty(t, items)

	assert.Error(t, items.Scan(42))
}

func TestNilLineItemsStoreAsEmptyArray(t *testing.T) {
	v, err := LineItems(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)
}

func TestVariantStockValue(t *testing.T) {
	v := Variant{Quantity: 3, Price: 0.1}
	assert.Equal(t, "0.3", v.StockValue().String())
}

func TestSaleTimeOfDay(t *testing.T) {
	s := Sale{CreatedAt: time.Date(2026, 10, 17, 14, 5, 0, 0, time.UTC)}
	assert.Equal(t, "14:05", s.TimeOfDay())
	assert.True(t, PaymentCard.Valid())
	assert.False(t, PaymentMethod("cheque").Valid())
}
