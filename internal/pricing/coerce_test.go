package pricing

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	cases := []struct {
		in   any
		want float64
	}{
		{nil, 0},
		{"", 0},
		{"  1250.5 ", 1250.5},
		{"abc", 0},
		{"12a", 0},
		{json.Number("42"), 42},
		{float64(3.5), 3.5},
		{7, 7},
		{math.NaN(), 0},
		{math.Inf(1), 0},
		{"NaN", 0},
		{[]int{1}, 0},
	}

	for _, tc := range cases {
		assert.InDelta(t, tc.want, Number(tc.in), 1e-9, "Number(%#v)", tc.in)
	}
}

func TestCount(t *testing.T) {
	assert.Equal(t, 3, Count("3"))
	assert.Equal(t, 2, Count(2.9))
	assert.Equal(t, 0, Count("x"))
	assert.Equal(t, 0, Count(nil))
	assert.Equal(t, 0, Count(1e20))
}

func TestInvoiceItemFromMap_DecodesLooseRow(t *testing.T) {
	var raw map[string]any
	dec := json.NewDecoder(strings.NewReader(`{
		"description": "Kính cường lực (Bóng)",
		"height": "1000",
		"width": 500,
		"quantity": "2",
		"unitPrice": "",
		"grindingType": " 4C ",
		"drillHoles": null,
		"total": 123456
	}`))
	dec.UseNumber()
	if err := dec.Decode(&raw); err != nil {
		t.Fatalf("decode: %v", err)
	}

	item := InvoiceItemFromMap(raw)

	assert.Equal(t, "Kính cường lực (Bóng)", item.Description)
	assert.InDelta(t, 1000.0, item.Height, 1e-9)
	assert.InDelta(t, 500.0, item.Width, 1e-9)
	assert.Equal(t, 2, item.Quantity)
	assert.Zero(t, item.UnitPrice)
	assert.Equal(t, GrindingFourEdges, item.GrindingType)
	assert.Zero(t, item.DrillHoles)
	assert.Zero(t, item.Total, "derived fields are not read from input")
}

func TestInvoiceItemFromMap_DefaultsToNoGrinding(t *testing.T) {
	assert.Equal(t, GrindingNone, InvoiceItemFromMap(map[string]any{}).GrindingType)
}

func TestGoodsReceiptItemFromMap_AcceptsLegacyKeys(t *testing.T) {
	item := GoodsReceiptItemFromMap(map[string]any{
		"hs1": "2440", "width": "1830", "packs": 1, "sheetsPerPack": "5", "unitPrice": 100000,
	})

	got := CalculateGoodsReceiptItem(item)

	assert.Equal(t, 5, got.Quantity)
	assert.InDelta(t, 22.326, got.Area, 1e-9)
}

func TestEditTicketItem(t *testing.T) {
	item := TicketItemFromMap(map[string]any{"height": 1000, "width": 1000, "quantity": 1})

	got := EditTicketItem(item, "unitPrice", "90000")

	assert.InDelta(t, 90000.0, got.Total, 1e-9)
}

func TestNumber_BooleansAreNotNumbers(t *testing.T) {
	assert.Zero(t, Number(true))
	assert.Zero(t, Number(false))
	assert.Zero(t, Count(true))

	item := InvoiceItemFromMap(map[string]any{"height": 1000, "width": 1000, "quantity": true, "unitPrice": true})
	assert.Zero(t, item.Quantity)
	assert.Zero(t, item.UnitPrice)
}

func TestEditInvoiceItem_KeepsFreeTextAsTyped(t *testing.T) {
	got := EditInvoiceItem(InvoiceItem{Description: "Kính"}, "description", "Kính ", nil)
	assert.Equal(t, "Kính ", got.Description)

	item := InvoiceItemFromMap(map[string]any{"description": "  Kính (Bóng) ", "productCode": " HH00001 "})
	assert.Equal(t, "  Kính (Bóng) ", item.Description)
	assert.Equal(t, "HH00001", item.ProductCode)

	ticket := EditTicketItem(ProcessingTicketItem{}, "notes", "giao gấp ")
	assert.Equal(t, "giao gấp ", ticket.Notes)

	receipt := EditGoodsReceiptItem(GoodsReceiptItem{}, "description", "Kính 5ly ")
	assert.Equal(t, "Kính 5ly ", receipt.Description)
}
