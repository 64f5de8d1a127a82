package pricing

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Number coerces a loosely typed value to a finite float64.
// Missing, non-numeric, NaN and infinite values become 0.
func Number(v any) float64 {
	switch x := v.(type) {
	case bool:
		return 0
	case string:
		v = strings.TrimSpace(x)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Count coerces a loosely typed value to a whole count, truncating fractions.
func Count(v any) int {
	n := math.Trunc(Number(v))
	if math.Abs(n) > math.MaxInt32 {
		return 0
	}
	return int(n)
}

// Text coerces a loosely typed value to a trimmed string. Use it for codes and ids.
func Text(v any) string {
	return strings.TrimSpace(String(v))
}

// String coerces a loosely typed value to a string as typed, for free-text fields.
func String(v any) string {
	if v == nil {
		return ""
	}
	return cast.ToString(v)
}

// InvoiceItemFromMap decodes a row as sent by a data-entry grid.
func InvoiceItemFromMap(m map[string]any) InvoiceItem {
	item := InvoiceItem{GrindingType: GrindingNone}
	for field, v := range m {
		setInvoiceField(&item, field, v)
	}
	return item
}

// EditInvoiceItem assigns one field and recomputes the row.
// Switching the grinding type clears the grinding unit price first.
func EditInvoiceItem(item InvoiceItem, field string, v any, grinding GrindingTable) InvoiceItem {
	out := item
	if field == "grindingType" {
		out = WithGrindingType(out, ParseGrindingCode(Text(v)))
	} else {
		setInvoiceField(&out, field, v)
	}
	return CalculateInvoiceItem(out, grinding)
}

func setInvoiceField(item *InvoiceItem, field string, v any) {
	switch field {
	case "id":
		item.ID = Text(v)
	case "productCode":
		item.ProductCode = Text(v)
	case "description":
		item.Description = String(v)
	case "height":
		item.Height = Number(v)
	case "width":
		item.Width = Number(v)
	case "quantity":
		item.Quantity = Count(v)
	case "unitPrice":
		item.UnitPrice = Number(v)
	case "grindingType":
		item.GrindingType = ParseGrindingCode(Text(v))
	case "grindingUnitPrice":
		item.GrindingUnitPrice = Number(v)
	case "drillHoles":
		item.DrillHoles = Count(v)
	case "drillUnitPrice":
		item.DrillUnitPrice = Number(v)
	case "cutouts":
		item.Cutouts = Count(v)
	case "cutoutUnitPrice":
		item.CutoutUnitPrice = Number(v)
	}
}

// GoodsReceiptItemFromMap decodes a goods receipt row.
func GoodsReceiptItemFromMap(m map[string]any) GoodsReceiptItem {
	var item GoodsReceiptItem
	for field, v := range m {
		setGoodsReceiptField(&item, field, v)
	}
	return item
}

// EditGoodsReceiptItem assigns one field and recomputes the row.
func EditGoodsReceiptItem(item GoodsReceiptItem, field string, v any) GoodsReceiptItem {
	out := item
	setGoodsReceiptField(&out, field, v)
	return CalculateGoodsReceiptItem(out)
}

func setGoodsReceiptField(item *GoodsReceiptItem, field string, v any) {
	switch field {
	case "id":
		item.ID = Text(v)
	case "description":
		item.Description = String(v)
	case "hs1", "height":
		item.Height = Number(v)
	case "hs2", "width":
		item.Width = Number(v)
	case "unit":
		item.Unit = String(v)
	case "packs":
		item.Packs = Count(v)
	case "sheetsPerPack":
		item.SheetsPerPack = Count(v)
	case "unitPrice":
		item.UnitPrice = Number(v)
	}
}

// TicketItemFromMap decodes a processing ticket row.
func TicketItemFromMap(m map[string]any) ProcessingTicketItem {
	var item ProcessingTicketItem
	for field, v := range m {
		setTicketField(&item, field, v)
	}
	return item
}

// EditTicketItem assigns one field and recomputes the row.
func EditTicketItem(item ProcessingTicketItem, field string, v any) ProcessingTicketItem {
	out := item
	setTicketField(&out, field, v)
	return CalculateTicketItem(out)
}

func setTicketField(item *ProcessingTicketItem, field string, v any) {
	switch field {
	case "id":
		item.ID = Text(v)
	case "description":
		item.Description = String(v)
	case "height":
		item.Height = Number(v)
	case "width":
		item.Width = Number(v)
	case "quantity":
		item.Quantity = Count(v)
	case "processingType":
		item.ProcessingType = String(v)
	case "grindingType":
		item.GrindingType = ParseGrindingCode(Text(v))
	case "notes":
		item.Notes = String(v)
	case "sourceInvoiceId":
		item.SourceInvoiceID = Text(v)
	case "customerName":
		item.CustomerName = String(v)
	case "unitPrice":
		item.UnitPrice = Number(v)
	}
}
