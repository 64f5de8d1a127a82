// Package pricing derives measurements and costs for glass line items.
//
// Every calculator is a pure function of its inputs: it never mutates its
// argument, never fails, and applying it twice yields the same result.
package pricing

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"
)

const (
	mm2PerM2   = 1_000_000
	mmPerMeter = 1000

	measurePlaces  int32 = 3
	currencyPlaces int32 = 0
)

// InvoiceItem is one row of a sales invoice.
type InvoiceItem struct {
	ID          string  `json:"id"`
	ProductCode string  `json:"productCode,omitempty"`
	Description string  `json:"description"`
	Height      float64 `json:"height"`
	Width       float64 `json:"width"`
	Quantity    int     `json:"quantity"`
	Area        float64 `json:"area"`
	UnitPrice   float64 `json:"unitPrice"`

	GrindingType      GrindingCode `json:"grindingType"`
	GrindingLength    float64      `json:"grindingLength"`
	GrindingUnitPrice float64      `json:"grindingUnitPrice"`
	GrindingPrice     float64      `json:"grindingPrice"`

	DrillHoles     int     `json:"drillHoles"`
	DrillUnitPrice float64 `json:"drillUnitPrice"`
	DrillPrice     float64 `json:"drillPrice"`

	Cutouts         int     `json:"cutouts"`
	CutoutUnitPrice float64 `json:"cutoutUnitPrice"`
	CutoutPrice     float64 `json:"cutoutPrice"`

	Total float64 `json:"total"`
}

// CalculateInvoiceItem recomputes every derived field of item.
//
// A zero grinding unit price falls back to the table price for the item's
// grinding type. Grinding, drill and cutout costs are rounded to whole
// currency units before they are added to the unrounded glass cost.
func CalculateInvoiceItem(item InvoiceItem, grinding GrindingTable) InvoiceItem {
	out := item
	if out.GrindingType == "" {
		out.GrindingType = GrindingNone
	}

	area := Area(out.Height, out.Width, out.Quantity)
	length := edgeLength(out.GrindingType, out.Height, out.Width, out.Quantity)

	grindingUnitPrice := out.GrindingUnitPrice
	if out.GrindingType != GrindingNone && grindingUnitPrice == 0 {
		if price, ok := grinding.DefaultPrice(out.GrindingType); ok {
			grindingUnitPrice = price
		}
	}

	grindingPrice := roundTo(length*grindingUnitPrice, currencyPlaces)
	drillPrice := roundTo(float64(out.DrillHoles)*out.DrillUnitPrice, currencyPlaces)
	cutoutPrice := roundTo(float64(out.Cutouts)*out.CutoutUnitPrice, currencyPlaces)
	glassCost := area * out.UnitPrice

	out.Area = roundTo(area, measurePlaces)
	out.GrindingLength = roundTo(length, measurePlaces)
	out.GrindingUnitPrice = grindingUnitPrice
	out.GrindingPrice = grindingPrice
	out.DrillPrice = drillPrice
	out.CutoutPrice = cutoutPrice
	out.Total = roundTo(glassCost+grindingPrice+drillPrice+cutoutPrice, currencyPlaces)
	return out
}

// WithGrindingType switches the grinding style. The unit price is cleared
// because a price belongs to the style it was entered for.
func WithGrindingType(item InvoiceItem, code GrindingCode) InvoiceItem {
	out := item
	out.GrindingType = code
	out.GrindingUnitPrice = 0
	return out
}

// Area returns the unrounded area in square meters of quantity pieces of height x width millimeters.
func Area(height, width float64, quantity int) float64 {
	return height * width * float64(quantity) / mm2PerM2
}

// roundTo rounds the exact binary value of v half away from zero, so 1.0005
// (stored as 1.000499...) rounds down to 1.000.
func roundTo(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(v, 'f', 30, 64))
	if err != nil {
		return 0
	}
	return d.Round(places).InexactFloat64()
}
