package documents

import (
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/glassworks/internal/pricing"
)

// RowDefaults are the unit prices a fresh invoice row starts with.
type RowDefaults struct {
	DrillUnitPrice  float64
	CutoutUnitPrice float64
}

// DefaultRowDefaults returns the shop's standard drill and cutout prices.
func DefaultRowDefaults() RowDefaults {
	return RowDefaults{DrillUnitPrice: 5000, CutoutUnitPrice: 50000}
}

// NewInvoiceRow seeds a row to append after last.
// The glass fields carry over from last; with keepSettings the grinding, drill
// and cutout settings carry over as well. last may be nil for the first row.
func NewInvoiceRow(last *pricing.InvoiceItem, keepSettings bool, defaults RowDefaults) pricing.InvoiceItem {
	row := pricing.InvoiceItem{
		ID:              uuid.NewString(),
		Quantity:        1,
		GrindingType:    pricing.GrindingNone,
		DrillUnitPrice:  defaults.DrillUnitPrice,
		CutoutUnitPrice: defaults.CutoutUnitPrice,
	}
	if last == nil {
		return row
	}

	row.Description = last.Description
	row.ProductCode = last.ProductCode
	row.UnitPrice = last.UnitPrice
	if keepSettings {
		row.GrindingType = last.GrindingType
		row.GrindingUnitPrice = last.GrindingUnitPrice
		row.DrillHoles = last.DrillHoles
		row.DrillUnitPrice = last.DrillUnitPrice
		row.Cutouts = last.Cutouts
		row.CutoutUnitPrice = last.CutoutUnitPrice
	}
	return row
}

// BaseProductName strips the " (attribute)" suffixes from a description.
func BaseProductName(description string) string {
	base, _, _ := strings.Cut(description, " (")
	return strings.TrimSpace(base)
}

// ToggleAttribute adds attr to or removes it from description.
// The result is the base product name followed by the active attributes as
// " (A)" suffixes, in the order given by attributes. The base name must be a
// catalogue product.
func ToggleAttribute(description, attr string, attributes []string, products []Product) (string, error) {
	base := BaseProductName(description)
	if base == "" {
		return "", invalid(ErrBaseProductRequired, "empty description")
	}
	if _, ok := FindProductByName(products, base); !ok {
		return "", invalid(ErrBaseProductRequired, "%q is not a catalogue product", base)
	}

	active := make(map[string]bool, len(attributes))
	for _, a := range attributes {
		if strings.Contains(description, " ("+a+")") {
			active[a] = true
		}
	}
	active[attr] = !active[attr]

	var b strings.Builder
	b.WriteString(base)
	for _, a := range attributes {
		if active[a] {
			b.WriteString(" (")
			b.WriteString(a)
			b.WriteString(")")
		}
	}
	return b.String(), nil
}

// HasAttribute reports whether description carries attr as a " (attr)" suffix.
func HasAttribute(description, attr string) bool {
	return strings.Contains(description, " ("+attr+")")
}
