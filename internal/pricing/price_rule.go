package pricing

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// TemperedMarker appears in descriptions of tempered glass, e.g. "Kính 10ly C.Lực".
const TemperedMarker = "c.lực"

// PriceRule is a listed price for a product, either for one customer or for walk-in guests.
type PriceRule struct {
	ProductCode        string  `json:"productCode"`
	ProductName        string  `json:"productName"`
	GlassPrice         float64 `json:"glassPrice"`
	TemperedGlassPrice float64 `json:"temperedGlassPrice,omitempty"`
	GrindingPrice      float64 `json:"grindingPrice"`
	DrillPrice         float64 `json:"drillPrice"`
	CutoutPrice        float64 `json:"cutoutPrice"`
}

// Fold normalizes s for case-insensitive comparison of Vietnamese text.
// Composed and decomposed diacritics compare equal after folding.
func Fold(s string) string {
	return cases.Lower(language.Vietnamese).String(norm.NFC.String(strings.TrimSpace(s)))
}

// IsTempered reports whether description names the tempered variant.
func IsTempered(description string) bool {
	return strings.Contains(Fold(description), TemperedMarker)
}

// GlassPriceFor picks the tempered tier for tempered descriptions when the rule lists one.
func (r PriceRule) GlassPriceFor(description string) float64 {
	if IsTempered(description) && r.TemperedGlassPrice != 0 {
		return r.TemperedGlassPrice
	}
	return r.GlassPrice
}

// ApplyPriceRule overwrites the item's unit prices from rule and recomputes it.
// This is a one-shot copy; later manual edits are kept until the rule is applied again.
func ApplyPriceRule(item InvoiceItem, rule PriceRule, grinding GrindingTable) InvoiceItem {
	out := item
	out.UnitPrice = rule.GlassPriceFor(out.Description)
	out.GrindingUnitPrice = rule.GrindingPrice
	out.DrillUnitPrice = rule.DrillPrice
	out.CutoutUnitPrice = rule.CutoutPrice
	return CalculateInvoiceItem(out, grinding)
}
