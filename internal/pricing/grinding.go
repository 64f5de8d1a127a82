package pricing

import "strings"

// GrindingCode identifies which edges of a piece are ground.
type GrindingCode string

const (
	GrindingNone      GrindingCode = "none"
	GrindingFourEdges GrindingCode = "4c"
	GrindingTwoLong   GrindingCode = "2d"
	GrindingTwoShort  GrindingCode = "2n"
	GrindingOneLong   GrindingCode = "1d"
	GrindingOneShort  GrindingCode = "1n"
)

const defaultGrindingPricePerMeter = 15000

// ParseGrindingCode normalizes a user supplied code. Blank input means no grinding.
func ParseGrindingCode(raw string) GrindingCode {
	code := strings.ToLower(strings.TrimSpace(raw))
	if code == "" {
		return GrindingNone
	}
	return GrindingCode(code)
}

// GrindingType is one configured grinding style with its default price per meter of edge.
type GrindingType struct {
	Code          GrindingCode `json:"code"`
	Name          string       `json:"name"`
	PricePerMeter float64      `json:"pricePerMeter"`
}

// GrindingTable resolves grinding types by code.
type GrindingTable map[GrindingCode]GrindingType

// NewGrindingTable indexes types by code. Later entries win on duplicate codes.
func NewGrindingTable(types []GrindingType) GrindingTable {
	table := make(GrindingTable, len(types))
	for _, t := range types {
		t.Code = ParseGrindingCode(string(t.Code))
		table[t.Code] = t
	}
	return table
}

// DefaultPrice returns the configured price per meter for code.
func (t GrindingTable) DefaultPrice(code GrindingCode) (float64, bool) {
	gt, ok := t[code]
	if !ok {
		return 0, false
	}
	return gt.PricePerMeter, true
}

// DefaultGrindingTypes is the table used until an operator configures one.
func DefaultGrindingTypes() []GrindingType {
	return []GrindingType{
		{Code: GrindingNone, Name: "Không mài", PricePerMeter: 0},
		{Code: GrindingFourEdges, Name: "Mài 4 cạnh", PricePerMeter: defaultGrindingPricePerMeter},
		{Code: GrindingTwoLong, Name: "Mài 2 cạnh dài", PricePerMeter: defaultGrindingPricePerMeter},
		{Code: GrindingTwoShort, Name: "Mài 2 cạnh ngắn", PricePerMeter: defaultGrindingPricePerMeter},
		{Code: GrindingOneLong, Name: "Mài 1 cạnh dài", PricePerMeter: defaultGrindingPricePerMeter},
		{Code: GrindingOneShort, Name: "Mài 1 cạnh ngắn", PricePerMeter: defaultGrindingPricePerMeter},
	}
}

// edgeLength returns the unrounded ground edge length in meters.
// Long and short edges are picked per piece, so orientation does not matter.
func edgeLength(code GrindingCode, height, width float64, quantity int) float64 {
	q := float64(quantity)
	long, short := height, width
	if width > height {
		long, short = width, height
	}

	switch code {
	case GrindingFourEdges:
		return (height + width) * 2 * q / mmPerMeter
	case GrindingTwoLong:
		return long * 2 * q / mmPerMeter
	case GrindingTwoShort:
		return short * 2 * q / mmPerMeter
	case GrindingOneLong:
		return long * q / mmPerMeter
	case GrindingOneShort:
		return short * q / mmPerMeter
	default:
		return 0
	}
}

// GrindingLength returns the meters of edge ground for quantity pieces, rounded to 3 decimals.
func GrindingLength(code GrindingCode, height, width float64, quantity int) float64 {
	return roundTo(edgeLength(code, height, width, quantity), measurePlaces)
}
