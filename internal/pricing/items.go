package pricing

// GoodsReceiptItem is one row of a goods receipt note. Stock arrives in packs of sheets.
type GoodsReceiptItem struct {
	ID            string  `json:"id"`
	Description   string  `json:"description"`
	Height        float64 `json:"hs1"`
	Width         float64 `json:"hs2"`
	Unit          string  `json:"unit"`
	Packs         int     `json:"packs"`
	SheetsPerPack int     `json:"sheetsPerPack"`
	Quantity      int     `json:"quantity"`
	Area          float64 `json:"area"`
	UnitPrice     float64 `json:"unitPrice"`
	Total         float64 `json:"total"`
}

// CalculateGoodsReceiptItem derives quantity, area and total. There are no processing costs on receipts.
func CalculateGoodsReceiptItem(item GoodsReceiptItem) GoodsReceiptItem {
	out := item
	out.Quantity = out.Packs * out.SheetsPerPack
	area := Area(out.Height, out.Width, out.Quantity)

	out.Area = roundTo(area, measurePlaces)
	out.Total = roundTo(area*out.UnitPrice, currencyPlaces)
	return out
}

// ProcessingTicketItem is one row of a work order sent to a fabrication subcontractor.
type ProcessingTicketItem struct {
	ID              string       `json:"id"`
	Description     string       `json:"description"`
	Height          float64      `json:"height"`
	Width           float64      `json:"width"`
	Quantity        int          `json:"quantity"`
	Area            float64      `json:"area"`
	ProcessingType  string       `json:"processingType"`
	GrindingType    GrindingCode `json:"grindingType,omitempty"`
	GrindingLength  float64      `json:"grindingLength"`
	Notes           string       `json:"notes,omitempty"`
	SourceInvoiceID string       `json:"sourceInvoiceId,omitempty"`
	CustomerName    string       `json:"customerName,omitempty"`
	UnitPrice       float64      `json:"unitPrice"`
	Total           float64      `json:"total"`
}

// CalculateTicketItem derives area, the informational grinding length and total.
// Grinding never contributes to a ticket's total; without a unit price the total is zero.
func CalculateTicketItem(item ProcessingTicketItem) ProcessingTicketItem {
	out := item
	area := Area(out.Height, out.Width, out.Quantity)

	out.Area = roundTo(area, measurePlaces)
	out.GrindingLength = GrindingLength(out.GrindingType, out.Height, out.Width, out.Quantity)
	out.Total = 0
	if out.UnitPrice > 0 {
		out.Total = roundTo(area*out.UnitPrice, currencyPlaces)
	}
	return out
}

// TicketItemFromInvoice copies an invoice row into a processing ticket row.
// The copy is a snapshot: later edits to the invoice do not reach the ticket.
func TicketItemFromInvoice(item InvoiceItem, invoiceID, customerName, processingType string) ProcessingTicketItem {
	return ProcessingTicketItem{
		ID:              item.ID,
		Description:     item.Description,
		Height:          item.Height,
		Width:           item.Width,
		Quantity:        item.Quantity,
		Area:            item.Area,
		ProcessingType:  processingType,
		GrindingType:    item.GrindingType,
		GrindingLength:  item.GrindingLength,
		SourceInvoiceID: invoiceID,
		CustomerName:    customerName,
		UnitPrice:       item.UnitPrice,
		Total:           item.Total,
	}
}
