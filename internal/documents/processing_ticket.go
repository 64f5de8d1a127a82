package documents

import (
	"github.com/Simplici0/glassworks/internal/pricing"
)

// TicketStatus tracks a work order at the subcontractor.
type TicketStatus string

const (
	TicketNew        TicketStatus = "new"
	TicketInProgress TicketStatus = "in_progress"
	TicketCompleted  TicketStatus = "completed"
)

// DefaultProcessingType is assigned to rows transferred from invoices.
const DefaultProcessingType = "Cường lực"

// ProcessingTicket is a work order sent to a processing unit.
type ProcessingTicket struct {
	ID                 string                         `json:"id"`
	ProcessingUnitID   string                         `json:"processingUnitId"`
	ProcessingUnitName string                         `json:"processingUnitName"`
	Date               string                         `json:"date"`
	Items              []pricing.ProcessingTicketItem `json:"items"`
	TotalArea          float64                        `json:"totalArea"`
	TotalQuantity      int                            `json:"totalQuantity"`
	TotalAmount        float64                        `json:"totalAmount"`
	Note               string                         `json:"note,omitempty"`
	Status             TicketStatus                   `json:"status"`
}

// TicketTotals aggregates a ticket's rows.
type TicketTotals struct {
	Area     float64 `json:"area"`
	Quantity int     `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// Totals sums area, quantity and amount over the rows.
func (t ProcessingTicket) Totals() TicketTotals {
	var out TicketTotals
	for _, item := range t.Items {
		out.Area += item.Area
		out.Quantity += item.Quantity
		out.Amount += item.Total
	}
	return out
}

// Finalize stamps the aggregate fields for persistence.
func (t ProcessingTicket) Finalize() ProcessingTicket {
	out := t
	totals := t.Totals()
	out.TotalArea = totals.Area
	out.TotalQuantity = totals.Quantity
	out.TotalAmount = totals.Amount
	if out.Status == "" {
		out.Status = TicketNew
	}
	return out
}

// Validate requires a processing unit and at least one row.
func (t ProcessingTicket) Validate() error {
	if t.ProcessingUnitID == "" {
		return invalid(ErrProcessingUnitRequired, "ticket %s", t.ID)
	}
	if len(t.Items) == 0 {
		return invalid(ErrNoItems, "ticket %s", t.ID)
	}
	return nil
}

// TransferItems appends snapshot copies of the selected invoice rows.
// An empty selection transfers nothing; unknown ids are ignored.
func (t ProcessingTicket) TransferItems(inv Invoice, itemIDs []string) ProcessingTicket {
	selected := make(map[string]struct{}, len(itemIDs))
	for _, id := range itemIDs {
		selected[id] = struct{}{}
	}

	out := t
	out.Items = append([]pricing.ProcessingTicketItem(nil), t.Items...)
	for _, item := range inv.Items {
		if _, ok := selected[item.ID]; !ok {
			continue
		}
		out.Items = append(out.Items, pricing.TicketItemFromInvoice(item, inv.ID, inv.CustomerName, DefaultProcessingType))
	}
	return out
}
