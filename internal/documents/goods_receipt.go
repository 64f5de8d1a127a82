package documents

import (
	"strings"

	"github.com/Simplici0/glassworks/internal/pricing"
)

// GoodsReceiptNote records glass received from an agency.
type GoodsReceiptNote struct {
	ID          string                     `json:"id"`
	AgencyID    string                     `json:"agencyId"`
	AgencyName  string                     `json:"agencyName"`
	Date        string                     `json:"date"`
	Items       []pricing.GoodsReceiptItem `json:"items"`
	TotalAmount float64                    `json:"totalAmount"`
	PaymentType PaymentType                `json:"paymentType"`
	Note        string                     `json:"note,omitempty"`
	CreatedBy   string                     `json:"createdBy"`
	DeliveredBy string                     `json:"deliveredBy,omitempty"`
	ReceivedBy  string                     `json:"receivedBy,omitempty"`
}

// Total sums the item totals.
func (n GoodsReceiptNote) Total() float64 {
	var total float64
	for _, item := range n.Items {
		total += item.Total
	}
	return total
}

// TotalQuantity sums the sheets received.
func (n GoodsReceiptNote) TotalQuantity() int {
	var qty int
	for _, item := range n.Items {
		qty += item.Quantity
	}
	return qty
}

// Recalculate re-derives every item.
func (n GoodsReceiptNote) Recalculate() GoodsReceiptNote {
	out := n
	out.Items = make([]pricing.GoodsReceiptItem, len(n.Items))
	for i, item := range n.Items {
		out.Items[i] = pricing.CalculateGoodsReceiptItem(item)
	}
	return out
}

// Finalize stamps TotalAmount for persistence.
func (n GoodsReceiptNote) Finalize() GoodsReceiptNote {
	out := n
	out.TotalAmount = n.Total()
	if out.PaymentType == "" {
		out.PaymentType = PaymentDebt
	}
	return out
}

// Validate requires an agency and at least one described item.
func (n GoodsReceiptNote) Validate() error {
	if n.AgencyID == "" && strings.TrimSpace(n.AgencyName) == "" {
		return invalid(ErrAgencyRequired, "goods receipt %s", n.ID)
	}
	for _, item := range n.Items {
		if strings.TrimSpace(item.Description) != "" {
			return nil
		}
	}
	return invalid(ErrNoItems, "goods receipt %s", n.ID)
}

// DebtContribution is what this note adds to the amount owed to its agency.
func (n GoodsReceiptNote) DebtContribution() float64 {
	if n.AgencyID == "" || strings.HasPrefix(n.AgencyID, TempCustomerPrefix) || n.PaymentType != PaymentDebt {
		return 0
	}
	return n.TotalAmount
}
