package documents

import (
	"strings"

	"github.com/Simplici0/glassworks/internal/pricing"
)

// InvoiceStatus tracks production and delivery of an invoice.
type InvoiceStatus string

const (
	InvoiceNotDelivered InvoiceStatus = "chua_giao"
	InvoiceCut          InvoiceStatus = "da_cat"
	InvoiceDelivered    InvoiceStatus = "da_giao"
)

// PaymentStatus tracks how much of an invoice has been paid.
type PaymentStatus string

const (
	PaymentUnpaid       PaymentStatus = "chua_thanh_toan"
	PaymentTransferred  PaymentStatus = "da_chuyen_khoan"
	PaymentPaidInCash   PaymentStatus = "da_tra_tien_mat"
	PaymentPartiallyPay PaymentStatus = "thanh_toan_mot_phan"
)

// TempCustomerPrefix marks invoices for walk-in customers that are not in the customer list.
const TempCustomerPrefix = "temp_"

// Invoice is a sales invoice.
type Invoice struct {
	ID              string `json:"id"`
	CustomerID      string `json:"customerId"`
	CustomerName    string `json:"customerName"`
	CustomerAddress string `json:"customerAddress"`
	CustomerPhone   string `json:"customerPhone"`
	Date            string `json:"date"`
	DeliveryDate    string `json:"deliveryDate,omitempty"`

	Items []pricing.InvoiceItem `json:"items"`

	SubTotal        float64 `json:"subTotal"`
	TransportFee    float64 `json:"transportFee"`
	Discount        float64 `json:"discount"`
	Deposit         float64 `json:"deposit"`
	TotalAmount     float64 `json:"totalAmount"`
	RemainingAmount float64 `json:"remainingAmount"`

	PaymentType   PaymentType   `json:"paymentType"`
	Status        InvoiceStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`

	Note          string `json:"note,omitempty"`
	QRCodeContent string `json:"qrCodeContent,omitempty"`
	CreatedBy     string `json:"createdBy"`
	DeliveryBy    string `json:"deliveryBy,omitempty"`
}

// InvoiceTotals is the aggregate view of an invoice, recomputed from its items on every call.
type InvoiceTotals struct {
	SubTotal       float64 `json:"subTotal"`
	GrandTotal     float64 `json:"grandTotal"`
	Remaining      float64 `json:"remaining"`
	Quantity       int     `json:"quantity"`
	Area           float64 `json:"area"`
	GrindingLength float64 `json:"grindingLength"`
	DrillHoles     int     `json:"drillHoles"`
	Cutouts        int     `json:"cutouts"`
}

// Totals sums the items and applies transport fee, discount and deposit.
// A negative Remaining means the customer overpaid.
func (inv Invoice) Totals() InvoiceTotals {
	var t InvoiceTotals
	for _, item := range inv.Items {
		t.SubTotal += item.Total
		t.Quantity += item.Quantity
		t.Area += item.Area
		t.GrindingLength += item.GrindingLength
		t.DrillHoles += item.DrillHoles
		t.Cutouts += item.Cutouts
	}
	t.GrandTotal = t.SubTotal + inv.TransportFee - inv.Discount
	t.Remaining = t.GrandTotal - inv.Deposit
	return t
}

// Recalculate re-derives every item against the grinding table.
func (inv Invoice) Recalculate(grinding pricing.GrindingTable) Invoice {
	out := inv
	out.Items = make([]pricing.InvoiceItem, len(inv.Items))
	for i, item := range inv.Items {
		out.Items[i] = pricing.CalculateInvoiceItem(item, grinding)
	}
	return out
}

// Finalize stamps the aggregate fields that are persisted with the invoice.
func (inv Invoice) Finalize() Invoice {
	out := inv
	t := inv.Totals()
	out.SubTotal = t.SubTotal
	out.TotalAmount = t.GrandTotal
	out.RemainingAmount = t.Remaining
	if out.PaymentType == "" {
		out.PaymentType = PaymentDebt
	}
	if out.Status == "" {
		out.Status = InvoiceNotDelivered
	}
	if out.PaymentStatus == "" {
		out.PaymentStatus = PaymentUnpaid
	}
	return out
}

// WithPaymentStatus sets the payment status. A fully paid status moves the deposit to the grand total.
func (inv Invoice) WithPaymentStatus(status PaymentStatus) Invoice {
	out := inv
	out.PaymentStatus = status
	if status == PaymentTransferred || status == PaymentPaidInCash {
		out.Deposit = inv.Totals().GrandTotal
	}
	return out
}

// Validate checks that the invoice is complete enough to save.
func (inv Invoice) Validate() error {
	if strings.TrimSpace(inv.CustomerName) == "" {
		return invalid(ErrCustomerRequired, "invoice %s", inv.ID)
	}
	if len(inv.Items) == 0 {
		return invalid(ErrNoItems, "invoice %s", inv.ID)
	}
	return nil
}

// HasRegisteredCustomer reports whether the invoice points at a saved customer.
func (inv Invoice) HasRegisteredCustomer() bool {
	return inv.CustomerID != "" && !strings.HasPrefix(inv.CustomerID, TempCustomerPrefix)
}

// DebtContribution is the amount this invoice adds to its customer's debt.
func (inv Invoice) DebtContribution() float64 {
	if !inv.HasRegisteredCustomer() || inv.PaymentType != PaymentDebt {
		return 0
	}
	return inv.RemainingAmount
}

// CheckDebtLimit rejects a credit invoice that would push the customer past a positive debt limit.
// previous is the stored version of the invoice being edited, or nil for a new invoice.
func CheckDebtLimit(customer Customer, previous *Invoice, inv Invoice) error {
	if inv.PaymentType != PaymentDebt || customer.DebtLimit <= 0 {
		return nil
	}

	projected := customer.CurrentDebt + inv.Totals().Remaining
	if previous != nil {
		projected -= previous.DebtContribution()
	}
	if projected > customer.DebtLimit {
		return invalid(ErrDebtLimitExceeded, "projected debt %.0f exceeds limit %.0f", projected, customer.DebtLimit)
	}
	return nil
}
