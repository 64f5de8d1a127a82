// Package debt tracks what customers owe the shop and what the shop owes its agencies.
package debt

import (
	"errors"
	"strings"

	"github.com/Simplici0/glassworks/internal/documents"
)

// PaymentKind separates money received from manual balance corrections.
type PaymentKind string

const (
	KindPayment    PaymentKind = "payment"
	KindAdjustment PaymentKind = "debt_adjustment"
)

// PaymentMethod records how money changed hands.
type PaymentMethod string

const (
	MethodCash       PaymentMethod = "tien_mat"
	MethodTransfer   PaymentMethod = "chuyen_khoan"
	MethodAdjustment PaymentMethod = "dieu_chinh"
)

var (
	ErrCustomerRequired = errors.New("payment customer is required")
	ErrInvalidAmount    = errors.New("payment amount must be positive")
)

// Payment is money received from a customer, or an adjustment of their balance.
type Payment struct {
	ID           string        `json:"id"`
	CustomerID   string        `json:"customerId"`
	CustomerName string        `json:"customerName"`
	Date         string        `json:"date"`
	Amount       float64       `json:"amount"`
	Method       PaymentMethod `json:"method"`
	Note         string        `json:"note,omitempty"`
	Type         PaymentKind   `json:"type"`
}

// DebtEffect is the signed change this payment makes to the customer's debt.
// Adjustments may be negative to forgive debt.
func (p Payment) DebtEffect() float64 {
	if p.Type == KindPayment {
		return -p.Amount
	}
	return p.Amount
}

// Validate requires a customer, and a positive amount for real payments.
func (p Payment) Validate() error {
	if strings.TrimSpace(p.CustomerID) == "" {
		return &documents.ValidationError{Err: ErrCustomerRequired, Details: "payment " + p.ID}
	}
	if p.Type == KindPayment && p.Amount <= 0 {
		return &documents.ValidationError{Err: ErrInvalidAmount, Details: "payment " + p.ID}
	}
	return nil
}

// Change is a signed adjustment to one party's current debt.
type Change struct {
	PartyID string
	Amount  float64
}

// InvoiceDebtChange returns the customer debt adjustments for replacing prev with next.
// prev is nil on create; next is nil on delete. When the customer changes
// both customers are adjusted.
func InvoiceDebtChange(prev, next *documents.Invoice) []Change {
	var c changes
	if prev != nil {
		c.add(prev.CustomerID, -prev.DebtContribution())
	}
	if next != nil {
		c.add(next.CustomerID, next.DebtContribution())
	}
	return c.list()
}

// GoodsReceiptDebtChange returns the agency debt adjustments for replacing prev with next.
func GoodsReceiptDebtChange(prev, next *documents.GoodsReceiptNote) []Change {
	var c changes
	if prev != nil {
		c.add(prev.AgencyID, -prev.DebtContribution())
	}
	if next != nil {
		c.add(next.AgencyID, next.DebtContribution())
	}
	return c.list()
}

// PaymentDebtChange returns the customer debt adjustments for replacing prev with next.
func PaymentDebtChange(prev, next *Payment) []Change {
	var c changes
	if prev != nil {
		c.add(prev.CustomerID, -prev.DebtEffect())
	}
	if next != nil {
		c.add(next.CustomerID, next.DebtEffect())
	}
	return c.list()
}

// changes accumulates per-party deltas, keeping first-seen order and dropping zeros.
type changes struct {
	order []string
	sum   map[string]float64
}

func (c *changes) add(party string, amount float64) {
	if party == "" || amount == 0 {
		return
	}
	if c.sum == nil {
		c.sum = make(map[string]float64)
	}
	if _, ok := c.sum[party]; !ok {
		c.order = append(c.order, party)
	}
	c.sum[party] += amount
}

func (c *changes) list() []Change {
	out := make([]Change, 0, len(c.order))
	for _, party := range c.order {
		if amount := c.sum[party]; amount != 0 {
			out = append(out, Change{PartyID: party, Amount: amount})
		}
	}
	return out
}
