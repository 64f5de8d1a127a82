package debt

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/Simplici0/glassworks/internal/documents"
)

// TransactionType labels a line of a debt summary.
type TransactionType string

const (
	TxInvoice    TransactionType = "invoice"
	TxPayment    TransactionType = "payment"
	TxAdjustment TransactionType = "adjustment"
)

// Transaction is one dated movement in a customer's balance.
// Amount is as recorded; BalanceChange carries the sign.
type Transaction struct {
	Date          string          `json:"date"`
	Type          TransactionType `json:"type"`
	Description   string          `json:"description"`
	Amount        float64         `json:"amount"`
	BalanceChange float64         `json:"balanceChange"`
}

// Summary is a monthly debt reconciliation for one customer.
type Summary struct {
	ID             string        `json:"id"`
	CustomerID     string        `json:"customerId"`
	CustomerName   string        `json:"customerName"`
	StartDate      string        `json:"startDate"`
	EndDate        string        `json:"endDate"`
	OpeningBalance float64       `json:"openingBalance"`
	ClosingBalance float64       `json:"closingBalance"`
	TotalNewDebt   float64       `json:"totalNewDebt"`
	TotalPayments  float64       `json:"totalPayments"`
	Transactions   []Transaction `json:"transactions"`
	GeneratedAt    string        `json:"generatedAt"`
}

const dateLayout = "2006-01-02"

// PeriodID formats the summary id for a month, e.g. 2024-03.
func PeriodID(year int, month time.Month) string {
	return fmt.Sprintf("%d-%02d", year, int(month))
}

// GenerateSummary reconciles a customer's credit invoices and payments for one calendar month.
// Opening balance counts everything dated before the month; documents of other
// customers and cash invoices are ignored.
func GenerateSummary(customer documents.Customer, invoices []documents.Invoice, payments []Payment, year int, month time.Month, now time.Time) Summary {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, -1)
	startStr, endStr := start.Format(dateLayout), end.Format(dateLayout)

	s := Summary{
		ID:           PeriodID(year, month),
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		StartDate:    startStr,
		EndDate:      endStr,
		Transactions: []Transaction{},
		GeneratedAt:  now.UTC().Format(time.RFC3339),
	}

	for _, inv := range invoices {
		if inv.CustomerID != customer.ID || inv.PaymentType != documents.PaymentDebt {
			continue
		}
		day := datePart(inv.Date)
		switch {
		case day < startStr:
			s.OpeningBalance += inv.TotalAmount
		case day <= endStr:
			s.TotalNewDebt += inv.TotalAmount
			s.Transactions = append(s.Transactions, Transaction{
				Date:          inv.Date,
				Type:          TxInvoice,
				Description:   "Hóa đơn #" + inv.ID,
				Amount:        inv.TotalAmount,
				BalanceChange: inv.TotalAmount,
			})
		}
	}

	for _, p := range payments {
		if p.CustomerID != customer.ID {
			continue
		}
		day := datePart(p.Date)
		switch {
		case day < startStr:
			s.OpeningBalance += p.DebtEffect()
		case day <= endStr:
			if p.Type == KindPayment {
				s.TotalPayments += p.Amount
			}
			s.Transactions = append(s.Transactions, paymentTransaction(p))
		}
	}

	slices.SortStableFunc(s.Transactions, func(a, b Transaction) int {
		return cmp.Compare(datePart(a.Date), datePart(b.Date))
	})

	s.ClosingBalance = s.OpeningBalance
	for _, tx := range s.Transactions {
		s.ClosingBalance += tx.BalanceChange
	}
	return s
}

func paymentTransaction(p Payment) Transaction {
	tx := Transaction{
		Date:          p.Date,
		Type:          TxAdjustment,
		Description:   p.Note,
		Amount:        p.Amount,
		BalanceChange: p.DebtEffect(),
	}
	if p.Type == KindPayment {
		tx.Type = TxPayment
	}
	if tx.Description == "" {
		if p.Type == KindPayment {
			tx.Description = fmt.Sprintf("Thanh toán (%s)", p.Method)
		} else {
			tx.Description = "Điều chỉnh"
		}
	}
	return tx
}

// datePart trims a timestamp to its YYYY-MM-DD prefix.
func datePart(s string) string {
	if len(s) > len(dateLayout) {
		return s[:len(dateLayout)]
	}
	return s
}
