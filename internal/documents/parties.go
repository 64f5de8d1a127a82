package documents

import "github.com/Simplici0/glassworks/internal/pricing"

// PaymentType tells whether a document is settled in cash or booked as debt.
type PaymentType string

const (
	PaymentCash PaymentType = "tien_mat"
	PaymentDebt PaymentType = "cong_no"
)

// CustomerType classifies customers.
type CustomerType string

const (
	CustomerDealer  CustomerType = "daily"
	CustomerCompany CustomerType = "cong_ty"
	CustomerRetail  CustomerType = "khach_le"
)

// Customer buys glass and may carry debt up to DebtLimit (0 means unlimited).
type Customer struct {
	ID          string       `json:"id"`
	Code        string       `json:"code"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Phone       string       `json:"phone"`
	Email       string       `json:"email,omitempty"`
	Type        CustomerType `json:"type"`
	PaymentMode PaymentType  `json:"paymentMode"`
	CurrentDebt float64      `json:"currentDebt"`
	DebtLimit   float64      `json:"debtLimit"`
	TradeGroup  string       `json:"tradeGroup,omitempty"`
}

// Agency supplies raw glass; goods receipts booked as debt increase what we owe it.
type Agency struct {
	ID          string  `json:"id"`
	Code        string  `json:"code"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Email       string  `json:"email,omitempty"`
	CurrentDebt float64 `json:"currentDebt"`
}

// ProcessingUnit is an external fabrication subcontractor.
type ProcessingUnit struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	Email      string `json:"email,omitempty"`
	TradeGroup string `json:"tradeGroup,omitempty"`
}

// Product is a catalogue entry; its code keys the price lists.
type Product struct {
	ID   string `json:"id"`
	Code string `json:"code"`
	Name string `json:"name"`
	Unit string `json:"unit"`
}

// Code prefixes and zero-padding widths for party and product codes.
const (
	CustomerCodePrefix       = "KH"
	CustomerCodeWidth        = 4
	AgencyCodePrefix         = "DL"
	AgencyCodeWidth          = 3
	ProductCodePrefix        = "HH"
	ProductCodeWidth         = 5
	ProcessingUnitCodePrefix = "DVGC_"
	ProcessingUnitCodeWidth  = 0
)

// FindCustomer matches input against customer names and codes, ignoring case.
func FindCustomer(customers []Customer, input string) (Customer, bool) {
	needle := pricing.Fold(input)
	if needle == "" {
		return Customer{}, false
	}
	for _, c := range customers {
		if pricing.Fold(c.Name) == needle || (c.Code != "" && pricing.Fold(c.Code) == needle) {
			return c, true
		}
	}
	return Customer{}, false
}

// FindProductByName returns the catalogue product whose name equals name exactly.
func FindProductByName(products []Product, name string) (Product, bool) {
	for _, p := range products {
		if p.Name == name {
			return p, true
		}
	}
	return Product{}, false
}
