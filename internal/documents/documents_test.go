package documents

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/glassworks/internal/pricing"
)

func TestGoodsReceiptNote(t *testing.T) {
	note := GoodsReceiptNote{
		AgencyID: "a1",
		Items: []pricing.GoodsReceiptItem{
			{Description: "Kính trắng 5ly", Quantity: 20, Total: 1500000},
			{Description: "", Quantity: 0, Total: 0},
			{Description: "Kính xanh 8ly", Quantity: 10, Total: 2500000},
		},
	}

	assert.InDelta(t, 4000000.0, note.Total(), 1e-9)
	assert.Equal(t, 30, note.TotalQuantity())

	final := note.Finalize()
	assert.InDelta(t, 4000000.0, final.TotalAmount, 1e-9)
	assert.Equal(t, PaymentDebt, final.PaymentType)
	assert.InDelta(t, 4000000.0, final.DebtContribution(), 1e-9)
	require.NoError(t, final.Validate())
}

func TestGoodsReceiptNoteValidate(t *testing.T) {
	noAgency := GoodsReceiptNote{Items: []pricing.GoodsReceiptItem{{Description: "x"}}}
	assert.ErrorIs(t, noAgency.Validate(), ErrAgencyRequired)

	byName := GoodsReceiptNote{AgencyName: "Đại lý Hải", Items: []pricing.GoodsReceiptItem{{Description: "x"}}}
	assert.NoError(t, byName.Validate())

	blankRows := GoodsReceiptNote{AgencyID: "a1", Items: []pricing.GoodsReceiptItem{{Description: "  "}}}
	assert.ErrorIs(t, blankRows.Validate(), ErrNoItems)
}

func TestProcessingTicketTotalsAndValidate(t *testing.T) {
	ticket := ProcessingTicket{
		ProcessingUnitID: "u1",
		Items: []pricing.ProcessingTicketItem{
			{Area: 1.5, Quantity: 2, Total: 150000},
			{Area: 0.25, Quantity: 1, Total: 0},
		},
	}

	final := ticket.Finalize()
	assert.InDelta(t, 1.75, final.TotalArea, 1e-9)
	assert.Equal(t, 3, final.TotalQuantity)
	assert.InDelta(t, 150000.0, final.TotalAmount, 1e-9)
	assert.Equal(t, TicketNew, final.Status)
	assert.NoError(t, final.Validate())

	assert.ErrorIs(t, ProcessingTicket{Items: ticket.Items}.Validate(), ErrProcessingUnitRequired)
	assert.ErrorIs(t, ProcessingTicket{ProcessingUnitID: "u1"}.Validate(), ErrNoItems)
}

func TestTransferItems(t *testing.T) {
	inv := Invoice{
		ID:           "HD202401150001",
		CustomerName: "Chị Lan",
		Items: []pricing.InvoiceItem{
			{ID: "r1", Description: "Kính 8ly", Height: 1000, Width: 500, Quantity: 2, Area: 1, UnitPrice: 300000, Total: 300000},
			{ID: "r2", Description: "Kính 10ly", Height: 800, Width: 800, Quantity: 1, Area: 0.64},
		},
	}
	ticket := ProcessingTicket{ProcessingUnitID: "u1"}

	got := ticket.TransferItems(inv, []string{"r1", "missing"})

	require.Len(t, got.Items, 1)
	item := got.Items[0]
	assert.Equal(t, "Kính 8ly", item.Description)
	assert.Equal(t, DefaultProcessingType, item.ProcessingType)
	assert.Equal(t, "HD202401150001", item.SourceInvoiceID)
	assert.Equal(t, "Chị Lan", item.CustomerName)
	assert.Empty(t, ticket.Items, "receiver must not change")

	inv.Items[0].Height = 2000
	assert.InDelta(t, 1000.0, got.Items[0].Height, 1e-9, "transfer is a snapshot")

	assert.Empty(t, ticket.TransferItems(inv, nil).Items)
}

func TestIdentifiers(t *testing.T) {
	now := time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "HD202401150001", NextInvoiceID(now, 0))
	assert.Equal(t, "HD202401150043", NextInvoiceID(now, 42))

	ids := []string{"PN202401-0001", "PN202401-0002", "PN202312-0007"}
	assert.Equal(t, "PN202401-0003", NextGoodsReceiptID(now, ids))
	assert.Equal(t, "PN202401-0001", NextGoodsReceiptID(now, nil))

	ticketID := NextTicketID(time.UnixMilli(1705311000123))
	assert.Equal(t, "GC_000123", ticketID)
}

func TestNextCode(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
		width  int
		codes  []string
		want   string
	}{
		{"first customer", CustomerCodePrefix, CustomerCodeWidth, nil, "KH0001"},
		{"after highest", CustomerCodePrefix, CustomerCodeWidth, []string{"KH0003", "KH0010", "KH0002"}, "KH0011"},
		{"ignores junk", AgencyCodePrefix, AgencyCodeWidth, []string{"DL002", "DLabc", "KH0100", ""}, "DL003"},
		{"product width", ProductCodePrefix, ProductCodeWidth, []string{"HH00009"}, "HH00010"},
		{"no padding", ProcessingUnitCodePrefix, ProcessingUnitCodeWidth, []string{"DVGC_1", "DVGC_12"}, "DVGC_13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NextCode(tt.prefix, tt.width, tt.codes))
		})
	}
}

func TestNewInvoiceRow(t *testing.T) {
	first := NewInvoiceRow(nil, true, DefaultRowDefaults())
	_, err := uuid.Parse(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Quantity)
	assert.Equal(t, pricing.GrindingNone, first.GrindingType)
	assert.InDelta(t, 5000.0, first.DrillUnitPrice, 1e-9)
	assert.InDelta(t, 50000.0, first.CutoutUnitPrice, 1e-9)

	last := pricing.InvoiceItem{
		ID:                "prev",
		ProductCode:       "HH00001",
		Description:       "Kính 8ly (C.lực)",
		UnitPrice:         420000,
		GrindingType:      pricing.GrindingTwoLong,
		GrindingUnitPrice: 18000,
		DrillHoles:        4,
		DrillUnitPrice:    6000,
		Cutouts:           1,
		CutoutUnitPrice:   70000,
		Height:            1200,
	}

	plain := NewInvoiceRow(&last, false, DefaultRowDefaults())
	assert.NotEqual(t, last.ID, plain.ID)
	assert.Equal(t, last.Description, plain.Description)
	assert.Equal(t, last.ProductCode, plain.ProductCode)
	assert.InDelta(t, last.UnitPrice, plain.UnitPrice, 1e-9)
	assert.Equal(t, pricing.GrindingNone, plain.GrindingType)
	assert.Zero(t, plain.DrillHoles)
	assert.Zero(t, plain.Height)

	kept := NewInvoiceRow(&last, true, DefaultRowDefaults())
	assert.Equal(t, pricing.GrindingTwoLong, kept.GrindingType)
	assert.InDelta(t, 18000.0, kept.GrindingUnitPrice, 1e-9)
	assert.Equal(t, 4, kept.DrillHoles)
	assert.InDelta(t, 6000.0, kept.DrillUnitPrice, 1e-9)
	assert.Equal(t, 1, kept.Cutouts)
	assert.InDelta(t, 70000.0, kept.CutoutUnitPrice, 1e-9)
}

func TestToggleAttribute(t *testing.T) {
	attrs := []string{"C.lực", "Bóng", "Vát"}
	products := []Product{{Code: "HH00001", Name: "Kính 8ly"}}

	got, err := ToggleAttribute("Kính 8ly", "Vát", attrs, products)
	require.NoError(t, err)
	assert.Equal(t, "Kính 8ly (Vát)", got)

	got, err = ToggleAttribute(got, "C.lực", attrs, products)
	require.NoError(t, err)
	assert.Equal(t, "Kính 8ly (C.lực) (Vát)", got)
	assert.True(t, HasAttribute(got, "C.lực"))
	assert.False(t, HasAttribute("Kính(C.lực)", "C.lực"))

	got, err = ToggleAttribute(got, "Vát", attrs, products)
	require.NoError(t, err)
	assert.Equal(t, "Kính 8ly (C.lực)", got)

	_, err = ToggleAttribute("Kính lạ (Bóng)", "Vát", attrs, products)
	assert.ErrorIs(t, err, ErrBaseProductRequired)

	_, err = ToggleAttribute("", "Vát", attrs, products)
	assert.ErrorIs(t, err, ErrBaseProductRequired)
}

func TestFindCustomer(t *testing.T) {
	customers := []Customer{
		{ID: "1", Code: "KH0001", Name: "Anh Tuấn"},
		{ID: "2", Code: "KH0002", Name: "CÔNG TY ĐẠI PHÁT"},
	}

	c, ok := FindCustomer(customers, "  anh tuấn ")
	require.True(t, ok)
	assert.Equal(t, "1", c.ID)

	c, ok = FindCustomer(customers, "công ty đại phát")
	require.True(t, ok)
	assert.Equal(t, "2", c.ID)

	c, ok = FindCustomer(customers, "kh0002")
	require.True(t, ok)
	assert.Equal(t, "2", c.ID)

	_, ok = FindCustomer(customers, "")
	assert.False(t, ok)
	_, ok = FindCustomer(customers, "Chị Lan")
	assert.False(t, ok)
}
