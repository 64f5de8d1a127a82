package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Simplici0/glassworks/internal/config"
	"github.com/Simplici0/glassworks/internal/db"
	"github.com/Simplici0/glassworks/internal/debt"
	"github.com/Simplici0/glassworks/internal/documents"
	"github.com/Simplici0/glassworks/internal/migrations"
	"github.com/Simplici0/glassworks/internal/pricing"
	"github.com/Simplici0/glassworks/internal/seed"
	"github.com/Simplici0/glassworks/internal/store"
)

var testNow = time.Date(2024, time.March, 15, 9, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T) (*server, http.Handler) {
	t.Helper()

	database, err := db.Open(filepath.Join(t.TempDir(), "server-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	require.NoError(t, migrations.Up(database, zap.NewNop()))
	_, err = seed.Run(context.Background(), database, seed.DefaultConfig())
	require.NoError(t, err)

	srv := &server{
		store: store.New(database),
		cfg: config.Config{
			DefaultDrillPrice:  5000,
			DefaultCutoutPrice: 50000,
			ProductAttributes:  []string{"C.lực", "Bóng", "Vát"},
			ProcessingTypes:    []string{"Cường lực", "Mài"},
		},
		log: zap.NewNop(),
		now: func() time.Time { return testNow },
	}
	return srv, srv.routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestSettings(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/settings", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[settingsResponse](t, rec)
	assert.Equal(t, []string{"C.lực", "Bóng", "Vát"}, got.ProductAttributes)
	assert.InDelta(t, 50000.0, got.RowDefaults.CutoutUnitPrice, 1e-9)
}

func TestCalcInvoiceItemAcceptsLooseInput(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/calc/invoice-item", map[string]any{
		"height":       "1000",
		"width":        2000,
		"quantity":     "2",
		"unitPrice":    100000,
		"grindingType": "4C",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	item := decode[pricing.InvoiceItem](t, rec)
	assert.InDelta(t, 4.0, item.Area, 1e-9)
	assert.InDelta(t, 12.0, item.GrindingLength, 1e-9)
	assert.InDelta(t, 15000.0, item.GrindingUnitPrice, 1e-9)
	assert.InDelta(t, 580000.0, item.Total, 1e-9)
}

func TestCalcRejectsMalformedBody(t *testing.T) {
	_, h := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/calc/invoice-item", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditInvoiceItemLinksProductByName(t *testing.T) {
	srv, h := newTestServer(t)
	_, err := srv.store.SaveProduct(context.Background(), documents.Product{Name: "Kính 8ly"})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/calc/invoice-item/edit", map[string]any{
		"item":  pricing.InvoiceItem{Height: 1000, Width: 1000, Quantity: 1, UnitPrice: 300000},
		"field": "description",
		"value": "Kính 8ly",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	item := decode[pricing.InvoiceItem](t, rec)
	assert.Equal(t, "HH00001", item.ProductCode)
	assert.InDelta(t, 300000.0, item.Total, 1e-9)
}

func TestApplyPriceRule(t *testing.T) {
	srv, h := newTestServer(t)
	require.NoError(t, srv.store.ReplacePriceRules(context.Background(), store.GuestPriceList, []pricing.PriceRule{
		{ProductCode: "HH00001", GlassPrice: 250000},
	}))

	item := pricing.InvoiceItem{ProductCode: "HH00001", Description: "Kính 8ly", Height: 1000, Width: 1000, Quantity: 1}
	rec := do(t, h, http.MethodPost, "/api/calc/invoice-item/price-rule", priceRuleRequest{Item: item})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[priceRuleResponse](t, rec)
	assert.True(t, got.Applied)
	assert.InDelta(t, 250000.0, got.Item.UnitPrice, 1e-9)

	item.ProductCode = "HH09999"
	rec = do(t, h, http.MethodPost, "/api/calc/invoice-item/price-rule", priceRuleRequest{Item: item})
	require.Equal(t, http.StatusOK, rec.Code)
	got = decode[priceRuleResponse](t, rec)
	assert.False(t, got.Applied)
	assert.InDelta(t, 0.0, got.Item.UnitPrice, 1e-9)
}

func TestToggleAttribute(t *testing.T) {
	srv, h := newTestServer(t)
	_, err := srv.store.SaveProduct(context.Background(), documents.Product{Name: "Kính 8ly"})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/calc/toggle-attribute", toggleAttributeRequest{Description: "Kính 8ly (Vát)", Attribute: "Bóng"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Kính 8ly (Bóng) (Vát)", decode[map[string]string](t, rec)["description"])

	rec = do(t, h, http.MethodPost, "/api/calc/toggle-attribute", toggleAttributeRequest{Description: "Gương", Attribute: "Bóng"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestNewInvoiceRowUsesConfiguredDefaults(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/calc/invoice-row", newRowRequest{})
	require.Equal(t, http.StatusOK, rec.Code)
	row := decode[pricing.InvoiceItem](t, rec)
	assert.NotEmpty(t, row.ID)
	assert.InDelta(t, 5000.0, row.DrillUnitPrice, 1e-9)
	assert.InDelta(t, 50000.0, row.CutoutUnitPrice, 1e-9)
}

func TestInvoiceLifecycle(t *testing.T) {
	srv, h := newTestServer(t)
	ctx := context.Background()
	customer, err := srv.store.SaveCustomer(ctx, documents.Customer{Name: "Anh Tuấn"})
	require.NoError(t, err)

	rec := do(t, h, http.MethodGet, "/api/invoices/next-id", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "HD202403150001", decode[map[string]string](t, rec)["id"])

	inv := documents.Invoice{
		CustomerID:   customer.ID,
		CustomerName: customer.Name,
		Date:         "2024-03-15",
		PaymentType:  documents.PaymentDebt,
		Deposit:      100000,
		Items: []pricing.InvoiceItem{
			{ID: "r1", Height: 1000, Width: 1000, Quantity: 1, UnitPrice: 500000},
		},
	}
	rec = do(t, h, http.MethodPost, "/api/invoices", inv)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	saved := decode[documents.Invoice](t, rec)
	assert.Equal(t, "HD202403150001", saved.ID)
	assert.InDelta(t, 500000.0, saved.Items[0].Total, 1e-9)
	assert.InDelta(t, 400000.0, saved.RemainingAmount, 1e-9)

	rec = do(t, h, http.MethodGet, "/api/customers/"+customer.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.InDelta(t, 400000.0, decode[documents.Customer](t, rec).CurrentDebt, 1e-9)

	rec = do(t, h, http.MethodPost, "/api/invoices/"+saved.ID+"/payment-status", paymentStatusRequest{PaymentStatus: documents.PaymentPaidInCash})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	paid := decode[documents.Invoice](t, rec)
	assert.InDelta(t, 0.0, paid.RemainingAmount, 1e-9)

	rec = do(t, h, http.MethodGet, "/api/invoices?customerId="+customer.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]documents.Invoice](t, rec), 1)

	rec = do(t, h, http.MethodDelete, "/api/invoices/"+saved.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/invoices/"+saved.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveInvoiceValidation(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/invoices", documents.Invoice{Date: "2024-03-15"})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.NotEmpty(t, decode[errorResponse](t, rec).Error)
}

func TestCustomerEndpoints(t *testing.T) {
	_, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/customers/next-code", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "KH0001", decode[map[string]string](t, rec)["code"])

	rec = do(t, h, http.MethodPost, "/api/customers", documents.Customer{Name: "Chị Lan"})
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decode[documents.Customer](t, rec)
	assert.Equal(t, "KH0001", created.Code)

	created.Phone = "0901234567"
	rec = do(t, h, http.MethodPut, "/api/customers/"+created.ID, created)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0901234567", decode[documents.Customer](t, rec).Phone)

	rec = do(t, h, http.MethodGet, "/api/customers/lookup?q=kh0001", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created.ID, decode[documents.Customer](t, rec).ID)

	rec = do(t, h, http.MethodGet, "/api/customers/lookup?q=nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/customers", documents.Customer{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPaymentsAndDebtSummary(t *testing.T) {
	srv, h := newTestServer(t)
	customer, err := srv.store.SaveCustomer(context.Background(), documents.Customer{Name: "Anh Tuấn"})
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/payments", debt.Payment{
		CustomerID: customer.ID,
		Date:       "2024-03-10",
		Amount:     200000,
		Method:     debt.MethodCash,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/payments?customerId="+customer.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]debt.Payment](t, rec), 1)

	rec = do(t, h, http.MethodPost, "/api/customers/"+customer.ID+"/debt-summaries", summaryRequest{Year: 2024, Month: 3})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	summary := decode[debt.Summary](t, rec)
	assert.Len(t, summary.Transactions, 1)

	rec = do(t, h, http.MethodPost, "/api/customers/"+customer.ID+"/debt-summaries", summaryRequest{Year: 2024, Month: 13})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodDelete, "/api/customers/"+customer.ID+"/debt-summaries/"+summary.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/customers/"+customer.ID+"/debt-summaries", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]debt.Summary](t, rec))
}

func TestTicketTransfer(t *testing.T) {
	srv, h := newTestServer(t)
	ctx := context.Background()
	inv, err := srv.store.SaveInvoice(ctx, documents.Invoice{
		CustomerName: "Khách lẻ",
		Date:         "2024-03-15",
		PaymentType:  documents.PaymentCash,
		Items: []pricing.InvoiceItem{
			{ID: "r1", Description: "Kính 8ly", Height: 1000, Width: 2000, Quantity: 1},
			{ID: "r2", Description: "Kính 10ly", Height: 500, Width: 500, Quantity: 2},
		},
	}, testNow)
	require.NoError(t, err)

	rec := do(t, h, http.MethodPost, "/api/processing-tickets", documents.ProcessingTicket{
		ProcessingUnitID:   "unit-1",
		ProcessingUnitName: "Xưởng Minh Phát",
		Date:               "2024-03-15",
		Items:              []pricing.ProcessingTicketItem{{ID: "t1", Description: "Kính 5ly", Height: 1000, Width: 1000, Quantity: 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	ticket := decode[documents.ProcessingTicket](t, rec)

	rec = do(t, h, http.MethodPost, "/api/processing-tickets/"+ticket.ID+"/transfer", ticketTransferRequest{
		InvoiceID: inv.ID,
		ItemIDs:   []string{"r2"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[documents.ProcessingTicket](t, rec)
	require.Len(t, got.Items, 2)
	assert.Equal(t, "Kính 10ly", got.Items[1].Description)
	assert.Equal(t, 3, got.TotalQuantity)

	rec = do(t, h, http.MethodPost, "/api/processing-tickets/"+ticket.ID+"/transfer", ticketTransferRequest{InvoiceID: "HD-missing"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
