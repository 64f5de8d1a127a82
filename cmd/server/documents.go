package main

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/glassworks/internal/debt"
	"github.com/Simplici0/glassworks/internal/documents"
	"github.com/Simplici0/glassworks/internal/store"
)

func (s *server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	invoices, err := s.store.ListInvoices(r.Context(), store.InvoiceFilter{
		CustomerID: q.Get("customerId"),
		From:       q.Get("from"),
		To:         q.Get("to"),
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, invoices)
}

func (s *server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	getHandler(s, s.store.GetInvoice)(w, r)
}

// handleSaveInvoice reprices every row against the current grinding table before saving.
func (s *server) handleSaveInvoice(w http.ResponseWriter, r *http.Request) {
	save := func(ctx context.Context, inv documents.Invoice) (documents.Invoice, error) {
		table, err := s.store.GrindingTable(ctx)
		if err != nil {
			return documents.Invoice{}, err
		}
		return s.store.SaveInvoice(ctx, inv.Recalculate(table), s.now())
	}
	saveHandler(s, func(inv *documents.Invoice, id string) { inv.ID = id }, save)(w, r)
}

func (s *server) handleNextInvoiceID(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.NextInvoiceID(r.Context(), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

type paymentStatusRequest struct {
	PaymentStatus documents.PaymentStatus `json:"paymentStatus"`
}

// handleInvoicePaymentStatus changes the payment status of a stored invoice.
func (s *server) handleInvoicePaymentStatus(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[paymentStatusRequest](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	inv, err := s.store.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	saved, err := s.store.SaveInvoice(r.Context(), inv.WithPaymentStatus(req.PaymentStatus), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleListGoodsReceipts(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.store.ListGoodsReceipts)(w, r)
}

func (s *server) handleGetGoodsReceipt(w http.ResponseWriter, r *http.Request) {
	getHandler(s, s.store.GetGoodsReceipt)(w, r)
}

func (s *server) handleSaveGoodsReceipt(w http.ResponseWriter, r *http.Request) {
	save := func(ctx context.Context, n documents.GoodsReceiptNote) (documents.GoodsReceiptNote, error) {
		return s.store.SaveGoodsReceipt(ctx, n.Recalculate(), s.now())
	}
	saveHandler(s, func(n *documents.GoodsReceiptNote, id string) { n.ID = id }, save)(w, r)
}

func (s *server) handleNextGoodsReceiptID(w http.ResponseWriter, r *http.Request) {
	id, err := s.store.NextGoodsReceiptID(r.Context(), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

func (s *server) handleListProcessingTickets(w http.ResponseWriter, r *http.Request) {
	listHandler(s, s.store.ListProcessingTickets)(w, r)
}

func (s *server) handleGetProcessingTicket(w http.ResponseWriter, r *http.Request) {
	getHandler(s, s.store.GetProcessingTicket)(w, r)
}

func (s *server) handleSaveProcessingTicket(w http.ResponseWriter, r *http.Request) {
	saveHandler(s, func(t *documents.ProcessingTicket, id string) { t.ID = id }, withNow(s, s.store.SaveProcessingTicket))(w, r)
}

type ticketTransferRequest struct {
	InvoiceID string   `json:"invoiceId"`
	ItemIDs   []string `json:"itemIds"`
}

// handleTicketTransfer copies invoice rows onto a stored ticket and saves it.
func (s *server) handleTicketTransfer(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[ticketTransferRequest](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ticket, err := s.store.GetProcessingTicket(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	inv, err := s.store.GetInvoice(r.Context(), req.InvoiceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	saved, err := s.store.SaveProcessingTicket(r.Context(), ticket.TransferItems(inv, req.ItemIDs), s.now())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

func (s *server) handleListPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := s.store.ListPayments(r.Context(), r.URL.Query().Get("customerId"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}

func (s *server) handleSavePayment(w http.ResponseWriter, r *http.Request) {
	saveHandler(s, func(p *debt.Payment, id string) { p.ID = id }, withNow(s, s.store.SavePayment))(w, r)
}
