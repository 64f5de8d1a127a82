package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Simplici0/glassworks/internal/documents"
	"github.com/Simplici0/glassworks/internal/pricing"
	"github.com/Simplici0/glassworks/internal/store"
)

type settingsResponse struct {
	ProductAttributes []string              `json:"productAttributes"`
	ProcessingTypes   []string              `json:"processingTypes"`
	RowDefaults       documents.RowDefaults `json:"rowDefaults"`
}

func (s *server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, settingsResponse{
		ProductAttributes: s.cfg.ProductAttributes,
		ProcessingTypes:   s.cfg.ProcessingTypes,
		RowDefaults:       s.cfg.RowDefaults(),
	})
}

// handleCalcInvoiceItem prices a loosely typed grid row.
func (s *server) handleCalcInvoiceItem(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody[map[string]any](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	table, err := s.store.GrindingTable(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.CalculateInvoiceItem(pricing.InvoiceItemFromMap(raw), table))
}

type editItemRequest[T any] struct {
	Item  T      `json:"item"`
	Field string `json:"field"`
	Value any    `json:"value"`
}

func (s *server) handleEditInvoiceItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[editItemRequest[pricing.InvoiceItem]](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	table, err := s.store.GrindingTable(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	item := req.Item
	if req.Field == "description" {
		// Picking a catalogue name links the row to its product code.
		item.Description = pricing.String(req.Value)
		item.ProductCode = ""
		products, err := s.store.ListProducts(r.Context())
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		if p, ok := documents.FindProductByName(products, strings.TrimSpace(item.Description)); ok {
			item.ProductCode = p.Code
		}
		writeJSON(w, http.StatusOK, pricing.CalculateInvoiceItem(item, table))
		return
	}
	writeJSON(w, http.StatusOK, pricing.EditInvoiceItem(item, req.Field, req.Value, table))
}

type priceRuleRequest struct {
	Item       pricing.InvoiceItem `json:"item"`
	CustomerID string              `json:"customerId"`
}

type priceRuleResponse struct {
	Item    pricing.InvoiceItem `json:"item"`
	Applied bool                `json:"applied"`
}

// handleApplyPriceRule copies the applicable listed prices onto a row.
// Rows without a listed price are returned recalculated but otherwise unchanged.
func (s *server) handleApplyPriceRule(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[priceRuleRequest](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	table, err := s.store.GrindingTable(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if req.Item.ProductCode == "" {
		writeJSON(w, http.StatusOK, priceRuleResponse{Item: pricing.CalculateInvoiceItem(req.Item, table)})
		return
	}
	rule, err := s.store.ApplicablePriceRule(r.Context(), req.Item.ProductCode, req.CustomerID)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusOK, priceRuleResponse{Item: pricing.CalculateInvoiceItem(req.Item, table)})
		return
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, priceRuleResponse{Item: pricing.ApplyPriceRule(req.Item, rule, table), Applied: true})
}

type newRowRequest struct {
	Last         *pricing.InvoiceItem `json:"last"`
	KeepSettings bool                 `json:"keepSettings"`
}

func (s *server) handleNewInvoiceRow(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[newRowRequest](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, documents.NewInvoiceRow(req.Last, req.KeepSettings, s.cfg.RowDefaults()))
}

type toggleAttributeRequest struct {
	Description string `json:"description"`
	Attribute   string `json:"attribute"`
}

func (s *server) handleToggleAttribute(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[toggleAttributeRequest](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	products, err := s.store.ListProducts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	desc, err := documents.ToggleAttribute(req.Description, req.Attribute, s.cfg.ProductAttributes, products)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"description": desc})
}

type invoiceTotalsResponse struct {
	Items  []pricing.InvoiceItem   `json:"items"`
	Totals documents.InvoiceTotals `json:"totals"`
}

func (s *server) handleInvoiceTotals(w http.ResponseWriter, r *http.Request) {
	inv, err := decodeBody[documents.Invoice](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	table, err := s.store.GrindingTable(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	inv = inv.Recalculate(table)
	writeJSON(w, http.StatusOK, invoiceTotalsResponse{Items: inv.Items, Totals: inv.Totals()})
}

func (s *server) handleCalcGoodsReceiptItem(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody[map[string]any](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.CalculateGoodsReceiptItem(pricing.GoodsReceiptItemFromMap(raw)))
}

func (s *server) handleEditGoodsReceiptItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[editItemRequest[pricing.GoodsReceiptItem]](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.EditGoodsReceiptItem(req.Item, req.Field, req.Value))
}

func (s *server) handleCalcTicketItem(w http.ResponseWriter, r *http.Request) {
	raw, err := decodeBody[map[string]any](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.CalculateTicketItem(pricing.TicketItemFromMap(raw)))
}

func (s *server) handleEditTicketItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[editItemRequest[pricing.ProcessingTicketItem]](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.EditTicketItem(req.Item, req.Field, req.Value))
}

type transferRequest struct {
	Ticket    documents.ProcessingTicket `json:"ticket"`
	InvoiceID string                     `json:"invoiceId"`
	ItemIDs   []string                   `json:"itemIds"`
}

// handleDraftTicketTransfer appends invoice rows to an unsaved ticket.
func (s *server) handleDraftTicketTransfer(w http.ResponseWriter, r *http.Request) {
	req, err := decodeBody[transferRequest](w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	inv, err := s.store.GetInvoice(r.Context(), req.InvoiceID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, req.Ticket.TransferItems(inv, req.ItemIDs).Finalize())
}
