package store

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/Simplici0/glassworks/internal/documents"
	"github.com/Simplici0/glassworks/internal/pricing"
)

// Invoice and ticket rows keep the field names of the shop's existing data.

type invoiceItemRecord struct {
	ID          string  `json:"id"`
	MaHang      string  `json:"maHang"`
	TenHang     string  `json:"tenHang"`
	HS1         float64 `json:"hs1"`
	HS2         float64 `json:"hs2"`
	SoTam       int     `json:"soTam"`
	M2          float64 `json:"m2"`
	DonGia      float64 `json:"donGia"`
	ThanhTien   float64 `json:"thanhTien"`
	KieuMai     string  `json:"kieuMai"`
	MetMai      float64 `json:"metMai"`
	DonGiaMai   float64 `json:"donGiaMai"`
	TienMai     float64 `json:"tienMai"`
	SoLo        int     `json:"soLo"`
	DonGiaKhoan float64 `json:"donGiaKhoan"`
	TienKhoan   float64 `json:"tienKhoan"`
	SoKhoet     int     `json:"soKhoet"`
	DonGiaKhoet float64 `json:"donGiaKhoet"`
	TienKhoet   float64 `json:"tienKhoet"`
}

func invoiceItemToRecord(item pricing.InvoiceItem) invoiceItemRecord {
	return invoiceItemRecord{
		ID:          item.ID,
		MaHang:      item.ProductCode,
		TenHang:     item.Description,
		HS1:         item.Height,
		HS2:         item.Width,
		SoTam:       item.Quantity,
		M2:          item.Area,
		DonGia:      item.UnitPrice,
		ThanhTien:   item.Total,
		KieuMai:     string(item.GrindingType),
		MetMai:      item.GrindingLength,
		DonGiaMai:   item.GrindingUnitPrice,
		TienMai:     item.GrindingPrice,
		SoLo:        item.DrillHoles,
		DonGiaKhoan: item.DrillUnitPrice,
		TienKhoan:   item.DrillPrice,
		SoKhoet:     item.Cutouts,
		DonGiaKhoet: item.CutoutUnitPrice,
		TienKhoet:   item.CutoutPrice,
	}
}

// invoiceItemFromRecord decodes a stored row leniently. English keys are
// accepted as a fallback and unreadable numbers become 0.
func invoiceItemFromRecord(m map[string]any) pricing.InvoiceItem {
	item := pricing.InvoiceItem{
		ID:                pricing.Text(pick(m, "id")),
		ProductCode:       pricing.Text(pick(m, "maHang", "productCode")),
		Description:       pricing.String(pick(m, "tenHang", "description")),
		Height:            pricing.Number(pick(m, "hs1", "height")),
		Width:             pricing.Number(pick(m, "hs2", "width")),
		Quantity:          pricing.Count(pick(m, "soTam", "quantity")),
		Area:              pricing.Number(pick(m, "m2", "area")),
		UnitPrice:         pricing.Number(pick(m, "donGia", "unitPrice")),
		Total:             pricing.Number(pick(m, "thanhTien", "total")),
		GrindingType:      pricing.ParseGrindingCode(pricing.Text(pick(m, "kieuMai", "grindingType"))),
		GrindingLength:    pricing.Number(pick(m, "metMai", "grindingLength")),
		GrindingUnitPrice: pricing.Number(pick(m, "donGiaMai", "grindingUnitPrice")),
		GrindingPrice:     pricing.Number(pick(m, "tienMai", "grindingPrice")),
		DrillHoles:        pricing.Count(pick(m, "soLo", "drillHoles")),
		DrillUnitPrice:    pricing.Number(pick(m, "donGiaKhoan", "drillUnitPrice")),
		DrillPrice:        pricing.Number(pick(m, "tienKhoan", "drillPrice")),
		Cutouts:           pricing.Count(pick(m, "soKhoet", "cutouts")),
		CutoutUnitPrice:   pricing.Number(pick(m, "donGiaKhoet", "cutoutUnitPrice")),
		CutoutPrice:       pricing.Number(pick(m, "tienKhoet", "cutoutPrice")),
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return item
}

type ticketItemRecord struct {
	ID          string  `json:"id"`
	TenHang     string  `json:"tenHang"`
	HS1         float64 `json:"hs1"`
	HS2         float64 `json:"hs2"`
	SoTam       int     `json:"soTam"`
	M2          float64 `json:"m2"`
	LoaiGiaCong string  `json:"loaiGiaCong"`
	KieuMai     string  `json:"kieuMai"`
	MetMai      float64 `json:"metMai"`
	GhiChuItem  string  `json:"ghiChuItem"`
	MaHDGoc     string  `json:"maHDGoc"`
	TenKH       string  `json:"tenKH"`
	DonGia      float64 `json:"donGia"`
	ThanhTien   float64 `json:"thanhTien"`
}

func ticketItemToRecord(item pricing.ProcessingTicketItem) ticketItemRecord {
	return ticketItemRecord{
		ID:          item.ID,
		TenHang:     item.Description,
		HS1:         item.Height,
		HS2:         item.Width,
		SoTam:       item.Quantity,
		M2:          item.Area,
		LoaiGiaCong: item.ProcessingType,
		KieuMai:     string(item.GrindingType),
		MetMai:      item.GrindingLength,
		GhiChuItem:  item.Notes,
		MaHDGoc:     item.SourceInvoiceID,
		TenKH:       item.CustomerName,
		DonGia:      item.UnitPrice,
		ThanhTien:   item.Total,
	}
}

func ticketItemFromRecord(m map[string]any) pricing.ProcessingTicketItem {
	item := pricing.ProcessingTicketItem{
		ID:              pricing.Text(pick(m, "id")),
		Description:     pricing.String(pick(m, "tenHang", "description")),
		Height:          pricing.Number(pick(m, "hs1", "height")),
		Width:           pricing.Number(pick(m, "hs2", "width")),
		Quantity:        pricing.Count(pick(m, "soTam", "quantity")),
		Area:            pricing.Number(pick(m, "m2", "area")),
		ProcessingType:  pricing.String(pick(m, "loaiGiaCong", "processingType")),
		GrindingType:    pricing.GrindingCode(pricing.Text(pick(m, "kieuMai", "grindingType"))),
		GrindingLength:  pricing.Number(pick(m, "metMai", "grindingLength")),
		Notes:           pricing.String(pick(m, "ghiChuItem", "notes")),
		SourceInvoiceID: pricing.Text(pick(m, "maHDGoc", "sourceInvoiceId")),
		CustomerName:    pricing.String(pick(m, "tenKH", "customerName")),
		UnitPrice:       pricing.Number(pick(m, "donGia", "unitPrice")),
		Total:           pricing.Number(pick(m, "thanhTien", "total")),
	}
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	return item
}

// pick returns the value of the first key present with a non-nil value.
func pick(m map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

// The item slices shadow the embedded document's Items when encoding.

type invoiceBody struct {
	documents.Invoice
	Items []invoiceItemRecord `json:"items"`
}

type invoiceBodyIn struct {
	documents.Invoice
	Items []map[string]any `json:"items"`
}

func encodeInvoice(inv documents.Invoice) ([]byte, error) {
	body := invoiceBody{Invoice: inv, Items: make([]invoiceItemRecord, len(inv.Items))}
	for i, item := range inv.Items {
		body.Items[i] = invoiceItemToRecord(item)
	}
	return json.Marshal(body)
}

func decodeInvoice(raw []byte) (documents.Invoice, error) {
	var in invoiceBodyIn
	if err := json.Unmarshal(raw, &in); err != nil {
		return documents.Invoice{}, fmt.Errorf("decode invoice: %w", err)
	}
	inv := in.Invoice
	inv.Items = make([]pricing.InvoiceItem, 0, len(in.Items))
	for _, m := range in.Items {
		if m == nil {
			continue
		}
		inv.Items = append(inv.Items, invoiceItemFromRecord(m))
	}
	return inv, nil
}

type ticketBody struct {
	documents.ProcessingTicket
	Items []ticketItemRecord `json:"items"`
}

type ticketBodyIn struct {
	documents.ProcessingTicket
	Items []map[string]any `json:"items"`
}

func encodeTicket(t documents.ProcessingTicket) ([]byte, error) {
	body := ticketBody{ProcessingTicket: t, Items: make([]ticketItemRecord, len(t.Items))}
	for i, item := range t.Items {
		body.Items[i] = ticketItemToRecord(item)
	}
	return json.Marshal(body)
}

func decodeTicket(raw []byte) (documents.ProcessingTicket, error) {
	var in ticketBodyIn
	if err := json.Unmarshal(raw, &in); err != nil {
		return documents.ProcessingTicket{}, fmt.Errorf("decode processing ticket: %w", err)
	}
	t := in.ProcessingTicket
	t.Items = make([]pricing.ProcessingTicketItem, 0, len(in.Items))
	for _, m := range in.Items {
		if m == nil {
			continue
		}
		t.Items = append(t.Items, ticketItemFromRecord(m))
	}
	return t, nil
}
