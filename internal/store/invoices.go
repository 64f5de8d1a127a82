package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Simplici0/glassworks/internal/debt"
	"github.com/Simplici0/glassworks/internal/documents"
)

// InvoiceFilter narrows ListInvoices. Zero fields match everything.
type InvoiceFilter struct {
	CustomerID string
	From       string // inclusive YYYY-MM-DD
	To         string // inclusive YYYY-MM-DD
}

// ListInvoices returns invoices, newest first.
func (s *Store) ListInvoices(ctx context.Context, f InvoiceFilter) ([]documents.Invoice, error) {
	query := `SELECT body FROM invoices WHERE 1 = 1`
	var args []any
	if f.CustomerID != "" {
		query += ` AND customer_id = ?`
		args = append(args, f.CustomerID)
	}
	if f.From != "" {
		query += ` AND substr(date, 1, 10) >= ?`
		args = append(args, f.From)
	}
	if f.To != "" {
		query += ` AND substr(date, 1, 10) <= ?`
		args = append(args, f.To)
	}
	query += ` ORDER BY date DESC, id DESC`

	invoices, err := queryBodies(ctx, s.db, decodeInvoice, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	return invoices, nil
}

// GetInvoice returns one invoice.
func (s *Store) GetInvoice(ctx context.Context, id string) (documents.Invoice, error) {
	inv, err := getInvoice(ctx, s.db, id)
	if err != nil {
		return documents.Invoice{}, fmt.Errorf("get invoice %s: %w", id, err)
	}
	return inv, nil
}

func getInvoice(ctx context.Context, q queryer, id string) (documents.Invoice, error) {
	return queryBody(ctx, q, decodeInvoice, `SELECT body FROM invoices WHERE id = ?`, id)
}

// NextInvoiceID previews the id a new invoice created at now would receive.
func (s *Store) NextInvoiceID(ctx context.Context, now time.Time) (string, error) {
	return nextInvoiceID(ctx, s.db, now)
}

func nextInvoiceID(ctx context.Context, q queryer, now time.Time) (string, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices`).Scan(&count); err != nil {
		return "", fmt.Errorf("count invoices: %w", err)
	}
	id := documents.NextInvoiceID(now, count)
	// Deleted invoices can make the count collide with an existing id.
	for {
		var exists bool
		if err := q.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM invoices WHERE id = ?)`, id).Scan(&exists); err != nil {
			return "", fmt.Errorf("check invoice id: %w", err)
		}
		if !exists {
			return id, nil
		}
		count++
		id = documents.NextInvoiceID(now, count)
	}
}

// SaveInvoice validates and stores an invoice, adjusting customer debt in the same transaction.
// A credit invoice for a customer with a debt limit is rejected when it would exceed that limit.
// An empty id is assigned from the clock.
func (s *Store) SaveInvoice(ctx context.Context, inv documents.Invoice, now time.Time) (documents.Invoice, error) {
	inv = inv.Finalize()
	if err := inv.Validate(); err != nil {
		return documents.Invoice{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if inv.ID == "" {
			id, err := nextInvoiceID(ctx, tx, now)
			if err != nil {
				return err
			}
			inv.ID = id
		}

		var prev *documents.Invoice
		stored, err := getInvoice(ctx, tx, inv.ID)
		switch {
		case err == nil:
			prev = &stored
		case !errors.Is(err, ErrNotFound):
			return fmt.Errorf("load stored invoice: %w", err)
		}

		if inv.HasRegisteredCustomer() {
			customer, err := getCustomer(ctx, tx, inv.CustomerID)
			switch {
			case err == nil:
				var previous *documents.Invoice
				if prev != nil && prev.CustomerID == inv.CustomerID {
					previous = prev
				}
				if err := documents.CheckDebtLimit(customer, previous, inv); err != nil {
					return err
				}
			case !errors.Is(err, ErrNotFound):
				return err
			}
		}

		body, err := encodeInvoice(inv)
		if err != nil {
			return fmt.Errorf("encode invoice: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (id, customer_id, date, payment_type, total_amount, remaining_amount, body)
			VALUES (?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				customer_id = excluded.customer_id,
				date = excluded.date,
				payment_type = excluded.payment_type,
				total_amount = excluded.total_amount,
				remaining_amount = excluded.remaining_amount,
				body = excluded.body,
				updated_at = CURRENT_TIMESTAMP
		`, inv.ID, inv.CustomerID, inv.Date, inv.PaymentType, inv.TotalAmount, inv.RemainingAmount, body); err != nil {
			return fmt.Errorf("upsert invoice: %w", err)
		}

		return applyDebt(ctx, tx, "customers", debt.InvoiceDebtChange(prev, &inv))
	})
	if err != nil {
		return documents.Invoice{}, err
	}
	return inv, nil
}

// DeleteInvoice removes an invoice and reverses its debt contribution.
func (s *Store) DeleteInvoice(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		prev, err := getInvoice(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get invoice %s: %w", id, err)
		}
		if err := deleteByID(ctx, tx, "invoices", id); err != nil {
			return fmt.Errorf("delete invoice %s: %w", id, err)
		}
		return applyDebt(ctx, tx, "customers", debt.InvoiceDebtChange(&prev, nil))
	})
}

// ListGoodsReceipts returns goods receipt notes, newest first.
func (s *Store) ListGoodsReceipts(ctx context.Context) ([]documents.GoodsReceiptNote, error) {
	notes, err := queryBodies(ctx, s.db, decodeJSON[documents.GoodsReceiptNote], `
		SELECT body FROM goods_receipts ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query goods receipts: %w", err)
	}
	return notes, nil
}

// GetGoodsReceipt returns one goods receipt note.
func (s *Store) GetGoodsReceipt(ctx context.Context, id string) (documents.GoodsReceiptNote, error) {
	n, err := getGoodsReceipt(ctx, s.db, id)
	if err != nil {
		return documents.GoodsReceiptNote{}, fmt.Errorf("get goods receipt %s: %w", id, err)
	}
	return n, nil
}

func getGoodsReceipt(ctx context.Context, q queryer, id string) (documents.GoodsReceiptNote, error) {
	return queryBody(ctx, q, decodeJSON[documents.GoodsReceiptNote], `SELECT body FROM goods_receipts WHERE id = ?`, id)
}

// NextGoodsReceiptID previews the id a new note created at now would receive.
func (s *Store) NextGoodsReceiptID(ctx context.Context, now time.Time) (string, error) {
	return nextGoodsReceiptID(ctx, s.db, now)
}

func nextGoodsReceiptID(ctx context.Context, q queryer, now time.Time) (string, error) {
	ids, err := queryStrings(ctx, q, `SELECT id FROM goods_receipts`)
	if err != nil {
		return "", fmt.Errorf("query goods receipt ids: %w", err)
	}
	return documents.NextGoodsReceiptID(now, ids), nil
}

// SaveGoodsReceipt validates and stores a note, adjusting what is owed to the agency.
func (s *Store) SaveGoodsReceipt(ctx context.Context, n documents.GoodsReceiptNote, now time.Time) (documents.GoodsReceiptNote, error) {
	n = n.Finalize()
	if err := n.Validate(); err != nil {
		return documents.GoodsReceiptNote{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if n.ID == "" {
			id, err := nextGoodsReceiptID(ctx, tx, now)
			if err != nil {
				return err
			}
			n.ID = id
		}

		var prev *documents.GoodsReceiptNote
		stored, err := getGoodsReceipt(ctx, tx, n.ID)
		switch {
		case err == nil:
			prev = &stored
		case !errors.Is(err, ErrNotFound):
			return fmt.Errorf("load stored goods receipt: %w", err)
		}

		body, err := encodeBody(n)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO goods_receipts (id, agency_id, date, total_amount, body)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				agency_id = excluded.agency_id,
				date = excluded.date,
				total_amount = excluded.total_amount,
				body = excluded.body,
				updated_at = CURRENT_TIMESTAMP
		`, n.ID, n.AgencyID, n.Date, n.TotalAmount, body); err != nil {
			return fmt.Errorf("upsert goods receipt: %w", err)
		}

		return applyDebt(ctx, tx, "agencies", debt.GoodsReceiptDebtChange(prev, &n))
	})
	if err != nil {
		return documents.GoodsReceiptNote{}, err
	}
	return n, nil
}

// DeleteGoodsReceipt removes a note and reverses its agency debt.
func (s *Store) DeleteGoodsReceipt(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		prev, err := getGoodsReceipt(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get goods receipt %s: %w", id, err)
		}
		if err := deleteByID(ctx, tx, "goods_receipts", id); err != nil {
			return fmt.Errorf("delete goods receipt %s: %w", id, err)
		}
		return applyDebt(ctx, tx, "agencies", debt.GoodsReceiptDebtChange(&prev, nil))
	})
}
