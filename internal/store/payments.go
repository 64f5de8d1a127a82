package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/glassworks/internal/debt"
)

// ListPayments returns payments, newest first. An empty customerID lists every customer's.
func (s *Store) ListPayments(ctx context.Context, customerID string) ([]debt.Payment, error) {
	query := `SELECT body FROM payments`
	var args []any
	if customerID != "" {
		query += ` WHERE customer_id = ?`
		args = append(args, customerID)
	}
	query += ` ORDER BY date DESC, created_at DESC`

	payments, err := queryBodies(ctx, s.db, decodeJSON[debt.Payment], query, args...)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	return payments, nil
}

func getPayment(ctx context.Context, q queryer, id string) (debt.Payment, error) {
	return queryBody(ctx, q, decodeJSON[debt.Payment], `SELECT body FROM payments WHERE id = ?`, id)
}

// SavePayment stores a payment or debt adjustment and applies its effect to the customer's debt.
// Editing a payment applies only the difference from the stored version.
func (s *Store) SavePayment(ctx context.Context, p debt.Payment, now time.Time) (debt.Payment, error) {
	if p.Type == "" {
		p.Type = debt.KindPayment
	}
	if err := p.Validate(); err != nil {
		return debt.Payment{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Date == "" {
		p.Date = now.Format("2006-01-02")
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var prev *debt.Payment
		stored, err := getPayment(ctx, tx, p.ID)
		switch {
		case err == nil:
			prev = &stored
		case !errors.Is(err, ErrNotFound):
			return fmt.Errorf("load stored payment: %w", err)
		}

		body, err := encodeBody(p)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO payments (id, customer_id, date, type, amount, body)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				customer_id = excluded.customer_id,
				date = excluded.date,
				type = excluded.type,
				amount = excluded.amount,
				body = excluded.body
		`, p.ID, p.CustomerID, p.Date, p.Type, p.Amount, body); err != nil {
			return fmt.Errorf("upsert payment: %w", err)
		}

		return applyDebt(ctx, tx, "customers", debt.PaymentDebtChange(prev, &p))
	})
	if err != nil {
		return debt.Payment{}, err
	}
	return p, nil
}

// DeletePayment removes a payment and reverses its effect on the customer's debt.
func (s *Store) DeletePayment(ctx context.Context, id string) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		prev, err := getPayment(ctx, tx, id)
		if err != nil {
			return fmt.Errorf("get payment %s: %w", id, err)
		}
		if err := deleteByID(ctx, tx, "payments", id); err != nil {
			return fmt.Errorf("delete payment %s: %w", id, err)
		}
		return applyDebt(ctx, tx, "customers", debt.PaymentDebtChange(&prev, nil))
	})
}

// ListDebtSummaries returns a customer's saved summaries, newest period first.
func (s *Store) ListDebtSummaries(ctx context.Context, customerID string) ([]debt.Summary, error) {
	summaries, err := queryBodies(ctx, s.db, decodeJSON[debt.Summary], `
		SELECT body FROM debt_summaries WHERE customer_id = ? ORDER BY id DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("query debt summaries: %w", err)
	}
	return summaries, nil
}

// GenerateDebtSummary builds and saves the summary of one month for a customer,
// replacing any earlier summary of the same period.
func (s *Store) GenerateDebtSummary(ctx context.Context, customerID string, year int, month time.Month, now time.Time) (debt.Summary, error) {
	var summary debt.Summary
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		customer, err := getCustomer(ctx, tx, customerID)
		if err != nil {
			return err
		}
		invoices, err := queryBodies(ctx, tx, decodeInvoice, `
			SELECT body FROM invoices WHERE customer_id = ?
		`, customerID)
		if err != nil {
			return fmt.Errorf("query customer invoices: %w", err)
		}
		payments, err := queryBodies(ctx, tx, decodeJSON[debt.Payment], `
			SELECT body FROM payments WHERE customer_id = ?
		`, customerID)
		if err != nil {
			return fmt.Errorf("query customer payments: %w", err)
		}

		summary = debt.GenerateSummary(customer, invoices, payments, year, month, now)

		body, err := encodeBody(summary)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO debt_summaries (customer_id, id, body)
			VALUES (?, ?, ?)
			ON CONFLICT(customer_id, id) DO UPDATE SET
				body = excluded.body,
				generated_at = CURRENT_TIMESTAMP
		`, summary.CustomerID, summary.ID, body); err != nil {
			return fmt.Errorf("upsert debt summary: %w", err)
		}
		return nil
	})
	if err != nil {
		return debt.Summary{}, err
	}
	return summary, nil
}

// DeleteDebtSummary removes one saved summary.
func (s *Store) DeleteDebtSummary(ctx context.Context, customerID, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM debt_summaries WHERE customer_id = ? AND id = ?`, customerID, id)
	if err != nil {
		return fmt.Errorf("delete debt summary: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete debt summary: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("delete debt summary %s: %w", id, ErrNotFound)
	}
	return nil
}
