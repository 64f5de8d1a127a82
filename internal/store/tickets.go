package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Simplici0/glassworks/internal/documents"
)

// ListProcessingTickets returns work orders, newest first.
func (s *Store) ListProcessingTickets(ctx context.Context) ([]documents.ProcessingTicket, error) {
	tickets, err := queryBodies(ctx, s.db, decodeTicket, `
		SELECT body FROM processing_tickets ORDER BY date DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("query processing tickets: %w", err)
	}
	return tickets, nil
}

// GetProcessingTicket returns one work order.
func (s *Store) GetProcessingTicket(ctx context.Context, id string) (documents.ProcessingTicket, error) {
	t, err := queryBody(ctx, s.db, decodeTicket, `SELECT body FROM processing_tickets WHERE id = ?`, id)
	if err != nil {
		return documents.ProcessingTicket{}, fmt.Errorf("get processing ticket %s: %w", id, err)
	}
	return t, nil
}

// SaveProcessingTicket validates and stores a work order. Tickets never affect debt.
func (s *Store) SaveProcessingTicket(ctx context.Context, t documents.ProcessingTicket, now time.Time) (documents.ProcessingTicket, error) {
	t = t.Finalize()
	if err := t.Validate(); err != nil {
		return documents.ProcessingTicket{}, err
	}
	if t.ID == "" {
		t.ID = documents.NextTicketID(now)
	}

	body, err := encodeTicket(t)
	if err != nil {
		return documents.ProcessingTicket{}, fmt.Errorf("encode processing ticket: %w", err)
	}
	err = s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO processing_tickets (id, processing_unit_id, date, status, body)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				processing_unit_id = excluded.processing_unit_id,
				date = excluded.date,
				status = excluded.status,
				body = excluded.body,
				updated_at = CURRENT_TIMESTAMP
		`, t.ID, t.ProcessingUnitID, t.Date, t.Status, body); err != nil {
			return fmt.Errorf("upsert processing ticket: %w", err)
		}
		return nil
	})
	if err != nil {
		return documents.ProcessingTicket{}, err
	}
	return t, nil
}

// DeleteProcessingTicket removes a work order.
func (s *Store) DeleteProcessingTicket(ctx context.Context, id string) error {
	if err := deleteByID(ctx, s.db, "processing_tickets", id); err != nil {
		return fmt.Errorf("delete processing ticket %s: %w", id, err)
	}
	return nil
}
