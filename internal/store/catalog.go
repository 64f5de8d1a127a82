package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Simplici0/glassworks/internal/pricing"
)

// GuestPriceList is the price list used when a customer has no listed price for a product.
const GuestPriceList = "default_guest"

// ListGrindingTypes returns the configured grinding types in display order.
func (s *Store) ListGrindingTypes(ctx context.Context) ([]pricing.GrindingType, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, name, price_per_meter
		FROM grinding_types
		ORDER BY position, code
	`)
	if err != nil {
		return nil, fmt.Errorf("query grinding types: %w", err)
	}
	defer rows.Close()

	types := make([]pricing.GrindingType, 0)
	for rows.Next() {
		var gt pricing.GrindingType
		if err := rows.Scan(&gt.Code, &gt.Name, &gt.PricePerMeter); err != nil {
			return nil, fmt.Errorf("scan grinding type: %w", err)
		}
		types = append(types, gt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grinding types: %w", err)
	}
	return types, nil
}

// GrindingTable returns the grinding types keyed by code.
func (s *Store) GrindingTable(ctx context.Context) (pricing.GrindingTable, error) {
	types, err := s.ListGrindingTypes(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.NewGrindingTable(types), nil
}

// ReplaceGrindingTypes swaps the whole grinding table.
func (s *Store) ReplaceGrindingTypes(ctx context.Context, types []pricing.GrindingType) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM grinding_types`); err != nil {
			return fmt.Errorf("clear grinding types: %w", err)
		}
		for i, gt := range types {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO grinding_types (code, name, price_per_meter, position)
				VALUES (?, ?, ?, ?)
			`, pricing.ParseGrindingCode(string(gt.Code)), gt.Name, gt.PricePerMeter, i); err != nil {
				return fmt.Errorf("insert grinding type %s: %w", gt.Code, err)
			}
		}
		return nil
	})
}

// ListPriceRules returns the rules of one price list, keyed by customer id or GuestPriceList.
func (s *Store) ListPriceRules(ctx context.Context, listKey string) ([]pricing.PriceRule, error) {
	rules, err := queryBodies(ctx, s.db, decodeJSON[pricing.PriceRule], `
		SELECT body FROM price_rules WHERE list_key = ? ORDER BY product_code
	`, listKey)
	if err != nil {
		return nil, fmt.Errorf("query price rules: %w", err)
	}
	return rules, nil
}

// ReplacePriceRules swaps a whole price list. Rules without a product code are skipped.
func (s *Store) ReplacePriceRules(ctx context.Context, listKey string, rules []pricing.PriceRule) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM price_rules WHERE list_key = ?`, listKey); err != nil {
			return fmt.Errorf("clear price list: %w", err)
		}
		for _, rule := range rules {
			if rule.ProductCode == "" {
				continue
			}
			body, err := json.Marshal(rule)
			if err != nil {
				return fmt.Errorf("encode price rule: %w", err)
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO price_rules (list_key, product_code, body)
				VALUES (?, ?, ?)
				ON CONFLICT(list_key, product_code) DO UPDATE SET body = excluded.body
			`, listKey, rule.ProductCode, body); err != nil {
				return fmt.Errorf("insert price rule %s: %w", rule.ProductCode, err)
			}
		}
		return nil
	})
}

// ApplicablePriceRule finds the rule for productCode in the customer's list, then in the guest list.
func (s *Store) ApplicablePriceRule(ctx context.Context, productCode, customerID string) (pricing.PriceRule, error) {
	keys := []string{GuestPriceList}
	if customerID != "" && customerID != GuestPriceList {
		keys = []string{customerID, GuestPriceList}
	}

	for _, key := range keys {
		rule, err := queryBody(ctx, s.db, decodeJSON[pricing.PriceRule], `
			SELECT body FROM price_rules WHERE list_key = ? AND product_code = ?
		`, key, productCode)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return pricing.PriceRule{}, fmt.Errorf("query price rule: %w", err)
		}
		return rule, nil
	}
	return pricing.PriceRule{}, ErrNotFound
}
