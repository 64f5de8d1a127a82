package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Simplici0/glassworks/internal/documents"
)

// ErrNameRequired rejects parties and products saved without a name.
var ErrNameRequired = errors.New("name is required")

func requireName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &documents.ValidationError{Err: ErrNameRequired}
	}
	return nil
}

// ListCustomers returns all customers ordered by code.
func (s *Store) ListCustomers(ctx context.Context) ([]documents.Customer, error) {
	customers, err := queryBodies(ctx, s.db, decodeJSON[documents.Customer], `
		SELECT json_set(body, '$.currentDebt', current_debt) FROM customers ORDER BY code, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query customers: %w", err)
	}
	return customers, nil
}

// GetCustomer returns a customer with its current debt.
func (s *Store) GetCustomer(ctx context.Context, id string) (documents.Customer, error) {
	return getCustomer(ctx, s.db, id)
}

func getCustomer(ctx context.Context, q queryer, id string) (documents.Customer, error) {
	c, err := queryBody(ctx, q, decodeJSON[documents.Customer], `
		SELECT json_set(body, '$.currentDebt', current_debt) FROM customers WHERE id = ?
	`, id)
	if err != nil {
		return documents.Customer{}, fmt.Errorf("get customer %s: %w", id, err)
	}
	return c, nil
}

// SaveCustomer inserts or updates a customer, assigning an id and the next KH code when missing.
func (s *Store) SaveCustomer(ctx context.Context, c documents.Customer) (documents.Customer, error) {
	if err := requireName(c.Name); err != nil {
		return documents.Customer{}, err
	}
	if c.PaymentMode == "" {
		c.PaymentMode = documents.PaymentDebt
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if c.ID == "" {
			c.ID = uuid.NewString()
		}
		if c.Code == "" {
			codes, err := queryStrings(ctx, tx, `SELECT code FROM customers`)
			if err != nil {
				return fmt.Errorf("query customer codes: %w", err)
			}
			c.Code = documents.NextCode(documents.CustomerCodePrefix, documents.CustomerCodeWidth, codes)
		}
		body, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode customer: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO customers (id, code, name, current_debt, body)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				code = excluded.code,
				name = excluded.name,
				current_debt = excluded.current_debt,
				body = excluded.body,
				updated_at = CURRENT_TIMESTAMP
		`, c.ID, c.Code, c.Name, c.CurrentDebt, body); err != nil {
			return fmt.Errorf("upsert customer: %w", err)
		}
		return nil
	})
	if err != nil {
		return documents.Customer{}, err
	}
	return c, nil
}

// DeleteCustomer removes a customer. Their documents are kept.
func (s *Store) DeleteCustomer(ctx context.Context, id string) error {
	if err := deleteByID(ctx, s.db, "customers", id); err != nil {
		return fmt.Errorf("delete customer %s: %w", id, err)
	}
	return nil
}

// NextCustomerCode previews the code a new customer would receive.
func (s *Store) NextCustomerCode(ctx context.Context) (string, error) {
	return s.nextCode(ctx, "customers", documents.CustomerCodePrefix, documents.CustomerCodeWidth)
}

func (s *Store) nextCode(ctx context.Context, table, prefix string, width int) (string, error) {
	codes, err := queryStrings(ctx, s.db, `SELECT code FROM `+table)
	if err != nil {
		return "", fmt.Errorf("query %s codes: %w", table, err)
	}
	return documents.NextCode(prefix, width, codes), nil
}

// ListAgencies returns all agencies ordered by code.
func (s *Store) ListAgencies(ctx context.Context) ([]documents.Agency, error) {
	agencies, err := queryBodies(ctx, s.db, decodeJSON[documents.Agency], `
		SELECT json_set(body, '$.currentDebt', current_debt) FROM agencies ORDER BY code, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query agencies: %w", err)
	}
	return agencies, nil
}

// GetAgency returns an agency with the amount owed to it.
func (s *Store) GetAgency(ctx context.Context, id string) (documents.Agency, error) {
	a, err := queryBody(ctx, s.db, decodeJSON[documents.Agency], `
		SELECT json_set(body, '$.currentDebt', current_debt) FROM agencies WHERE id = ?
	`, id)
	if err != nil {
		return documents.Agency{}, fmt.Errorf("get agency %s: %w", id, err)
	}
	return a, nil
}

// SaveAgency inserts or updates an agency, assigning an id and the next DL code when missing.
func (s *Store) SaveAgency(ctx context.Context, a documents.Agency) (documents.Agency, error) {
	if err := requireName(a.Name); err != nil {
		return documents.Agency{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.Code == "" {
			codes, err := queryStrings(ctx, tx, `SELECT code FROM agencies`)
			if err != nil {
				return fmt.Errorf("query agency codes: %w", err)
			}
			a.Code = documents.NextCode(documents.AgencyCodePrefix, documents.AgencyCodeWidth, codes)
		}
		body, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("encode agency: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO agencies (id, code, name, current_debt, body)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				code = excluded.code,
				name = excluded.name,
				current_debt = excluded.current_debt,
				body = excluded.body,
				updated_at = CURRENT_TIMESTAMP
		`, a.ID, a.Code, a.Name, a.CurrentDebt, body); err != nil {
			return fmt.Errorf("upsert agency: %w", err)
		}
		return nil
	})
	if err != nil {
		return documents.Agency{}, err
	}
	return a, nil
}

// DeleteAgency removes an agency.
func (s *Store) DeleteAgency(ctx context.Context, id string) error {
	if err := deleteByID(ctx, s.db, "agencies", id); err != nil {
		return fmt.Errorf("delete agency %s: %w", id, err)
	}
	return nil
}

// NextAgencyCode previews the code a new agency would receive.
func (s *Store) NextAgencyCode(ctx context.Context) (string, error) {
	return s.nextCode(ctx, "agencies", documents.AgencyCodePrefix, documents.AgencyCodeWidth)
}

// ListProcessingUnits returns all subcontractors ordered by code.
func (s *Store) ListProcessingUnits(ctx context.Context) ([]documents.ProcessingUnit, error) {
	units, err := queryBodies(ctx, s.db, decodeJSON[documents.ProcessingUnit], `
		SELECT body FROM processing_units ORDER BY code, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query processing units: %w", err)
	}
	return units, nil
}

// GetProcessingUnit returns one subcontractor.
func (s *Store) GetProcessingUnit(ctx context.Context, id string) (documents.ProcessingUnit, error) {
	u, err := queryBody(ctx, s.db, decodeJSON[documents.ProcessingUnit], `
		SELECT body FROM processing_units WHERE id = ?
	`, id)
	if err != nil {
		return documents.ProcessingUnit{}, fmt.Errorf("get processing unit %s: %w", id, err)
	}
	return u, nil
}

// SaveProcessingUnit inserts or updates a subcontractor, assigning the next DVGC_ code when missing.
func (s *Store) SaveProcessingUnit(ctx context.Context, u documents.ProcessingUnit) (documents.ProcessingUnit, error) {
	if err := requireName(u.Name); err != nil {
		return documents.ProcessingUnit{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if u.Code == "" {
			codes, err := queryStrings(ctx, tx, `SELECT code FROM processing_units`)
			if err != nil {
				return fmt.Errorf("query processing unit codes: %w", err)
			}
			u.Code = documents.NextCode(documents.ProcessingUnitCodePrefix, documents.ProcessingUnitCodeWidth, codes)
		}
		return upsertBody(ctx, tx, "processing_units", u.ID, u.Code, u.Name, u)
	})
	if err != nil {
		return documents.ProcessingUnit{}, err
	}
	return u, nil
}

// DeleteProcessingUnit removes a subcontractor.
func (s *Store) DeleteProcessingUnit(ctx context.Context, id string) error {
	if err := deleteByID(ctx, s.db, "processing_units", id); err != nil {
		return fmt.Errorf("delete processing unit %s: %w", id, err)
	}
	return nil
}

// NextProcessingUnitCode previews the code a new subcontractor would receive.
func (s *Store) NextProcessingUnitCode(ctx context.Context) (string, error) {
	return s.nextCode(ctx, "processing_units", documents.ProcessingUnitCodePrefix, documents.ProcessingUnitCodeWidth)
}

// ListProducts returns the catalogue ordered by code.
func (s *Store) ListProducts(ctx context.Context) ([]documents.Product, error) {
	products, err := queryBodies(ctx, s.db, decodeJSON[documents.Product], `
		SELECT body FROM products ORDER BY code, name
	`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	return products, nil
}

// SaveProduct inserts or updates a product, assigning the next HH code when missing.
func (s *Store) SaveProduct(ctx context.Context, p documents.Product) (documents.Product, error) {
	if err := requireName(p.Name); err != nil {
		return documents.Product{}, err
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if p.ID == "" {
			p.ID = uuid.NewString()
		}
		if p.Code == "" {
			codes, err := queryStrings(ctx, tx, `SELECT code FROM products`)
			if err != nil {
				return fmt.Errorf("query product codes: %w", err)
			}
			p.Code = documents.NextCode(documents.ProductCodePrefix, documents.ProductCodeWidth, codes)
		}
		return upsertBody(ctx, tx, "products", p.ID, p.Code, p.Name, p)
	})
	if err != nil {
		return documents.Product{}, err
	}
	return p, nil
}

// DeleteProduct removes a product from the catalogue.
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	if err := deleteByID(ctx, s.db, "products", id); err != nil {
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	return nil
}

// NextProductCode previews the code a new product would receive.
func (s *Store) NextProductCode(ctx context.Context) (string, error) {
	return s.nextCode(ctx, "products", documents.ProductCodePrefix, documents.ProductCodeWidth)
}

func upsertBody(ctx context.Context, tx *sql.Tx, table, id, code, name string, v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", table, err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO `+table+` (id, code, name, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			body = excluded.body,
			updated_at = CURRENT_TIMESTAMP
	`, id, code, name, body); err != nil {
		return fmt.Errorf("upsert %s: %w", table, err)
	}
	return nil
}
