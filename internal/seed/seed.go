package seed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Simplici0/glassworks/internal/pricing"
)

// Config contains the values required by startup seed.
type Config struct {
	GrindingTypes []pricing.GrindingType
}

// DefaultConfig seeds the shop's standard grinding price list.
func DefaultConfig() Config {
	return Config{GrindingTypes: pricing.DefaultGrindingTypes()}
}

// Stats contains seed operation counters.
type Stats struct {
	Inserts int
	Updates int
}

// Run executes the startup seed in an idempotent way.
// Existing rows are never overwritten, so operator edits survive restarts.
func Run(ctx context.Context, db *sql.DB, cfg Config) (Stats, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return Stats{}, fmt.Errorf("begin seed transaction: %w", err)
	}

	stats := Stats{}

	for i, gt := range cfg.GrindingTypes {
		if err := ensureGrindingType(ctx, tx, gt, i, &stats); err != nil {
			_ = tx.Rollback()
			return Stats{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return Stats{}, fmt.Errorf("commit seed transaction: %w", err)
	}

	return stats, nil
}

func ensureGrindingType(ctx context.Context, tx *sql.Tx, gt pricing.GrindingType, position int, stats *Stats) error {
	var exists bool
	if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM grinding_types WHERE code = ? LIMIT 1)`, gt.Code).Scan(&exists); err != nil {
		return fmt.Errorf("check grinding type existence: %w", err)
	}
	if exists {
		return nil
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO grinding_types (code, name, price_per_meter, position)
		VALUES (?, ?, ?, ?)
	`, gt.Code, gt.Name, gt.PricePerMeter, position); err != nil {
		return fmt.Errorf("insert grinding type %s: %w", gt.Code, err)
	}
	stats.Inserts++
	return nil
}
