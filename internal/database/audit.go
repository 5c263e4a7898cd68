package database

import (
	"context"
	"fmt"
)

// RecordSubmission archives one accepted submission. The submit path calls
// this best effort and only logs failures.
func (db *DB) RecordSubmission(ctx context.Context, fid int64, tier string, score int, recorded bool, elapsedMs int64) error {
	query := `
		INSERT INTO submissions (fid, tier, score, recorded, elapsed_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := db.ExecContext(ctx, query, fid, tier, score, recorded, elapsedMs); err != nil {
		return fmt.Errorf("failed to insert submission: %w", err)
	}
	return nil
}
