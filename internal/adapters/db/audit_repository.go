package db

import (
	"context"
	"fmt"

	"github.com/lotboard/lotboard-service/internal/domain/lifecycle"
	"github.com/lotboard/lotboard-service/internal/ports/outbound"
)

// AuditRepository persists lifecycle data-quality signals. Implements
// outbound.AuditSink.
//
// Expected table:
//
//	CREATE TABLE lifecycle_audit (
//	    id          uuid PRIMARY KEY,
//	    lot_id      text NOT NULL,
//	    kind        text NOT NULL,
//	    raw_status  text NOT NULL,
//	    start_date  timestamptz,
//	    end_date    timestamptz,
//	    observed_at timestamptz NOT NULL
//	);
type AuditRepository struct {
	conn *Connection
}

// NewAuditRepository creates a new audit repository
func NewAuditRepository(conn *Connection) *AuditRepository {
	return &AuditRepository{conn: conn}
}

// Record persists one audit entry
func (r *AuditRepository) Record(ctx context.Context, entry outbound.AuditEntry) error {
	query := `
		INSERT INTO lifecycle_audit (id, lot_id, kind, raw_status, start_date, end_date, observed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.conn.GetDB().ExecContext(ctx, query,
		entry.ID,
		entry.LotID,
		string(entry.Kind),
		entry.RawStatus,
		entry.StartDate,
		entry.EndDate,
		entry.ObservedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	return nil
}

// ListRecent retrieves the most recent entries, newest first
func (r *AuditRepository) ListRecent(ctx context.Context, limit int) ([]outbound.AuditEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `
		SELECT id, lot_id, kind, raw_status, start_date, end_date, observed_at
		FROM lifecycle_audit
		ORDER BY observed_at DESC
		LIMIT $1
	`

	rows, err := r.conn.GetDB().QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []outbound.AuditEntry
	for rows.Next() {
		var entry outbound.AuditEntry
		var kind string
		err := rows.Scan(
			&entry.ID,
			&entry.LotID,
			&kind,
			&entry.RawStatus,
			&entry.StartDate,
			&entry.EndDate,
			&entry.ObservedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		entry.Kind = lifecycle.Inconsistency(kind)
		entries = append(entries, entry)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit entries: %w", err)
	}

	return entries, nil
}
