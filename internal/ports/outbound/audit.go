package outbound

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lotboard/lotboard-service/internal/domain/lifecycle"
)

// AuditEntry records one observed status/schedule disagreement for upstream
// data-quality visibility.
type AuditEntry struct {
	ID         uuid.UUID
	LotID      string
	Kind       lifecycle.Inconsistency
	RawStatus  string
	StartDate  time.Time
	EndDate    time.Time
	ObservedAt time.Time
}

// AuditSink defines the interface for recording data-quality signals
type AuditSink interface {
	// Record persists one audit entry
	Record(ctx context.Context, entry AuditEntry) error

	// ListRecent retrieves the most recent entries, newest first
	ListRecent(ctx context.Context, limit int) ([]AuditEntry, error)
}
