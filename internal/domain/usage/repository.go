package usage

import (
	"context"
	"time"

	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
	"sitestock/internal/domain"
)

// HistoryFilter narrows a usage history listing.
type HistoryFilter struct {
	From          *time.Time
	To            *time.Time
	IncludeVoided bool
	Limit         int
	Offset        int
}

// Repository defines persistence for usage logs. The log is append-only:
// the only mutation ever issued is MarkVoided.
type Repository interface {
	// Create appends a usage log entry.
	Create(ctx context.Context, log *UsageLog) error

	// GetByID retrieves a usage log entry.
	GetByID(ctx context.Context, id id.ID) (*UsageLog, error)

	// MarkVoided flips the voided flag with the given reason.
	// Returns ALREADY_PROCESSED if the entry is voided already.
	MarkVoided(ctx context.Context, id id.ID, reason string) error

	// ListByProjectMaterial returns log entries for a ledger row ordered by
	// creation time, newest first. TotalCount counts all matching entries,
	// not just the returned page.
	ListByProjectMaterial(ctx context.Context, pmID id.ID, filter HistoryFilter) (domain.ListResult[*UsageLog], error)

	// SumQuantity returns the sum of non-voided quantities for a ledger row.
	// Equals the ledger's used figure at all times.
	SumQuantity(ctx context.Context, pmID id.ID) (types.Quantity, error)
}
