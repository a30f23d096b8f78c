package memory

import (
	"context"
	"sort"
	"sync"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
	"sitestock/internal/domain"
	"sitestock/internal/domain/usage"
)

// UsageRepository is an in-memory usage.Repository.
type UsageRepository struct {
	mu   sync.RWMutex
	logs map[id.ID]*usage.UsageLog
}

// NewUsageRepository creates an empty in-memory usage log repository.
func NewUsageRepository() *UsageRepository {
	return &UsageRepository{logs: make(map[id.ID]*usage.UsageLog)}
}

func copyLog(l *usage.UsageLog) *usage.UsageLog {
	c := *l
	return &c
}

// Create appends a usage log entry.
func (r *UsageRepository) Create(ctx context.Context, log *usage.UsageLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.logs[log.ID]; ok {
		return apperror.NewConflict("usage log already exists").WithDetail("id", log.ID)
	}
	r.logs[log.ID] = copyLog(log)
	return nil
}

// GetByID retrieves a usage log entry.
func (r *UsageRepository) GetByID(ctx context.Context, logID id.ID) (*usage.UsageLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	log, ok := r.logs[logID]
	if !ok {
		return nil, apperror.NewNotFound("usage log", logID)
	}
	return copyLog(log), nil
}

// MarkVoided flips the voided flag.
func (r *UsageRepository) MarkVoided(ctx context.Context, logID id.ID, reason string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	log, ok := r.logs[logID]
	if !ok {
		return apperror.NewNotFound("usage log", logID)
	}
	if log.Voided {
		return apperror.NewAlreadyProcessed(logID.String(), "voided")
	}
	log.Voided = true
	log.VoidReason = reason
	return nil
}

// ListByProjectMaterial returns log entries newest first.
func (r *UsageRepository) ListByProjectMaterial(ctx context.Context, pmID id.ID, filter usage.HistoryFilter) (domain.ListResult[*usage.UsageLog], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*usage.UsageLog
	for _, log := range r.logs {
		if log.ProjectMaterialID != pmID {
			continue
		}
		if log.Voided && !filter.IncludeVoided {
			continue
		}
		if filter.From != nil && log.Date.Before(*filter.From) {
			continue
		}
		if filter.To != nil && log.Date.After(*filter.To) {
			continue
		}
		items = append(items, copyLog(log))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return domain.ListResult[*usage.UsageLog]{
		Items:      paginate(items, filter.Offset, filter.Limit),
		TotalCount: int64(len(items)),
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// SumQuantity sums non-voided quantities for a ledger row.
func (r *UsageRepository) SumQuantity(ctx context.Context, pmID id.ID) (types.Quantity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var sum types.Quantity
	for _, log := range r.logs {
		if log.ProjectMaterialID == pmID && !log.Voided {
			sum += log.Quantity
		}
	}
	return sum, nil
}
