package memory

import (
	"context"
	"sort"
	"sync"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain"
	"sitestock/internal/domain/ledger"
)

// LedgerRepository is an in-memory ledger.Repository.
type LedgerRepository struct {
	mu   sync.RWMutex
	rows map[id.ID]*ledger.ProjectMaterial
}

// NewLedgerRepository creates an empty in-memory ledger repository.
func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{rows: make(map[id.ID]*ledger.ProjectMaterial)}
}

func copyPM(pm *ledger.ProjectMaterial) *ledger.ProjectMaterial {
	c := *pm
	return &c
}

// Create inserts a new ledger row.
func (r *LedgerRepository) Create(ctx context.Context, pm *ledger.ProjectMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[pm.ID]; ok {
		return apperror.NewConflict("project material already exists").
			WithDetail("id", pm.ID)
	}
	for _, existing := range r.rows {
		if existing.ProjectID == pm.ProjectID && existing.MaterialID == pm.MaterialID {
			return apperror.NewConflict("material already attached to project").
				WithDetail("project_material_id", existing.ID)
		}
	}
	r.rows[pm.ID] = copyPM(pm)
	return nil
}

// GetByID retrieves a ledger row.
func (r *LedgerRepository) GetByID(ctx context.Context, pmID id.ID) (*ledger.ProjectMaterial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	pm, ok := r.rows[pmID]
	if !ok {
		return nil, apperror.NewNotFound("project material", pmID)
	}
	return copyPM(pm), nil
}

// GetForUpdate behaves like GetByID. Row locking is unnecessary here: the
// ledger service serializes same-key writers with its keyed mutex.
func (r *LedgerRepository) GetForUpdate(ctx context.Context, pmID id.ID) (*ledger.ProjectMaterial, error) {
	return r.GetByID(ctx, pmID)
}

// GetByProjectAndMaterial retrieves the ledger row for a pair.
func (r *LedgerRepository) GetByProjectAndMaterial(ctx context.Context, projectID, materialID id.ID) (*ledger.ProjectMaterial, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, pm := range r.rows {
		if pm.ProjectID == projectID && pm.MaterialID == materialID {
			return copyPM(pm), nil
		}
	}
	return nil, apperror.NewNotFound("project material", projectID)
}

// Update persists quantities and status with an optimistic version check.
func (r *LedgerRepository) Update(ctx context.Context, pm *ledger.ProjectMaterial) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[pm.ID]
	if !ok {
		return apperror.NewNotFound("project material", pm.ID)
	}
	if stored.Version != pm.Version-1 {
		return apperror.NewConcurrentModification("project material", pm.ID)
	}
	r.rows[pm.ID] = copyPM(pm)
	return nil
}

// ListByProject returns all ledger rows for a project, ordered by creation.
func (r *LedgerRepository) ListByProject(ctx context.Context, projectID id.ID, filter domain.ListFilter) (domain.ListResult[*ledger.ProjectMaterial], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*ledger.ProjectMaterial
	for _, pm := range r.rows {
		if pm.ProjectID == projectID {
			items = append(items, copyPM(pm))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})

	total := int64(len(items))
	items = paginate(items, filter.Offset, filter.Limit)
	return domain.ListResult[*ledger.ProjectMaterial]{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
