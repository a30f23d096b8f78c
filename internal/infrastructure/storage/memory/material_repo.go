package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain"
	"sitestock/internal/domain/catalogs/material"
)

// MaterialRepository is an in-memory material.Repository.
type MaterialRepository struct {
	mu   sync.RWMutex
	rows map[id.ID]*material.Material
}

// NewMaterialRepository creates an empty in-memory material repository.
func NewMaterialRepository() *MaterialRepository {
	return &MaterialRepository{rows: make(map[id.ID]*material.Material)}
}

func copyMaterial(m *material.Material) *material.Material {
	c := *m
	return &c
}

// Create inserts a new material.
func (r *MaterialRepository) Create(ctx context.Context, m *material.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[m.ID]; ok {
		return apperror.NewConflict("material already exists").WithDetail("id", m.ID)
	}
	for _, existing := range r.rows {
		if existing.Code == m.Code {
			return apperror.NewConflict("material code already used").WithDetail("code", m.Code)
		}
	}
	r.rows[m.ID] = copyMaterial(m)
	return nil
}

// GetByID retrieves a material.
func (r *MaterialRepository) GetByID(ctx context.Context, mID id.ID) (*material.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.rows[mID]
	if !ok {
		return nil, apperror.NewNotFound("material", mID)
	}
	return copyMaterial(m), nil
}

// GetByCode retrieves a material by code.
func (r *MaterialRepository) GetByCode(ctx context.Context, code string) (*material.Material, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.rows {
		if m.Code == code {
			return copyMaterial(m), nil
		}
	}
	return nil, apperror.NewNotFound("material", code)
}

// Update modifies an existing material with an optimistic version check.
func (r *MaterialRepository) Update(ctx context.Context, m *material.Material) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[m.ID]
	if !ok {
		return apperror.NewNotFound("material", m.ID)
	}
	if stored.Version != m.Version-1 {
		return apperror.NewConcurrentModification("material", m.ID)
	}
	r.rows[m.ID] = copyMaterial(m)
	return nil
}

// SetDeletionMark sets or clears the soft-delete mark.
func (r *MaterialRepository) SetDeletionMark(ctx context.Context, mID id.ID, marked bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.rows[mID]
	if !ok {
		return apperror.NewNotFound("material", mID)
	}
	m.DeletionMark = marked
	return nil
}

// List retrieves materials with filtering and pagination.
func (r *MaterialRepository) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*material.Material], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*material.Material
	for _, m := range r.rows {
		if m.DeletionMark && !filter.IncludeDeleted {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(m.Name), needle) &&
				!strings.Contains(strings.ToLower(m.Code), needle) {
				continue
			}
		}
		items = append(items, copyMaterial(m))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})

	total := int64(len(items))
	items = paginate(items, filter.Offset, filter.Limit)
	return domain.ListResult[*material.Material]{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}

// Exists checks whether a material with the given ID exists.
func (r *MaterialRepository) Exists(ctx context.Context, mID id.ID) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.rows[mID]
	return ok, nil
}
