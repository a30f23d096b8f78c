package memory

import (
	"context"
	"sort"
	"sync"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain"
	"sitestock/internal/domain/request"
)

// RequestRepository is an in-memory request.Repository.
type RequestRepository struct {
	mu   sync.RWMutex
	rows map[id.ID]*request.MaterialRequest
}

// NewRequestRepository creates an empty in-memory request repository.
func NewRequestRepository() *RequestRepository {
	return &RequestRepository{rows: make(map[id.ID]*request.MaterialRequest)}
}

func copyRequest(req *request.MaterialRequest) *request.MaterialRequest {
	c := *req
	if req.ResolvedAt != nil {
		t := *req.ResolvedAt
		c.ResolvedAt = &t
	}
	return &c
}

// Create stores a new request.
func (r *RequestRepository) Create(ctx context.Context, req *request.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.rows[req.ID]; ok {
		return apperror.NewConflict("request already exists").WithDetail("id", req.ID)
	}
	r.rows[req.ID] = copyRequest(req)
	return nil
}

// GetByID retrieves a request.
func (r *RequestRepository) GetByID(ctx context.Context, reqID id.ID) (*request.MaterialRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.rows[reqID]
	if !ok {
		return nil, apperror.NewNotFound("material request", reqID)
	}
	return copyRequest(req), nil
}

// GetForUpdate behaves like GetByID; exactly-once resolution is carried by
// the compare-and-set in UpdateStatus.
func (r *RequestRepository) GetForUpdate(ctx context.Context, reqID id.ID) (*request.MaterialRequest, error) {
	return r.GetByID(ctx, reqID)
}

// UpdateStatus transitions a Pending request to a terminal state.
func (r *RequestRepository) UpdateStatus(ctx context.Context, req *request.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rows[req.ID]
	if !ok {
		return apperror.NewNotFound("material request", req.ID)
	}
	if stored.Status != request.StatusPending {
		return apperror.NewAlreadyProcessed(req.ID.String(), string(stored.Status))
	}
	r.rows[req.ID] = copyRequest(req)
	return nil
}

// List returns requests matching the filter, newest first.
func (r *RequestRepository) List(ctx context.Context, filter request.ListFilter) (domain.ListResult[*request.MaterialRequest], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*request.MaterialRequest
	for _, req := range r.rows {
		if filter.ProjectID != nil && req.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		items = append(items, copyRequest(req))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	total := int64(len(items))
	items = paginate(items, filter.Offset, filter.Limit)
	return domain.ListResult[*request.MaterialRequest]{
		Items:      items,
		TotalCount: total,
		Limit:      filter.Limit,
		Offset:     filter.Offset,
	}, nil
}
