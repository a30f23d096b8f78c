package request

import (
	"context"

	"sitestock/internal/core/id"
	"sitestock/internal/domain"
)

// ListFilter narrows a request listing.
type ListFilter struct {
	ProjectID *id.ID
	Status    *Status
	domain.ListFilter
}

// Repository defines persistence for material requests.
type Repository interface {
	// Create stores a new request.
	Create(ctx context.Context, req *MaterialRequest) error

	// GetByID retrieves a request.
	GetByID(ctx context.Context, id id.ID) (*MaterialRequest, error)

	// GetForUpdate retrieves a request with a row lock.
	GetForUpdate(ctx context.Context, id id.ID) (*MaterialRequest, error)

	// UpdateStatus transitions a Pending request to a terminal state.
	// The write is a compare-and-set on status: if the stored row is no
	// longer Pending the update affects nothing and ALREADY_PROCESSED is
	// returned.
	UpdateStatus(ctx context.Context, req *MaterialRequest) error

	// List returns requests matching the filter, newest first.
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*MaterialRequest], error)
}
