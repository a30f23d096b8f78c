package material

import (
	"context"

	"sitestock/internal/core/id"
	"sitestock/internal/domain"
)

// Repository defines the interface for Material persistence.
type Repository interface {
	// Create inserts a new material
	Create(ctx context.Context, m *Material) error

	// GetByID retrieves material by ID
	GetByID(ctx context.Context, id id.ID) (*Material, error)

	// GetByCode retrieves material by code
	GetByCode(ctx context.Context, code string) (*Material, error)

	// Update modifies an existing material (with optimistic locking)
	Update(ctx context.Context, m *Material) error

	// SetDeletionMark sets or clears the soft-delete mark.
	// Materials are never hard-deleted; ledger rows reference them.
	SetDeletionMark(ctx context.Context, id id.ID, marked bool) error

	// List retrieves materials with filtering and pagination
	List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Material], error)

	// Exists checks if material with given ID exists
	Exists(ctx context.Context, id id.ID) (bool, error)
}
