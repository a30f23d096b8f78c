package ledger

import (
	"context"

	"sitestock/internal/core/id"
	"sitestock/internal/domain"
)

// Repository defines persistence for ledger rows.
//
// Implementations must support atomic read-then-write: GetForUpdate inside a
// transaction locks the row until commit, and Update applies an optimistic
// version check.
type Repository interface {
	// Create inserts a new ledger row.
	Create(ctx context.Context, pm *ProjectMaterial) error

	// GetByID retrieves a ledger row.
	GetByID(ctx context.Context, id id.ID) (*ProjectMaterial, error)

	// GetForUpdate retrieves a ledger row with a row lock for the duration
	// of the surrounding transaction.
	GetForUpdate(ctx context.Context, id id.ID) (*ProjectMaterial, error)

	// GetByProjectAndMaterial retrieves the ledger row for a pair.
	GetByProjectAndMaterial(ctx context.Context, projectID, materialID id.ID) (*ProjectMaterial, error)

	// Update persists quantities and status with a version check.
	// Returns CONCURRENT_MODIFICATION if the row changed underneath.
	Update(ctx context.Context, pm *ProjectMaterial) error

	// ListByProject returns all ledger rows for a project.
	ListByProject(ctx context.Context, projectID id.ID, filter domain.ListFilter) (domain.ListResult[*ProjectMaterial], error)
}
