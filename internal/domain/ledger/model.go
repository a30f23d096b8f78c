// Package ledger owns assigned/used/remaining quantities for a
// (project, material) pair. It is the single source of truth for stock
// state; nothing else mutates these rows.
package ledger

import (
	"context"
	"time"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
)

// Status of a ledger row. Rows are never hard-deleted while usage logs
// reference them; retiring flips the status instead.
type Status string

const (
	StatusActive  Status = "active"
	StatusRetired Status = "retired"
)

// ProjectMaterial is a ledger row: how much of a material a project has been
// assigned and how much it has consumed.
//
// Invariant: 0 <= Used <= Assigned (strict enforcement mode). Remaining is
// always derived, never stored.
type ProjectMaterial struct {
	ID         id.ID  `db:"id" json:"id"`
	ProjectID  id.ID  `db:"project_id" json:"projectId"`
	MaterialID id.ID  `db:"material_id" json:"materialId"`

	Assigned types.Quantity `db:"assigned" json:"assigned"`
	Used     types.Quantity `db:"used" json:"used"`

	Status Status `db:"status" json:"status"`

	// Version for optimistic locking
	Version int `db:"version" json:"version"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// NewProjectMaterial creates an active ledger row for a project-material pair.
func NewProjectMaterial(projectID, materialID id.ID, assigned types.Quantity) *ProjectMaterial {
	now := time.Now().UTC()
	return &ProjectMaterial{
		ID:         id.New(),
		ProjectID:  projectID,
		MaterialID: materialID,
		Assigned:   assigned,
		Used:       0,
		Status:     StatusActive,
		Version:    1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Remaining returns assigned minus used. Negative values can only occur
// under advisory enforcement.
func (pm *ProjectMaterial) Remaining() types.Quantity {
	return pm.Assigned - pm.Used
}

// Touch bumps version and updated-at before persisting.
func (pm *ProjectMaterial) Touch() {
	pm.Version++
	pm.UpdatedAt = time.Now().UTC()
}

// Validate implements entity.Validatable.
func (pm *ProjectMaterial) Validate(ctx context.Context) error {
	if id.IsNil(pm.ProjectID) {
		return apperror.NewValidation("project is required").
			WithDetail("field", "projectId")
	}
	if id.IsNil(pm.MaterialID) {
		return apperror.NewValidation("material is required").
			WithDetail("field", "materialId")
	}
	if pm.Assigned.IsNegative() {
		return apperror.NewValidation("assigned quantity must not be negative").
			WithDetail("field", "assigned")
	}
	return nil
}
