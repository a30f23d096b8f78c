package dto

import (
	"time"

	"sitestock/internal/core/types"
	"sitestock/internal/domain/ledger"
)

// AttachMaterialRequest creates a ledger row for a project-material pair.
type AttachMaterialRequest struct {
	ProjectID  string         `json:"projectId" binding:"required,uuid"`
	MaterialID string         `json:"materialId" binding:"required,uuid"`
	Assigned   types.Quantity `json:"assigned"`
}

// AdjustAssignedRequest changes the assigned quantity by a signed delta.
type AdjustAssignedRequest struct {
	Delta types.Quantity `json:"delta" binding:"required"`
}

// ProjectMaterialResponse is one ledger row with the derived remaining figure.
type ProjectMaterialResponse struct {
	ID         string         `json:"id"`
	ProjectID  string         `json:"projectId"`
	MaterialID string         `json:"materialId"`
	Assigned   types.Quantity `json:"assigned"`
	Used       types.Quantity `json:"used"`
	Remaining  types.Quantity `json:"remaining"`
	Status     string         `json:"status"`
	Version    int            `json:"version"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// FromProjectMaterial maps a ledger row to its response shape.
func FromProjectMaterial(pm *ledger.ProjectMaterial) ProjectMaterialResponse {
	return ProjectMaterialResponse{
		ID:         pm.ID.String(),
		ProjectID:  pm.ProjectID.String(),
		MaterialID: pm.MaterialID.String(),
		Assigned:   pm.Assigned,
		Used:       pm.Used,
		Remaining:  pm.Remaining(),
		Status:     string(pm.Status),
		Version:    pm.Version,
		CreatedAt:  pm.CreatedAt,
		UpdatedAt:  pm.UpdatedAt,
	}
}

// RemainingResponse answers the remaining-stock query.
type RemainingResponse struct {
	ProjectMaterialID string         `json:"projectMaterialId"`
	Remaining         types.Quantity `json:"remaining"`
}
