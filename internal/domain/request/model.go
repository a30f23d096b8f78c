// Package request implements the material request approval workflow.
package request

import (
	"context"
	"time"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
)

// Status is the request lifecycle state. Pending is the only non-terminal
// state; a request is resolved exactly once.
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

// MaterialRequest is a document asking for stock to be assigned to a
// project. Approval credits the ledger; rejection has no ledger effect.
type MaterialRequest struct {
	ID           id.ID          `db:"id" json:"id"`
	Number       string         `db:"number" json:"number"`
	ProjectID    id.ID          `db:"project_id" json:"projectId"`
	MaterialID   id.ID          `db:"material_id" json:"materialId"`
	Quantity     types.Quantity `db:"quantity" json:"quantity"`
	Remarks      string         `db:"remarks" json:"remarks"`
	Status       Status         `db:"status" json:"status"`
	RequesterID  string         `db:"requester_id" json:"requesterId"`
	ResolvedBy   string         `db:"resolved_by" json:"resolvedBy,omitempty"`
	ResolvedAt   *time.Time     `db:"resolved_at" json:"resolvedAt,omitempty"`
	RejectReason string         `db:"reject_reason" json:"rejectReason,omitempty"`
	Version      int64          `db:"version" json:"version"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// NewMaterialRequest creates a pending request.
func NewMaterialRequest(projectID, materialID id.ID, qty types.Quantity, requesterID, remarks string) *MaterialRequest {
	now := time.Now().UTC()
	return &MaterialRequest{
		ID:          id.New(),
		ProjectID:   projectID,
		MaterialID:  materialID,
		Quantity:    qty,
		Remarks:     remarks,
		Status:      StatusPending,
		RequesterID: requesterID,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Resolved reports whether the request reached a terminal state.
func (r *MaterialRequest) Resolved() bool {
	return r.Status != StatusPending
}

// Validate implements entity.Validatable.
func (r *MaterialRequest) Validate(ctx context.Context) error {
	if id.IsNil(r.ProjectID) {
		return apperror.NewValidation("project is required").
			WithDetail("field", "projectId")
	}
	if id.IsNil(r.MaterialID) {
		return apperror.NewValidation("material is required").
			WithDetail("field", "materialId")
	}
	if !r.Quantity.IsPositive() {
		return apperror.NewInvalidQuantity("requested quantity must be positive").
			WithDetail("quantity", r.Quantity.String())
	}
	if r.RequesterID == "" {
		return apperror.NewValidation("requester is required").
			WithDetail("field", "requesterId")
	}
	return nil
}
