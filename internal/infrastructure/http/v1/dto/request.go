package dto

import (
	"time"

	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
	"sitestock/internal/domain"
	"sitestock/internal/domain/request"
)

// SubmitRequestRequest opens a material request for approval.
type SubmitRequestRequest struct {
	ProjectID  string         `json:"projectId" binding:"required,uuid"`
	MaterialID string         `json:"materialId" binding:"required,uuid"`
	Quantity   types.Quantity `json:"quantity" binding:"required"`
	Remarks    string         `json:"remarks"`
}

// RejectRequestRequest resolves a request without crediting the ledger.
type RejectRequestRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// RequestListQuery filters the request listing.
type RequestListQuery struct {
	ProjectID string `form:"projectId" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=Pending Approved Rejected"`
	Limit     int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset    int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts query parameters to the domain filter.
func (q RequestListQuery) ToFilter() (request.ListFilter, error) {
	filter := request.ListFilter{
		ListFilter: domain.ListFilter{Limit: q.Limit, Offset: q.Offset},
	}
	if q.ProjectID != "" {
		projectID, err := id.Parse(q.ProjectID)
		if err != nil {
			return filter, err
		}
		filter.ProjectID = &projectID
	}
	if q.Status != "" {
		status := request.Status(q.Status)
		filter.Status = &status
	}
	return filter, nil
}

// RequestResponse is one material request.
type RequestResponse struct {
	ID           string         `json:"id"`
	Number       string         `json:"number"`
	ProjectID    string         `json:"projectId"`
	MaterialID   string         `json:"materialId"`
	Quantity     types.Quantity `json:"quantity"`
	Remarks      string         `json:"remarks,omitempty"`
	Status       string         `json:"status"`
	RequesterID  string         `json:"requesterId"`
	ResolvedBy   string         `json:"resolvedBy,omitempty"`
	ResolvedAt   *time.Time     `json:"resolvedAt,omitempty"`
	RejectReason string         `json:"rejectReason,omitempty"`
	Version      int64          `json:"version"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// FromMaterialRequest maps a request to its response shape.
func FromMaterialRequest(req *request.MaterialRequest) RequestResponse {
	return RequestResponse{
		ID:           req.ID.String(),
		Number:       req.Number,
		ProjectID:    req.ProjectID.String(),
		MaterialID:   req.MaterialID.String(),
		Quantity:     req.Quantity,
		Remarks:      req.Remarks,
		Status:       string(req.Status),
		RequesterID:  req.RequesterID,
		ResolvedBy:   req.ResolvedBy,
		ResolvedAt:   req.ResolvedAt,
		RejectReason: req.RejectReason,
		Version:      req.Version,
		CreatedAt:    req.CreatedAt,
		UpdatedAt:    req.UpdatedAt,
	}
}
