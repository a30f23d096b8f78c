package dto

import (
	"time"

	"sitestock/internal/core/types"
	"sitestock/internal/domain/usage"
)

// SubmitUsageRequest records consumption against a ledger row.
type SubmitUsageRequest struct {
	ProjectMaterialID string         `json:"projectMaterialId" binding:"required,uuid"`
	Quantity          types.Quantity `json:"quantity" binding:"required"`
	Remarks           string         `json:"remarks"`
}

// VoidUsageRequest reverses a usage log entry.
type VoidUsageRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// UsageHistoryQuery filters the usage history listing.
type UsageHistoryQuery struct {
	From          *time.Time `form:"from" time_format:"2006-01-02"`
	To            *time.Time `form:"to" time_format:"2006-01-02"`
	IncludeVoided bool       `form:"includeVoided"`
	Limit         int        `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset        int        `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts query parameters to the domain filter.
func (q UsageHistoryQuery) ToFilter() usage.HistoryFilter {
	return usage.HistoryFilter{
		From:          q.From,
		To:            q.To,
		IncludeVoided: q.IncludeVoided,
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
}

// UsageLogResponse is one usage log entry.
type UsageLogResponse struct {
	ID                string         `json:"id"`
	ProjectMaterialID string         `json:"projectMaterialId"`
	EngineerID        string         `json:"engineerId"`
	Date              time.Time      `json:"date"`
	Quantity          types.Quantity `json:"quantity"`
	Remarks           string         `json:"remarks,omitempty"`
	Voided            bool           `json:"voided"`
	VoidReason        string         `json:"voidReason,omitempty"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// FromUsageLog maps a usage log to its response shape.
func FromUsageLog(log *usage.UsageLog) UsageLogResponse {
	return UsageLogResponse{
		ID:                log.ID.String(),
		ProjectMaterialID: log.ProjectMaterialID.String(),
		EngineerID:        log.EngineerID,
		Date:              log.Date,
		Quantity:          log.Quantity,
		Remarks:           log.Remarks,
		Voided:            log.Voided,
		VoidReason:        log.VoidReason,
		CreatedAt:         log.CreatedAt,
	}
}

// SubmitUsageResponse returns the created log plus the new remaining figure.
type SubmitUsageResponse struct {
	Log       UsageLogResponse `json:"log"`
	Remaining types.Quantity   `json:"remaining"`
}
