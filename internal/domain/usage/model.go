// Package usage records material consumption against the ledger.
package usage

import (
	"context"
	"time"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
)

// UsageLog is an append-only consumption event. Logs are never updated or
// deleted; a mistaken entry is voided, which flips the flag and credits the
// ledger back in the same transaction.
type UsageLog struct {
	ID                id.ID          `db:"id" json:"id"`
	ProjectMaterialID id.ID          `db:"project_material_id" json:"projectMaterialId"`
	EngineerID        string         `db:"engineer_id" json:"engineerId"`
	Date              time.Time      `db:"date" json:"date"`
	Quantity          types.Quantity `db:"quantity" json:"quantity"`
	Remarks           string         `db:"remarks" json:"remarks"`
	Voided            bool           `db:"voided" json:"voided"`
	VoidReason        string         `db:"void_reason" json:"voidReason,omitempty"`
	CreatedAt         time.Time      `db:"created_at" json:"createdAt"`
}

// NewUsageLog creates a usage log entry dated now.
func NewUsageLog(pmID id.ID, engineerID string, qty types.Quantity, remarks string) *UsageLog {
	now := time.Now().UTC()
	return &UsageLog{
		ID:                id.New(),
		ProjectMaterialID: pmID,
		EngineerID:        engineerID,
		Date:              now,
		Quantity:          qty,
		Remarks:           remarks,
		CreatedAt:         now,
	}
}

// Validate implements entity.Validatable.
func (l *UsageLog) Validate(ctx context.Context) error {
	if id.IsNil(l.ProjectMaterialID) {
		return apperror.NewValidation("project material is required").
			WithDetail("field", "projectMaterialId")
	}
	if l.EngineerID == "" {
		return apperror.NewValidation("engineer is required").
			WithDetail("field", "engineerId")
	}
	if !l.Quantity.IsPositive() {
		return apperror.NewInvalidQuantity("usage quantity must be positive").
			WithDetail("quantity", l.Quantity.String())
	}
	return nil
}
