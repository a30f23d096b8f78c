package ledger

import (
	"context"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/types"
)

// EnforcementMode selects how overdraw is handled. The enforcement point is
// an explicit configuration choice, not something decided client-side.
type EnforcementMode string

const (
	// EnforcementStrict rejects any usage exceeding remaining stock.
	EnforcementStrict EnforcementMode = "strict"

	// EnforcementAdvisory allows overdraw; callers are expected to surface
	// a warning instead. Remaining may go negative in this mode.
	EnforcementAdvisory EnforcementMode = "advisory"
)

// EnforcementPolicy decides whether a withdrawal may proceed.
type EnforcementPolicy interface {
	// CheckWithdrawal is called with the row locked, before the decrement.
	CheckWithdrawal(ctx context.Context, pm *ProjectMaterial, qty types.Quantity) error

	// Mode reports the configured mode.
	Mode() EnforcementMode
}

// StrictEnforcement rejects usage that exceeds remaining stock.
type StrictEnforcement struct{}

func (StrictEnforcement) CheckWithdrawal(ctx context.Context, pm *ProjectMaterial, qty types.Quantity) error {
	if qty > pm.Remaining() {
		return apperror.NewInsufficientStock(pm.ID.String(), qty.String(), pm.Remaining().String())
	}
	return nil
}

func (StrictEnforcement) Mode() EnforcementMode { return EnforcementStrict }

// AdvisoryEnforcement never blocks a withdrawal. The usage recorder emits a
// warning notification when remaining goes negative.
type AdvisoryEnforcement struct{}

func (AdvisoryEnforcement) CheckWithdrawal(ctx context.Context, pm *ProjectMaterial, qty types.Quantity) error {
	return nil
}

func (AdvisoryEnforcement) Mode() EnforcementMode { return EnforcementAdvisory }

// PolicyForMode maps a configured mode to its policy. Unknown modes fall
// back to strict.
func PolicyForMode(mode EnforcementMode) EnforcementPolicy {
	if mode == EnforcementAdvisory {
		return AdvisoryEnforcement{}
	}
	return StrictEnforcement{}
}
