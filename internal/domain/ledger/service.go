package ledger

import (
	"context"
	"fmt"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/core/keylock"
	"sitestock/internal/core/tx"
	"sitestock/internal/core/types"
	"sitestock/internal/domain"
	"sitestock/pkg/logger"
)

// Service provides ledger operations.
//
// Every check-then-write runs under a per-key lock plus a transaction with
// the row locked, so concurrent operations on the same pair are serialized
// while different pairs proceed in parallel.
type Service struct {
	repo      Repository
	txManager tx.Manager
	policy    EnforcementPolicy
	locks     *keylock.Map
}

// NewService creates a new ledger service.
func NewService(repo Repository, txManager tx.Manager, policy EnforcementPolicy) *Service {
	if policy == nil {
		policy = StrictEnforcement{}
	}
	return &Service{
		repo:      repo,
		txManager: txManager,
		policy:    policy,
		locks:     keylock.New(),
	}
}

// Policy returns the configured enforcement policy.
func (s *Service) Policy() EnforcementPolicy {
	return s.policy
}

// Attach creates the ledger row for a project-material pair with an initial
// assigned quantity. Fails with CONFLICT if the pair already exists. The
// check and the insert are serialized on the pair key so two concurrent
// attaches of the same pair resolve to one row and one CONFLICT.
func (s *Service) Attach(ctx context.Context, projectID, materialID id.ID, assigned types.Quantity) (*ProjectMaterial, error) {
	pm := NewProjectMaterial(projectID, materialID, assigned)
	if err := pm.Validate(ctx); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(pairKey(projectID, materialID))
	defer unlock()

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		existing, err := s.repo.GetByProjectAndMaterial(ctx, projectID, materialID)
		if err == nil && existing != nil {
			return apperror.NewConflict("material already attached to project").
				WithDetail("project_material_id", existing.ID)
		}
		if err != nil && !apperror.IsNotFound(err) {
			return err
		}
		return s.repo.Create(ctx, pm)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "material attached to project",
		"project_material_id", pm.ID,
		"project_id", projectID,
		"material_id", materialID,
		"assigned", pm.Assigned,
	)
	return pm, nil
}

func pairKey(projectID, materialID id.ID) string {
	return projectID.String() + ":" + materialID.String()
}

// AdjustAssigned increases or decreases the assigned quantity.
// Fails with INVALID_ADJUSTMENT if the result would drop below used.
func (s *Service) AdjustAssigned(ctx context.Context, pmID id.ID, delta types.Quantity) (*ProjectMaterial, error) {
	unlock := s.locks.Lock(pmID.String())
	defer unlock()

	var result *ProjectMaterial
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		pm, err := s.repo.GetForUpdate(ctx, pmID)
		if err != nil {
			return err
		}

		newAssigned := pm.Assigned + delta
		if newAssigned < pm.Used {
			return apperror.NewInvalidAdjustment("assigned cannot drop below used").
				WithDetail("assigned", pm.Assigned.String()).
				WithDetail("used", pm.Used.String()).
				WithDetail("delta", delta.String())
		}
		if newAssigned.IsNegative() {
			return apperror.NewInvalidAdjustment("assigned cannot be negative").
				WithDetail("delta", delta.String())
		}

		pm.Assigned = newAssigned
		pm.Touch()
		if err := s.repo.Update(ctx, pm); err != nil {
			return fmt.Errorf("update ledger row: %w", err)
		}
		result = pm
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "assigned quantity adjusted",
		"project_material_id", pmID,
		"delta", delta,
		"assigned", result.Assigned,
	)
	return result, nil
}

// RecordUsage decrements remaining stock by qty.
//
// The remaining check and the decrement of used are one atomic unit: the row
// is locked for the duration, and a failed check leaves used and assigned
// untouched. Returns the new remaining (negative only under advisory
// enforcement).
func (s *Service) RecordUsage(ctx context.Context, pmID id.ID, qty types.Quantity) (types.Quantity, error) {
	if !qty.IsPositive() {
		return 0, apperror.NewInvalidQuantity("usage quantity must be positive").
			WithDetail("quantity", qty.String())
	}

	unlock := s.locks.Lock(pmID.String())
	defer unlock()

	var remaining types.Quantity
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		pm, err := s.repo.GetForUpdate(ctx, pmID)
		if err != nil {
			return err
		}

		if pm.Status != StatusActive {
			return apperror.NewConflict("project material is retired").
				WithDetail("project_material_id", pmID)
		}

		if err := s.policy.CheckWithdrawal(ctx, pm, qty); err != nil {
			return err
		}

		pm.Used += qty
		pm.Touch()
		if err := s.repo.Update(ctx, pm); err != nil {
			return fmt.Errorf("update ledger row: %w", err)
		}
		remaining = pm.Remaining()
		return nil
	})
	if err != nil {
		return 0, err
	}

	return remaining, nil
}

// RestoreUsage credits used back after a usage log is voided. It is the
// reciprocal of RecordUsage and keeps the sum-of-logs invariant intact.
func (s *Service) RestoreUsage(ctx context.Context, pmID id.ID, qty types.Quantity) error {
	if !qty.IsPositive() {
		return apperror.NewInvalidQuantity("restore quantity must be positive").
			WithDetail("quantity", qty.String())
	}

	unlock := s.locks.Lock(pmID.String())
	defer unlock()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		pm, err := s.repo.GetForUpdate(ctx, pmID)
		if err != nil {
			return err
		}

		if pm.Used < qty {
			return apperror.NewInvalidAdjustment("restore exceeds recorded usage").
				WithDetail("used", pm.Used.String()).
				WithDetail("quantity", qty.String())
		}

		pm.Used -= qty
		pm.Touch()
		return s.repo.Update(ctx, pm)
	})
}

// Remaining returns assigned minus used for an existing row.
func (s *Service) Remaining(ctx context.Context, pmID id.ID) (types.Quantity, error) {
	pm, err := s.repo.GetByID(ctx, pmID)
	if err != nil {
		return 0, err
	}
	return pm.Remaining(), nil
}

// GetByID retrieves a ledger row.
func (s *Service) GetByID(ctx context.Context, pmID id.ID) (*ProjectMaterial, error) {
	return s.repo.GetByID(ctx, pmID)
}

// GetByProjectAndMaterial retrieves the ledger row for a pair.
func (s *Service) GetByProjectAndMaterial(ctx context.Context, projectID, materialID id.ID) (*ProjectMaterial, error) {
	return s.repo.GetByProjectAndMaterial(ctx, projectID, materialID)
}

// ListByProject returns the project's stock position.
func (s *Service) ListByProject(ctx context.Context, projectID id.ID, filter domain.ListFilter) (domain.ListResult[*ProjectMaterial], error) {
	return s.repo.ListByProject(ctx, projectID, filter)
}

// Retire marks a ledger row inactive. Usage logs keep referencing it.
func (s *Service) Retire(ctx context.Context, pmID id.ID) error {
	unlock := s.locks.Lock(pmID.String())
	defer unlock()

	return s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		pm, err := s.repo.GetForUpdate(ctx, pmID)
		if err != nil {
			return err
		}
		if pm.Status == StatusRetired {
			return nil
		}
		pm.Status = StatusRetired
		pm.Touch()
		return s.repo.Update(ctx, pm)
	})
}
