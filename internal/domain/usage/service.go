package usage

import (
	"context"
	"fmt"

	"sitestock/internal/core/apperror"
	appcontext "sitestock/internal/core/context"
	"sitestock/internal/core/id"
	"sitestock/internal/core/tx"
	"sitestock/internal/core/types"
	"sitestock/internal/domain"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/domain/notification"
	"sitestock/pkg/logger"
)

// SubmitResult is returned from a successful submission.
type SubmitResult struct {
	Log       *UsageLog      `json:"log"`
	Remaining types.Quantity `json:"remaining"`
}

// Service records usage against the ledger. The decrement and the log append
// are one transaction: either both land or neither does.
type Service struct {
	repo       Repository
	ledger     *ledger.Service
	txManager  tx.Manager
	dispatcher *notification.Dispatcher
	lowStock   *LowStockRule
}

// NewService creates a usage recording service. lowStock may be nil to
// disable low-stock warnings.
func NewService(
	repo Repository,
	ledgerSvc *ledger.Service,
	txManager tx.Manager,
	dispatcher *notification.Dispatcher,
	lowStock *LowStockRule,
) *Service {
	return &Service{
		repo:       repo,
		ledger:     ledgerSvc,
		txManager:  txManager,
		dispatcher: dispatcher,
		lowStock:   lowStock,
	}
}

// Submit records qty used against a ledger row and appends the usage log in
// the same transaction. The engineer id comes from the identity context.
//
// Under strict enforcement an overdraw aborts with INSUFFICIENT_STOCK and no
// state changes. Under advisory enforcement the submission lands and a
// WARNING notification is emitted instead.
func (s *Service) Submit(ctx context.Context, pmID id.ID, qty types.Quantity, remarks string) (*SubmitResult, error) {
	engineerID := appcontext.GetUserID(ctx)
	if engineerID == "" {
		return nil, apperror.NewUnauthorized("engineer identity is required")
	}

	log := NewUsageLog(pmID, engineerID, qty, remarks)
	if err := log.Validate(ctx); err != nil {
		return nil, err
	}

	var remaining types.Quantity
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		remaining, err = s.ledger.RecordUsage(ctx, pmID, qty)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, log); err != nil {
			return fmt.Errorf("append usage log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "usage recorded",
		"usage_log_id", log.ID,
		"project_material_id", pmID,
		"quantity", qty,
		"remaining", remaining,
	)

	s.emitAlerts(ctx, pmID, engineerID, remaining)

	return &SubmitResult{Log: log, Remaining: remaining}, nil
}

// Void marks a usage log voided and credits the quantity back to the ledger
// in the same transaction, so the sum of live log quantities keeps matching
// the ledger's used figure.
func (s *Service) Void(ctx context.Context, logID id.ID, reason string) error {
	if reason == "" {
		return apperror.NewValidation("void reason is required").
			WithDetail("field", "reason")
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		log, err := s.repo.GetByID(ctx, logID)
		if err != nil {
			return err
		}
		if log.Voided {
			return apperror.NewAlreadyProcessed(logID.String(), "voided")
		}
		if err := s.repo.MarkVoided(ctx, logID, reason); err != nil {
			return err
		}
		return s.ledger.RestoreUsage(ctx, log.ProjectMaterialID, log.Quantity)
	})
	if err != nil {
		return err
	}

	logger.Info(ctx, "usage log voided", "usage_log_id", logID, "reason", reason)
	return nil
}

// History returns the usage log for a ledger row, newest first.
func (s *Service) History(ctx context.Context, pmID id.ID, filter HistoryFilter) (domain.ListResult[*UsageLog], error) {
	if filter.Limit <= 0 {
		filter.Limit = 100
	}
	return s.repo.ListByProjectMaterial(ctx, pmID, filter)
}

// emitAlerts raises post-commit notifications. Alerting is best-effort: a
// failed emit is logged, never propagated to the submitter.
func (s *Service) emitAlerts(ctx context.Context, pmID id.ID, engineerID string, remaining types.Quantity) {
	if s.dispatcher == nil {
		return
	}

	if remaining.IsNegative() {
		msg := fmt.Sprintf("stock overdrawn: remaining %s for project material %s", remaining, pmID)
		if err := s.dispatcher.Emit(ctx, engineerID, notification.TypeWarning, msg); err != nil {
			logger.Warn(ctx, "emit overdraw warning failed", "error", err)
		}
		return
	}

	if s.lowStock == nil {
		return
	}
	pm, err := s.ledger.GetByID(ctx, pmID)
	if err != nil {
		logger.Warn(ctx, "low-stock check skipped", "error", err)
		return
	}
	fired, err := s.lowStock.Triggered(pm)
	if err != nil {
		logger.Warn(ctx, "low-stock rule evaluation failed", "error", err)
		return
	}
	if fired {
		msg := fmt.Sprintf("low stock: remaining %s of %s assigned for project material %s",
			pm.Remaining(), pm.Assigned, pmID)
		if err := s.dispatcher.Emit(ctx, engineerID, notification.TypeWarning, msg); err != nil {
			logger.Warn(ctx, "emit low-stock warning failed", "error", err)
		}
	}
}
