package request

import (
	"context"
	"fmt"
	"time"

	"sitestock/internal/core/apperror"
	appcontext "sitestock/internal/core/context"
	"sitestock/internal/core/id"
	"sitestock/internal/core/numerator"
	"sitestock/internal/core/tx"
	"sitestock/internal/core/types"
	"sitestock/internal/domain"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/domain/notification"
	"sitestock/pkg/logger"
)

// Service runs the request approval workflow.
//
// Resolution is exactly-once: the status write is a compare-and-set from
// Pending, so two concurrent approvals cannot both credit the ledger.
type Service struct {
	repo       Repository
	ledger     *ledger.Service
	txManager  tx.Manager
	dispatcher *notification.Dispatcher
	numerator  numerator.Generator
}

// NewService creates a request workflow service.
func NewService(
	repo Repository,
	ledgerSvc *ledger.Service,
	txManager tx.Manager,
	dispatcher *notification.Dispatcher,
	gen numerator.Generator,
) *Service {
	return &Service{
		repo:       repo,
		ledger:     ledgerSvc,
		txManager:  txManager,
		dispatcher: dispatcher,
		numerator:  gen,
	}
}

// Submit creates a pending request with a generated document number.
// The requester id comes from the identity context.
func (s *Service) Submit(ctx context.Context, projectID, materialID id.ID, qty types.Quantity, remarks string) (*MaterialRequest, error) {
	requesterID := appcontext.GetUserID(ctx)
	if requesterID == "" {
		return nil, apperror.NewUnauthorized("requester identity is required")
	}

	req := NewMaterialRequest(projectID, materialID, qty, requesterID, remarks)
	if err := req.Validate(ctx); err != nil {
		return nil, err
	}

	number, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("REQ"), nil, time.Now())
	if err != nil {
		return nil, fmt.Errorf("generate request number: %w", err)
	}
	req.Number = number

	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}

	logger.Info(ctx, "material request submitted",
		"request_id", req.ID,
		"number", req.Number,
		"project_id", projectID,
		"material_id", materialID,
		"quantity", qty,
	)
	return req, nil
}

// Approve resolves a pending request and credits the requested quantity to
// the project's ledger row, attaching the pair first if it has no row yet.
// Status flip and ledger credit are one transaction.
//
// A request that is already resolved fails with ALREADY_PROCESSED and has no
// further ledger effect, no matter how many times approval is retried.
func (s *Service) Approve(ctx context.Context, requestID id.ID) (*MaterialRequest, error) {
	approverID := appcontext.GetUserID(ctx)
	if approverID == "" {
		return nil, apperror.NewUnauthorized("approver identity is required")
	}

	var req *MaterialRequest
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.repo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Resolved() {
			return apperror.NewAlreadyProcessed(requestID.String(), string(req.Status))
		}

		now := time.Now().UTC()
		req.Status = StatusApproved
		req.ResolvedBy = approverID
		req.ResolvedAt = &now
		req.UpdatedAt = now
		if err := s.repo.UpdateStatus(ctx, req); err != nil {
			return err
		}

		return s.creditLedger(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "material request approved",
		"request_id", requestID,
		"number", req.Number,
		"approved_by", approverID,
	)
	s.notify(ctx, req.RequesterID, notification.TypeSuccess,
		fmt.Sprintf("request %s approved: %s credited", req.Number, req.Quantity))
	return req, nil
}

// Reject resolves a pending request without touching the ledger.
func (s *Service) Reject(ctx context.Context, requestID id.ID, reason string) (*MaterialRequest, error) {
	approverID := appcontext.GetUserID(ctx)
	if approverID == "" {
		return nil, apperror.NewUnauthorized("approver identity is required")
	}
	if reason == "" {
		return nil, apperror.NewValidation("reject reason is required").
			WithDetail("field", "reason")
	}

	var req *MaterialRequest
	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		req, err = s.repo.GetForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req.Resolved() {
			return apperror.NewAlreadyProcessed(requestID.String(), string(req.Status))
		}

		now := time.Now().UTC()
		req.Status = StatusRejected
		req.ResolvedBy = approverID
		req.ResolvedAt = &now
		req.RejectReason = reason
		req.UpdatedAt = now
		return s.repo.UpdateStatus(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "material request rejected",
		"request_id", requestID,
		"number", req.Number,
		"rejected_by", approverID,
		"reason", reason,
	)
	s.notify(ctx, req.RequesterID, notification.TypeError,
		fmt.Sprintf("request %s rejected: %s", req.Number, reason))
	return req, nil
}

// GetByID retrieves a request.
func (s *Service) GetByID(ctx context.Context, requestID id.ID) (*MaterialRequest, error) {
	return s.repo.GetByID(ctx, requestID)
}

// List returns requests matching the filter.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[*MaterialRequest], error) {
	return s.repo.List(ctx, filter)
}

// creditLedger applies the approved quantity: adjust the existing row or
// attach the pair when the project never held this material. When Attach
// loses a race for a brand-new pair it reports CONFLICT and the credit
// falls through to an adjustment of the row the winner created.
func (s *Service) creditLedger(ctx context.Context, req *MaterialRequest) error {
	pm, err := s.ledger.GetByProjectAndMaterial(ctx, req.ProjectID, req.MaterialID)
	if err == nil {
		_, err = s.ledger.AdjustAssigned(ctx, pm.ID, req.Quantity)
		return err
	}
	if !apperror.IsNotFound(err) {
		return err
	}

	if _, err := s.ledger.Attach(ctx, req.ProjectID, req.MaterialID, req.Quantity); err != nil {
		if !apperror.IsCode(err, apperror.CodeConflict) {
			return err
		}
		pm, getErr := s.ledger.GetByProjectAndMaterial(ctx, req.ProjectID, req.MaterialID)
		if getErr != nil {
			return getErr
		}
		_, err = s.ledger.AdjustAssigned(ctx, pm.ID, req.Quantity)
		return err
	}
	return nil
}

// notify delivers a resolution notification. Best-effort after commit.
func (s *Service) notify(ctx context.Context, userID string, typ notification.Type, message string) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Emit(ctx, userID, typ, message); err != nil {
		logger.Warn(ctx, "emit request notification failed", "error", err)
	}
}
