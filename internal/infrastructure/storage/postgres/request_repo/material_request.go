// Package request_repo provides the PostgreSQL material request repository.
package request_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain"
	"sitestock/internal/domain/request"
	"sitestock/internal/infrastructure/storage/postgres"
)

const materialRequestsTable = "material_requests"

var materialRequestColumns = []string{
	"id", "number", "project_id", "material_id", "quantity", "remarks",
	"status", "requester_id", "resolved_by", "resolved_at", "reject_reason",
	"version", "created_at", "updated_at",
}

// MaterialRequestRepo implements request.Repository.
type MaterialRequestRepo struct {
	txManager *postgres.TxManager
	audit     *postgres.AuditService
	builder   squirrel.StatementBuilderType
}

// NewMaterialRequestRepo creates a new request repository. The audit service
// is optional; when present writes are mirrored to sys_audit in the same
// transaction.
func NewMaterialRequestRepo(txManager *postgres.TxManager, audit *postgres.AuditService) *MaterialRequestRepo {
	return &MaterialRequestRepo{
		txManager: txManager,
		audit:     audit,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new request.
func (r *MaterialRequestRepo) Create(ctx context.Context, req *request.MaterialRequest) error {
	q := r.builder.Insert(materialRequestsTable).
		Columns(materialRequestColumns...).
		Values(
			req.ID, req.Number, req.ProjectID, req.MaterialID, req.Quantity, req.Remarks,
			req.Status, req.RequesterID, req.ResolvedBy, req.ResolvedAt, req.RejectReason,
			req.Version, req.CreatedAt, req.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert material request: %w", err)
	}

	if r.audit != nil {
		return r.audit.LogChange(ctx, "material_request", req.ID, postgres.AuditActionCreate, map[string]any{
			"number":      req.Number,
			"project_id":  req.ProjectID,
			"material_id": req.MaterialID,
			"quantity":    req.Quantity.String(),
		})
	}
	return nil
}

// GetByID retrieves a request.
func (r *MaterialRequestRepo) GetByID(ctx context.Context, reqID id.ID) (*request.MaterialRequest, error) {
	q := r.builder.Select(materialRequestColumns...).
		From(materialRequestsTable).
		Where(squirrel.Eq{"id": reqID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var req request.MaterialRequest
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &req, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("material request", reqID)
		}
		return nil, fmt.Errorf("get material request: %w", err)
	}
	return &req, nil
}

// GetForUpdate retrieves a request with a row lock.
func (r *MaterialRequestRepo) GetForUpdate(ctx context.Context, reqID id.ID) (*request.MaterialRequest, error) {
	sql := `
		SELECT id, number, project_id, material_id, quantity, remarks,
			   status, requester_id, resolved_by, resolved_at, reject_reason,
			   version, created_at, updated_at
		FROM material_requests
		WHERE id = $1
		FOR UPDATE
	`

	var req request.MaterialRequest
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &req, sql, reqID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("material request", reqID)
		}
		return nil, fmt.Errorf("get material request for update: %w", err)
	}
	return &req, nil
}

// UpdateStatus transitions a Pending request to a terminal state.
// The WHERE clause pins the stored status to Pending: a request resolved by
// a concurrent caller matches zero rows and the second resolution fails.
func (r *MaterialRequestRepo) UpdateStatus(ctx context.Context, req *request.MaterialRequest) error {
	q := r.builder.Update(materialRequestsTable).
		Set("status", req.Status).
		Set("resolved_by", req.ResolvedBy).
		Set("resolved_at", req.ResolvedAt).
		Set("reject_reason", req.RejectReason).
		Set("version", req.Version+1).
		Set("updated_at", req.UpdatedAt).
		Where(squirrel.Eq{
			"id":     req.ID,
			"status": request.StatusPending,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update request status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		stored, getErr := r.GetByID(ctx, req.ID)
		if getErr != nil {
			return getErr
		}
		return apperror.NewAlreadyProcessed(req.ID.String(), string(stored.Status))
	}
	req.Version++

	if r.audit != nil {
		action := postgres.AuditActionApprove
		if req.Status == request.StatusRejected {
			action = postgres.AuditActionReject
		}
		return r.audit.LogChange(ctx, "material_request", req.ID, action, map[string]any{
			"status":        req.Status,
			"resolved_by":   req.ResolvedBy,
			"reject_reason": req.RejectReason,
		})
	}
	return nil
}

// List returns requests matching the filter, newest first.
func (r *MaterialRequestRepo) List(ctx context.Context, filter request.ListFilter) (domain.ListResult[*request.MaterialRequest], error) {
	result := domain.ListResult[*request.MaterialRequest]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	where := squirrel.And{}
	if filter.ProjectID != nil {
		where = append(where, squirrel.Eq{"project_id": *filter.ProjectID})
	}
	if filter.Status != nil {
		where = append(where, squirrel.Eq{"status": *filter.Status})
	}

	countQ := r.builder.Select("COUNT(*)").From(materialRequestsTable)
	if len(where) > 0 {
		countQ = countQ.Where(where)
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count material requests: %w", err)
	}

	q := r.builder.Select(materialRequestColumns...).
		From(materialRequestsTable).
		OrderBy("created_at DESC")
	if len(where) > 0 {
		q = q.Where(where)
	}
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}

	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("select material requests: %w", err)
	}
	return result, nil
}

// Ensure interface compliance.
var _ request.Repository = (*MaterialRequestRepo)(nil)
