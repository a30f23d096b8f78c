// Package ledger_repo provides the PostgreSQL ledger repository.
package ledger_repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/infrastructure/storage/postgres"
)

const projectMaterialsTable = "project_materials"

var projectMaterialColumns = []string{
	"id", "project_id", "material_id",
	"assigned", "used", "status", "version",
	"created_at", "updated_at",
}

// ProjectMaterialRepo implements ledger.Repository.
// Quantities are stored as BIGINT in fixed-point scale 1e3.
type ProjectMaterialRepo struct {
	txManager *postgres.TxManager
	audit     *postgres.AuditService
	builder   squirrel.StatementBuilderType
}

// NewProjectMaterialRepo creates a new ledger repository. The audit service
// is optional; when present every write leaves a sys_audit entry in the same
// transaction.
func NewProjectMaterialRepo(txManager *postgres.TxManager, audit *postgres.AuditService) *ProjectMaterialRepo {
	return &ProjectMaterialRepo{
		txManager: txManager,
		audit:     audit,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new ledger row.
func (r *ProjectMaterialRepo) Create(ctx context.Context, pm *ledger.ProjectMaterial) error {
	q := r.builder.Insert(projectMaterialsTable).
		Columns(projectMaterialColumns...).
		Values(
			pm.ID, pm.ProjectID, pm.MaterialID,
			pm.Assigned, pm.Used, pm.Status, pm.Version,
			pm.CreatedAt, pm.UpdatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		// Unique violation on (project_id, material_id): the pair raced a
		// concurrent attach. Recoverable by the caller, not an internal error.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperror.NewConflict("material already attached to project").
				WithDetail("project_id", pm.ProjectID.String()).
				WithDetail("material_id", pm.MaterialID.String()).
				WithCause(err)
		}
		return fmt.Errorf("insert project material: %w", err)
	}

	if r.audit != nil {
		return r.audit.LogChange(ctx, "project_material", pm.ID, postgres.AuditActionCreate, map[string]any{
			"project_id":  pm.ProjectID,
			"material_id": pm.MaterialID,
			"assigned":    pm.Assigned.String(),
		})
	}
	return nil
}

// GetByID retrieves a ledger row.
func (r *ProjectMaterialRepo) GetByID(ctx context.Context, pmID id.ID) (*ledger.ProjectMaterial, error) {
	q := r.builder.Select(projectMaterialColumns...).
		From(projectMaterialsTable).
		Where(squirrel.Eq{"id": pmID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var pm ledger.ProjectMaterial
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &pm, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("project material", pmID)
		}
		return nil, fmt.Errorf("get project material: %w", err)
	}
	return &pm, nil
}

// GetForUpdate retrieves a ledger row with a pessimistic row lock. The lock
// is held until the surrounding transaction commits.
func (r *ProjectMaterialRepo) GetForUpdate(ctx context.Context, pmID id.ID) (*ledger.ProjectMaterial, error) {
	sql := `
		SELECT id, project_id, material_id,
			   assigned, used, status, version,
			   created_at, updated_at
		FROM project_materials
		WHERE id = $1
		FOR UPDATE
	`

	var pm ledger.ProjectMaterial
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &pm, sql, pmID); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("project material", pmID)
		}
		return nil, fmt.Errorf("get project material for update: %w", err)
	}
	return &pm, nil
}

// GetByProjectAndMaterial retrieves the ledger row for a pair.
func (r *ProjectMaterialRepo) GetByProjectAndMaterial(ctx context.Context, projectID, materialID id.ID) (*ledger.ProjectMaterial, error) {
	q := r.builder.Select(projectMaterialColumns...).
		From(projectMaterialsTable).
		Where(squirrel.Eq{
			"project_id":  projectID,
			"material_id": materialID,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var pm ledger.ProjectMaterial
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &pm, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("project material", projectID)
		}
		return nil, fmt.Errorf("get project material by pair: %w", err)
	}
	return &pm, nil
}

// Update persists quantities and status with an optimistic version check.
// The service bumps the version before calling, so the predicate matches the
// previous stored version exactly once.
func (r *ProjectMaterialRepo) Update(ctx context.Context, pm *ledger.ProjectMaterial) error {
	q := r.builder.Update(projectMaterialsTable).
		Set("assigned", pm.Assigned).
		Set("used", pm.Used).
		Set("status", pm.Status).
		Set("version", pm.Version).
		Set("updated_at", pm.UpdatedAt).
		Where(squirrel.Eq{
			"id":      pm.ID,
			"version": pm.Version - 1,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update project material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("project material", pm.ID)
	}

	if r.audit != nil {
		return r.audit.LogChange(ctx, "project_material", pm.ID, postgres.AuditActionAdjust, map[string]any{
			"assigned": pm.Assigned.String(),
			"used":     pm.Used.String(),
			"status":   pm.Status,
			"version":  pm.Version,
		})
	}
	return nil
}

// ListByProject returns all ledger rows for a project.
func (r *ProjectMaterialRepo) ListByProject(ctx context.Context, projectID id.ID, filter domain.ListFilter) (domain.ListResult[*ledger.ProjectMaterial], error) {
	result := domain.ListResult[*ledger.ProjectMaterial]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	countQ := r.builder.Select("COUNT(*)").
		From(projectMaterialsTable).
		Where(squirrel.Eq{"project_id": projectID})

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count project materials: %w", err)
	}

	q := r.builder.Select(projectMaterialColumns...).
		From(projectMaterialsTable).
		Where(squirrel.Eq{"project_id": projectID}).
		OrderBy("created_at")

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
		return result, fmt.Errorf("select project materials: %w", err)
	}
	return result, nil
}

// Ensure interface compliance.
var _ ledger.Repository = (*ProjectMaterialRepo)(nil)
