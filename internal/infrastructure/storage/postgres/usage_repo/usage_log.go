// Package usage_repo provides the PostgreSQL usage log repository.
package usage_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/core/types"
	"sitestock/internal/domain"
	"sitestock/internal/domain/usage"
	"sitestock/internal/infrastructure/storage/postgres"
)

const usageLogsTable = "usage_logs"

var usageLogColumns = []string{
	"id", "project_material_id", "engineer_id", "date",
	"quantity", "remarks", "voided", "void_reason", "created_at",
}

// UsageLogRepo implements usage.Repository.
type UsageLogRepo struct {
	txManager *postgres.TxManager
	audit     *postgres.AuditService
	builder   squirrel.StatementBuilderType
}

// NewUsageLogRepo creates a new usage log repository. The audit service is
// optional; when present writes are mirrored to sys_audit in the same
// transaction.
func NewUsageLogRepo(txManager *postgres.TxManager, audit *postgres.AuditService) *UsageLogRepo {
	return &UsageLogRepo{
		txManager: txManager,
		audit:     audit,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create appends a usage log entry.
func (r *UsageLogRepo) Create(ctx context.Context, log *usage.UsageLog) error {
	q := r.builder.Insert(usageLogsTable).
		Columns(usageLogColumns...).
		Values(
			log.ID, log.ProjectMaterialID, log.EngineerID, log.Date,
			log.Quantity, log.Remarks, log.Voided, log.VoidReason, log.CreatedAt,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert usage log: %w", err)
	}

	if r.audit != nil {
		return r.audit.LogChange(ctx, "usage_log", log.ID, postgres.AuditActionCreate, map[string]any{
			"project_material_id": log.ProjectMaterialID,
			"quantity":            log.Quantity.String(),
			"date":                log.Date,
		})
	}
	return nil
}

// GetByID retrieves a usage log entry.
func (r *UsageLogRepo) GetByID(ctx context.Context, logID id.ID) (*usage.UsageLog, error) {
	q := r.builder.Select(usageLogColumns...).
		From(usageLogsTable).
		Where(squirrel.Eq{"id": logID})

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var log usage.UsageLog
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &log, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("usage log", logID)
		}
		return nil, fmt.Errorf("get usage log: %w", err)
	}
	return &log, nil
}

// MarkVoided flips the voided flag. Compare-and-set on voided = false makes
// a repeated void affect zero rows.
func (r *UsageLogRepo) MarkVoided(ctx context.Context, logID id.ID, reason string) error {
	q := r.builder.Update(usageLogsTable).
		Set("voided", true).
		Set("void_reason", reason).
		Where(squirrel.Eq{"id": logID, "voided": false})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("void usage log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		if _, getErr := r.GetByID(ctx, logID); getErr != nil {
			return getErr
		}
		return apperror.NewAlreadyProcessed(logID.String(), "voided")
	}

	if r.audit != nil {
		return r.audit.LogChange(ctx, "usage_log", logID, postgres.AuditActionVoid, map[string]any{
			"reason": reason,
		})
	}
	return nil
}

// ListByProjectMaterial returns log entries for a ledger row, newest first.
// The count and the page share one predicate so TotalCount reflects every
// matching entry, not just the returned page.
func (r *UsageLogRepo) ListByProjectMaterial(ctx context.Context, pmID id.ID, filter usage.HistoryFilter) (domain.ListResult[*usage.UsageLog], error) {
	result := domain.ListResult[*usage.UsageLog]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	where := squirrel.And{squirrel.Eq{"project_material_id": pmID}}
	if !filter.IncludeVoided {
		where = append(where, squirrel.Eq{"voided": false})
	}
	if filter.From != nil {
		where = append(where, squirrel.GtOrEq{"date": *filter.From})
	}
	if filter.To != nil {
		where = append(where, squirrel.LtOrEq{"date": *filter.To})
	}

	countQ := r.builder.Select("COUNT(*)").
		From(usageLogsTable).
		Where(where)

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count usage logs: %w", err)
	}

	q := r.builder.Select(usageLogColumns...).
		From(usageLogsTable).
		Where(where).
		OrderBy("created_at DESC")
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
		return result, fmt.Errorf("select usage logs: %w", err)
	}
	return result, nil
}

// SumQuantity sums non-voided quantities for a ledger row.
func (r *UsageLogRepo) SumQuantity(ctx context.Context, pmID id.ID) (types.Quantity, error) {
	sql := `
		SELECT COALESCE(SUM(quantity), 0)
		FROM usage_logs
		WHERE project_material_id = $1 AND voided = false
	`

	var sumScaled int64
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, pmID).Scan(&sumScaled); err != nil {
		return 0, fmt.Errorf("sum usage quantities: %w", err)
	}
	return types.NewQuantityFromInt64Scaled(sumScaled), nil
}

// Ensure interface compliance.
var _ usage.Repository = (*UsageLogRepo)(nil)
