// Package catalog_repo provides PostgreSQL implementations for catalog
// repositories.
package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain"
	"sitestock/internal/domain/catalogs/material"
	"sitestock/internal/infrastructure/storage/postgres"
)

const materialsTable = "materials"

var materialColumns = []string{
	"id", "code", "name", "category", "unit", "default_rate",
	"deletion_mark", "version",
}

// MaterialRepo implements material.Repository.
type MaterialRepo struct {
	txManager *postgres.TxManager
	audit     *postgres.AuditService
	builder   squirrel.StatementBuilderType
}

// NewMaterialRepo creates a new material repository. The audit service is
// optional; when present writes are mirrored to sys_audit in the same
// transaction.
func NewMaterialRepo(txManager *postgres.TxManager, audit *postgres.AuditService) *MaterialRepo {
	return &MaterialRepo{
		txManager: txManager,
		audit:     audit,
		builder:   squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new material.
func (r *MaterialRepo) Create(ctx context.Context, m *material.Material) error {
	q := r.builder.Insert(materialsTable).
		Columns(materialColumns...).
		Values(
			m.ID, m.Code, m.Name, m.Category, m.Unit, m.DefaultRate,
			m.DeletionMark, m.Version,
		)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert material: %w", err)
	}

	if r.audit != nil {
		return r.audit.LogChange(ctx, "material", m.ID, postgres.AuditActionCreate, map[string]any{
			"code": m.Code,
			"name": m.Name,
		})
	}
	return nil
}

// GetByID retrieves a material.
func (r *MaterialRepo) GetByID(ctx context.Context, mID id.ID) (*material.Material, error) {
	return r.getOne(ctx, squirrel.Eq{"id": mID}, mID)
}

// GetByCode retrieves a material by code.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*material.Material, error) {
	return r.getOne(ctx, squirrel.Eq{"code": code}, code)
}

func (r *MaterialRepo) getOne(ctx context.Context, where squirrel.Eq, key any) (*material.Material, error) {
	q := r.builder.Select(materialColumns...).
		From(materialsTable).
		Where(where)

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var m material.Material
	querier := r.txManager.GetQuerier(ctx)
	if err := pgxscan.Get(ctx, querier, &m, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound("material", key)
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}

// Update modifies an existing material with an optimistic version check.
func (r *MaterialRepo) Update(ctx context.Context, m *material.Material) error {
	q := r.builder.Update(materialsTable).
		Set("name", m.Name).
		Set("category", m.Category).
		Set("unit", m.Unit).
		Set("default_rate", m.DefaultRate).
		Set("version", m.Version).
		Where(squirrel.Eq{
			"id":      m.ID,
			"version": m.Version - 1,
		})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update material: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewConcurrentModification("material", m.ID)
	}

	if r.audit != nil {
		return r.audit.LogChange(ctx, "material", m.ID, postgres.AuditActionUpdate, map[string]any{
			"name":     m.Name,
			"category": m.Category,
			"unit":     m.Unit,
			"version":  m.Version,
		})
	}
	return nil
}

// SetDeletionMark sets or clears the soft-delete mark.
func (r *MaterialRepo) SetDeletionMark(ctx context.Context, mID id.ID, marked bool) error {
	q := r.builder.Update(materialsTable).
		Set("deletion_mark", marked).
		Where(squirrel.Eq{"id": mID})

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	tag, err := querier.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("set deletion mark: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFound("material", mID)
	}
	return nil
}

// List retrieves materials with filtering and pagination.
func (r *MaterialRepo) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*material.Material], error) {
	result := domain.ListResult[*material.Material]{
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	where := squirrel.And{}
	if !filter.IncludeDeleted {
		where = append(where, squirrel.Eq{"deletion_mark": false})
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"name": pattern},
			squirrel.ILike{"code": pattern},
		})
	}

	countQ := r.builder.Select("COUNT(*)").From(materialsTable)
	if len(where) > 0 {
		countQ = countQ.Where(where)
	}

	countSQL, countArgs, err := countQ.ToSql()
	if err != nil {
		return result, fmt.Errorf("build count: %w", err)
	}

	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count materials: %w", err)
	}

	orderBy := "name"
	if filter.OrderBy != "" {
		orderBy = filter.OrderBy
	}

	q := r.builder.Select(materialColumns...).
		From(materialsTable).
		OrderBy(orderBy)
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
		return result, fmt.Errorf("select materials: %w", err)
	}
	return result, nil
}

// Exists checks whether a material with the given ID exists.
func (r *MaterialRepo) Exists(ctx context.Context, mID id.ID) (bool, error) {
	sql := `SELECT EXISTS(SELECT 1 FROM materials WHERE id = $1)`

	var exists bool
	querier := r.txManager.GetQuerier(ctx)
	if err := querier.QueryRow(ctx, sql, mID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check material exists: %w", err)
	}
	return exists, nil
}

// Ensure interface compliance.
var _ material.Repository = (*MaterialRepo)(nil)
