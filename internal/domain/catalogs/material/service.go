package material

import (
	"context"
	"fmt"
	"time"

	"sitestock/internal/core/id"
	"sitestock/internal/core/numerator"
	"sitestock/internal/domain"
	"sitestock/pkg/logger"
)

// Service provides business logic for the Material catalog.
type Service struct {
	repo      Repository
	numerator numerator.Generator
}

// NewService creates a new Material service.
func NewService(repo Repository, numerator numerator.Generator) *Service {
	return &Service{
		repo:      repo,
		numerator: numerator,
	}
}

// Create validates and stores a new material, generating a code if absent.
func (s *Service) Create(ctx context.Context, m *Material) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}

	if m.Code == "" {
		code, err := s.numerator.GetNextNumber(ctx, numerator.DefaultConfig("MAT"), nil, time.Now())
		if err != nil {
			return fmt.Errorf("generate code: %w", err)
		}
		m.Code = code
	}

	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}

	logger.Info(ctx, "material created", "id", m.ID, "code", m.Code, "name", m.Name)
	return nil
}

// GetByID retrieves a material.
func (s *Service) GetByID(ctx context.Context, materialID id.ID) (*Material, error) {
	return s.repo.GetByID(ctx, materialID)
}

// Update modifies an existing material.
func (s *Service) Update(ctx context.Context, m *Material) error {
	if err := m.Validate(ctx); err != nil {
		return err
	}
	return s.repo.Update(ctx, m)
}

// Delete soft-deletes a material. Usage history keeps referencing it.
func (s *Service) Delete(ctx context.Context, materialID id.ID) error {
	if err := s.repo.SetDeletionMark(ctx, materialID, true); err != nil {
		return err
	}
	logger.Info(ctx, "material marked deleted", "id", materialID)
	return nil
}

// List retrieves materials with filtering.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*Material], error) {
	return s.repo.List(ctx, filter)
}
