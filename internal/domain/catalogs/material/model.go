// Package material provides the Material reference catalog.
// Materials are immutable reference data: cement, steel, sand, and so on.
package material

import (
	"context"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/entity"
	"sitestock/internal/core/types"
)

// Category groups materials for reporting.
type Category string

const (
	CategoryStructural Category = "structural"
	CategoryFinishing  Category = "finishing"
	CategoryElectrical Category = "electrical"
	CategoryPlumbing   Category = "plumbing"
	CategoryOther      Category = "other"
)

// Material represents a purchasable construction material.
type Material struct {
	entity.Catalog

	// Category groups the material for reporting
	Category Category `db:"category" json:"category"`

	// Unit is the unit of measure (kg, m3, bag, piece)
	Unit string `db:"unit" json:"unit"`

	// DefaultRate is the default price per unit
	DefaultRate types.Money `db:"default_rate" json:"defaultRate"`
}

// New creates a new Material with required fields.
func New(code, name string, category Category, unit string, rate types.Money) *Material {
	return &Material{
		Catalog:  entity.NewCatalog(code, name),
		Category: category,
		Unit:     unit,
		DefaultRate: rate,
	}
}

// Validate implements entity.Validatable.
func (m *Material) Validate(ctx context.Context) error {
	if err := m.Catalog.Validate(ctx); err != nil {
		return err
	}

	if m.Unit == "" {
		return apperror.NewValidation("unit is required").
			WithDetail("field", "unit")
	}

	if m.DefaultRate.IsNegative() {
		return apperror.NewValidation("default rate must not be negative").
			WithDetail("field", "defaultRate")
	}

	if m.Category == "" {
		m.Category = CategoryOther
	}

	return nil
}
