package dto

import (
	"sitestock/internal/core/types"
	"sitestock/internal/domain"
	"sitestock/internal/domain/catalogs/material"
)

// CreateMaterialRequest adds a material to the catalog. Code is optional;
// a missing code is generated from the MAT sequence.
type CreateMaterialRequest struct {
	Code        string      `json:"code"`
	Name        string      `json:"name" binding:"required"`
	Category    string      `json:"category"`
	Unit        string      `json:"unit" binding:"required"`
	DefaultRate types.Money `json:"defaultRate"`
}

// ToEntity converts the request to a new catalog entity.
func (r CreateMaterialRequest) ToEntity() *material.Material {
	return material.New(r.Code, r.Name, material.Category(r.Category), r.Unit, r.DefaultRate)
}

// UpdateMaterialRequest modifies a material. Version is required for
// optimistic locking.
type UpdateMaterialRequest struct {
	Name        *string      `json:"name"`
	Category    *string      `json:"category"`
	Unit        *string      `json:"unit"`
	DefaultRate *types.Money `json:"defaultRate"`
	Version     int          `json:"version" binding:"required,min=1"`
}

// ApplyTo merges the update into an existing material.
func (r UpdateMaterialRequest) ApplyTo(m *material.Material) {
	if r.Name != nil {
		m.Name = *r.Name
	}
	if r.Category != nil {
		m.Category = material.Category(*r.Category)
	}
	if r.Unit != nil {
		m.Unit = *r.Unit
	}
	if r.DefaultRate != nil {
		m.DefaultRate = *r.DefaultRate
	}
	m.Version = r.Version
}

// MaterialListQuery filters the material listing.
type MaterialListQuery struct {
	Search         string `form:"search"`
	IncludeDeleted bool   `form:"includeDeleted"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Offset         int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts query parameters to the domain filter.
func (q MaterialListQuery) ToFilter() domain.ListFilter {
	return domain.ListFilter{
		Search:         q.Search,
		IncludeDeleted: q.IncludeDeleted,
		Limit:          q.Limit,
		Offset:         q.Offset,
	}
}

// MaterialResponse is one catalog entry.
type MaterialResponse struct {
	ID           string      `json:"id"`
	Code         string      `json:"code"`
	Name         string      `json:"name"`
	Category     string      `json:"category"`
	Unit         string      `json:"unit"`
	DefaultRate  types.Money `json:"defaultRate"`
	DeletionMark bool        `json:"deletionMark"`
	Version      int         `json:"version"`
}

// FromMaterial maps a material to its response shape.
func FromMaterial(m *material.Material) MaterialResponse {
	return MaterialResponse{
		ID:           m.ID.String(),
		Code:         m.Code,
		Name:         m.Name,
		Category:     string(m.Category),
		Unit:         m.Unit,
		DefaultRate:  m.DefaultRate,
		DeletionMark: m.DeletionMark,
		Version:      m.Version,
	}
}
