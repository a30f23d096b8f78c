package handlers

import (
	"github.com/gin-gonic/gin"

	"sitestock/internal/domain/catalogs/material"
	"sitestock/internal/infrastructure/http/v1/dto"
)

// MaterialHandler serves the material reference catalog.
type MaterialHandler struct {
	*BaseHandler
	materials *material.Service
}

// NewMaterialHandler creates a material catalog handler.
func NewMaterialHandler(base *BaseHandler, materialSvc *material.Service) *MaterialHandler {
	return &MaterialHandler{BaseHandler: base, materials: materialSvc}
}

// RegisterRoutes registers material catalog routes.
func (h *MaterialHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

// Create adds a material to the catalog.
// POST /materials
func (h *MaterialHandler) Create(c *gin.Context) {
	var req dto.CreateMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m := req.ToEntity()
	if err := h.materials.Create(c.Request.Context(), m); err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedJSON(c, dto.FromMaterial(m))
}

// Get returns one material.
// GET /materials/:id
func (h *MaterialHandler) Get(c *gin.Context) {
	materialID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	m, err := h.materials.GetByID(c.Request.Context(), materialID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMaterial(m))
}

// Update modifies a material with optimistic locking.
// PUT /materials/:id
func (h *MaterialHandler) Update(c *gin.Context) {
	materialID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.UpdateMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	m, err := h.materials.GetByID(c.Request.Context(), materialID)
	if err != nil {
		h.Error(c, err)
		return
	}

	req.ApplyTo(m)
	if err := h.materials.Update(c.Request.Context(), m); err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMaterial(m))
}

// Delete soft-deletes a material. Usage history keeps referencing it.
// DELETE /materials/:id
func (h *MaterialHandler) Delete(c *gin.Context) {
	materialID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.materials.Delete(c.Request.Context(), materialID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// List returns materials with search and pagination.
// GET /materials
func (h *MaterialHandler) List(c *gin.Context) {
	var query dto.MaterialListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.materials.List(c.Request.Context(), query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.MaterialResponse, 0, len(result.Items))
	for _, m := range result.Items {
		items = append(items, dto.FromMaterial(m))
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
