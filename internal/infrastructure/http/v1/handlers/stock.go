package handlers

import (
	"github.com/gin-gonic/gin"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain"
	"sitestock/internal/domain/ledger"
	"sitestock/internal/infrastructure/http/v1/dto"
)

// StockHandler serves the project stock ledger: attach, adjust, remaining
// and per-project listing.
type StockHandler struct {
	*BaseHandler
	ledger *ledger.Service
}

// NewStockHandler creates a stock handler.
func NewStockHandler(base *BaseHandler, ledgerSvc *ledger.Service) *StockHandler {
	return &StockHandler{BaseHandler: base, ledger: ledgerSvc}
}

// RegisterRoutes registers stock ledger routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Attach)
	rg.GET("/:id", h.Get)
	rg.GET("/:id/remaining", h.Remaining)
	rg.POST("/:id/adjust", h.Adjust)
	rg.POST("/:id/retire", h.Retire)
	rg.GET("/project/:projectId", h.ListByProject)
}

// Attach creates a ledger row for a project-material pair.
// POST /stock
func (h *StockHandler) Attach(c *gin.Context) {
	var req dto.AttachMaterialRequest
	if !h.BindJSON(c, &req) {
		return
	}

	projectID, err := id.Parse(req.ProjectID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid project id").WithDetail("field", "projectId"))
		return
	}
	materialID, err := id.Parse(req.MaterialID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid material id").WithDetail("field", "materialId"))
		return
	}

	pm, err := h.ledger.Attach(c.Request.Context(), projectID, materialID, req.Assigned)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedJSON(c, dto.FromProjectMaterial(pm))
}

// Get returns one ledger row.
// GET /stock/:id
func (h *StockHandler) Get(c *gin.Context) {
	pmID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	pm, err := h.ledger.GetByID(c.Request.Context(), pmID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProjectMaterial(pm))
}

// Remaining returns the derived remaining quantity.
// GET /stock/:id/remaining
func (h *StockHandler) Remaining(c *gin.Context) {
	pmID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	remaining, err := h.ledger.Remaining(c.Request.Context(), pmID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.RemainingResponse{
		ProjectMaterialID: pmID.String(),
		Remaining:         remaining,
	})
}

// Adjust changes the assigned quantity by a signed delta.
// POST /stock/:id/adjust
func (h *StockHandler) Adjust(c *gin.Context) {
	pmID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.AdjustAssignedRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pm, err := h.ledger.AdjustAssigned(c.Request.Context(), pmID, req.Delta)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromProjectMaterial(pm))
}

// Retire marks a ledger row inactive. History keeps referencing it.
// POST /stock/:id/retire
func (h *StockHandler) Retire(c *gin.Context) {
	pmID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.ledger.Retire(c.Request.Context(), pmID); err != nil {
		h.Error(c, err)
		return
	}
	h.NoContent(c)
}

// ListByProject returns the stock position of one project.
// GET /stock/project/:projectId
func (h *StockHandler) ListByProject(c *gin.Context) {
	projectID, ok := h.ParseIDParam(c, "projectId")
	if !ok {
		return
	}

	var query dto.ListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.ledger.ListByProject(c.Request.Context(), projectID, domain.ListFilter{
		Limit:  query.Limit,
		Offset: query.Offset,
	})
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.ProjectMaterialResponse, 0, len(result.Items))
	for _, pm := range result.Items {
		items = append(items, dto.FromProjectMaterial(pm))
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
