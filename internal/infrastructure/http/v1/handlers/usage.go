package handlers

import (
	"github.com/gin-gonic/gin"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain/usage"
	"sitestock/internal/infrastructure/http/v1/dto"
	"sitestock/internal/infrastructure/metrics"
)

// UsageHandler serves usage submission, voiding and history.
type UsageHandler struct {
	*BaseHandler
	usage *usage.Service
}

// NewUsageHandler creates a usage handler.
func NewUsageHandler(base *BaseHandler, usageSvc *usage.Service) *UsageHandler {
	return &UsageHandler{BaseHandler: base, usage: usageSvc}
}

// RegisterRoutes registers usage routes.
func (h *UsageHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Submit)
	rg.POST("/:id/void", h.Void)
	rg.GET("/stock/:pmId", h.History)
}

// Submit records material consumption. The log append and the ledger
// decrement are one atomic unit.
// POST /usage
func (h *UsageHandler) Submit(c *gin.Context) {
	var req dto.SubmitUsageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	pmID, err := id.Parse(req.ProjectMaterialID)
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid project material id").WithDetail("field", "projectMaterialId"))
		return
	}

	result, err := h.usage.Submit(c.Request.Context(), pmID, req.Quantity, req.Remarks)
	if err != nil {
		metrics.UsageSubmissions.WithLabelValues("rejected").Inc()
		h.Error(c, err)
		return
	}
	metrics.UsageSubmissions.WithLabelValues("recorded").Inc()

	h.CreatedJSON(c, dto.SubmitUsageResponse{
		Log:       dto.FromUsageLog(result.Log),
		Remaining: result.Remaining,
	})
}

// Void reverses a usage log entry and credits the ledger back.
// POST /usage/:id/void
func (h *UsageHandler) Void(c *gin.Context) {
	logID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.VoidUsageRequest
	if !h.BindJSON(c, &req) {
		return
	}

	if err := h.usage.Void(c.Request.Context(), logID, req.Reason); err != nil {
		h.Error(c, err)
		return
	}
	metrics.UsageVoids.Inc()
	h.Success(c, "usage log voided")
}

// History lists usage logs for a ledger row, newest first.
// GET /usage/stock/:pmId
func (h *UsageHandler) History(c *gin.Context) {
	pmID, ok := h.ParseIDParam(c, "pmId")
	if !ok {
		return
	}

	var query dto.UsageHistoryQuery
	if !h.BindQuery(c, &query) {
		return
	}

	result, err := h.usage.History(c.Request.Context(), pmID, query.ToFilter())
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.UsageLogResponse, 0, len(result.Items))
	for _, log := range result.Items {
		items = append(items, dto.FromUsageLog(log))
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}
