package handlers

import (
	"github.com/gin-gonic/gin"

	"sitestock/internal/domain/billing"
	"sitestock/internal/infrastructure/http/v1/dto"
	"sitestock/internal/infrastructure/metrics"
)

// BillHandler serves bill summary previews. The computation is pure; nothing
// is persisted.
type BillHandler struct {
	*BaseHandler
}

// NewBillHandler creates a bill handler.
func NewBillHandler(base *BaseHandler) *BillHandler {
	return &BillHandler{BaseHandler: base}
}

// RegisterRoutes registers billing routes.
func (h *BillHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/compute", h.Compute)
}

// Compute derives the monetary summary for a bill snapshot.
// POST /bills/compute
func (h *BillHandler) Compute(c *gin.Context) {
	var req dto.ComputeBillRequest
	if !h.BindJSON(c, &req) {
		return
	}

	summary, err := billing.Compute(req.ToSnapshot())
	if err != nil {
		h.Error(c, err)
		return
	}
	metrics.BillComputations.WithLabelValues(req.BillType).Inc()
	h.OK(c, dto.FromBillSummary(summary))
}
