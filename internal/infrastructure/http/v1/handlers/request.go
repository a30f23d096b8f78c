package handlers

import (
	"github.com/gin-gonic/gin"

	"sitestock/internal/core/apperror"
	"sitestock/internal/core/id"
	"sitestock/internal/domain/request"
	"sitestock/internal/infrastructure/http/v1/dto"
	"sitestock/internal/infrastructure/metrics"
)

// RequestHandler serves the material request workflow.
type RequestHandler struct {
	*BaseHandler
	requests *request.Service
}

// NewRequestHandler creates a request workflow handler.
func NewRequestHandler(base *BaseHandler, requestSvc *request.Service) *RequestHandler {
	return &RequestHandler{BaseHandler: base, requests: requestSvc}
}

// RegisterRoutes registers request workflow routes. An optional guard
// (role check) protects approval and rejection.
func (h *RequestHandler) RegisterRoutes(rg *gin.RouterGroup, resolveGuard ...gin.HandlerFunc) {
	rg.POST("", h.Submit)
	rg.GET("", h.List)
	rg.GET("/:id", h.Get)

	resolve := rg.Group("")
	resolve.Use(resolveGuard...)
	resolve.POST("/:id/approve", h.Approve)
	resolve.POST("/:id/reject", h.Reject)
}

// Submit opens a pending material request.
// POST /requests
func (h *RequestHandler) Submit(c *gin.Context) {
	var req dto.SubmitRequestRequest
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

	created, err := h.requests.Submit(c.Request.Context(), projectID, materialID, req.Quantity, req.Remarks)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.CreatedJSON(c, dto.FromMaterialRequest(created))
}

// Get returns one request.
// GET /requests/:id
func (h *RequestHandler) Get(c *gin.Context) {
	requestID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	req, err := h.requests.GetByID(c.Request.Context(), requestID)
	if err != nil {
		h.Error(c, err)
		return
	}
	h.OK(c, dto.FromMaterialRequest(req))
}

// List returns requests filtered by project and status.
// GET /requests
func (h *RequestHandler) List(c *gin.Context) {
	var query dto.RequestListQuery
	if !h.BindQuery(c, &query) {
		return
	}

	filter, err := query.ToFilter()
	if err != nil {
		h.Error(c, apperror.NewValidation("invalid project id filter").WithDetail("field", "projectId"))
		return
	}

	result, err := h.requests.List(c.Request.Context(), filter)
	if err != nil {
		h.Error(c, err)
		return
	}

	items := make([]dto.RequestResponse, 0, len(result.Items))
	for _, req := range result.Items {
		items = append(items, dto.FromMaterialRequest(req))
	}
	h.OK(c, dto.ListResponse{
		Items:      items,
		TotalCount: result.TotalCount,
		Limit:      result.Limit,
		Offset:     result.Offset,
	})
}

// Approve resolves a pending request and credits the ledger.
// POST /requests/:id/approve
func (h *RequestHandler) Approve(c *gin.Context) {
	requestID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	approved, err := h.requests.Approve(c.Request.Context(), requestID)
	if err != nil {
		h.Error(c, err)
		return
	}
	metrics.RequestResolutions.WithLabelValues("approved").Inc()
	h.OK(c, dto.FromMaterialRequest(approved))
}

// Reject resolves a pending request without touching the ledger.
// POST /requests/:id/reject
func (h *RequestHandler) Reject(c *gin.Context) {
	requestID, ok := h.ParseIDParam(c, "id")
	if !ok {
		return
	}

	var req dto.RejectRequestRequest
	if !h.BindJSON(c, &req) {
		return
	}

	rejected, err := h.requests.Reject(c.Request.Context(), requestID, req.Reason)
	if err != nil {
		h.Error(c, err)
		return
	}
	metrics.RequestResolutions.WithLabelValues("rejected").Inc()
	h.OK(c, dto.FromMaterialRequest(rejected))
}
