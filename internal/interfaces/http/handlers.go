package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/port"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/application/service"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/ledger"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/domain/pricing"
	"github.com/Harshit2783/tally-integrated-pos-system/internal/infrastructure/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Handlers contains all HTTP request handlers
type Handlers struct {
	stockService   service.StockSyncService
	billingService service.BillingService
	exporter       port.ReportExporter
	logger         Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	stockService service.StockSyncService,
	billingService service.BillingService,
	exporter port.ReportExporter,
	logger Logger,
) *Handlers {
	return &Handlers{
		stockService:   stockService,
		billingService: billingService,
		exporter:       exporter,
		logger:         logger,
	}
}

// Response represents a standard JSON response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status         string `json:"status"`
	Timestamp      string `json:"timestamp"`
	DefaultCompany string `json:"default_company,omitempty"`
}

// CompanyQuery selects the ledger company; empty means the configured default
type CompanyQuery struct {
	Company string `form:"company"`
}

// ListRunsRequest represents query parameters for listing sync runs
type ListRunsRequest struct {
	Company string `form:"company"`
	Limit   int    `form:"limit"`
	Offset  int    `form:"offset"`
}

// PriceLineRequest is the body of POST /api/pricing/line
type PriceLineRequest struct {
	Company string `json:"company"`
	service.LineRequest
}

// BillRequest is the body of POST /api/bills/totals
type BillRequest struct {
	Company string                `json:"company"`
	Lines   []service.LineRequest `json:"lines" binding:"required,min=1,dive"`
}

// BillResponse is a priced bill
type BillResponse struct {
	Lines  []*service.PricedLine `json:"lines"`
	Totals pricing.Totals        `json:"totals"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data: HealthResponse{
			Status:         "healthy",
			Timestamp:      time.Now().UTC().Format(time.RFC3339),
			DefaultCompany: h.stockService.DefaultCompany(),
		},
	})
}

// SyncStock handles POST /api/stock/sync
func (h *Handlers) SyncStock(c *gin.Context) {
	var q CompanyQuery
	if !h.bindQuery(c, &q) {
		return
	}

	result, err := h.stockService.Sync(c.Request.Context(), q.Company)
	if err != nil {
		h.fail(c, "Stock sync failed", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: result})
}

// GetStock handles GET /api/stock
func (h *Handlers) GetStock(c *gin.Context) {
	var q CompanyQuery
	if !h.bindQuery(c, &q) {
		return
	}

	snapshot, err := h.stockService.Latest(c.Request.Context(), q.Company)
	if err != nil {
		h.fail(c, "Failed to get stock", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: snapshot})
}

// ListRuns handles GET /api/stock/runs
func (h *Handlers) ListRuns(c *gin.Context) {
	var req ListRunsRequest
	if !h.bindQuery(c, &req) {
		return
	}
	if req.Limit <= 0 || req.Limit > 100 {
		req.Limit = 20
	}
	if req.Offset < 0 {
		req.Offset = 0
	}

	runs, err := h.stockService.History(c.Request.Context(), req.Company, req.Limit, req.Offset)
	if err != nil {
		h.fail(c, "Failed to list sync runs", err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: runs})
}

// ExportStock handles GET /api/stock/export
func (h *Handlers) ExportStock(c *gin.Context) {
	var q CompanyQuery
	if !h.bindQuery(c, &q) {
		return
	}

	snapshot, err := h.stockService.Latest(c.Request.Context(), q.Company)
	if err != nil {
		h.fail(c, "Failed to get stock for export", err)
		return
	}

	data, err := h.exporter.Render(snapshot)
	if err != nil {
		h.fail(c, "Failed to render stock report", err)
		return
	}

	name := fmt.Sprintf("stock_%s_%s.xlsx", storage.SanitizeName(snapshot.Run.CompanyName), snapshot.Run.ID)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// PriceLine handles POST /api/pricing/line
func (h *Handlers) PriceLine(c *gin.Context) {
	var req PriceLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	line, err := h.billingService.PriceLine(c.Request.Context(), req.Company, req.LineRequest)
	if err != nil {
		h.fail(c, "Failed to price line", err)
		return
	}
	line.Line = line.Line.ForDisplay()

	c.JSON(http.StatusOK, Response{Success: true, Data: line})
}

// BillTotals handles POST /api/bills/totals
func (h *Handlers) BillTotals(c *gin.Context) {
	var req BillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := c.Request.Context()
	priced, err := h.billingService.PriceBill(ctx, req.Company, req.Lines)
	if err != nil {
		h.fail(c, "Failed to price bill", err)
		return
	}

	lines := make([]pricing.Line, 0, len(priced))
	resp := BillResponse{Lines: make([]*service.PricedLine, 0, len(priced))}
	for _, p := range priced {
		lines = append(lines, p.Line)
		shown := *p
		shown.Line = p.Line.ForDisplay()
		resp.Lines = append(resp.Lines, &shown)
	}

	totals, err := h.billingService.Totals(ctx, req.Company, lines)
	if err != nil {
		h.fail(c, "Failed to total bill", err)
		return
	}
	resp.Totals = totals.ForDisplay()

	c.JSON(http.StatusOK, Response{Success: true, Data: resp})
}

func (h *Handlers) bindQuery(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		h.badRequest(c, err)
		return false
	}
	return true
}

func (h *Handlers) badRequest(c *gin.Context, err error) {
	h.logger.Error("Invalid request", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusBadRequest, Response{Success: false, Error: "invalid request: " + err.Error()})
}

func (h *Handlers) fail(c *gin.Context, msg string, err error) {
	status := statusFor(err)
	h.logger.Error(msg, "status", status, "error", err)
	c.JSON(status, Response{Success: false, Error: err.Error()})
}

// statusFor maps service errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrEmptyCompany):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNoSnapshot), errors.Is(err, service.ErrItemNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusConflict
	case pricing.IsValidationError(err), errors.Is(err, service.ErrMissingHSN):
		return http.StatusUnprocessableEntity
	case ledger.IsNetworkError(err), ledger.IsParseError(err):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
