package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/dto"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/middleware"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/service"
)

type QuoteHandler struct {
	svc     *service.QuoteService
	reports *service.ReportService
}

func NewQuoteHandler(svc *service.QuoteService, reports *service.ReportService) *QuoteHandler {
	return &QuoteHandler{svc: svc, reports: reports}
}

func (h *QuoteHandler) Create(c *gin.Context) {
	var req dto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "validation failed: " + err.Error(),
			Errors: dto.BindingErrors(err),
		})
		return
	}

	res, err := h.svc.Quote(c.Request.Context(), req.ToModel())
	if err != nil {
		_ = c.Error(err)
		return
	}

	status := http.StatusOK
	if res.ID != "" {
		status = http.StatusCreated
	}
	c.JSON(status, dto.QuoteResponse{ID: res.ID, BundleVersion: res.BundleVersion, Quote: res.Quote})
}

func (h *QuoteHandler) CreateBatch(c *gin.Context) {
	var req dto.BatchQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorListResponse{
			Error:  "validation failed: " + err.Error(),
			Errors: dto.BindingErrors(err),
		})
		return
	}

	items, err := h.svc.QuoteBatch(c.Request.Context(), req.ToModel())
	if err != nil {
		_ = c.Error(err)
		return
	}

	resp := dto.BatchQuoteResponse{Results: make([]dto.BatchItemResponse, len(items))}
	for i, it := range items {
		out := dto.BatchItemResponse{Index: it.Index, Error: it.Error}
		if it.Err == nil {
			out.Quote = &dto.QuoteResponse{ID: it.Result.ID, BundleVersion: it.Result.BundleVersion, Quote: it.Result.Quote}
			resp.Quoted++
		} else {
			resp.Failed++
		}
		resp.Results[i] = out
	}
	c.JSON(http.StatusOK, resp)
}

func (h *QuoteHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "resource not found"})
		return
	}

	rec, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, dto.NewQuoteRecordResponse(*rec))
}

func (h *QuoteHandler) List(c *gin.Context) {
	params := dto.ParseListParams(c)

	records, total, err := h.svc.List(c.Request.Context(), params.Category, params.PageSize, params.Offset)
	if err != nil {
		_ = c.Error(err)
		return
	}

	data := make([]dto.QuoteRecordResponse, len(records))
	for i, r := range records {
		data[i] = dto.NewQuoteRecordResponse(r)
	}
	c.JSON(http.StatusOK, dto.QuoteListResponse{
		Data:       data,
		Pagination: dto.NewPagination(params, total),
	})
}

func (h *QuoteHandler) Stats(c *gin.Context) {
	stats, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": stats})
}

// Report renders a stored quote as HTML, or as JSON when asked with
// format=json.
func (h *QuoteHandler) Report(c *gin.Context) {
	id := c.Param("id")
	if uuid.Validate(id) != nil {
		c.JSON(http.StatusNotFound, middleware.ErrorResponse{Error: "resource not found"})
		return
	}

	data, err := h.reports.GenerateReport(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	if c.Query("format") == "json" || strings.Contains(c.GetHeader("Accept"), "application/json") {
		c.JSON(http.StatusOK, data)
		return
	}

	html, err := h.reports.RenderHTML(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, middleware.ErrorResponse{Error: "failed to render report: " + err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}
