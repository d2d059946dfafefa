package dto

import (
	"time"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
)

type QuoteResponse struct {
	ID            string      `json:"id,omitempty"`
	BundleVersion string      `json:"bundle_version"`
	Quote         model.Quote `json:"quote"`
}

type BatchItemResponse struct {
	Index int            `json:"index"`
	Quote *QuoteResponse `json:"quote,omitempty"`
	Error string         `json:"error,omitempty"`
}

type BatchQuoteResponse struct {
	Quoted  int                 `json:"quoted"`
	Failed  int                 `json:"failed"`
	Results []BatchItemResponse `json:"results"`
}

type QuoteRecordResponse struct {
	ID            string            `json:"id"`
	BundleVersion string            `json:"bundle_version"`
	Request       model.LoanRequest `json:"request"`
	Quote         model.Quote       `json:"quote"`
	SectorName    string            `json:"sector_name,omitempty"`
	StateName     string            `json:"state_name,omitempty"`
	CreatedAt     time.Time         `json:"created_at"`
}

func NewQuoteRecordResponse(r model.QuoteRecord) QuoteRecordResponse {
	return QuoteRecordResponse{
		ID:            r.ID,
		BundleVersion: r.BundleVersion,
		Request:       r.Request,
		Quote:         r.Quote,
		SectorName:    r.SectorName,
		StateName:     r.StateName,
		CreatedAt:     r.CreatedAt,
	}
}

type QuoteListResponse struct {
	Data       []QuoteRecordResponse `json:"data"`
	Pagination Pagination            `json:"pagination"`
}

type ValidationError struct {
	Index   int    `json:"index,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
