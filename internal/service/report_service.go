package service

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
)

//go:embed templates/quote_report.html
var reportTemplate string

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":   money,
	"percent": percent,
	"ago":     humanize.Time,
}).Parse(reportTemplate))

type ReportService struct {
	quotes *QuoteService
}

func NewReportService(quotes *QuoteService) *ReportService {
	return &ReportService{quotes: quotes}
}

type ReportData struct {
	GeneratedAt string
	Record      *model.QuoteRecord
}

func (s *ReportService) GenerateReport(ctx context.Context, id string) (*ReportData, error) {
	rec, err := s.quotes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ReportData{
		GeneratedAt: time.Now().Format("2006-01-02 15:04:05 MST"),
		Record:      rec,
	}, nil
}

func (s *ReportService) RenderHTML(data *ReportData) (string, error) {
	var buf bytes.Buffer
	if err := reportTmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// money formats an amount with thousands separators and two decimals.
func money(v float64) string {
	return "$" + humanize.FormatFloat("#,###.##", v)
}

// percent formats a fraction as a percentage.
func percent(v float64) string {
	return fmt.Sprintf("%.2f%%", v*100)
}
