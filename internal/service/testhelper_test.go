package service

import (
	"context"
	"math"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/features"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/policy"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/preprocess"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/quote"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/risk"
)

func sampleRequest() model.LoanRequest {
	return model.LoanRequest{
		ApprovedAmount: 1_000_000,
		TermMonths:     36,
		NumEmployees:   12,
		ScianCode:      "46",
		StateCode:      "JAL",
		BankRate:       12,
		HasRealEstate:  true,
	}
}

// testBundle fits a transform on a handful of derived records and attaches
// constant scorers so every request gets the same pd and lgd.
func testBundle(t *testing.T, pd, lgd float64) *risk.Bundle {
	t.Helper()

	d := features.NewDeriver(policy.Default().Guarantee)
	var rows []preprocess.Record
	for i, st := range []string{"JAL", "CDMX", "NL", "YUC"} {
		req := sampleRequest()
		req.ApprovedAmount = float64(250_000 * (i + 1))
		req.NumEmployees = 3 * i
		req.StateCode = st
		req.IsNewBusiness = i%2 == 0
		rows = append(rows, d.Derive(req))
	}

	tr, err := preprocess.Fit(model.NumericFeatures, model.CategoricalFeatures, rows)
	require.NoError(t, err)

	zeros := make([]float64, tr.Width())
	b := &risk.Bundle{
		Version:     "test-v1",
		Transform:   tr,
		PD:          risk.LogisticModel{LinearModel: risk.LinearModel{Intercept: math.Log(pd / (1 - pd)), Coefficients: zeros}},
		LGD:         risk.RegressionModel{LinearModel: risk.LinearModel{Intercept: lgd, Coefficients: zeros}},
		Calibration: 1,
	}
	require.NoError(t, b.Validate())
	return b
}

type staticBundles struct {
	mu     sync.Mutex
	bundle *risk.Bundle
	err    error
	calls  int
}

func (s *staticBundles) Bundle() (*risk.Bundle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.bundle, s.err
}

type memStore struct {
	mu      sync.Mutex
	records map[string]model.QuoteRecord
	failOn  string
}

func newMemStore() *memStore {
	return &memStore{records: make(map[string]model.QuoteRecord)}
}

func (m *memStore) Insert(_ context.Context, rec *model.QuoteRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failOn != "" && rec.Request.StateCode == m.failOn {
		return context.DeadlineExceeded
	}
	rec.CreatedAt = time.Now()
	m.records[rec.ID] = *rec
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*model.QuoteRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.records[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &rec, nil
}

func (m *memStore) List(_ context.Context, category string, limit, offset int) ([]model.QuoteRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.QuoteRecord
	for _, r := range m.records {
		if category == "" || r.Quote.Category == category {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	total := len(out)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return out[offset:end], total, nil
}

func (m *memStore) StatsByCategory(_ context.Context) ([]model.CategoryStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byCat := map[string]*model.CategoryStats{}
	for _, r := range m.records {
		s, ok := byCat[r.Quote.Category]
		if !ok {
			s = &model.CategoryStats{Category: r.Quote.Category}
			byCat[r.Quote.Category] = s
		}
		s.QuoteCount++
		s.TotalGuaranteed += r.Quote.GuaranteedAmount
		s.TotalFees += r.Quote.GuaranteeFee
	}
	var out []model.CategoryStats
	for _, s := range byCat {
		out = append(out, *s)
	}
	return out, nil
}

func newTestService(t *testing.T, pd, lgd float64, store QuoteStore, ttl time.Duration) (*QuoteService, *staticBundles) {
	t.Helper()
	src := &staticBundles{bundle: testBundle(t, pd, lgd)}
	return NewQuoteService(src, quote.NewCalculator(policy.Default()), store, ttl), src
}
