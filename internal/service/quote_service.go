package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/features"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/quote"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/risk"
)

const (
	MaxBatchSize     = 100
	batchConcurrency = 8
	cacheCleanup     = 10 * time.Minute
)

// ErrPersistenceDisabled is returned by history operations when the
// service runs without a database.
var ErrPersistenceDisabled = errors.New("quote persistence is disabled")

// BundleSource hands out the shared model bundle.
type BundleSource interface {
	Bundle() (*risk.Bundle, error)
}

// QuoteStore persists quotes.
type QuoteStore interface {
	Insert(ctx context.Context, rec *model.QuoteRecord) error
	Get(ctx context.Context, id string) (*model.QuoteRecord, error)
	List(ctx context.Context, category string, limit, offset int) ([]model.QuoteRecord, int, error)
	StatsByCategory(ctx context.Context) ([]model.CategoryStats, error)
}

type QuoteService struct {
	bundles BundleSource
	deriver *features.Deriver
	calc    *quote.Calculator
	store   QuoteStore
	cache   *cache.Cache
}

// NewQuoteService wires the quoting pipeline. store may be nil to run
// without persistence; a cacheTTL of zero disables memoization.
func NewQuoteService(bundles BundleSource, calc *quote.Calculator, store QuoteStore, cacheTTL time.Duration) *QuoteService {
	s := &QuoteService{
		bundles: bundles,
		deriver: features.NewDeriver(calc.Policy().Guarantee),
		calc:    calc,
		store:   store,
	}
	if cacheTTL > 0 {
		s.cache = cache.New(cacheTTL, cacheCleanup)
	}
	return s
}

type QuoteResult struct {
	ID            string      `json:"id,omitempty"`
	BundleVersion string      `json:"bundle_version"`
	Quote         model.Quote `json:"quote"`
}

// Compute runs the pipeline for one request: validate, derive, transform,
// score, price. It does no I/O once the bundle is loaded.
func (s *QuoteService) Compute(req model.LoanRequest) (model.Quote, *risk.Bundle, error) {
	if err := req.Validate(); err != nil {
		return model.Quote{}, nil, err
	}

	bundle, err := s.bundles.Bundle()
	if err != nil {
		return model.Quote{}, nil, err
	}

	key := cacheKey(bundle.Version, req)
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v.(model.Quote), bundle, nil
		}
	}

	rec := s.deriver.Derive(req)
	x, err := bundle.Vectorize(rec)
	if err != nil {
		return model.Quote{}, nil, fmt.Errorf("preprocess features: %w", err)
	}

	score, err := bundle.Score(x)
	if err != nil {
		var me *model.ModelOutputError
		if errors.As(err, &me) {
			log.Warn().
				Bool("model_health", true).
				Str("bundle_version", bundle.Version).
				Str("output", me.Output).
				Float64("value", me.Value).
				Msg("model output out of range")
		}
		return model.Quote{}, nil, err
	}

	q, err := s.calc.Quote(req, score.PD, score.LGD, bundle.Calibration)
	if err != nil {
		return model.Quote{}, nil, err
	}

	if s.cache != nil {
		s.cache.SetDefault(key, q)
	}
	return q, bundle, nil
}

// Quote computes a quote and, when a store is configured, persists it.
func (s *QuoteService) Quote(ctx context.Context, req model.LoanRequest) (*QuoteResult, error) {
	q, bundle, err := s.Compute(req)
	if err != nil {
		return nil, err
	}

	res := &QuoteResult{BundleVersion: bundle.Version, Quote: q}
	if s.store == nil {
		return res, nil
	}

	rec := &model.QuoteRecord{
		ID:            uuid.NewString(),
		Request:       req,
		Quote:         q,
		BundleVersion: bundle.Version,
	}
	if err := s.store.Insert(ctx, rec); err != nil {
		return nil, fmt.Errorf("persist quote: %w", err)
	}
	res.ID = rec.ID

	log.Debug().
		Str("id", rec.ID).
		Str("category", q.Category).
		Float64("pd", q.PD).
		Float64("fee", q.GuaranteeFee).
		Msg("quote stored")
	return res, nil
}

type BatchItem struct {
	Index  int          `json:"index"`
	Result *QuoteResult `json:"result,omitempty"`
	Error  string       `json:"error,omitempty"`
	Err    error        `json:"-"`
}

// QuoteBatch quotes every request concurrently. A failing request is
// reported in its item and does not stop the others; only context
// cancellation aborts the batch.
func (s *QuoteService) QuoteBatch(ctx context.Context, reqs []model.LoanRequest) ([]BatchItem, error) {
	if len(reqs) > MaxBatchSize {
		return nil, &model.InvalidInputError{Field: "requests", Reason: fmt.Sprintf("at most %d requests per batch, got %d", MaxBatchSize, len(reqs))}
	}

	items := make([]BatchItem, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)

	for i := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := s.Quote(gctx, reqs[i])
			items[i] = BatchItem{Index: i, Result: res}
			if err != nil {
				items[i].Err = err
				items[i].Error = err.Error()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *QuoteService) Get(ctx context.Context, id string) (*model.QuoteRecord, error) {
	if s.store == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.store.Get(ctx, id)
}

func (s *QuoteService) List(ctx context.Context, category string, limit, offset int) ([]model.QuoteRecord, int, error) {
	if s.store == nil {
		return nil, 0, ErrPersistenceDisabled
	}
	return s.store.List(ctx, category, limit, offset)
}

func (s *QuoteService) Stats(ctx context.Context) ([]model.CategoryStats, error) {
	if s.store == nil {
		return nil, ErrPersistenceDisabled
	}
	return s.store.StatsByCategory(ctx)
}

func cacheKey(version string, r model.LoanRequest) string {
	return fmt.Sprintf("%s|%v|%d|%d|%t|%s|%s|%v|%t|%t",
		version, r.ApprovedAmount, r.TermMonths, r.NumEmployees, r.IsNewBusiness,
		r.ScianCode, r.StateCode, r.BankRate, r.HasRealEstate, r.InRecession)
}
