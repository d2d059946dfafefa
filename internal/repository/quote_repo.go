package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
)

type QuoteRepository struct {
	pool *pgxpool.Pool
}

func NewQuoteRepository(pool *pgxpool.Pool) *QuoteRepository {
	return &QuoteRepository{pool: pool}
}

const quoteColumns = `q.id, q.approved_amount, q.term_months, q.num_employees, q.is_new_business,
	q.scian_code, q.state_code, q.bank_rate, q.has_real_estate, q.in_recession,
	q.guaranteed_amount, q.pd, q.lgd, q.expected_loss, q.guarantee_fee, q.fee_pct,
	q.total_financed, q.monthly_payment, q.category, q.action, q.risk_level,
	q.bundle_version, COALESCE(s.name, ''), COALESCE(st.name, ''), q.created_at`

const quoteJoins = `FROM quotes q
	LEFT JOIN sectors s ON s.code = q.scian_code
	LEFT JOIN states st ON st.code = q.state_code`

// Insert stores rec; rec.ID must be set. CreatedAt is filled from the
// database.
func (r *QuoteRepository) Insert(ctx context.Context, rec *model.QuoteRecord) error {
	req, q := rec.Request, rec.Quote
	return r.pool.QueryRow(ctx,
		`INSERT INTO quotes (id, approved_amount, term_months, num_employees, is_new_business,
			scian_code, state_code, bank_rate, has_real_estate, in_recession,
			guaranteed_amount, pd, lgd, expected_loss, guarantee_fee, fee_pct,
			total_financed, monthly_payment, category, action, risk_level, bundle_version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
		RETURNING created_at`,
		rec.ID, req.ApprovedAmount, req.TermMonths, req.NumEmployees, req.IsNewBusiness,
		req.ScianCode, req.StateCode, req.BankRate, req.HasRealEstate, req.InRecession,
		q.GuaranteedAmount, q.PD, q.LGD, q.ExpectedLoss, q.GuaranteeFee, q.FeePct,
		q.TotalFinanced, q.MonthlyPayment, q.Category, q.Action, q.RiskLevel, rec.BundleVersion,
	).Scan(&rec.CreatedAt)
}

// Get returns the quote with id, or pgx.ErrNoRows.
func (r *QuoteRepository) Get(ctx context.Context, id string) (*model.QuoteRecord, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+quoteColumns+" "+quoteJoins+" WHERE q.id = $1", id)
	rec, err := scanQuote(row)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// List returns a page of quotes, newest first, and the total count.
func (r *QuoteRepository) List(ctx context.Context, category string, limit, offset int) ([]model.QuoteRecord, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM quotes WHERE ($1 = '' OR category = $1)", category,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		"SELECT "+quoteColumns+" "+quoteJoins+`
		WHERE ($1 = '' OR q.category = $1)
		ORDER BY q.created_at DESC, q.id
		LIMIT $2 OFFSET $3`,
		category, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query quotes: %w", err)
	}
	defer rows.Close()

	var results []model.QuoteRecord
	for rows.Next() {
		rec, err := scanQuote(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan quote: %w", err)
		}
		results = append(results, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate quotes: %w", err)
	}
	return results, total, nil
}

// StatsByCategory aggregates all persisted quotes per category.
func (r *QuoteRepository) StatsByCategory(ctx context.Context) ([]model.CategoryStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT category,
			COUNT(*),
			COALESCE(AVG(pd), 0),
			COALESCE(AVG(fee_pct), 0),
			COALESCE(SUM(guaranteed_amount), 0),
			COALESCE(SUM(guarantee_fee), 0)
		FROM quotes
		GROUP BY category
		ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var results []model.CategoryStats
	for rows.Next() {
		var s model.CategoryStats
		if err := rows.Scan(&s.Category, &s.QuoteCount, &s.AvgPD, &s.AvgFeePct, &s.TotalGuaranteed, &s.TotalFees); err != nil {
			return nil, fmt.Errorf("scan stats: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}

func scanQuote(row pgx.Row) (*model.QuoteRecord, error) {
	var rec model.QuoteRecord
	req, q := &rec.Request, &rec.Quote
	err := row.Scan(&rec.ID, &req.ApprovedAmount, &req.TermMonths, &req.NumEmployees, &req.IsNewBusiness,
		&req.ScianCode, &req.StateCode, &req.BankRate, &req.HasRealEstate, &req.InRecession,
		&q.GuaranteedAmount, &q.PD, &q.LGD, &q.ExpectedLoss, &q.GuaranteeFee, &q.FeePct,
		&q.TotalFinanced, &q.MonthlyPayment, &q.Category, &q.Action, &q.RiskLevel,
		&rec.BundleVersion, &rec.SectorName, &rec.StateName, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	q.ApprovedAmount = req.ApprovedAmount
	q.TermMonths = req.TermMonths
	q.BankRate = req.BankRate
	q.ScianCode = req.ScianCode
	q.StateCode = req.StateCode
	return &rec, nil
}
