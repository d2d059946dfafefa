package model

import "time"

// Quote is the priced guarantee for a LoanRequest. All monetary fields share
// the currency unit of ApprovedAmount.
type Quote struct {
	ApprovedAmount   float64 `json:"approved_amount"`
	GuaranteedAmount float64 `json:"guaranteed_amount"`
	PD               float64 `json:"pd"`
	LGD              float64 `json:"lgd"`
	ExpectedLoss     float64 `json:"expected_loss"`
	GuaranteeFee     float64 `json:"guarantee_fee"`
	FeePct           float64 `json:"fee_pct"`
	TotalFinanced    float64 `json:"total_financed"`
	MonthlyPayment   float64 `json:"monthly_payment"`
	TermMonths       int     `json:"term_months"`
	BankRate         float64 `json:"bank_rate"`
	Category         string  `json:"category"`
	Action           string  `json:"action"`
	RiskLevel        string  `json:"risk_level"`
	ScianCode        string  `json:"scian_code"`
	StateCode        string  `json:"state_code"`
}

// QuoteRecord is a persisted quote.
type QuoteRecord struct {
	ID            string      `json:"id"`
	Request       LoanRequest `json:"request"`
	Quote         Quote       `json:"quote"`
	BundleVersion string      `json:"bundle_version"`
	SectorName    string      `json:"sector_name,omitempty"`
	StateName     string      `json:"state_name,omitempty"`
	CreatedAt     time.Time   `json:"created_at"`
}

// CategoryStats aggregates persisted quotes by category.
type CategoryStats struct {
	Category        string  `json:"category"`
	QuoteCount      int     `json:"quote_count"`
	AvgPD           float64 `json:"avg_pd"`
	AvgFeePct       float64 `json:"avg_fee_pct"`
	TotalGuaranteed float64 `json:"total_guaranteed"`
	TotalFees       float64 `json:"total_fees"`
}
