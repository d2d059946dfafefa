// Package features turns a LoanRequest into the FeatureRecord consumed by
// the preprocessing transform. Nothing here may look at loan outcomes.
package features

import (
	"math"
	"strings"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/policy"
)

// Defaults for fields a quote request cannot know.
const (
	defaultLoanAge          = 0
	defaultBankFrequency    = 1
	defaultBankFrequencyLog = 0
)

// Deriver computes features with a given guarantee tier.
type Deriver struct {
	tier policy.GuaranteeTier
}

func NewDeriver(tier policy.GuaranteeTier) *Deriver {
	return &Deriver{tier: tier}
}

// Derive maps req to its feature record. The request is expected to have
// passed LoanRequest.Validate.
func (d *Deriver) Derive(req model.LoanRequest) model.FeatureRecord {
	// Quotes assume an urban borrower.
	return derive(req, d.tier.Guaranteed(req.ApprovedAmount), true)
}

// DeriveHistorical maps a historical loan, whose guaranteed amount and
// urban flag were observed, to the same feature record used at quote time.
func (d *Deriver) DeriveHistorical(req model.LoanRequest, guaranteed float64, urban bool) model.FeatureRecord {
	return derive(req, guaranteed, urban)
}

func derive(req model.LoanRequest, guaranteed float64, urban bool) model.FeatureRecord {
	amount := req.ApprovedAmount

	portion := 0.0
	if amount > 0 {
		portion = clip(guaranteed/amount, 0, 1)
	}

	loanPerEmp := amount / float64(req.NumEmployees+1)

	exposure := amount - guaranteed
	exposureBase := amount
	if exposureBase == 0 {
		exposureBase = 1
	}

	realEstate := boolToInt(req.HasRealEstate)
	state := strings.ToUpper(strings.TrimSpace(req.StateCode))

	return model.FeatureRecord{
		GrAppv:             amount,
		NafinAppv:          guaranteed,
		DebtToNafin:        math.Max(exposure, 0),
		LogGrAppv:          math.Log1p(amount),
		Term:               float64(req.TermMonths),
		TermYears:          float64(req.TermMonths) / 12,
		NoEmp:              float64(req.NumEmployees),
		NafinPortion:       portion,
		LoanPerEmp:         loanPerEmp,
		LogLoanPerEmp:      math.Log1p(loanPerEmp),
		HasRealEstate:      realEstate,
		RealEstateExposure: float64(realEstate) * amount,
		InRecession:        boolToInt(req.InRecession),
		BankExposure:       exposure,
		BankExposureRatio:  exposure / exposureBase,
		LoanAge:            defaultLoanAge,
		BankFrequency:      defaultBankFrequency,
		BankFrequencyLog:   defaultBankFrequencyLog,

		Scian:         req.ScianCode,
		State:         state,
		Region:        regionFor(state),
		IsNewBusiness: boolToInt(req.IsNewBusiness),
		IsUrban:       boolToInt(urban),
	}
}

func regionFor(state string) string {
	if state == "" {
		return ""
	}
	return model.RegionOf(state)
}

func clip(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
