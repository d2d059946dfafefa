// Package quote prices a guarantee from PD and LGD and amortizes the
// financed total.
package quote

import (
	"fmt"
	"math"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/policy"
)

type Calculator struct {
	policy policy.Policy
}

func NewCalculator(p policy.Policy) *Calculator {
	return &Calculator{policy: p}
}

func (c *Calculator) Policy() policy.Policy {
	return c.policy
}

// Quote combines the model outputs with the guarantee and fee rules.
// Category depends on pd only.
func (c *Calculator) Quote(req model.LoanRequest, pd, lgd, calibration float64) (model.Quote, error) {
	if req.ApprovedAmount <= 0 || math.IsNaN(req.ApprovedAmount) || math.IsInf(req.ApprovedAmount, 0) {
		return model.Quote{}, &model.InvalidInputError{Field: "approved_amount", Reason: fmt.Sprintf("must be finite and > 0, got %v", req.ApprovedAmount)}
	}
	if req.TermMonths <= 0 {
		return model.Quote{}, &model.InvalidInputError{Field: "term_months", Reason: fmt.Sprintf("must be > 0, got %d", req.TermMonths)}
	}
	if math.IsNaN(pd) || pd < 0 || pd > 1 {
		return model.Quote{}, &model.ModelOutputError{Output: "pd", Value: pd, Bound: "[0,1]"}
	}
	if math.IsNaN(lgd) || lgd < 0 {
		return model.Quote{}, &model.ModelOutputError{Output: "lgd", Value: lgd, Bound: ">= 0"}
	}
	if math.IsNaN(calibration) || calibration <= 0 {
		return model.Quote{}, &model.InvalidInputError{Field: "calibration", Reason: fmt.Sprintf("must be > 0, got %v", calibration)}
	}

	guaranteed := c.policy.Guarantee.Guaranteed(req.ApprovedAmount)
	expectedLoss := pd * lgd * calibration
	fee := c.policy.Fee.Fee(expectedLoss, guaranteed)
	total := req.ApprovedAmount + fee

	payment, err := MonthlyPayment(total, req.BankRate, req.TermMonths)
	if err != nil {
		return model.Quote{}, err
	}

	category := c.policy.Category.Classify(pd)

	feePct := 0.0
	if guaranteed > 0 {
		feePct = fee / guaranteed
	}

	return model.Quote{
		ApprovedAmount:   req.ApprovedAmount,
		GuaranteedAmount: guaranteed,
		PD:               pd,
		LGD:              lgd,
		ExpectedLoss:     expectedLoss,
		GuaranteeFee:     fee,
		FeePct:           feePct,
		TotalFinanced:    total,
		MonthlyPayment:   payment,
		TermMonths:       req.TermMonths,
		BankRate:         req.BankRate,
		Category:         category.Label,
		Action:           category.Action,
		RiskLevel:        c.policy.RiskLevel.Classify(pd).Label,
		ScianCode:        req.ScianCode,
		StateCode:        req.StateCode,
	}, nil
}

// MonthlyPayment is the fixed payment that amortizes principal over
// termMonths at annualRate percent.
func MonthlyPayment(principal, annualRate float64, termMonths int) (float64, error) {
	if termMonths <= 0 {
		return 0, &model.InvalidInputError{Field: "term_months", Reason: fmt.Sprintf("must be > 0, got %d", termMonths)}
	}
	n := float64(termMonths)
	if annualRate == 0 {
		return principal / n, nil
	}
	r := annualRate / 100 / 12
	// log1p/expm1 keep (1+r)^n - 1 nonzero for rates too small to move 1+r.
	x := n * math.Log1p(r)
	denom := math.Expm1(x)
	if denom == 0 {
		return principal / n, nil
	}
	return principal * r * math.Exp(x) / denom, nil
}
