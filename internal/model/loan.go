package model

import (
	"fmt"
	"math"
)

// TermMenu lists the loan terms, in months, offered to borrowers.
var TermMenu = []int{6, 12, 18, 24, 36, 48, 60, 84, 120}

// LoanRequest is the raw borrower input for a guarantee quote.
type LoanRequest struct {
	ApprovedAmount float64 `json:"approved_amount"`
	TermMonths     int     `json:"term_months"`
	NumEmployees   int     `json:"num_employees"`
	IsNewBusiness  bool    `json:"is_new_business"`
	ScianCode      string  `json:"scian_code"`
	StateCode      string  `json:"state_code"`
	BankRate       float64 `json:"bank_rate"`
	HasRealEstate  bool    `json:"has_real_estate"`
	InRecession    bool    `json:"in_recession"`
}

// Validate checks the numeric bounds of the request. Sector and state
// membership is not checked here; unknown codes take the unknown-category
// path of the preprocessing transform.
func (r LoanRequest) Validate() error {
	if math.IsNaN(r.ApprovedAmount) || math.IsInf(r.ApprovedAmount, 0) {
		return &InvalidInputError{Field: "approved_amount", Reason: "must be a finite number"}
	}
	if r.ApprovedAmount <= 0 {
		return &InvalidInputError{Field: "approved_amount", Reason: fmt.Sprintf("must be > 0, got %.2f", r.ApprovedAmount)}
	}
	if r.TermMonths <= 0 {
		return &InvalidInputError{Field: "term_months", Reason: fmt.Sprintf("must be > 0, got %d", r.TermMonths)}
	}
	if r.NumEmployees < 0 {
		return &InvalidInputError{Field: "num_employees", Reason: fmt.Sprintf("must be >= 0, got %d", r.NumEmployees)}
	}
	if math.IsNaN(r.BankRate) || math.IsInf(r.BankRate, 0) || r.BankRate < 0 {
		return &InvalidInputError{Field: "bank_rate", Reason: fmt.Sprintf("must be a finite percentage >= 0, got %v", r.BankRate)}
	}
	return nil
}

// InTermMenu reports whether months is one of the offered terms.
func InTermMenu(months int) bool {
	for _, m := range TermMenu {
		if m == months {
			return true
		}
	}
	return false
}
