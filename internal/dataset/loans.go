// Package dataset reads historical loan files used to fit the
// preprocessing transform.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/features"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/preprocess"
)

const (
	defaultState = "CDMX"
	unknownScian = "00"
)

// Loan is one historical loan. Guaranteed is NaN when the file did not
// record it.
type Loan struct {
	Request    model.LoanRequest
	Guaranteed float64
	Urban      bool
	Defaulted  bool
	ChargedOff float64
}

type columns map[string]int

func (c columns) get(rec []string, names ...string) string {
	for _, n := range names {
		if i, ok := c[n]; ok && i < len(rec) {
			return strings.TrimSpace(rec[i])
		}
	}
	return ""
}

// ReadLoans parses a CSV with a header row. Required columns are GrAppv,
// Term and NoEmp; every other column is optional and filled the way the
// historical data was cleaned for training.
func ReadLoans(r io.Reader) ([]Loan, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("dataset: read header: %w", err)
	}
	cols := columns{}
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	for _, req := range []string{"GrAppv", "Term", "NoEmp"} {
		if _, ok := cols[req]; !ok {
			return nil, fmt.Errorf("dataset: missing required column %q", req)
		}
	}

	var loans []Loan
	for line := 2; ; line++ {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		loan, err := parseLoan(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("dataset: line %d: %w", line, err)
		}
		loans = append(loans, loan)
	}
	if len(loans) == 0 {
		return nil, fmt.Errorf("dataset: no rows")
	}
	return loans, nil
}

func parseLoan(cols columns, rec []string) (Loan, error) {
	amount, err := number(cols.get(rec, "GrAppv"), 0)
	if err != nil {
		return Loan{}, fmt.Errorf("GrAppv: %w", err)
	}
	term, err := number(cols.get(rec, "Term"), 0)
	if err != nil {
		return Loan{}, fmt.Errorf("Term: %w", err)
	}
	emp, err := number(cols.get(rec, "NoEmp"), 0)
	if err != nil {
		return Loan{}, fmt.Errorf("NoEmp: %w", err)
	}
	guaranteed, err := number(cols.get(rec, "NAFIN_Appv", "SBA_Appv"), math.NaN())
	if err != nil {
		return Loan{}, fmt.Errorf("NAFIN_Appv: %w", err)
	}
	newExist, err := number(cols.get(rec, "NewExist"), 2)
	if err != nil {
		return Loan{}, fmt.Errorf("NewExist: %w", err)
	}
	realEstate, err := number(cols.get(rec, "RealEstate"), 0)
	if err != nil {
		return Loan{}, fmt.Errorf("RealEstate: %w", err)
	}
	recession, err := number(cols.get(rec, "Recession"), 0)
	if err != nil {
		return Loan{}, fmt.Errorf("Recession: %w", err)
	}
	urbanRural, err := number(cols.get(rec, "UrbanRural"), 1)
	if err != nil {
		return Loan{}, fmt.Errorf("UrbanRural: %w", err)
	}
	chargedOff, err := number(cols.get(rec, "ChgOffPrinGr"), 0)
	if err != nil {
		return Loan{}, fmt.Errorf("ChgOffPrinGr: %w", err)
	}

	defaulted := chargedOff > 0
	if d := cols.get(rec, "Default"); d != "" {
		v, err := number(d, 0)
		if err != nil {
			return Loan{}, fmt.Errorf("Default: %w", err)
		}
		defaulted = v != 0
	}

	state := cols.get(rec, "State")
	if state == "" {
		state = defaultState
	}

	return Loan{
		Request: model.LoanRequest{
			ApprovedAmount: amount,
			TermMonths:     int(term),
			NumEmployees:   int(emp),
			IsNewBusiness:  newExist == 1,
			ScianCode:      scian(cols.get(rec, "SCIAN", "NAICS")),
			StateCode:      state,
			HasRealEstate:  realEstate != 0,
			InRecession:    recession != 0,
		},
		Guaranteed: guaranteed,
		Urban:      urbanRural == 1,
		Defaulted:  defaulted,
		ChargedOff: chargedOff,
	}, nil
}

func number(s string, fallback float64) (float64, error) {
	if s == "" || strings.EqualFold(s, "nan") || strings.EqualFold(s, "na") {
		return fallback, nil
	}
	return strconv.ParseFloat(s, 64)
}

func scian(s string) string {
	switch strings.ToLower(s) {
	case "", "0", "na", "nan":
		return unknownScian
	}
	if len(s) > 2 {
		return s[:2]
	}
	return s
}

// Records derives the feature record of every loan. Loans without an
// observed guarantee get the deriver's tier.
func Records(d *features.Deriver, loans []Loan) []preprocess.Record {
	out := make([]preprocess.Record, len(loans))
	for i, l := range loans {
		if math.IsNaN(l.Guaranteed) {
			rec := d.Derive(l.Request)
			rec.IsUrban = boolToInt(l.Urban)
			out[i] = rec
			continue
		}
		out[i] = d.DeriveHistorical(l.Request, l.Guaranteed, l.Urban)
	}
	return out
}

// Baseline summarizes outcomes into the intercepts of neutral scorers: the
// log-odds of the default rate and the mean charge-off of defaulted loans.
func Baseline(loans []Loan) (pdIntercept, lgdIntercept float64) {
	const eps = 1e-4

	var defaults int
	var loss float64
	for _, l := range loans {
		if l.Defaulted {
			defaults++
			loss += l.ChargedOff
		}
	}

	rate := float64(defaults) / float64(len(loans))
	rate = math.Min(math.Max(rate, eps), 1-eps)
	pdIntercept = math.Log(rate / (1 - rate))
	if defaults > 0 {
		lgdIntercept = loss / float64(defaults)
	}
	return pdIntercept, lgdIntercept
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
