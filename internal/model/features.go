package model

import "strconv"

// Numeric feature column names, in the order the preprocessor is fitted.
const (
	FeatGrAppv             = "GrAppv"
	FeatNafinAppv          = "NAFIN_Appv"
	FeatDebtToNafin        = "Debt_to_NAFIN"
	FeatLogGrAppv          = "Log_GrAppv"
	FeatTerm               = "Term"
	FeatTermYears          = "Term_Years"
	FeatNoEmp              = "NoEmp"
	FeatNafinPortion       = "NAFIN_Portion"
	FeatLoanPerEmp         = "Loan_per_Emp"
	FeatLogLoanPerEmp      = "Log_Loan_per_Emp"
	FeatHasRealEstate      = "HasRealEstate"
	FeatRealEstateExposure = "RealEstate_Exposure"
	FeatInRecession        = "InRecession"
	FeatBankExposure       = "Bank_Exposure"
	FeatBankExposureRatio  = "Bank_Exposure_Ratio"
	FeatLoanAge            = "Loan_Age"
	FeatBankFrequency      = "Bank_Frequency"
	FeatBankFrequencyLog   = "Bank_Frequency_Log"
)

// Categorical feature column names.
const (
	FeatScian         = "SCIAN"
	FeatState         = "State"
	FeatRegion        = "Region"
	FeatIsNewBusiness = "IsNewBusiness"
	FeatIsUrban       = "IsUrban"
)

var (
	NumericFeatures = []string{
		FeatGrAppv, FeatNafinAppv, FeatDebtToNafin, FeatLogGrAppv, FeatTerm,
		FeatTermYears, FeatNoEmp, FeatNafinPortion, FeatLoanPerEmp, FeatLogLoanPerEmp,
		FeatHasRealEstate, FeatRealEstateExposure, FeatInRecession, FeatBankExposure,
		FeatBankExposureRatio, FeatLoanAge, FeatBankFrequency, FeatBankFrequencyLog,
	}
	CategoricalFeatures = []string{
		FeatScian, FeatState, FeatRegion, FeatIsNewBusiness, FeatIsUrban,
	}
)

// FeatureRecord is the model-ready view of a loan. It only holds values
// known at origination.
type FeatureRecord struct {
	GrAppv             float64
	NafinAppv          float64
	DebtToNafin        float64
	LogGrAppv          float64
	Term               float64
	TermYears          float64
	NoEmp              float64
	NafinPortion       float64
	LoanPerEmp         float64
	LogLoanPerEmp      float64
	HasRealEstate      int
	RealEstateExposure float64
	InRecession        int
	BankExposure       float64
	BankExposureRatio  float64
	LoanAge            float64
	BankFrequency      float64
	BankFrequencyLog   float64

	Scian         string
	State         string
	Region        string
	IsNewBusiness int
	IsUrban       int
}

// Numeric returns the value of a numeric column by name.
func (f FeatureRecord) Numeric(name string) (float64, bool) {
	switch name {
	case FeatGrAppv:
		return f.GrAppv, true
	case FeatNafinAppv:
		return f.NafinAppv, true
	case FeatDebtToNafin:
		return f.DebtToNafin, true
	case FeatLogGrAppv:
		return f.LogGrAppv, true
	case FeatTerm:
		return f.Term, true
	case FeatTermYears:
		return f.TermYears, true
	case FeatNoEmp:
		return f.NoEmp, true
	case FeatNafinPortion:
		return f.NafinPortion, true
	case FeatLoanPerEmp:
		return f.LoanPerEmp, true
	case FeatLogLoanPerEmp:
		return f.LogLoanPerEmp, true
	case FeatHasRealEstate:
		return float64(f.HasRealEstate), true
	case FeatRealEstateExposure:
		return f.RealEstateExposure, true
	case FeatInRecession:
		return float64(f.InRecession), true
	case FeatBankExposure:
		return f.BankExposure, true
	case FeatBankExposureRatio:
		return f.BankExposureRatio, true
	case FeatLoanAge:
		return f.LoanAge, true
	case FeatBankFrequency:
		return f.BankFrequency, true
	case FeatBankFrequencyLog:
		return f.BankFrequencyLog, true
	}
	return 0, false
}

// Categorical returns the value of a categorical column by name. An empty
// string means the value is missing.
func (f FeatureRecord) Categorical(name string) (string, bool) {
	switch name {
	case FeatScian:
		return f.Scian, true
	case FeatState:
		return f.State, true
	case FeatRegion:
		return f.Region, true
	case FeatIsNewBusiness:
		return strconv.Itoa(f.IsNewBusiness), true
	case FeatIsUrban:
		return strconv.Itoa(f.IsUrban), true
	}
	return "", false
}
