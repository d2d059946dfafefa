package dto

import "github.com/anyulbade/pyme-guarantee-quoter/internal/model"

type QuoteRequest struct {
	ApprovedAmount float64 `json:"approved_amount" binding:"required,gt=0"`
	TermMonths     int     `json:"term_months" binding:"required,oneof=6 12 18 24 36 48 60 84 120"`
	NumEmployees   int     `json:"num_employees" binding:"gte=0"`
	IsNewBusiness  bool    `json:"is_new_business"`
	ScianCode      string  `json:"scian_code" binding:"required,len=2,numeric"`
	StateCode      string  `json:"state_code" binding:"required,min=2,max=4"`
	BankRate       float64 `json:"bank_rate" binding:"gte=0,lte=100"`
	HasRealEstate  bool    `json:"has_real_estate"`
	InRecession    bool    `json:"in_recession"`
}

func (r QuoteRequest) ToModel() model.LoanRequest {
	return model.LoanRequest{
		ApprovedAmount: r.ApprovedAmount,
		TermMonths:     r.TermMonths,
		NumEmployees:   r.NumEmployees,
		IsNewBusiness:  r.IsNewBusiness,
		ScianCode:      r.ScianCode,
		StateCode:      r.StateCode,
		BankRate:       r.BankRate,
		HasRealEstate:  r.HasRealEstate,
		InRecession:    r.InRecession,
	}
}

type BatchQuoteRequest struct {
	Requests []QuoteRequest `json:"requests" binding:"required,min=1,max=100,dive"`
}

func (b BatchQuoteRequest) ToModel() []model.LoanRequest {
	out := make([]model.LoanRequest, len(b.Requests))
	for i, r := range b.Requests {
		out[i] = r.ToModel()
	}
	return out
}
