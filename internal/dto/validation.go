package dto

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// BindingErrors flattens a gin binding error into per-field messages.
// Batch items are reported with their index.
func BindingErrors(err error) []ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		ve := ValidationError{Field: jsonName(fe.Field()), Message: message(fe)}
		if idx, ok := batchIndex(fe.Namespace()); ok {
			ve.Index = idx
		}
		out = append(out, ve)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gt", "gte", "lt", "lte", "min", "max", "len":
		return fmt.Sprintf("failed %s=%s", fe.Tag(), fe.Param())
	case "numeric":
		return "must be numeric"
	}
	return "is invalid"
}

var fieldNames = map[string]string{
	"ApprovedAmount": "approved_amount",
	"TermMonths":     "term_months",
	"NumEmployees":   "num_employees",
	"ScianCode":      "scian_code",
	"StateCode":      "state_code",
	"BankRate":       "bank_rate",
	"Requests":       "requests",
}

func jsonName(field string) string {
	if n, ok := fieldNames[field]; ok {
		return n
	}
	return field
}

// batchIndex extracts i from a namespace like BatchQuoteRequest.Requests[i].TermMonths.
func batchIndex(ns string) (int, bool) {
	open := strings.Index(ns, "Requests[")
	if open < 0 {
		return 0, false
	}
	rest := ns[open+len("Requests["):]
	end := strings.IndexByte(rest, ']')
	if end < 0 {
		return 0, false
	}
	i, err := strconv.Atoi(rest[:end])
	return i, err == nil
}
