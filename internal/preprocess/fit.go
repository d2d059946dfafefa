package preprocess

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
)

const minScale = 1e-12

// Fit learns a Transform from historical records. Numeric columns get a
// maximum-likelihood Yeo-Johnson lambda and are standardized to mean 0 and
// unit variance; categorical columns get their sorted distinct values.
func Fit(numeric, categorical []string, rows []Record) (*Transform, error) {
	if len(rows) == 0 {
		return nil, errors.New("fit: no rows")
	}

	t := &Transform{}
	for _, name := range numeric {
		xs := make([]float64, len(rows))
		for i, r := range rows {
			v, ok := r.Numeric(name)
			if !ok {
				return nil, &model.SchemaError{Feature: name, Reason: fmt.Sprintf("absent from row %d", i)}
			}
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, &model.SchemaError{Feature: name, Reason: fmt.Sprintf("non-finite value in row %d", i)}
			}
			xs[i] = v
		}
		t.Numeric = append(t.Numeric, fitNumeric(name, xs))
	}

	for _, name := range categorical {
		set := make(map[string]struct{})
		for i, r := range rows {
			v, ok := r.Categorical(name)
			if !ok {
				return nil, &model.SchemaError{Feature: name, Reason: fmt.Sprintf("absent from row %d", i)}
			}
			if v != "" {
				set[v] = struct{}{}
			}
		}
		cats := make([]string, 0, len(set))
		for v := range set {
			cats = append(cats, v)
		}
		sort.Strings(cats)
		t.Categorical = append(t.Categorical, CategoricalColumn{Name: name, Categories: cats})
	}

	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	return t, nil
}

func fitNumeric(name string, xs []float64) NumericColumn {
	lambda := 1.0
	if !constant(xs) {
		lambda = fitLambda(xs)
	}

	var sum float64
	trans := make([]float64, len(xs))
	for i, x := range xs {
		trans[i] = yeoJohnson(x, lambda)
		sum += trans[i]
	}
	mean := sum / float64(len(xs))

	var ss float64
	for _, v := range trans {
		ss += (v - mean) * (v - mean)
	}
	scale := math.Sqrt(ss / float64(len(xs)))
	if scale < minScale {
		scale = 1
	}

	return NumericColumn{Name: name, Lambda: lambda, Mean: mean, Scale: scale}
}

func constant(xs []float64) bool {
	for _, x := range xs[1:] {
		if x != xs[0] {
			return false
		}
	}
	return true
}
