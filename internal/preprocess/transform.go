// Package preprocess normalizes numeric features and encodes categorical
// ones with parameters fitted once on historical loans. A fitted Transform is
// immutable and safe for concurrent use.
package preprocess

import (
	"fmt"
	"math"
	"sort"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
)

// Reserved categorical codes. Fitted codes are always >= 0.
const (
	UnknownCode = -1.0
	MissingCode = -2.0
)

const (
	numericPrefix     = "num__"
	categoricalPrefix = "cat__"
)

// Record exposes feature values by column name.
type Record interface {
	Numeric(name string) (float64, bool)
	Categorical(name string) (string, bool)
}

// NumericColumn holds the Yeo-Johnson power and standardization of one
// numeric feature.
type NumericColumn struct {
	Name   string  `json:"name"`
	Lambda float64 `json:"lambda"`
	Mean   float64 `json:"mean"`
	Scale  float64 `json:"scale"`
}

// CategoricalColumn holds the sorted categories of one categorical feature;
// a category's code is its index.
type CategoricalColumn struct {
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// Transform is the fitted preprocessing state. Output columns are all
// numeric columns followed by all categorical columns, each in slice order.
type Transform struct {
	Numeric     []NumericColumn     `json:"numeric"`
	Categorical []CategoricalColumn `json:"categorical"`
}

// Width is the length of vectors produced by Apply.
func (t *Transform) Width() int {
	return len(t.Numeric) + len(t.Categorical)
}

// Columns returns the output column names in vector order.
func (t *Transform) Columns() []string {
	cols := make([]string, 0, t.Width())
	for _, c := range t.Numeric {
		cols = append(cols, numericPrefix+c.Name)
	}
	for _, c := range t.Categorical {
		cols = append(cols, categoricalPrefix+c.Name)
	}
	return cols
}

// Apply produces the model input vector for rec. A column the record does
// not carry is a SchemaError; it is never filled in.
func (t *Transform) Apply(rec Record) ([]float64, error) {
	out := make([]float64, 0, t.Width())

	for _, c := range t.Numeric {
		v, ok := rec.Numeric(c.Name)
		if !ok {
			return nil, &model.SchemaError{Feature: c.Name, Reason: "required numeric feature absent from record"}
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &model.SchemaError{Feature: c.Name, Reason: fmt.Sprintf("non-finite value %v", v)}
		}
		out = append(out, (yeoJohnson(v, c.Lambda)-c.Mean)/c.Scale)
	}

	for _, c := range t.Categorical {
		v, ok := rec.Categorical(c.Name)
		if !ok {
			return nil, &model.SchemaError{Feature: c.Name, Reason: "required categorical feature absent from record"}
		}
		out = append(out, c.code(v))
	}

	return out, nil
}

func (c CategoricalColumn) code(v string) float64 {
	if v == "" {
		return MissingCode
	}
	i := sort.SearchStrings(c.Categories, v)
	if i < len(c.Categories) && c.Categories[i] == v {
		return float64(i)
	}
	return UnknownCode
}

// Validate checks that the transform can be applied: unique names, finite
// parameters, positive scales and sorted distinct categories.
func (t *Transform) Validate() error {
	if t.Width() == 0 {
		return &model.SchemaError{Reason: "transform has no columns"}
	}
	seen := make(map[string]bool, t.Width())
	for _, c := range t.Numeric {
		if c.Name == "" || seen[c.Name] {
			return &model.SchemaError{Feature: c.Name, Reason: "empty or duplicate column name"}
		}
		seen[c.Name] = true
		for _, p := range []float64{c.Lambda, c.Mean, c.Scale} {
			if math.IsNaN(p) || math.IsInf(p, 0) {
				return &model.SchemaError{Feature: c.Name, Reason: "non-finite normalization parameter"}
			}
		}
		if c.Scale <= 0 {
			return &model.SchemaError{Feature: c.Name, Reason: fmt.Sprintf("scale must be > 0, got %v", c.Scale)}
		}
	}
	for _, c := range t.Categorical {
		if c.Name == "" || seen[c.Name] {
			return &model.SchemaError{Feature: c.Name, Reason: "empty or duplicate column name"}
		}
		seen[c.Name] = true
		for i, cat := range c.Categories {
			if cat == "" {
				return &model.SchemaError{Feature: c.Name, Reason: "empty category"}
			}
			if i > 0 && c.Categories[i-1] >= cat {
				return &model.SchemaError{Feature: c.Name, Reason: "categories must be sorted and distinct"}
			}
		}
	}
	return nil
}

// CheckColumns verifies that want matches the transform's output order.
func (t *Transform) CheckColumns(want []string) error {
	got := t.Columns()
	if len(got) != len(want) {
		return &model.SchemaError{Reason: fmt.Sprintf("expected %d columns, transform produces %d", len(want), len(got))}
	}
	for i := range got {
		if got[i] != want[i] {
			return &model.SchemaError{Feature: want[i], Reason: fmt.Sprintf("column %d is %q in the transform", i, got[i])}
		}
	}
	return nil
}
