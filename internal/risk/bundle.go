package risk

import (
	"fmt"
	"math"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/preprocess"
)

// Bundle is the read-only set of fitted artifacts shared by all quote
// requests.
type Bundle struct {
	Version     string
	Transform   *preprocess.Transform
	PD          PDScorer
	LGD         LGDScorer
	Calibration float64
}

// Score is the validated output of both models for one vector.
type Score struct {
	PD  float64
	LGD float64
}

// Validate checks that every piece is present and the calibration is usable.
func (b *Bundle) Validate() error {
	if b.Transform == nil {
		return fmt.Errorf("bundle: transform missing")
	}
	if err := b.Transform.Validate(); err != nil {
		return fmt.Errorf("bundle: %w", err)
	}
	if b.PD == nil || b.LGD == nil {
		return fmt.Errorf("bundle: PD and LGD scorers are required")
	}
	if math.IsNaN(b.Calibration) || math.IsInf(b.Calibration, 0) || b.Calibration <= 0 {
		return fmt.Errorf("bundle: calibration must be a finite number > 0, got %v", b.Calibration)
	}
	return nil
}

// Vectorize applies the bundle's transform to a feature record.
func (b *Bundle) Vectorize(rec preprocess.Record) ([]float64, error) {
	return b.Transform.Apply(rec)
}

// Score runs both scorers on the same vector and checks their ranges.
func (b *Bundle) Score(x []float64) (Score, error) {
	if len(x) != b.Transform.Width() {
		return Score{}, &model.SchemaError{Reason: fmt.Sprintf("vector width %d does not match transform width %d", len(x), b.Transform.Width())}
	}

	pd, err := b.PD.PredictProba(x)
	if err != nil {
		return Score{}, fmt.Errorf("score PD: %w", err)
	}
	if math.IsNaN(pd) || pd < 0 || pd > 1 {
		return Score{}, &model.ModelOutputError{Output: "pd", Value: pd, Bound: "[0,1]"}
	}

	lgd, err := b.LGD.Predict(x)
	if err != nil {
		return Score{}, fmt.Errorf("score LGD: %w", err)
	}
	if math.IsNaN(lgd) || math.IsInf(lgd, 0) || lgd < 0 {
		return Score{}, &model.ModelOutputError{Output: "lgd", Value: lgd, Bound: ">= 0"}
	}

	return Score{PD: pd, LGD: lgd}, nil
}
