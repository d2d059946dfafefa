// Package risk wraps the PD and LGD models behind a fixed input contract:
// the ordered vector produced by the bundle's preprocessing transform.
package risk

import (
	"fmt"
	"math"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
)

// PDScorer returns the probability of default for a feature vector.
type PDScorer interface {
	PredictProba(x []float64) (float64, error)
}

// LGDScorer returns the monetary loss given default for a feature vector.
type LGDScorer interface {
	Predict(x []float64) (float64, error)
}

// LinearModel is w·x + b.
type LinearModel struct {
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

func (m LinearModel) dot(x []float64) (float64, error) {
	if len(x) != len(m.Coefficients) {
		return 0, &model.SchemaError{Reason: fmt.Sprintf("model expects %d features, got %d", len(m.Coefficients), len(x))}
	}
	s := m.Intercept
	for i, w := range m.Coefficients {
		s += w * x[i]
	}
	return s, nil
}

// LogisticModel is a logistic-regression PD scorer.
type LogisticModel struct {
	LinearModel
}

func (m LogisticModel) PredictProba(x []float64) (float64, error) {
	z, err := m.dot(x)
	if err != nil {
		return 0, err
	}
	return sigmoid(z), nil
}

// RegressionModel is a linear LGD scorer.
type RegressionModel struct {
	LinearModel
}

func (m RegressionModel) Predict(x []float64) (float64, error) {
	return m.dot(x)
}

func sigmoid(z float64) float64 {
	if z >= 0 {
		return 1 / (1 + math.Exp(-z))
	}
	e := math.Exp(z)
	return e / (1 + e)
}
