// Package artifact persists and loads the model bundle. Loading is
// all-or-nothing: a bundle is either fully valid or not returned at all.
package artifact

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/anyulbade/pyme-guarantee-quoter/internal/model"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/preprocess"
	"github.com/anyulbade/pyme-guarantee-quoter/internal/risk"
)

const (
	ModelTypeLogistic = "logistic"
	ModelTypeLinear   = "linear"

	fileMode = 0o600
)

// ModelSpec is the serialized form of a linear scorer.
type ModelSpec struct {
	Type         string    `json:"type"`
	Intercept    float64   `json:"intercept"`
	Coefficients []float64 `json:"coefficients"`
}

// Document is the on-disk bundle.
type Document struct {
	Version           string                `json:"version"`
	FeatureNames      []string              `json:"feature_names"`
	Transform         *preprocess.Transform `json:"transform"`
	PDModel           ModelSpec             `json:"pd_model"`
	LGDModel          ModelSpec             `json:"lgd_model"`
	CalibrationFactor float64               `json:"calibration_factor"`
}

// NewDocument assembles a document whose feature names are taken from the
// transform, so column order is pinned at save time.
func NewDocument(version string, t *preprocess.Transform, pd, lgd risk.LinearModel, calibration float64) *Document {
	return &Document{
		Version:           version,
		FeatureNames:      t.Columns(),
		Transform:         t,
		PDModel:           ModelSpec{Type: ModelTypeLogistic, Intercept: pd.Intercept, Coefficients: pd.Coefficients},
		LGDModel:          ModelSpec{Type: ModelTypeLinear, Intercept: lgd.Intercept, Coefficients: lgd.Coefficients},
		CalibrationFactor: calibration,
	}
}

// Bundle converts the document into a validated risk.Bundle.
func (d *Document) Bundle() (*risk.Bundle, error) {
	if d.Transform == nil {
		return nil, errors.New("transform missing")
	}
	if err := d.Transform.Validate(); err != nil {
		return nil, err
	}
	if err := d.Transform.CheckColumns(d.FeatureNames); err != nil {
		return nil, err
	}

	width := d.Transform.Width()
	if d.PDModel.Type != ModelTypeLogistic {
		return nil, fmt.Errorf("unsupported pd_model type %q", d.PDModel.Type)
	}
	if d.LGDModel.Type != ModelTypeLinear {
		return nil, fmt.Errorf("unsupported lgd_model type %q", d.LGDModel.Type)
	}
	if len(d.PDModel.Coefficients) != width {
		return nil, &model.SchemaError{Reason: fmt.Sprintf("pd_model has %d coefficients, transform produces %d columns", len(d.PDModel.Coefficients), width)}
	}
	if len(d.LGDModel.Coefficients) != width {
		return nil, &model.SchemaError{Reason: fmt.Sprintf("lgd_model has %d coefficients, transform produces %d columns", len(d.LGDModel.Coefficients), width)}
	}

	b := &risk.Bundle{
		Version:     d.Version,
		Transform:   d.Transform,
		PD:          risk.LogisticModel{LinearModel: risk.LinearModel{Intercept: d.PDModel.Intercept, Coefficients: d.PDModel.Coefficients}},
		LGD:         risk.RegressionModel{LinearModel: risk.LinearModel{Intercept: d.LGDModel.Intercept, Coefficients: d.LGDModel.Coefficients}},
		Calibration: d.CalibrationFactor,
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b, nil
}

// Load reads and validates the bundle at path. Any failure is an
// ArtifactLoadError.
func Load(path string) (*risk.Bundle, error) {
	b, err := load(path)
	if err != nil {
		return nil, &model.ArtifactLoadError{Path: path, Err: err}
	}
	return b, nil
}

func load(path string) (*risk.Bundle, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bundle: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode bundle: %w", err)
	}
	return doc.Bundle()
}

// Save validates doc and writes it atomically to path.
func Save(path string, doc *Document) error {
	if _, err := doc.Bundle(); err != nil {
		return fmt.Errorf("refusing to save invalid bundle: %w", err)
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bundle: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create bundle dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".bundle-*.json")
	if err != nil {
		return fmt.Errorf("create temp bundle: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp bundle: %w", err)
	}
	if err := tmp.Chmod(fileMode); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temp bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp bundle: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename bundle: %w", err)
	}
	return nil
}
