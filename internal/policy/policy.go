// Package policy holds the pricing knobs of the guarantee program: the
// coverage tier, the fee bounds and the PD threshold sets. Each knob is an
// independent pure function so it can change without touching the others.
package policy

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	CategoryUltraOro = "Ultra-Oro"
	CategoryOro      = "Oro"
	CategoryRechazo  = "Rechazo (Riesgo Alto)"
)

// GuaranteeTier decides how much of a loan the guarantee covers.
type GuaranteeTier struct {
	Threshold float64 `yaml:"threshold" json:"threshold"`
	RateUpTo  float64 `yaml:"rate_up_to" json:"rate_up_to"`
	RateAbove float64 `yaml:"rate_above" json:"rate_above"`
}

// Guaranteed returns the covered portion of amount.
func (g GuaranteeTier) Guaranteed(amount float64) float64 {
	if amount <= g.Threshold {
		return amount * g.RateUpTo
	}
	return amount * g.RateAbove
}

// FeeRule prices the guarantee from expected loss, bounded by a floor and a
// cap expressed as fractions of the guaranteed amount.
type FeeRule struct {
	Margin    float64 `yaml:"margin" json:"margin"`
	FloorRate float64 `yaml:"floor_rate" json:"floor_rate"`
	CapRate   float64 `yaml:"cap_rate" json:"cap_rate"`
}

// Bounds returns the inclusive fee range for a guaranteed amount.
func (f FeeRule) Bounds(guaranteed float64) (floor, ceiling float64) {
	return guaranteed * f.FloorRate, guaranteed * f.CapRate
}

// Fee applies the margin to expectedLoss and clamps it into Bounds.
func (f FeeRule) Fee(expectedLoss, guaranteed float64) float64 {
	floor, ceiling := f.Bounds(guaranteed)
	fee := expectedLoss * f.Margin
	fee = math.Max(fee, floor)
	fee = math.Min(fee, ceiling)
	return fee
}

// Band is one step of a ThresholdSet: PDs strictly below Below get Label.
type Band struct {
	Below  float64 `yaml:"below" json:"below"`
	Label  string  `yaml:"label" json:"label"`
	Action string  `yaml:"action,omitempty" json:"action,omitempty"`
}

// ThresholdSet maps a PD to a label through ascending bands. PDs at or
// above the last band fall into Fallback.
type ThresholdSet struct {
	Name     string `yaml:"name" json:"name"`
	Bands    []Band `yaml:"bands" json:"bands"`
	Fallback Band   `yaml:"fallback" json:"fallback"`
}

// Classify returns the band pd falls into.
func (s ThresholdSet) Classify(pd float64) Band {
	for _, b := range s.Bands {
		if pd < b.Below {
			return b
		}
	}
	return s.Fallback
}

func (s ThresholdSet) validate() error {
	if len(s.Bands) == 0 {
		return fmt.Errorf("threshold set %q: at least one band required", s.Name)
	}
	prev := 0.0
	for i, b := range s.Bands {
		if b.Label == "" {
			return fmt.Errorf("threshold set %q: band %d has no label", s.Name, i)
		}
		if b.Below <= prev || b.Below > 1 {
			return fmt.Errorf("threshold set %q: band %d bound %v must be increasing within (0,1]", s.Name, i, b.Below)
		}
		prev = b.Below
	}
	if s.Fallback.Label == "" {
		return fmt.Errorf("threshold set %q: fallback label required", s.Name)
	}
	return nil
}

// Policy is the full set of pricing knobs.
type Policy struct {
	Guarantee GuaranteeTier `yaml:"guarantee" json:"guarantee"`
	Fee       FeeRule       `yaml:"fee" json:"fee"`
	Category  ThresholdSet  `yaml:"category" json:"category"`
	RiskLevel ThresholdSet  `yaml:"risk_level" json:"risk_level"`
}

// Default returns the program's published policy.
func Default() Policy {
	return Policy{
		Guarantee: GuaranteeTier{Threshold: 2_000_000, RateUpTo: 0.80, RateAbove: 0.70},
		Fee:       FeeRule{Margin: 1.20, FloorRate: 0.005, CapRate: 0.05},
		Category: ThresholdSet{
			Name: "gps_category",
			Bands: []Band{
				{Below: 0.01, Label: CategoryUltraOro, Action: "Aprobar: garantía Ultra-Oro con tarifa preferencial"},
				{Below: 0.03, Label: CategoryOro, Action: "Aprobar con condiciones: revisar flujo de caja y garantías adicionales"},
			},
			Fallback: Band{Label: CategoryRechazo, Action: "Rechazar: riesgo de default fuera de apetito"},
		},
		RiskLevel: ThresholdSet{
			Name: "risk_level",
			Bands: []Band{
				{Below: 0.05, Label: "BAJO"},
				{Below: 0.10, Label: "MODERADO"},
				{Below: 0.15, Label: "MEDIO-ALTO"},
			},
			Fallback: Band{Label: "ALTO"},
		},
	}
}

// Validate checks that every knob is usable.
func (p Policy) Validate() error {
	var errs []error
	g := p.Guarantee
	if g.Threshold <= 0 {
		errs = append(errs, errors.New("guarantee.threshold must be > 0"))
	}
	if g.RateUpTo <= 0 || g.RateUpTo > 1 || g.RateAbove <= 0 || g.RateAbove > 1 {
		errs = append(errs, errors.New("guarantee rates must be within (0,1]"))
	}
	f := p.Fee
	if f.Margin <= 0 {
		errs = append(errs, errors.New("fee.margin must be > 0"))
	}
	if f.FloorRate < 0 || f.CapRate <= 0 || f.CapRate > 1 || f.FloorRate > f.CapRate {
		errs = append(errs, errors.New("fee rates must satisfy 0 <= floor_rate <= cap_rate <= 1"))
	}
	if err := p.Category.validate(); err != nil {
		errs = append(errs, err)
	}
	if err := p.RiskLevel.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Load reads a YAML policy file. Keys absent from the file keep their
// Default values.
func Load(path string) (Policy, error) {
	p := Default()
	if path == "" {
		return p, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy file: %w", err)
	}
	if err := yaml.Unmarshal(b, &p); err != nil {
		return Policy{}, fmt.Errorf("parse policy file %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, fmt.Errorf("invalid policy %s: %w", path, err)
	}
	return p, nil
}
