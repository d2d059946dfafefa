package policy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuaranteeTier_Guaranteed(t *testing.T) {
	g := Default().Guarantee

	tests := []struct {
		amount float64
		want   float64
	}{
		{50_000, 40_000},
		{500_000, 400_000},
		{2_000_000, 1_600_000},
		{2_000_001, 2_000_001 * 0.70},
		{10_000_000, 7_000_000},
	}
	for _, tc := range tests {
		assert.InDelta(t, tc.want, g.Guaranteed(tc.amount), 1e-6, "amount %v", tc.amount)
	}
}

func TestFeeRule_Fee(t *testing.T) {
	f := Default().Fee
	guaranteed := 400_000.0
	floor, ceiling := f.Bounds(guaranteed)
	assert.InDelta(t, 2_000.0, floor, 1e-9)
	assert.InDelta(t, 20_000.0, ceiling, 1e-9)

	t.Run("below floor", func(t *testing.T) {
		assert.Equal(t, floor, f.Fee(10, guaranteed))
	})
	t.Run("within bounds", func(t *testing.T) {
		assert.InDelta(t, 6_000.0, f.Fee(5_000, guaranteed), 1e-9)
	})
	t.Run("above cap", func(t *testing.T) {
		assert.Equal(t, ceiling, f.Fee(1e12, guaranteed))
	})
	t.Run("zero expected loss", func(t *testing.T) {
		assert.Equal(t, floor, f.Fee(0, guaranteed))
	})
}

func TestThresholdSet_Classify(t *testing.T) {
	p := Default()

	assert.Equal(t, CategoryUltraOro, p.Category.Classify(0.005).Label)
	assert.Equal(t, CategoryOro, p.Category.Classify(0.01).Label)
	assert.Equal(t, CategoryOro, p.Category.Classify(0.02).Label)
	assert.Equal(t, CategoryRechazo, p.Category.Classify(0.03).Label)
	assert.Equal(t, CategoryRechazo, p.Category.Classify(0.05).Label)

	assert.Equal(t, "BAJO", p.RiskLevel.Classify(0.02).Label)
	assert.Equal(t, "MODERADO", p.RiskLevel.Classify(0.05).Label)
	assert.Equal(t, "MEDIO-ALTO", p.RiskLevel.Classify(0.12).Label)
	assert.Equal(t, "ALTO", p.RiskLevel.Classify(0.5).Label)

	for _, b := range append(p.Category.Bands, p.Category.Fallback) {
		assert.NotEmpty(t, b.Action, "category %s needs an action", b.Label)
	}
}

func TestDefault_Valid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate_Rejects(t *testing.T) {
	p := Default()
	p.Fee.FloorRate = 0.1
	p.Category.Bands[1].Below = 0.001
	err := p.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fee rates")
	assert.Contains(t, err.Error(), "gps_category")
}

func TestLoad(t *testing.T) {
	t.Run("empty path yields default", func(t *testing.T) {
		p, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, Default(), p)
	})

	t.Run("partial override", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		doc := "guarantee:\n  threshold: 3000000\nfee:\n  cap_rate: 0.04\n"
		require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

		p, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, 3_000_000.0, p.Guarantee.Threshold)
		assert.Equal(t, 0.80, p.Guarantee.RateUpTo)
		assert.Equal(t, 0.04, p.Fee.CapRate)
		assert.Equal(t, 0.005, p.Fee.FloorRate)
	})

	t.Run("invalid policy", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "policy.yaml")
		require.NoError(t, os.WriteFile(path, []byte("fee:\n  margin: -1\n"), 0o600))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})
}

func TestLoad_ExampleFileMatchesDefault(t *testing.T) {
	p, err := Load("../../configs/policy.example.yaml")
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}
