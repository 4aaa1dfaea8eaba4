package aqi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmishr/geo-dashboard/internal/models"
)

func profileWithPM25(c float64) models.PollutantProfile {
	return models.PollutantProfile{models.PollutantPM25: c}
}

func TestCompute_BreakpointBoundaries(t *testing.T) {
	tests := []struct {
		pm25 float64
		want int
	}{
		{0.0, 0},
		{12.0, 50},
		{12.1, 51},
		{35.4, 100},
		{35.5, 101},
		{55.4, 150},
		{55.5, 151},
		{150.4, 200},
		{150.5, 201},
		{250.4, 300},
		{250.5, 301},
		{350.4, 400},
		{350.5, 401},
		{500.4, 500},
	}

	for _, tt := range tests {
		a := Compute(profileWithPM25(tt.pm25))
		require.NotNil(t, a.Index, "pm2.5 %.1f should produce an index", tt.pm25)
		assert.Equal(t, tt.want, *a.Index, "pm2.5 %.1f", tt.pm25)
	}
}

func TestCompute_CeilingAboveTopBreakpoint(t *testing.T) {
	a := Compute(profileWithPM25(600))
	require.NotNil(t, a.Index)
	assert.Equal(t, 500, *a.Index)
	require.NotNil(t, a.Label)
	assert.Equal(t, "Severe", *a.Label)
}

func TestCompute_NegativeClampsToZero(t *testing.T) {
	a := Compute(profileWithPM25(-5))
	require.NotNil(t, a.Index)
	assert.Equal(t, 0, *a.Index)
	require.NotNil(t, a.Label)
	assert.Equal(t, "Good", *a.Label)
}

func TestCompute_AbsentPM25(t *testing.T) {
	a := Compute(models.PollutantProfile{models.PollutantPM10: 80})
	assert.Nil(t, a.Index)
	assert.Nil(t, a.Label)
	assert.Nil(t, a.HealthTip)
}

func TestCompute_MonotonicOverRange(t *testing.T) {
	prev := -1
	for i := 0; i <= 5004; i++ {
		c := float64(i) / 10
		a := Compute(profileWithPM25(c))
		if a.Index == nil {
			// concentrations in the gaps between brackets have no index
			continue
		}
		require.GreaterOrEqual(t, *a.Index, prev, "index decreased at pm2.5 %.1f", c)
		prev = *a.Index
	}
}

func TestCompute_LabelBands(t *testing.T) {
	tests := []struct {
		pm25      float64
		wantIndex int
		wantLabel string
	}{
		{12.0, 50, "Good"},
		{12.1, 51, "Satisfactory"},
		{35.4, 100, "Satisfactory"},
		{35.5, 101, "Moderate"},
		{150.4, 200, "Moderate"},
		{150.5, 201, "Poor"},
		{250.4, 300, "Poor"},
		{250.5, 301, "Very Poor"},
		{350.4, 400, "Very Poor"},
		{350.5, 401, "Severe"},
	}

	for _, tt := range tests {
		a := Compute(profileWithPM25(tt.pm25))
		require.NotNil(t, a.Index)
		require.NotNil(t, a.Label)
		assert.Equal(t, tt.wantIndex, *a.Index)
		assert.Equal(t, tt.wantLabel, *a.Label, "pm2.5 %.1f", tt.pm25)
		require.NotNil(t, a.HealthTip)
		assert.NotEmpty(t, *a.HealthTip)
	}
}

func TestCompute_DominantPollutant(t *testing.T) {
	a := Compute(models.PollutantProfile{
		models.PollutantPM25: 40,
		models.PollutantPM10: 90,
		models.PollutantNO2:  30,
	})
	require.NotNil(t, a.DominantPollutant)
	assert.Equal(t, models.PollutantPM10, *a.DominantPollutant)
}

func TestCompute_DominantTieBreaksByKeyOrder(t *testing.T) {
	a := Compute(models.PollutantProfile{
		models.PollutantPM25: 50,
		models.PollutantPM10: 50,
	})
	require.NotNil(t, a.DominantPollutant)
	assert.Equal(t, models.PollutantPM25, *a.DominantPollutant)
}

func TestCompute_DominantExcludesAmmoniaAndNO(t *testing.T) {
	a := Compute(models.PollutantProfile{
		models.PollutantNH3: 900,
		models.PollutantNO:  800,
		models.PollutantO3:  20,
	})
	require.NotNil(t, a.DominantPollutant)
	assert.Equal(t, models.PollutantO3, *a.DominantPollutant)
}

func TestCompute_DominantAbsentForEmptyProfile(t *testing.T) {
	a := Compute(models.PollutantProfile{})
	assert.Nil(t, a.DominantPollutant)
}
