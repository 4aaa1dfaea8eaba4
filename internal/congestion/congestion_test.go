package congestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nmishr/geo-dashboard/internal/models"
)

func TestClassify_Bands(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		freeFlow  float64
		wantRatio float64
		wantLabel string
	}{
		{"smooth", 45, 50, 0.9, LabelSmooth},
		{"smooth boundary", 85, 100, 0.85, LabelSmooth},
		{"moderate", 35, 50, 0.7, LabelModerate},
		{"moderate boundary", 60, 100, 0.6, LabelModerate},
		{"heavy", 15, 50, 0.3, LabelHeavy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ratio, label := Classify(models.FloatPtr(tt.current), models.FloatPtr(tt.freeFlow))
			require.NotNil(t, ratio)
			require.NotNil(t, label)
			assert.InDelta(t, tt.wantRatio, *ratio, 1e-9)
			assert.Equal(t, tt.wantLabel, *label)
		})
	}
}

func TestClassify_RoundsRatioToTwoDecimals(t *testing.T) {
	ratio, label := Classify(models.FloatPtr(1), models.FloatPtr(3))
	require.NotNil(t, ratio)
	assert.Equal(t, 0.33, *ratio)
	require.NotNil(t, label)
	assert.Equal(t, LabelHeavy, *label)
}

func TestClassify_AbsentInputs(t *testing.T) {
	ratio, label := Classify(nil, models.FloatPtr(50))
	assert.Nil(t, ratio)
	assert.Nil(t, label)

	ratio, label = Classify(models.FloatPtr(40), nil)
	assert.Nil(t, ratio)
	assert.Nil(t, label)
}

func TestClassify_ZeroFreeFlow(t *testing.T) {
	ratio, label := Classify(models.FloatPtr(40), models.FloatPtr(0))
	assert.Nil(t, ratio)
	assert.Nil(t, label)
}
